package dto

import (
	"erp-system/internal/entities"
	"erp-system/pkg/types"
)

type DashboardDTO struct {
	Stats               types.DashboardStats            `json:"stats"`
	EquipmentByCategory []types.DashboardCountByGroup   `json:"equipment_by_category"`
	ExpensesByCategory  []types.DashboardAmountByGroup  `json:"expenses_by_category"`
	Branches            []types.DashboardBranchStat     `json:"branches"`
	RecentTransactions  []entities.EquipmentTransaction `json:"recent_transactions"`
}
