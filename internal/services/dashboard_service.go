package services

import (
	"context"

	"go.uber.org/zap"

	"erp-system/internal/dto"
	"erp-system/internal/repositories"
	"erp-system/pkg/utils"
)

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context) (*dto.DashboardDTO, error)
}

type DashboardService struct {
	dashboardRepo   repositories.DashboardRepositoryInterface
	transactionRepo repositories.EquipmentTransactionRepositoryInterface
	logger          *zap.Logger
}

func NewDashboardService(
	dashboardRepo repositories.DashboardRepositoryInterface,
	transactionRepo repositories.EquipmentTransactionRepositoryInterface,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{dashboardRepo: dashboardRepo, transactionRepo: transactionRepo, logger: logger}
}

func (s *DashboardService) GetDashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.dashboardRepo.GetCounts(ctx, companyID)
	if err != nil {
		return nil, err
	}

	equipmentByCategory, err := s.dashboardRepo.GetEquipmentByCategory(ctx, companyID)
	if err != nil {
		return nil, err
	}

	expensesByCategory, err := s.dashboardRepo.GetExpensesByCategory(ctx, companyID)
	if err != nil {
		return nil, err
	}

	branchStats, err := s.dashboardRepo.GetBranchStats(ctx, companyID)
	if err != nil {
		return nil, err
	}

	recent, err := s.transactionRepo.GetRecent(ctx, companyID, 10)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardDTO{
		Stats:               *stats,
		EquipmentByCategory: equipmentByCategory,
		ExpensesByCategory:  expensesByCategory,
		Branches:            branchStats,
		RecentTransactions:  recent,
	}, nil
}
