package entities

import (
	"time"

	"erp-system/pkg/types"
)

type Budget struct {
	ID         uint64     `json:"id" db:"id"`
	CompanyID  uint64     `json:"company_id" db:"company_id"`
	BranchID   *uint64    `json:"branch_id,omitempty" db:"branch_id"`
	Name       string     `json:"name" db:"name"`
	Category   string     `json:"category" db:"category"`
	Amount     float64    `json:"amount" db:"amount"`
	FiscalYear int        `json:"fiscal_year" db:"fiscal_year"`
	Quarter    *int       `json:"quarter,omitempty" db:"quarter"`
	Month      *int       `json:"month,omitempty" db:"month"`
	StartDate  *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty" db:"end_date"`
	Status     string     `json:"status" db:"status"`
	Notes      *string    `json:"notes,omitempty" db:"notes"`

	Branch *Branch `json:"branch,omitempty" db:"-"`

	types.BaseEntity
}

type Expense struct {
	ID          uint64    `json:"id" db:"id"`
	CompanyID   uint64    `json:"company_id" db:"company_id"`
	BranchID    uint64    `json:"branch_id" db:"branch_id"`
	Category    string    `json:"category" db:"category"`
	Amount      float64   `json:"amount" db:"amount"`
	Description string    `json:"description" db:"description"`
	ExpenseDate time.Time `json:"expense_date" db:"expense_date"`
	Status      string    `json:"status" db:"status"`
	CreatedBy   uint64    `json:"created_by" db:"created_by"`
	ApprovedBy  *uint64   `json:"approved_by,omitempty" db:"approved_by"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`

	Branch *Branch `json:"branch,omitempty" db:"-"`

	types.BaseEntity
}

type Revenue struct {
	ID          uint64    `json:"id" db:"id"`
	CompanyID   uint64    `json:"company_id" db:"company_id"`
	BranchID    uint64    `json:"branch_id" db:"branch_id"`
	Source      string    `json:"source" db:"source"`
	Amount      float64   `json:"amount" db:"amount"`
	Description *string   `json:"description,omitempty" db:"description"`
	RevenueDate time.Time `json:"revenue_date" db:"revenue_date"`
	Status      string    `json:"status" db:"status"`
	CreatedBy   uint64    `json:"created_by" db:"created_by"`

	Branch *Branch `json:"branch,omitempty" db:"-"`

	types.BaseEntity
}

// Статусы расходов.
const (
	ExpenseStatusPending  = "pending"
	ExpenseStatusApproved = "approved"
	ExpenseStatusRejected = "rejected"
)
