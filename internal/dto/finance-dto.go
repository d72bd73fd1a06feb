package dto

import "github.com/aarondl/null/v8"

// --- Бюджеты ---

type CreateBudgetDTO struct {
	Name       string      `json:"name" validate:"required"`
	Category   string      `json:"category" validate:"required"`
	Amount     float64     `json:"amount" validate:"required,gt=0"`
	FiscalYear int         `json:"fiscal_year" validate:"required,gte=2000"`
	Quarter    null.Int    `json:"quarter" validate:"omitempty"`
	Month      null.Int    `json:"month" validate:"omitempty"`
	StartDate  null.String `json:"start_date"`
	EndDate    null.String `json:"end_date"`
	Notes      null.String `json:"notes"`
	BranchID   null.Int64  `json:"branch_id"`
}

type UpdateBudgetDTO struct {
	Name     *string     `json:"name,omitempty"`
	Category *string     `json:"category,omitempty"`
	Amount   *float64    `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Status   *string     `json:"status,omitempty"`
	Notes    null.String `json:"notes"`
}

// --- Расходы ---

type CreateExpenseDTO struct {
	BranchID    uint64      `json:"branch_id" validate:"required,gt=0"`
	Category    string      `json:"category" validate:"required"`
	Amount      float64     `json:"amount" validate:"required,gt=0"`
	Description string      `json:"description" validate:"required"`
	ExpenseDate string      `json:"expense_date" validate:"required"`
	Notes       null.String `json:"notes"`
}

type UpdateExpenseDTO struct {
	Category    *string     `json:"category,omitempty"`
	Amount      *float64    `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Description *string     `json:"description,omitempty"`
	ExpenseDate *string     `json:"expense_date,omitempty"`
	Notes       null.String `json:"notes"`
}

type ApproveExpenseDTO struct {
	Approved bool        `json:"approved"`
	Notes    null.String `json:"notes"`
}

// --- Доходы ---

type CreateRevenueDTO struct {
	BranchID    uint64      `json:"branch_id" validate:"required,gt=0"`
	Source      string      `json:"source" validate:"required"`
	Amount      float64     `json:"amount" validate:"required,gt=0"`
	Description null.String `json:"description"`
	RevenueDate string      `json:"revenue_date" validate:"required"`
}

type UpdateRevenueDTO struct {
	Source      *string     `json:"source,omitempty"`
	Amount      *float64    `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Description null.String `json:"description"`
	RevenueDate *string     `json:"revenue_date,omitempty"`
	Status      *string     `json:"status,omitempty"`
}
