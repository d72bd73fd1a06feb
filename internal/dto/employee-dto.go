package dto

import "github.com/aarondl/null/v8"

type CreateEmployeeDTO struct {
	BranchID    uint64      `json:"branch_id" validate:"required,gt=0"`
	EmployeeID  string      `json:"employee_id" validate:"required"`
	FirstName   string      `json:"first_name" validate:"required"`
	LastName    string      `json:"last_name" validate:"required"`
	Designation null.String `json:"designation"`
	Department  null.String `json:"department"`
	Email       null.String `json:"email" validate:"omitempty,email"`
	Phone       null.String `json:"phone" validate:"omitempty"`
}

type UpdateEmployeeDTO struct {
	BranchID    *uint64     `json:"branch_id,omitempty" validate:"omitempty,gt=0"`
	FirstName   *string     `json:"first_name,omitempty"`
	LastName    *string     `json:"last_name,omitempty"`
	Designation null.String `json:"designation"`
	Department  null.String `json:"department"`
	Email       null.String `json:"email" validate:"omitempty"`
	Phone       null.String `json:"phone"`
	IsActive    *bool       `json:"is_active,omitempty"`
}
