package entities

import (
	"erp-system/pkg/types"
)

type Employee struct {
	ID          uint64  `json:"id" db:"id"`
	CompanyID   uint64  `json:"company_id" db:"company_id"`
	BranchID    uint64  `json:"branch_id" db:"branch_id"`
	EmployeeID  string  `json:"employee_id" db:"employee_id"`
	FirstName   string  `json:"first_name" db:"first_name"`
	LastName    string  `json:"last_name" db:"last_name"`
	Designation *string `json:"designation,omitempty" db:"designation"`
	Department  *string `json:"department,omitempty" db:"department"`
	Email       *string `json:"email,omitempty" db:"email"`
	Phone       *string `json:"phone,omitempty" db:"phone"`
	IsActive    bool    `json:"is_active" db:"is_active"`

	Branch *Branch `json:"branch,omitempty" db:"-"`

	types.BaseEntity
}
