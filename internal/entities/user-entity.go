// Файл: internal/entities/user-entity.go
package entities

import (
	"erp-system/pkg/types"
)

type User struct {
	ID        uint64  `json:"id" db:"id"`
	CompanyID uint64  `json:"company_id" db:"company_id"`
	Email     string  `json:"email" db:"email"`
	Username  string  `json:"username" db:"username"`
	FirstName *string `json:"first_name,omitempty" db:"first_name"`
	LastName  *string `json:"last_name,omitempty" db:"last_name"`

	Password string `json:"-" db:"password"`

	RoleID   uint64  `json:"role_id" db:"role_id"`
	BranchID *uint64 `json:"branch_id,omitempty" db:"branch_id"`
	IsActive bool    `json:"is_active" db:"is_active"`

	Role   *Role   `json:"role,omitempty" db:"-"`
	Branch *Branch `json:"branch,omitempty" db:"-"`

	types.BaseEntity
}
