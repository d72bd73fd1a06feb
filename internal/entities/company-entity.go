package entities

import (
	"erp-system/pkg/types"
)

type Company struct {
	ID       uint64  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Email    *string `json:"email,omitempty" db:"email"`
	Phone    *string `json:"phone,omitempty" db:"phone"`
	Address  *string `json:"address,omitempty" db:"address"`
	IsActive bool    `json:"is_active" db:"is_active"`

	types.BaseEntity
}
