package entities

import (
	"erp-system/pkg/types"
)

type Branch struct {
	ID        uint64  `json:"id" db:"id"`
	CompanyID uint64  `json:"company_id" db:"company_id"`
	Code      string  `json:"code" db:"code"`
	Name      string  `json:"name" db:"name"`
	Address   *string `json:"address,omitempty" db:"address"`
	Phone     *string `json:"phone,omitempty" db:"phone"`
	Email     *string `json:"email,omitempty" db:"email"`
	IsActive  bool    `json:"is_active" db:"is_active"`

	types.BaseEntity
}
