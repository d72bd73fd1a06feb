package entities

import (
	"erp-system/pkg/types"
)

type Vehicle struct {
	ID                 uint64  `json:"id" db:"id"`
	CompanyID          uint64  `json:"company_id" db:"company_id"`
	BranchID           uint64  `json:"branch_id" db:"branch_id"`
	RegistrationNumber string  `json:"registration_number" db:"registration_number"`
	Make               string  `json:"make" db:"make"`
	Model              string  `json:"model" db:"model"`
	Year               int     `json:"year" db:"year"`
	Status             string  `json:"status" db:"status"`
	DriverID           *uint64 `json:"driver_id,omitempty" db:"driver_id"`
	CurrentDriver      *string `json:"current_driver,omitempty" db:"current_driver"`
	QRCode             *string `json:"qr_code,omitempty" db:"qr_code"`

	Driver *Employee `json:"driver,omitempty" db:"-"`
	Branch *Branch   `json:"branch,omitempty" db:"-"`

	types.BaseEntity
}
