package dto

import "github.com/aarondl/null/v8"

type CreateVehicleDTO struct {
	BranchID           uint64     `json:"branch_id" validate:"required,gt=0"`
	RegistrationNumber string     `json:"registration_number" validate:"required"`
	Make               string     `json:"make" validate:"required"`
	Model              string     `json:"model" validate:"required"`
	Year               int        `json:"year" validate:"required,gte=1950"`
	Status             *string    `json:"status,omitempty"`
	DriverID           null.Int64 `json:"driver_id"`
}

type UpdateVehicleDTO struct {
	BranchID *uint64    `json:"branch_id,omitempty" validate:"omitempty,gt=0"`
	Make     *string    `json:"make,omitempty"`
	Model    *string    `json:"model,omitempty"`
	Year     *int       `json:"year,omitempty" validate:"omitempty,gte=1950"`
	Status   *string    `json:"status,omitempty"`
	DriverID null.Int64 `json:"driver_id"`
}

type AssignDriverDTO struct {
	DriverID uint64 `json:"driver_id" validate:"required,gt=0"`
}
