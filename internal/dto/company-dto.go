package dto

import "github.com/aarondl/null/v8"

type UpdateCompanyDTO struct {
	Name    *string     `json:"name,omitempty" validate:"omitempty,min=2"`
	Email   null.String `json:"email" validate:"omitempty,email"`
	Phone   null.String `json:"phone"`
	Address null.String `json:"address"`
}
