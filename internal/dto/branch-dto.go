package dto

import "github.com/aarondl/null/v8"

type CreateBranchDTO struct {
	Code    string      `json:"code" validate:"required"`
	Name    string      `json:"name" validate:"required"`
	Address null.String `json:"address"`
	Phone   null.String `json:"phone" validate:"omitempty"`
	Email   null.String `json:"email" validate:"omitempty,email"`
}

type UpdateBranchDTO struct {
	Code     *string     `json:"code,omitempty" validate:"omitempty"`
	Name     *string     `json:"name,omitempty" validate:"omitempty"`
	Address  null.String `json:"address"`
	Phone    null.String `json:"phone"`
	Email    null.String `json:"email" validate:"omitempty"`
	IsActive *bool       `json:"is_active,omitempty"`
}
