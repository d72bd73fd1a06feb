package dto

import "github.com/aarondl/null/v8"

type CreateUserDTO struct {
	Email     string      `json:"email" validate:"required,email"`
	Username  string      `json:"username" validate:"required,min=3"`
	Password  string      `json:"password" validate:"required,min=8"`
	FirstName null.String `json:"first_name"`
	LastName  null.String `json:"last_name"`
	RoleID    uint64      `json:"role_id" validate:"required,gt=0"`
	BranchID  null.Int64  `json:"branch_id"`
}

type UpdateUserDTO struct {
	Email     *string     `json:"email,omitempty" validate:"omitempty,email"`
	Username  *string     `json:"username,omitempty" validate:"omitempty,min=3"`
	Password  *string     `json:"password,omitempty" validate:"omitempty,min=8"`
	FirstName null.String `json:"first_name"`
	LastName  null.String `json:"last_name"`
	RoleID    *uint64     `json:"role_id,omitempty" validate:"omitempty,gt=0"`
	BranchID  null.Int64  `json:"branch_id"`
	IsActive  *bool       `json:"is_active,omitempty"`
}

type UserResponseDTO struct {
	ID        uint64  `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	CompanyID uint64  `json:"company_id"`
	RoleID    uint64  `json:"role_id"`
	BranchID  *uint64 `json:"branch_id,omitempty"`
	IsActive  bool    `json:"is_active"`
	CreatedAt string  `json:"created_at"`
}
