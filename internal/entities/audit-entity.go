package entities

import "time"

type AuditLog struct {
	ID           uint64  `json:"id" db:"id"`
	CompanyID    uint64  `json:"company_id" db:"company_id"`
	UserID       uint64  `json:"user_id" db:"user_id"`
	Action       string  `json:"action" db:"action"`
	Module       string  `json:"module" db:"module"`
	ResourceID   *string `json:"resource_id,omitempty" db:"resource_id"`
	ResourceType *string `json:"resource_type,omitempty" db:"resource_type"`
	Status       string  `json:"status" db:"status"`

	UserFio string `json:"user_fio,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
