package dto

import (
	"erp-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type CreateEquipmentDTO struct {
	BranchID     uint64 `json:"branch_id" validate:"required,gt=0"`
	SerialNumber string `json:"serial_number" validate:"required"`
	Name         string `json:"name" validate:"required"`
	Category     string `json:"category" validate:"required"`

	Description  null.String `json:"description"`
	Manufacturer null.String `json:"manufacturer"`
	Model        null.String `json:"model"`
	Location     null.String `json:"location"`
	Condition    null.String `json:"condition"`
	Notes        null.String `json:"notes"`

	Quantity          int64      `json:"quantity" validate:"gte=0"`
	AvailableQuantity null.Int64 `json:"available_quantity" validate:"omitempty"`
	LowStockThreshold int64      `json:"low_stock_threshold" validate:"gte=0"`
}

type UpdateEquipmentDTO struct {
	Name              *string     `json:"name,omitempty" validate:"omitempty"`
	Category          *string     `json:"category,omitempty" validate:"omitempty"`
	Description       null.String `json:"description"`
	Manufacturer      null.String `json:"manufacturer"`
	Model             null.String `json:"model"`
	Location          null.String `json:"location"`
	Condition         null.String `json:"condition"`
	Notes             null.String `json:"notes"`
	LowStockThreshold *int64      `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
	Status            *string     `json:"status,omitempty" validate:"omitempty"`
	IsActive          *bool       `json:"is_active,omitempty"`
}

// CreateTransactionDTO — тело запроса на проведение движения.
// Актор берётся из контекста, не из тела.
type CreateTransactionDTO struct {
	EquipmentID     uint64      `json:"equipment_id" validate:"required,gt=0"`
	TransactionType string      `json:"transaction_type" validate:"required,transaction_type"`
	Quantity        int64       `json:"quantity" validate:"required,gt=0"`
	FromLocation    null.String `json:"from_location"`
	ToLocation      null.String `json:"to_location"`
	Notes           null.String `json:"notes"`
	Reference       null.String `json:"reference"`
}

type TransactionDTO struct {
	ID              uint64  `json:"id"`
	EquipmentID     uint64  `json:"equipment_id"`
	TransactionType string  `json:"transaction_type"`
	Quantity        int64   `json:"quantity"`
	FromLocation    *string `json:"from_location,omitempty"`
	ToLocation      *string `json:"to_location,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Reference       *string `json:"reference,omitempty"`
	CreatedBy       uint64  `json:"created_by"`
	CreatedAt       string  `json:"created_at"`
}

type EquipmentListDTO struct {
	List  interface{}      `json:"data"`
	Total uint64           `json:"total"`
	Stats types.StockStats `json:"stats"`
}

type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportReportDTO struct {
	Imported int              `json:"imported"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors"`
}

type LowStockItemDTO struct {
	ID                uint64 `json:"id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	SerialNumber      string `json:"serial_number"`
	Quantity          int64  `json:"quantity"`
	LowStockThreshold int64  `json:"low_stock_threshold"`
}
