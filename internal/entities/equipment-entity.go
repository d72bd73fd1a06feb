package entities

import (
	"erp-system/pkg/types"
)

// Equipment — позиция складского учёта в разрезе компании/филиала.
// quantity — накопительно полученное количество, available_quantity — текущий
// нераспределённый остаток. Оба поля — кешированная сводка журнала движений
// и мутируются только движком транзакций, атомарно со вставкой в журнал.
type Equipment struct {
	ID           uint64  `json:"id" db:"id"`
	CompanyID    uint64  `json:"company_id" db:"company_id"`
	BranchID     uint64  `json:"branch_id" db:"branch_id"`
	SerialNumber string  `json:"serial_number" db:"serial_number"`
	Name         string  `json:"name" db:"name"`
	Category     string  `json:"category" db:"category"`
	Description  *string `json:"description,omitempty" db:"description"`
	Manufacturer *string `json:"manufacturer,omitempty" db:"manufacturer"`
	Model        *string `json:"model,omitempty" db:"model"`
	Location     *string `json:"location,omitempty" db:"location"`
	Condition    *string `json:"condition,omitempty" db:"condition"`
	Notes        *string `json:"notes,omitempty" db:"notes"`

	Quantity          int64 `json:"quantity" db:"quantity"`
	AvailableQuantity int64 `json:"available_quantity" db:"available_quantity"`
	LowStockThreshold int64 `json:"low_stock_threshold" db:"low_stock_threshold"`

	IsActive bool   `json:"is_active" db:"is_active"`
	Status   string `json:"status" db:"status"`

	QRCode *string `json:"qr_code,omitempty" db:"qr_code"`

	Branch       *Branch                `json:"branch,omitempty" db:"-"`
	Transactions []EquipmentTransaction `json:"transactions,omitempty" db:"-"`

	types.BaseEntity
}
