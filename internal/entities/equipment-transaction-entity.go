package entities

import "time"

// Типы движений. Нормализуются в верхний регистр при записи.
const (
	TransactionTypeIn          = "IN"
	TransactionTypeOut         = "OUT"
	TransactionTypeReturn      = "RETURN"
	TransactionTypeHandover    = "HANDOVER"
	TransactionTypeMaintenance = "MAINTENANCE"
	TransactionTypeRepair      = "REPAIR"
)

// EquipmentTransaction — запись журнала движений. Журнал append-only:
// операций обновления и удаления нет, это аудиторский след изменений остатка.
type EquipmentTransaction struct {
	ID              uint64  `json:"id" db:"id"`
	CompanyID       uint64  `json:"company_id" db:"company_id"`
	EquipmentID     uint64  `json:"equipment_id" db:"equipment_id"`
	TransactionType string  `json:"transaction_type" db:"transaction_type"`
	Quantity        int64   `json:"quantity" db:"quantity"`
	FromLocation    *string `json:"from_location,omitempty" db:"from_location"`
	ToLocation      *string `json:"to_location,omitempty" db:"to_location"`
	Notes           *string `json:"notes,omitempty" db:"notes"`
	Reference       *string `json:"reference,omitempty" db:"reference"`
	CreatedBy       uint64  `json:"created_by" db:"created_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
