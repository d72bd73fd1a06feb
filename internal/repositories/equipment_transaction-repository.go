package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"erp-system/internal/entities"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/types"
)

type EquipmentTransactionRepositoryInterface interface {
	Insert(ctx context.Context, tx pgx.Tx, trx entities.EquipmentTransaction) (uint64, error)
	GetByEquipment(ctx context.Context, companyID uint64, equipmentID uint64, filter types.Filter) ([]entities.EquipmentTransaction, uint64, error)
	GetRecent(ctx context.Context, companyID uint64, limit int) ([]entities.EquipmentTransaction, error)
}

type EquipmentTransactionRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentTransactionRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentTransactionRepositoryInterface {
	return &EquipmentTransactionRepository{storage: storage, logger: logger}
}

// Insert пишет строку журнала внутри транзакции движка. Журнал append-only:
// метода Update/Delete у репозитория нет намеренно.
func (r *EquipmentTransactionRepository) Insert(ctx context.Context, tx pgx.Tx, trx entities.EquipmentTransaction) (uint64, error) {
	query := `
		INSERT INTO equipment_transactions (
			company_id, equipment_id, transaction_type, quantity,
			from_location, to_location, notes, reference, created_by, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id
	`
	var newID uint64
	err := tx.QueryRow(ctx, query,
		trx.CompanyID, trx.EquipmentID, trx.TransactionType, trx.Quantity,
		trx.FromLocation, trx.ToLocation, trx.Notes, trx.Reference, trx.CreatedBy,
	).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("ошибка записи движения: %w", err)
	}
	return newID, nil
}

func scanTransaction(row pgx.Row) (*entities.EquipmentTransaction, error) {
	var t entities.EquipmentTransaction
	var fromLocation, toLocation, notes, reference sql.NullString

	err := row.Scan(
		&t.ID, &t.CompanyID, &t.EquipmentID, &t.TransactionType, &t.Quantity,
		&fromLocation, &toLocation, &notes, &reference, &t.CreatedBy, &t.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if fromLocation.Valid {
		t.FromLocation = &fromLocation.String
	}
	if toLocation.Valid {
		t.ToLocation = &toLocation.String
	}
	if notes.Valid {
		t.Notes = &notes.String
	}
	if reference.Valid {
		t.Reference = &reference.String
	}

	return &t, nil
}

const transactionColumns = `
	t.id, t.company_id, t.equipment_id, t.transaction_type, t.quantity,
	t.from_location, t.to_location, t.notes, t.reference, t.created_by, t.created_at
`

// GetByEquipment отдаёт историю движения позиции, новые записи первыми.
func (r *EquipmentTransactionRepository) GetByEquipment(ctx context.Context, companyID uint64, equipmentID uint64, filter types.Filter) ([]entities.EquipmentTransaction, uint64, error) {
	var total uint64
	err := r.storage.QueryRow(ctx,
		"SELECT COUNT(id) FROM equipment_transactions WHERE company_id = $1 AND equipment_id = $2",
		companyID, equipmentID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.EquipmentTransaction{}, 0, nil
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM equipment_transactions AS t
		WHERE t.company_id = $1 AND t.equipment_id = $2
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.storage.Query(ctx, query, companyID, equipmentID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]entities.EquipmentTransaction, 0, filter.Limit)
	for rows.Next() {
		item, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}
	return items, total, rows.Err()
}

func (r *EquipmentTransactionRepository) GetRecent(ctx context.Context, companyID uint64, limit int) ([]entities.EquipmentTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM equipment_transactions AS t
		WHERE t.company_id = $1
		ORDER BY t.created_at DESC, t.id DESC
		LIMIT $2
	`
	rows, err := r.storage.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entities.EquipmentTransaction, 0, limit)
	for rows.Next() {
		item, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
