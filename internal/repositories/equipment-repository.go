package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"erp-system/internal/entities"
	"erp-system/internal/infrastructure/bd"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/types"
)

const equipmentTable = "equipments"

// ЕДИНАЯ КАРТА ПОЛЕЙ (Фильтр + Сортировка)
var equipmentMap = map[string]string{
	"id":            "e.id",
	"branch_id":     "e.branch_id",
	"serial_number": "e.serial_number",
	"name":          "e.name",
	"category":      "e.category",
	"is_active":     "e.is_active",
	"status":        "e.status",
	"quantity":      "e.quantity",
	"created_at":    "e.created_at",
	"updated_at":    "e.updated_at",
}

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, companyID uint64, filter types.Filter, includeInactive bool) ([]entities.Equipment, uint64, error)
	GetStockStats(ctx context.Context, companyID uint64) (*types.StockStats, error)
	FindEquipment(ctx context.Context, companyID uint64, id uint64) (*entities.Equipment, error)
	FindEquipmentForUpdate(ctx context.Context, tx pgx.Tx, companyID uint64, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, equipment entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, companyID uint64, id uint64, equipment entities.Equipment) error
	DeleteEquipment(ctx context.Context, companyID uint64, id uint64) error
	ApplyStockState(ctx context.Context, tx pgx.Tx, id uint64, quantity, available int64, isActive bool) error
	GetLowStockCandidates(ctx context.Context, companyID uint64, limit int) ([]entities.Equipment, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

// -----------------------------------------------------------
// SCAN
// -----------------------------------------------------------

var equipmentColumns = []string{
	"e.id", "e.company_id", "e.branch_id", "e.serial_number", "e.name", "e.category",
	"e.description", "e.manufacturer", "e.model", "e.location", "e.condition", "e.notes",
	"e.quantity", "e.available_quantity", "e.low_stock_threshold",
	"e.is_active", "e.status", "e.qr_code",
	"e.created_at", "e.updated_at",
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	var description, manufacturer, model, location, condition, notes, qrCode sql.NullString

	err := row.Scan(
		&e.ID, &e.CompanyID, &e.BranchID, &e.SerialNumber, &e.Name, &e.Category,
		&description, &manufacturer, &model, &location, &condition, &notes,
		&e.Quantity, &e.AvailableQuantity, &e.LowStockThreshold,
		&e.IsActive, &e.Status, &qrCode,
		&e.CreatedAt, &e.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования equipment: %w", err)
	}

	if description.Valid {
		e.Description = &description.String
	}
	if manufacturer.Valid {
		e.Manufacturer = &manufacturer.String
	}
	if model.Valid {
		e.Model = &model.String
	}
	if location.Valid {
		e.Location = &location.String
	}
	if condition.Valid {
		e.Condition = &condition.String
	}
	if notes.Valid {
		e.Notes = &notes.String
	}
	if qrCode.Valid {
		e.QRCode = &qrCode.String
	}

	return &e, nil
}

// -----------------------------------------------------------
// GET (Список)
// -----------------------------------------------------------

func (r *EquipmentRepository) GetEquipments(ctx context.Context, companyID uint64, filter types.Filter, includeInactive bool) ([]entities.Equipment, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyScope := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = b.Where(sq.Eq{"e.company_id": companyID})
		if !includeInactive {
			b = b.Where(sq.Eq{"e.is_active": true})
		}
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			b = b.Where(sq.Or{
				sq.ILike{"e.name": pat},
				sq.ILike{"e.serial_number": pat},
				sq.ILike{"e.category": pat},
			})
		}
		return b
	}

	// 1. COUNT
	countBuilder := applyScope(psql.Select("COUNT(e.id)").From(equipmentTable + " AS e"))

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder = bd.ApplyListParams(countBuilder, countFilter, equipmentMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Equipment{}, 0, nil
	}

	// 2. SELECT
	baseBuilder := applyScope(psql.Select(equipmentColumns...).From(equipmentTable + " AS e"))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("e.created_at DESC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, equipmentMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]entities.Equipment, 0, filter.Limit)
	for rows.Next() {
		item, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *item)
	}

	return items, total, rows.Err()
}

// GetStockStats считает складские агрегаты по всей компании,
// независимо от пагинации списка.
func (r *EquipmentRepository) GetStockStats(ctx context.Context, companyID uint64) (*types.StockStats, error) {
	query := `
		SELECT
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(available_quantity), 0),
			COUNT(*) FILTER (WHERE is_active)
		FROM equipments
		WHERE company_id = $1
	`
	stats := &types.StockStats{}
	err := r.storage.QueryRow(ctx, query, companyID).Scan(
		&stats.TotalReceived, &stats.AvailableStock, &stats.TotalTypes,
	)
	if err != nil {
		return nil, err
	}
	stats.DistributedStock = stats.TotalReceived - stats.AvailableStock
	return stats, nil
}

// -----------------------------------------------------------
// FIND ONE
// -----------------------------------------------------------

func (r *EquipmentRepository) findOne(ctx context.Context, querier Querier, where sq.Sqlizer, suffix string) (*entities.Equipment, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	queryBuilder := psql.Select(equipmentColumns...).From(equipmentTable + " AS e").Where(where)
	if suffix != "" {
		queryBuilder = queryBuilder.Suffix(suffix)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanEquipment(querier.QueryRow(ctx, query, args...))
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, companyID uint64, id uint64) (*entities.Equipment, error) {
	return r.findOne(ctx, r.storage, sq.Eq{"e.id": id, "e.company_id": companyID}, "")
}

// FindEquipmentForUpdate читает строку под блокировкой FOR UPDATE внутри
// транзакции движка. Конкурентные движения по одной позиции сериализуются
// на этой блокировке, поэтому проверка остатка действительна до коммита.
func (r *EquipmentRepository) FindEquipmentForUpdate(ctx context.Context, tx pgx.Tx, companyID uint64, id uint64) (*entities.Equipment, error) {
	return r.findOne(ctx, tx, sq.Eq{"e.id": id, "e.company_id": companyID}, "FOR UPDATE OF e")
}

// -----------------------------------------------------------
// CRUD
// -----------------------------------------------------------

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment entities.Equipment) (uint64, error) {
	query := `
		INSERT INTO equipments (
			company_id, branch_id, serial_number, name, category,
			description, manufacturer, model, location, condition, notes,
			quantity, available_quantity, low_stock_threshold,
			is_active, status, qr_code, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING id
	`
	var newID uint64
	err := r.storage.QueryRow(ctx, query,
		equipment.CompanyID, equipment.BranchID, equipment.SerialNumber, equipment.Name, equipment.Category,
		equipment.Description, equipment.Manufacturer, equipment.Model, equipment.Location, equipment.Condition, equipment.Notes,
		equipment.Quantity, equipment.AvailableQuantity, equipment.LowStockThreshold,
		equipment.IsActive, equipment.Status, equipment.QRCode,
	).Scan(&newID)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 — нарушение уникальности (serial_number)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrConflict
		}
		return 0, err
	}
	return newID, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, companyID uint64, id uint64, equipment entities.Equipment) error {
	query := `
		UPDATE equipments
		SET name = $1, category = $2, description = $3, manufacturer = $4, model = $5,
		    location = $6, condition = $7, notes = $8, low_stock_threshold = $9,
		    status = $10, is_active = $11, updated_at = NOW()
		WHERE id = $12 AND company_id = $13
	`
	result, err := r.storage.Exec(ctx, query,
		equipment.Name, equipment.Category, equipment.Description, equipment.Manufacturer, equipment.Model,
		equipment.Location, equipment.Condition, equipment.Notes, equipment.LowStockThreshold,
		equipment.Status, equipment.IsActive, id, companyID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, companyID uint64, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM equipments WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApplyStockState записывает новое состояние счётчиков, вычисленное движком.
// Вызывается только внутри транзакции, держащей блокировку строки.
func (r *EquipmentRepository) ApplyStockState(ctx context.Context, tx pgx.Tx, id uint64, quantity, available int64, isActive bool) error {
	result, err := tx.Exec(ctx, `
		UPDATE equipments
		SET quantity = $1, available_quantity = $2, is_active = $3, updated_at = NOW()
		WHERE id = $4
	`, quantity, available, isActive, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetLowStockCandidates возвращает активные позиции по возрастанию quantity.
// Лимит применяется ДО фильтра по порогу — порядок унаследован от исходной
// системы и закреплён тестами; сам фильтр выполняет сервис.
func (r *EquipmentRepository) GetLowStockCandidates(ctx context.Context, companyID uint64, limit int) ([]entities.Equipment, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	queryBuilder := psql.Select(equipmentColumns...).
		From(equipmentTable + " AS e").
		Where(sq.Eq{"e.company_id": companyID, "e.is_active": true}).
		OrderBy("e.quantity ASC").
		Limit(uint64(limit))

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entities.Equipment, 0, limit)
	for rows.Next() {
		item, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}
