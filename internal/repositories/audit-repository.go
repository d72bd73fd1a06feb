package repositories

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"erp-system/internal/entities"
	"erp-system/internal/infrastructure/bd"
	"erp-system/pkg/types"
)

var auditMap = map[string]string{
	"id":         "a.id",
	"user_id":    "a.user_id",
	"action":     "a.action",
	"module":     "a.module",
	"status":     "a.status",
	"created_at": "a.created_at",
}

type AuditRepositoryInterface interface {
	CreateLog(ctx context.Context, log entities.AuditLog) error
	GetLogs(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.AuditLog, uint64, error)
}

type AuditRepository struct {
	storage *pgxpool.Pool
}

func NewAuditRepository(storage *pgxpool.Pool) AuditRepositoryInterface {
	return &AuditRepository{storage: storage}
}

func (r *AuditRepository) CreateLog(ctx context.Context, log entities.AuditLog) error {
	_, err := r.storage.Exec(ctx, `
		INSERT INTO audit_logs (company_id, user_id, action, module, resource_id, resource_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`, log.CompanyID, log.UserID, log.Action, log.Module, log.ResourceID, log.ResourceType, log.Status)
	return err
}

func (r *AuditRepository) GetLogs(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.AuditLog, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := bd.ApplyListParams(
		psql.Select("COUNT(a.id)").From("audit_logs AS a").Where(sq.Eq{"a.company_id": companyID}),
		countFilter, auditMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.AuditLog{}, 0, nil
	}

	baseBuilder := psql.Select(
		"a.id", "a.company_id", "a.user_id", "a.action", "a.module",
		"a.resource_id", "a.resource_type", "a.status", "a.created_at",
		"COALESCE(NULLIF(TRIM(CONCAT(u.last_name, ' ', u.first_name)), ''), u.username)",
	).
		From("audit_logs AS a").
		LeftJoin("users AS u ON u.id = a.user_id").
		Where(sq.Eq{"a.company_id": companyID})

	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("a.created_at DESC, a.id DESC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, auditMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	logs := make([]entities.AuditLog, 0, filter.Limit)
	for rows.Next() {
		var log entities.AuditLog
		var resourceID, resourceType, userFio sql.NullString

		err := rows.Scan(&log.ID, &log.CompanyID, &log.UserID, &log.Action, &log.Module,
			&resourceID, &resourceType, &log.Status, &log.CreatedAt, &userFio)
		if err != nil {
			return nil, 0, err
		}

		if resourceID.Valid {
			log.ResourceID = &resourceID.String
		}
		if resourceType.Valid {
			log.ResourceType = &resourceType.String
		}
		if userFio.Valid {
			log.UserFio = userFio.String
		}
		logs = append(logs, log)
	}
	return logs, total, rows.Err()
}
