package repositories

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"erp-system/internal/entities"
	"erp-system/internal/infrastructure/bd"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/types"
)

var branchMap = map[string]string{
	"id":         "b.id",
	"code":       "b.code",
	"name":       "b.name",
	"is_active":  "b.is_active",
	"created_at": "b.created_at",
}

type BranchRepositoryInterface interface {
	GetBranches(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.Branch, uint64, error)
	FindBranch(ctx context.Context, companyID uint64, id uint64) (*entities.Branch, error)
	CreateBranch(ctx context.Context, branch entities.Branch) (uint64, error)
	UpdateBranch(ctx context.Context, companyID uint64, id uint64, branch entities.Branch) error
	DeleteBranch(ctx context.Context, companyID uint64, id uint64) error
}

type BranchRepository struct {
	storage *pgxpool.Pool
}

func NewBranchRepository(storage *pgxpool.Pool) BranchRepositoryInterface {
	return &BranchRepository{storage: storage}
}

const branchColumns = "b.id, b.company_id, b.code, b.name, b.address, b.phone, b.email, b.is_active, b.created_at, b.updated_at"

func scanBranch(row pgx.Row) (*entities.Branch, error) {
	var b entities.Branch
	var address, phone, email sql.NullString

	err := row.Scan(&b.ID, &b.CompanyID, &b.Code, &b.Name, &address, &phone, &email, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if address.Valid {
		b.Address = &address.String
	}
	if phone.Valid {
		b.Phone = &phone.String
	}
	if email.Valid {
		b.Email = &email.String
	}
	return &b, nil
}

func (r *BranchRepository) GetBranches(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.Branch, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyScope := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = b.Where(sq.Eq{"b.company_id": companyID})
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			b = b.Where(sq.Or{sq.ILike{"b.name": pat}, sq.ILike{"b.code": pat}})
		}
		return b
	}

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := bd.ApplyListParams(applyScope(psql.Select("COUNT(b.id)").From("branches AS b")), countFilter, branchMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Branch{}, 0, nil
	}

	baseBuilder := applyScope(psql.Select(branchColumns).From("branches AS b"))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("b.name ASC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, branchMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	branches := make([]entities.Branch, 0, filter.Limit)
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, 0, err
		}
		branches = append(branches, *branch)
	}
	return branches, total, rows.Err()
}

func (r *BranchRepository) FindBranch(ctx context.Context, companyID uint64, id uint64) (*entities.Branch, error) {
	query := "SELECT " + branchColumns + " FROM branches AS b WHERE b.id = $1 AND b.company_id = $2"
	return scanBranch(r.storage.QueryRow(ctx, query, id, companyID))
}

func (r *BranchRepository) CreateBranch(ctx context.Context, branch entities.Branch) (uint64, error) {
	var newID uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO branches (company_id, code, name, address, phone, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id
	`, branch.CompanyID, branch.Code, branch.Name, branch.Address, branch.Phone, branch.Email, branch.IsActive).Scan(&newID)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 — код филиала уникален в пределах компании
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrConflict
		}
		return 0, err
	}
	return newID, nil
}

func (r *BranchRepository) UpdateBranch(ctx context.Context, companyID uint64, id uint64, branch entities.Branch) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE branches
		SET code = $1, name = $2, address = $3, phone = $4, email = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7 AND company_id = $8
	`, branch.Code, branch.Name, branch.Address, branch.Phone, branch.Email, branch.IsActive, id, companyID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrConflict
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *BranchRepository) DeleteBranch(ctx context.Context, companyID uint64, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM branches WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503 — к филиалу привязаны сотрудники или техника
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.ErrConflict
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
