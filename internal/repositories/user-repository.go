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

var userMap = map[string]string{
	"id":         "u.id",
	"email":      "u.email",
	"username":   "u.username",
	"role_id":    "u.role_id",
	"branch_id":  "u.branch_id",
	"is_active":  "u.is_active",
	"created_at": "u.created_at",
}

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.User, uint64, error)
	FindUser(ctx context.Context, companyID uint64, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, user entities.User) (uint64, error)
	UpdateUser(ctx context.Context, companyID uint64, id uint64, user entities.User) error
	UpdatePassword(ctx context.Context, companyID uint64, id uint64, passwordHash string) error
	DeleteUser(ctx context.Context, companyID uint64, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &UserRepository{storage: storage}
}

const userColumns = `
	u.id, u.company_id, u.email, u.username, u.first_name, u.last_name, u.password,
	u.role_id, u.branch_id, u.is_active, u.created_at, u.updated_at,
	r.id, r.name, r.description
`

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	var firstName, lastName sql.NullString
	var branchID sql.NullInt64
	var role entities.Role

	err := row.Scan(
		&u.ID, &u.CompanyID, &u.Email, &u.Username, &firstName, &lastName, &u.Password,
		&u.RoleID, &branchID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
		&role.ID, &role.Name, &role.Description,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if firstName.Valid {
		u.FirstName = &firstName.String
	}
	if lastName.Valid {
		u.LastName = &lastName.String
	}
	if branchID.Valid {
		v := uint64(branchID.Int64)
		u.BranchID = &v
	}
	u.Role = &role
	return &u, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.User, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyScope := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = b.Where(sq.Eq{"u.company_id": companyID})
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			b = b.Where(sq.Or{
				sq.ILike{"u.email": pat},
				sq.ILike{"u.username": pat},
				sq.ILike{"u.first_name": pat},
				sq.ILike{"u.last_name": pat},
			})
		}
		return b
	}

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := bd.ApplyListParams(applyScope(psql.Select("COUNT(u.id)").From("users AS u")), countFilter, userMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.User{}, 0, nil
	}

	baseBuilder := applyScope(
		psql.Select(userColumns).
			From("users AS u").
			Join("roles AS r ON r.id = u.role_id"))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("u.created_at DESC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, userMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]entities.User, 0, filter.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *user)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) FindUser(ctx context.Context, companyID uint64, id uint64) (*entities.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users AS u
		JOIN roles AS r ON r.id = u.role_id
		WHERE u.id = $1 AND u.company_id = $2
	`
	return scanUser(r.storage.QueryRow(ctx, query, id, companyID))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users AS u
		JOIN roles AS r ON r.id = u.role_id
		WHERE LOWER(u.email) = LOWER($1)
	`
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) CreateUser(ctx context.Context, user entities.User) (uint64, error) {
	var newID uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO users (company_id, email, username, first_name, last_name, password, role_id, branch_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id
	`, user.CompanyID, user.Email, user.Username, user.FirstName, user.LastName,
		user.Password, user.RoleID, user.BranchID, user.IsActive).Scan(&newID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrConflict
		}
		return 0, err
	}
	return newID, nil
}

func (r *UserRepository) UpdateUser(ctx context.Context, companyID uint64, id uint64, user entities.User) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE users
		SET email = $1, username = $2, first_name = $3, last_name = $4,
		    role_id = $5, branch_id = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8 AND company_id = $9
	`, user.Email, user.Username, user.FirstName, user.LastName,
		user.RoleID, user.BranchID, user.IsActive, id, companyID)
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

func (r *UserRepository) UpdatePassword(ctx context.Context, companyID uint64, id uint64, passwordHash string) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2 AND company_id = $3",
		passwordHash, id, companyID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) DeleteUser(ctx context.Context, companyID uint64, id uint64) error {
	// Мягкая деактивация: история движений хранит performed_by
	result, err := r.storage.Exec(ctx,
		"UPDATE users SET is_active = false, updated_at = NOW() WHERE id = $1 AND company_id = $2",
		id, companyID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
