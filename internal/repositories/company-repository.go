package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"erp-system/internal/entities"
	apperrors "erp-system/pkg/errors"
)

type CompanyRepositoryInterface interface {
	FindCompany(ctx context.Context, id uint64) (*entities.Company, error)
	CreateCompany(ctx context.Context, company entities.Company) (uint64, error)
	UpdateCompany(ctx context.Context, id uint64, company entities.Company) error
}

type CompanyRepository struct {
	storage *pgxpool.Pool
}

func NewCompanyRepository(storage *pgxpool.Pool) CompanyRepositoryInterface {
	return &CompanyRepository{storage: storage}
}

func (r *CompanyRepository) FindCompany(ctx context.Context, id uint64) (*entities.Company, error) {
	var c entities.Company
	var email, phone, address sql.NullString

	err := r.storage.QueryRow(ctx, `
		SELECT id, name, email, phone, address, is_active, created_at, updated_at
		FROM companies WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &email, &phone, &address, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	if address.Valid {
		c.Address = &address.String
	}
	return &c, nil
}

func (r *CompanyRepository) CreateCompany(ctx context.Context, company entities.Company) (uint64, error) {
	var newID uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO companies (name, email, phone, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id
	`, company.Name, company.Email, company.Phone, company.Address, company.IsActive).Scan(&newID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrConflict
		}
		return 0, err
	}
	return newID, nil
}

func (r *CompanyRepository) UpdateCompany(ctx context.Context, id uint64, company entities.Company) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE companies
		SET name = $1, email = $2, phone = $3, address = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6
	`, company.Name, company.Email, company.Phone, company.Address, company.IsActive, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
