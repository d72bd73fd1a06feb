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

var employeeMap = map[string]string{
	"id":          "e.id",
	"branch_id":   "e.branch_id",
	"employee_id": "e.employee_id",
	"first_name":  "e.first_name",
	"last_name":   "e.last_name",
	"department":  "e.department",
	"is_active":   "e.is_active",
	"created_at":  "e.created_at",
}

type EmployeeRepositoryInterface interface {
	GetEmployees(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, companyID uint64, id uint64) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, employee entities.Employee) (uint64, error)
	UpdateEmployee(ctx context.Context, companyID uint64, id uint64, employee entities.Employee) error
	DeleteEmployee(ctx context.Context, companyID uint64, id uint64) error
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
}

func NewEmployeeRepository(storage *pgxpool.Pool) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage}
}

const employeeColumns = `
	e.id, e.company_id, e.branch_id, e.employee_id, e.first_name, e.last_name,
	e.designation, e.department, e.email, e.phone, e.is_active, e.created_at, e.updated_at,
	b.id, b.code, b.name
`

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	var designation, department, email, phone sql.NullString
	var branch entities.Branch

	err := row.Scan(
		&e.ID, &e.CompanyID, &e.BranchID, &e.EmployeeID, &e.FirstName, &e.LastName,
		&designation, &department, &email, &phone, &e.IsActive, &e.CreatedAt, &e.UpdatedAt,
		&branch.ID, &branch.Code, &branch.Name,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if designation.Valid {
		e.Designation = &designation.String
	}
	if department.Valid {
		e.Department = &department.String
	}
	if email.Valid {
		e.Email = &email.String
	}
	if phone.Valid {
		e.Phone = &phone.String
	}
	e.Branch = &branch
	return &e, nil
}

func (r *EmployeeRepository) GetEmployees(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.Employee, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyScope := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = b.Where(sq.Eq{"e.company_id": companyID})
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			b = b.Where(sq.Or{
				sq.ILike{"e.first_name": pat},
				sq.ILike{"e.last_name": pat},
				sq.ILike{"e.employee_id": pat},
				sq.ILike{"e.department": pat},
			})
		}
		return b
	}

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := bd.ApplyListParams(applyScope(psql.Select("COUNT(e.id)").From("employees AS e")), countFilter, employeeMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Employee{}, 0, nil
	}

	baseBuilder := applyScope(
		psql.Select(employeeColumns).
			From("employees AS e").
			Join("branches AS b ON b.id = e.branch_id"))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("e.last_name ASC, e.first_name ASC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, employeeMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	employees := make([]entities.Employee, 0, filter.Limit)
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, *employee)
	}
	return employees, total, rows.Err()
}

func (r *EmployeeRepository) FindEmployee(ctx context.Context, companyID uint64, id uint64) (*entities.Employee, error) {
	query := `
		SELECT ` + employeeColumns + `
		FROM employees AS e
		JOIN branches AS b ON b.id = e.branch_id
		WHERE e.id = $1 AND e.company_id = $2
	`
	return scanEmployee(r.storage.QueryRow(ctx, query, id, companyID))
}

func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee entities.Employee) (uint64, error) {
	var newID uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO employees (company_id, branch_id, employee_id, first_name, last_name,
			designation, department, email, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id
	`, employee.CompanyID, employee.BranchID, employee.EmployeeID, employee.FirstName, employee.LastName,
		employee.Designation, employee.Department, employee.Email, employee.Phone, employee.IsActive).Scan(&newID)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 — табельный номер уникален в пределах компании
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrConflict
		}
		return 0, err
	}
	return newID, nil
}

func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, companyID uint64, id uint64, employee entities.Employee) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE employees
		SET branch_id = $1, first_name = $2, last_name = $3, designation = $4,
		    department = $5, email = $6, phone = $7, is_active = $8, updated_at = NOW()
		WHERE id = $9 AND company_id = $10
	`, employee.BranchID, employee.FirstName, employee.LastName, employee.Designation,
		employee.Department, employee.Email, employee.Phone, employee.IsActive, id, companyID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, companyID uint64, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM employees WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503 — сотрудник закреплён водителем за техникой
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
