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

var vehicleMap = map[string]string{
	"id":                  "v.id",
	"branch_id":           "v.branch_id",
	"registration_number": "v.registration_number",
	"make":                "v.make",
	"model":               "v.model",
	"year":                "v.year",
	"status":              "v.status",
	"driver_id":           "v.driver_id",
	"created_at":          "v.created_at",
}

type VehicleRepositoryInterface interface {
	GetVehicles(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.Vehicle, uint64, error)
	FindVehicle(ctx context.Context, companyID uint64, id uint64) (*entities.Vehicle, error)
	CreateVehicle(ctx context.Context, vehicle entities.Vehicle) (uint64, error)
	UpdateVehicle(ctx context.Context, companyID uint64, id uint64, vehicle entities.Vehicle) error
	SetDriver(ctx context.Context, companyID uint64, id uint64, driverID *uint64, driverName *string) error
	DeleteVehicle(ctx context.Context, companyID uint64, id uint64) error
}

type VehicleRepository struct {
	storage *pgxpool.Pool
}

func NewVehicleRepository(storage *pgxpool.Pool) VehicleRepositoryInterface {
	return &VehicleRepository{storage: storage}
}

const vehicleColumns = `
	v.id, v.company_id, v.branch_id, v.registration_number, v.make, v.model, v.year,
	v.status, v.driver_id, v.current_driver, v.qr_code, v.created_at, v.updated_at
`

func scanVehicle(row pgx.Row) (*entities.Vehicle, error) {
	var v entities.Vehicle
	var driverID sql.NullInt64
	var currentDriver, qrCode sql.NullString

	err := row.Scan(
		&v.ID, &v.CompanyID, &v.BranchID, &v.RegistrationNumber, &v.Make, &v.Model, &v.Year,
		&v.Status, &driverID, &currentDriver, &qrCode, &v.CreatedAt, &v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		id := uint64(driverID.Int64)
		v.DriverID = &id
	}
	if currentDriver.Valid {
		v.CurrentDriver = &currentDriver.String
	}
	if qrCode.Valid {
		v.QRCode = &qrCode.String
	}
	return &v, nil
}

func (r *VehicleRepository) GetVehicles(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.Vehicle, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	applyScope := func(b sq.SelectBuilder) sq.SelectBuilder {
		b = b.Where(sq.Eq{"v.company_id": companyID})
		if filter.Search != "" {
			pat := "%" + filter.Search + "%"
			b = b.Where(sq.Or{
				sq.ILike{"v.registration_number": pat},
				sq.ILike{"v.make": pat},
				sq.ILike{"v.model": pat},
			})
		}
		return b
	}

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := bd.ApplyListParams(applyScope(psql.Select("COUNT(v.id)").From("vehicles AS v")), countFilter, vehicleMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Vehicle{}, 0, nil
	}

	baseBuilder := applyScope(psql.Select(vehicleColumns).From("vehicles AS v"))
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("v.registration_number ASC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, vehicleMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	vehicles := make([]entities.Vehicle, 0, filter.Limit)
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, 0, err
		}
		vehicles = append(vehicles, *vehicle)
	}
	return vehicles, total, rows.Err()
}

func (r *VehicleRepository) FindVehicle(ctx context.Context, companyID uint64, id uint64) (*entities.Vehicle, error) {
	query := "SELECT " + vehicleColumns + " FROM vehicles AS v WHERE v.id = $1 AND v.company_id = $2"
	return scanVehicle(r.storage.QueryRow(ctx, query, id, companyID))
}

func (r *VehicleRepository) CreateVehicle(ctx context.Context, vehicle entities.Vehicle) (uint64, error) {
	var newID uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO vehicles (company_id, branch_id, registration_number, make, model, year,
			status, driver_id, current_driver, qr_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id
	`, vehicle.CompanyID, vehicle.BranchID, vehicle.RegistrationNumber, vehicle.Make, vehicle.Model, vehicle.Year,
		vehicle.Status, vehicle.DriverID, vehicle.CurrentDriver, vehicle.QRCode).Scan(&newID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrConflict
		}
		return 0, err
	}
	return newID, nil
}

func (r *VehicleRepository) UpdateVehicle(ctx context.Context, companyID uint64, id uint64, vehicle entities.Vehicle) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE vehicles
		SET branch_id = $1, registration_number = $2, make = $3, model = $4,
		    year = $5, status = $6, updated_at = NOW()
		WHERE id = $7 AND company_id = $8
	`, vehicle.BranchID, vehicle.RegistrationNumber, vehicle.Make, vehicle.Model,
		vehicle.Year, vehicle.Status, id, companyID)
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

// SetDriver закрепляет (или снимает, при nil) водителя. Имя денормализовано
// в current_driver, чтобы карточка техники не требовала join.
func (r *VehicleRepository) SetDriver(ctx context.Context, companyID uint64, id uint64, driverID *uint64, driverName *string) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE vehicles
		SET driver_id = $1, current_driver = $2, updated_at = NOW()
		WHERE id = $3 AND company_id = $4
	`, driverID, driverName, id, companyID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *VehicleRepository) DeleteVehicle(ctx context.Context, companyID uint64, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM vehicles WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
