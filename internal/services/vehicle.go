package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/events"
	"erp-system/internal/repositories"
	"erp-system/pkg/eventbus"
	"erp-system/pkg/types"
	"erp-system/pkg/utils"
)

type VehicleServiceInterface interface {
	GetVehicles(ctx context.Context, filter types.Filter) ([]entities.Vehicle, uint64, error)
	FindVehicle(ctx context.Context, id uint64) (*entities.Vehicle, error)
	CreateVehicle(ctx context.Context, payload dto.CreateVehicleDTO) (*entities.Vehicle, error)
	UpdateVehicle(ctx context.Context, id uint64, payload dto.UpdateVehicleDTO) (*entities.Vehicle, error)
	AssignDriver(ctx context.Context, id uint64, payload dto.AssignDriverDTO) (*entities.Vehicle, error)
	RemoveDriver(ctx context.Context, id uint64) (*entities.Vehicle, error)
	DeleteVehicle(ctx context.Context, id uint64) error
}

type VehicleService struct {
	vehicleRepo  repositories.VehicleRepositoryInterface
	employeeRepo repositories.EmployeeRepositoryInterface
	branchRepo   repositories.BranchRepositoryInterface
	bus          *eventbus.Bus
	logger       *zap.Logger
}

func NewVehicleService(
	vehicleRepo repositories.VehicleRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) VehicleServiceInterface {
	return &VehicleService{
		vehicleRepo:  vehicleRepo,
		employeeRepo: employeeRepo,
		branchRepo:   branchRepo,
		bus:          bus,
		logger:       logger,
	}
}

func (s *VehicleService) GetVehicles(ctx context.Context, filter types.Filter) ([]entities.Vehicle, uint64, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.vehicleRepo.GetVehicles(ctx, companyID, filter)
}

func (s *VehicleService) FindVehicle(ctx context.Context, id uint64) (*entities.Vehicle, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.FindVehicle(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if vehicle.DriverID != nil {
		driver, err := s.employeeRepo.FindEmployee(ctx, companyID, *vehicle.DriverID)
		if err == nil {
			vehicle.Driver = driver
		}
	}
	return vehicle, nil
}

func (s *VehicleService) CreateVehicle(ctx context.Context, payload dto.CreateVehicleDTO) (*entities.Vehicle, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.branchRepo.FindBranch(ctx, companyID, payload.BranchID); err != nil {
		return nil, err
	}

	status := "active"
	if payload.Status != nil {
		status = *payload.Status
	}

	qr := uuid.NewString()
	vehicle := entities.Vehicle{
		CompanyID:          companyID,
		BranchID:           payload.BranchID,
		RegistrationNumber: payload.RegistrationNumber,
		Make:               payload.Make,
		Model:              payload.Model,
		Year:               payload.Year,
		Status:             status,
		QRCode:             &qr,
	}

	if payload.DriverID.Valid {
		driverID := uint64(payload.DriverID.Int64)
		driver, err := s.employeeRepo.FindEmployee(ctx, companyID, driverID)
		if err != nil {
			return nil, err
		}
		name := driverFullName(driver)
		vehicle.DriverID = &driverID
		vehicle.CurrentDriver = &name
	}

	newID, err := s.vehicleRepo.CreateVehicle(ctx, vehicle)
	if err != nil {
		return nil, err
	}

	s.publishAudit(ctx, companyID, "create", newID)
	return s.vehicleRepo.FindVehicle(ctx, companyID, newID)
}

func (s *VehicleService) UpdateVehicle(ctx context.Context, id uint64, payload dto.UpdateVehicleDTO) (*entities.Vehicle, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.vehicleRepo.FindVehicle(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if payload.BranchID != nil {
		if _, err := s.branchRepo.FindBranch(ctx, companyID, *payload.BranchID); err != nil {
			return nil, err
		}
		vehicle.BranchID = *payload.BranchID
	}
	if payload.Make != nil {
		vehicle.Make = *payload.Make
	}
	if payload.Model != nil {
		vehicle.Model = *payload.Model
	}
	if payload.Year != nil {
		vehicle.Year = *payload.Year
	}
	if payload.Status != nil {
		vehicle.Status = *payload.Status
	}

	if err := s.vehicleRepo.UpdateVehicle(ctx, companyID, id, *vehicle); err != nil {
		return nil, err
	}

	if payload.DriverID.Valid {
		driverID := uint64(payload.DriverID.Int64)
		if _, err := s.AssignDriver(ctx, id, dto.AssignDriverDTO{DriverID: driverID}); err != nil {
			return nil, err
		}
	}

	s.publishAudit(ctx, companyID, "update", id)
	return s.vehicleRepo.FindVehicle(ctx, companyID, id)
}

func (s *VehicleService) AssignDriver(ctx context.Context, id uint64, payload dto.AssignDriverDTO) (*entities.Vehicle, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	driver, err := s.employeeRepo.FindEmployee(ctx, companyID, payload.DriverID)
	if err != nil {
		return nil, err
	}

	name := driverFullName(driver)
	if err := s.vehicleRepo.SetDriver(ctx, companyID, id, &payload.DriverID, &name); err != nil {
		return nil, err
	}

	s.logger.Info("Водитель закреплён за техникой",
		zap.Uint64("vehicle_id", id),
		zap.Uint64("driver_id", payload.DriverID),
	)
	s.publishAudit(ctx, companyID, "assign_driver", id)
	return s.vehicleRepo.FindVehicle(ctx, companyID, id)
}

func (s *VehicleService) RemoveDriver(ctx context.Context, id uint64) (*entities.Vehicle, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.SetDriver(ctx, companyID, id, nil, nil); err != nil {
		return nil, err
	}

	s.publishAudit(ctx, companyID, "remove_driver", id)
	return s.vehicleRepo.FindVehicle(ctx, companyID, id)
}

func (s *VehicleService) DeleteVehicle(ctx context.Context, id uint64) error {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := s.vehicleRepo.DeleteVehicle(ctx, companyID, id); err != nil {
		return err
	}
	s.publishAudit(ctx, companyID, "delete", id)
	return nil
}

func driverFullName(driver *entities.Employee) string {
	return fmt.Sprintf("%s %s", driver.LastName, driver.FirstName)
}

func (s *VehicleService) publishAudit(ctx context.Context, companyID uint64, action string, resourceID uint64) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return
	}
	s.bus.Publish(ctx, events.AuditActionEvent{
		CompanyID:    companyID,
		UserID:       userID,
		Action:       action,
		Module:       "vehicles",
		ResourceID:   resourceID,
		ResourceType: "vehicle",
	})
}
