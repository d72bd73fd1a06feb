package services

import (
	"context"

	"go.uber.org/zap"

	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/events"
	"erp-system/internal/repositories"
	"erp-system/pkg/eventbus"
	"erp-system/pkg/types"
	"erp-system/pkg/utils"
)

type EmployeeServiceInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*entities.Employee, error)
	DeleteEmployee(ctx context.Context, id uint64) error
}

type EmployeeService struct {
	employeeRepo repositories.EmployeeRepositoryInterface
	branchRepo   repositories.BranchRepositoryInterface
	bus          *eventbus.Bus
	logger       *zap.Logger
}

func NewEmployeeService(
	employeeRepo repositories.EmployeeRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) EmployeeServiceInterface {
	return &EmployeeService{employeeRepo: employeeRepo, branchRepo: branchRepo, bus: bus, logger: logger}
}

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.employeeRepo.GetEmployees(ctx, companyID, filter)
}

func (s *EmployeeService) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.employeeRepo.FindEmployee(ctx, companyID, id)
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO) (*entities.Employee, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	// филиал должен существовать в этой же компании
	if _, err := s.branchRepo.FindBranch(ctx, companyID, payload.BranchID); err != nil {
		return nil, err
	}

	employee := entities.Employee{
		CompanyID:   companyID,
		BranchID:    payload.BranchID,
		EmployeeID:  payload.EmployeeID,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Designation: payload.Designation.Ptr(),
		Department:  payload.Department.Ptr(),
		Email:       payload.Email.Ptr(),
		Phone:       payload.Phone.Ptr(),
		IsActive:    true,
	}

	newID, err := s.employeeRepo.CreateEmployee(ctx, employee)
	if err != nil {
		return nil, err
	}

	s.publishAudit(ctx, companyID, "create", newID)
	return s.employeeRepo.FindEmployee(ctx, companyID, newID)
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*entities.Employee, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.FindEmployee(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if payload.BranchID != nil {
		if _, err := s.branchRepo.FindBranch(ctx, companyID, *payload.BranchID); err != nil {
			return nil, err
		}
		employee.BranchID = *payload.BranchID
	}
	if payload.FirstName != nil {
		employee.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		employee.LastName = *payload.LastName
	}
	if payload.Designation.Valid {
		employee.Designation = payload.Designation.Ptr()
	}
	if payload.Department.Valid {
		employee.Department = payload.Department.Ptr()
	}
	if payload.Email.Valid {
		employee.Email = payload.Email.Ptr()
	}
	if payload.Phone.Valid {
		employee.Phone = payload.Phone.Ptr()
	}
	if payload.IsActive != nil {
		employee.IsActive = *payload.IsActive
	}

	if err := s.employeeRepo.UpdateEmployee(ctx, companyID, id, *employee); err != nil {
		return nil, err
	}

	s.publishAudit(ctx, companyID, "update", id)
	return s.employeeRepo.FindEmployee(ctx, companyID, id)
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint64) error {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := s.employeeRepo.DeleteEmployee(ctx, companyID, id); err != nil {
		return err
	}
	s.publishAudit(ctx, companyID, "delete", id)
	return nil
}

func (s *EmployeeService) publishAudit(ctx context.Context, companyID uint64, action string, resourceID uint64) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return
	}
	s.bus.Publish(ctx, events.AuditActionEvent{
		CompanyID:    companyID,
		UserID:       userID,
		Action:       action,
		Module:       "employees",
		ResourceID:   resourceID,
		ResourceType: "employee",
	})
}
