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

type BranchServiceInterface interface {
	GetBranches(ctx context.Context, filter types.Filter) ([]entities.Branch, uint64, error)
	FindBranch(ctx context.Context, id uint64) (*entities.Branch, error)
	CreateBranch(ctx context.Context, payload dto.CreateBranchDTO) (*entities.Branch, error)
	UpdateBranch(ctx context.Context, id uint64, payload dto.UpdateBranchDTO) (*entities.Branch, error)
	DeleteBranch(ctx context.Context, id uint64) error
}

type BranchService struct {
	branchRepo repositories.BranchRepositoryInterface
	bus        *eventbus.Bus
	logger     *zap.Logger
}

func NewBranchService(branchRepo repositories.BranchRepositoryInterface, bus *eventbus.Bus, logger *zap.Logger) BranchServiceInterface {
	return &BranchService{branchRepo: branchRepo, bus: bus, logger: logger}
}

func (s *BranchService) GetBranches(ctx context.Context, filter types.Filter) ([]entities.Branch, uint64, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.branchRepo.GetBranches(ctx, companyID, filter)
}

func (s *BranchService) FindBranch(ctx context.Context, id uint64) (*entities.Branch, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.branchRepo.FindBranch(ctx, companyID, id)
}

func (s *BranchService) CreateBranch(ctx context.Context, payload dto.CreateBranchDTO) (*entities.Branch, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	branch := entities.Branch{
		CompanyID: companyID,
		Code:      payload.Code,
		Name:      payload.Name,
		Address:   payload.Address.Ptr(),
		Phone:     payload.Phone.Ptr(),
		Email:     payload.Email.Ptr(),
		IsActive:  true,
	}

	newID, err := s.branchRepo.CreateBranch(ctx, branch)
	if err != nil {
		return nil, err
	}

	s.publishAudit(ctx, companyID, "create", newID)
	return s.branchRepo.FindBranch(ctx, companyID, newID)
}

func (s *BranchService) UpdateBranch(ctx context.Context, id uint64, payload dto.UpdateBranchDTO) (*entities.Branch, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	branch, err := s.branchRepo.FindBranch(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if payload.Code != nil {
		branch.Code = *payload.Code
	}
	if payload.Name != nil {
		branch.Name = *payload.Name
	}
	if payload.Address.Valid {
		branch.Address = payload.Address.Ptr()
	}
	if payload.Phone.Valid {
		branch.Phone = payload.Phone.Ptr()
	}
	if payload.Email.Valid {
		branch.Email = payload.Email.Ptr()
	}
	if payload.IsActive != nil {
		branch.IsActive = *payload.IsActive
	}

	if err := s.branchRepo.UpdateBranch(ctx, companyID, id, *branch); err != nil {
		return nil, err
	}

	s.publishAudit(ctx, companyID, "update", id)
	return s.branchRepo.FindBranch(ctx, companyID, id)
}

func (s *BranchService) DeleteBranch(ctx context.Context, id uint64) error {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := s.branchRepo.DeleteBranch(ctx, companyID, id); err != nil {
		return err
	}
	s.publishAudit(ctx, companyID, "delete", id)
	return nil
}

func (s *BranchService) publishAudit(ctx context.Context, companyID uint64, action string, resourceID uint64) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return
	}
	s.bus.Publish(ctx, events.AuditActionEvent{
		CompanyID:    companyID,
		UserID:       userID,
		Action:       action,
		Module:       "branches",
		ResourceID:   resourceID,
		ResourceType: "branch",
	})
}
