package services

import (
	"context"

	"go.uber.org/zap"

	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/events"
	"erp-system/internal/repositories"
	"erp-system/pkg/eventbus"
	"erp-system/pkg/utils"
)

type CompanyServiceInterface interface {
	GetMyCompany(ctx context.Context) (*entities.Company, error)
	UpdateMyCompany(ctx context.Context, payload dto.UpdateCompanyDTO) (*entities.Company, error)
}

// CompanyService работает только с компанией вызывающего: id берётся из
// контекста запроса, а не из параметров.
type CompanyService struct {
	companyRepo repositories.CompanyRepositoryInterface
	bus         *eventbus.Bus
	logger      *zap.Logger
}

func NewCompanyService(companyRepo repositories.CompanyRepositoryInterface, bus *eventbus.Bus, logger *zap.Logger) CompanyServiceInterface {
	return &CompanyService{companyRepo: companyRepo, bus: bus, logger: logger}
}

func (s *CompanyService) GetMyCompany(ctx context.Context) (*entities.Company, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.companyRepo.FindCompany(ctx, companyID)
}

func (s *CompanyService) UpdateMyCompany(ctx context.Context, payload dto.UpdateCompanyDTO) (*entities.Company, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if payload.Name != nil {
		company.Name = *payload.Name
	}
	if payload.Email.Valid {
		company.Email = payload.Email.Ptr()
	}
	if payload.Phone.Valid {
		company.Phone = payload.Phone.Ptr()
	}
	if payload.Address.Valid {
		company.Address = payload.Address.Ptr()
	}

	if err := s.companyRepo.UpdateCompany(ctx, companyID, *company); err != nil {
		return nil, err
	}

	if userID, err := utils.GetUserIDFromCtx(ctx); err == nil {
		s.bus.Publish(ctx, events.AuditActionEvent{
			CompanyID:    companyID,
			UserID:       userID,
			Action:       "update",
			Module:       "company",
			ResourceID:   companyID,
			ResourceType: "company",
		})
	}

	return s.companyRepo.FindCompany(ctx, companyID)
}
