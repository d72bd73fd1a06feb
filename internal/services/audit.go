package services

import (
	"context"

	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	"erp-system/pkg/types"
	"erp-system/pkg/utils"
)

type AuditServiceInterface interface {
	GetLogs(ctx context.Context, filter types.Filter) ([]entities.AuditLog, uint64, error)
}

type AuditService struct {
	auditRepo repositories.AuditRepositoryInterface
}

func NewAuditService(auditRepo repositories.AuditRepositoryInterface) AuditServiceInterface {
	return &AuditService{auditRepo: auditRepo}
}

func (s *AuditService) GetLogs(ctx context.Context, filter types.Filter) ([]entities.AuditLog, uint64, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.auditRepo.GetLogs(ctx, companyID, filter)
}
