package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"erp-system/internal/entities"
	"erp-system/internal/events"
	"erp-system/internal/repositories"
	"erp-system/pkg/eventbus"
)

// AuditListener пишет доменные события в журнал аудита. Вызывается шиной
// асинхронно: ошибка записи логируется, но не влияет на исходный запрос.
type AuditListener struct {
	auditRepo repositories.AuditRepositoryInterface
	logger    *zap.Logger
}

func NewAuditListener(auditRepo repositories.AuditRepositoryInterface, logger *zap.Logger) *AuditListener {
	return &AuditListener{auditRepo: auditRepo, logger: logger}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.AuditActionEventName, l.handleAuditAction)
}

func (l *AuditListener) handleAuditAction(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.AuditActionEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}

	log := entities.AuditLog{
		CompanyID: e.CompanyID,
		UserID:    e.UserID,
		Action:    e.Action,
		Module:    e.Module,
		Status:    "success",
	}
	if rid := e.ResourceIDString(); rid != "" {
		log.ResourceID = &rid
	}
	if e.ResourceType != "" {
		log.ResourceType = &e.ResourceType
	}

	if err := l.auditRepo.CreateLog(ctx, log); err != nil {
		return fmt.Errorf("не удалось записать аудит: %w", err)
	}
	return nil
}
