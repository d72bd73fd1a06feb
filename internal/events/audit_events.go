package events

import "fmt"

const AuditActionEventName = "audit.action"

// AuditActionEvent публикуется сервисами после успешной доменной операции.
// Слушатель пишет запись в журнал аудита; сбой записи не роняет запрос.
type AuditActionEvent struct {
	CompanyID    uint64
	UserID       uint64
	Action       string
	Module       string
	ResourceID   uint64
	ResourceType string
}

func (e AuditActionEvent) Name() string { return AuditActionEventName }

func (e AuditActionEvent) ResourceIDString() string {
	if e.ResourceID == 0 {
		return ""
	}
	return fmt.Sprintf("%d", e.ResourceID)
}
