package audit

import (
	"context"

	"gorm.io/gorm"

	"github.com/dashiq/reporting/internal/domain/models"
	"github.com/dashiq/reporting/internal/domain/service"
)

// auditRecord is the relational shape of an audit event.
type auditRecord struct {
	EventID   string `gorm:"primaryKey;column:event_id"`
	TenantID  int64  `gorm:"column:tenant_id"`
	ActorID   string `gorm:"column:actor_id"`
	EventType string `gorm:"column:event_type"`
	Result    string `gorm:"column:result"`
	Endpoint  string `gorm:"column:endpoint"`
	TraceID   string `gorm:"column:trace_id"`
	Message   string `gorm:"column:message"`
	Metadata  []byte `gorm:"column:metadata;type:jsonb"`
	Timestamp int64  `gorm:"column:ts"`
}

func (auditRecord) TableName() string { return "audit_events" }

// GormAuditStore persists audit events in the reporting database. It is
// used when Kafka is disabled so the trail is never silently dropped.
type GormAuditStore struct {
	db *gorm.DB
}

// NewGormAuditStore creates a database-backed AuditService.
func NewGormAuditStore(db *gorm.DB) service.AuditService {
	return &GormAuditStore{db: db}
}

// LogEvent inserts the audit event into the audit_events table.
func (s *GormAuditStore) LogEvent(ctx context.Context, event *models.AuditEvent) error {
	record := auditRecord{
		EventID:   event.EventID.String(),
		TenantID:  event.TenantID,
		ActorID:   event.ActorID,
		EventType: string(event.EventType),
		Result:    event.Result,
		Endpoint:  event.Endpoint,
		TraceID:   event.TraceID,
		Message:   event.Message,
		Metadata:  []byte(event.Metadata),
		Timestamp: event.Timestamp.Unix(),
	}
	return s.db.WithContext(ctx).Create(&record).Error
}

// Close is a no-op for the database-backed store.
func (s *GormAuditStore) Close() error { return nil }
