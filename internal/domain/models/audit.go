package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/dashiq/reporting/pkg/constants"
)

// AuditEvent represents a single governance audit trail entry.
type AuditEvent struct {
	EventID   uuid.UUID                `json:"event_id"`
	TenantID  int64                    `json:"tenant_id"`
	ActorID   string                   `json:"actor_id,omitempty"` // user ID or "system"
	EventType constants.AuditEventType `json:"event_type"`
	Result    string                   `json:"result"` // "success" or "failure"
	Endpoint  string                   `json:"endpoint,omitempty"`
	TraceID   string                   `json:"trace_id,omitempty"`
	Message   string                   `json:"message,omitempty"`
	Metadata  json.RawMessage          `json:"metadata,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

// NewAuditEvent creates a new audit event for the given tenant.
func NewAuditEvent(tenantID int64, eventType constants.AuditEventType, result, message string) *AuditEvent {
	return &AuditEvent{
		EventID:   uuid.New(),
		TenantID:  tenantID,
		EventType: eventType,
		Result:    result,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// WithActor sets the actor ID for the audit event.
func (a *AuditEvent) WithActor(actorID string) *AuditEvent {
	a.ActorID = actorID
	return a
}

// WithEndpoint sets the HTTP endpoint the event was recorded for.
func (a *AuditEvent) WithEndpoint(endpoint string) *AuditEvent {
	a.Endpoint = endpoint
	return a
}

// WithTrace sets the trace ID for the audit event.
func (a *AuditEvent) WithTrace(traceID string) *AuditEvent {
	a.TraceID = traceID
	return a
}

// WithMetadata sets JSON metadata for the audit event.
func (a *AuditEvent) WithMetadata(data interface{}) *AuditEvent {
	jsonData, err := json.Marshal(data)
	if err == nil {
		a.Metadata = jsonData
	}
	return a
}
