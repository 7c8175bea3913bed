package service

import (
	"context"

	"github.com/dashiq/reporting/internal/domain/models"
)

// AuditService records governance audit events for reporting traffic.
// Implementations must be safe for concurrent use and must never block
// request handling on delivery failures.
type AuditService interface {
	// LogEvent records a single audit event. Errors are returned for
	// observability but callers treat delivery as best effort.
	LogEvent(ctx context.Context, event *models.AuditEvent) error

	// Close flushes any buffered events and releases resources.
	Close() error
}
