// Package repository defines the domain repository contracts.
package repository

import (
	"context"

	"github.com/dashiq/reporting/internal/domain/models"
)

// ReportRepository is the read-only aggregation contract over the four
// governance tables. Every method scopes its query by tenant and by a
// half-open UTC window; no method creates, mutates or deletes rows.
// Implementation: internal/infrastructure/persistence/postgres/report_repo_impl.go
type ReportRepository interface {
	// UsageTotals sums requests, tokens and cost over prompt sessions.
	// Empty windows yield zero sums, never NULL.
	UsageTotals(ctx context.Context, tenantID int64, w models.Window) (models.UsageTotals, error)

	// ViolationCount counts decision log rows with decision = 'deny'.
	ViolationCount(ctx context.Context, tenantID int64, w models.Window) (int64, error)

	// ShadowEventCount counts shadow AI events.
	ShadowEventCount(ctx context.Context, tenantID int64, w models.Window) (int64, error)

	// ActiveUserCount counts distinct users with at least one prompt session.
	ActiveUserCount(ctx context.Context, tenantID int64, w models.Window) (int64, error)

	// TotalUserCount counts all users of the tenant, regardless of window.
	TotalUserCount(ctx context.Context, tenantID int64) (int64, error)

	// DepartmentUsage aggregates usage grouped by department.
	// Users without a department are excluded.
	DepartmentUsage(ctx context.Context, tenantID int64, w models.Window) ([]models.DepartmentUsage, error)

	// DepartmentDistribution counts active users per department.
	DepartmentDistribution(ctx context.Context, tenantID int64, w models.Window) ([]models.DepartmentShare, error)

	// DailyActiveUsers returns distinct active users per day, ordered by date.
	DailyActiveUsers(ctx context.Context, tenantID int64, w models.Window) ([]models.DailyActiveUsers, error)

	// DailyUsage returns request, token and cost sums per day, ordered by date.
	DailyUsage(ctx context.Context, tenantID int64, w models.Window) ([]models.DailyUsage, error)

	// ModelDistribution aggregates usage grouped by model name.
	// Sessions without a model name are excluded.
	ModelDistribution(ctx context.Context, tenantID int64, w models.Window) ([]models.ModelUsage, error)

	// RecentDenyEvents returns the most recent denials with their derived
	// risk bucket, newest first, capped at limit.
	RecentDenyEvents(ctx context.Context, tenantID int64, w models.Window, limit int) ([]models.DenyEvent, error)

	// ShadowEventBuckets returns non-empty (day-of-week, hour) counts over
	// shadow AI events for heatmap assembly.
	ShadowEventBuckets(ctx context.Context, tenantID int64, w models.Window) ([]models.HeatmapBucket, error)
}
