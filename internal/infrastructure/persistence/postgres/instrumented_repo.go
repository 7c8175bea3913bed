package postgres

import (
	"context"
	"time"

	"github.com/dashiq/reporting/internal/domain/models"
	"github.com/dashiq/reporting/internal/domain/repository"
	"github.com/dashiq/reporting/internal/infrastructure/monitoring"
)

// instrumentedReportRepository decorates a ReportRepository with
// Prometheus query metrics.
type instrumentedReportRepository struct {
	inner   repository.ReportRepository
	metrics *monitoring.Metrics
}

// NewInstrumentedReportRepository wraps repo so every aggregation query
// records its duration and failure count.
func NewInstrumentedReportRepository(inner repository.ReportRepository, metrics *monitoring.Metrics) repository.ReportRepository {
	return &instrumentedReportRepository{inner: inner, metrics: metrics}
}

func (r *instrumentedReportRepository) observe(query string, start time.Time, err error) {
	r.metrics.RecordQuery(query, time.Since(start), err)
}

func (r *instrumentedReportRepository) UsageTotals(ctx context.Context, tenantID int64, w models.Window) (models.UsageTotals, error) {
	start := time.Now()
	out, err := r.inner.UsageTotals(ctx, tenantID, w)
	r.observe("usage_totals", start, err)
	return out, err
}

func (r *instrumentedReportRepository) ViolationCount(ctx context.Context, tenantID int64, w models.Window) (int64, error) {
	start := time.Now()
	out, err := r.inner.ViolationCount(ctx, tenantID, w)
	r.observe("violation_count", start, err)
	return out, err
}

func (r *instrumentedReportRepository) ShadowEventCount(ctx context.Context, tenantID int64, w models.Window) (int64, error) {
	start := time.Now()
	out, err := r.inner.ShadowEventCount(ctx, tenantID, w)
	r.observe("shadow_event_count", start, err)
	return out, err
}

func (r *instrumentedReportRepository) ActiveUserCount(ctx context.Context, tenantID int64, w models.Window) (int64, error) {
	start := time.Now()
	out, err := r.inner.ActiveUserCount(ctx, tenantID, w)
	r.observe("active_user_count", start, err)
	return out, err
}

func (r *instrumentedReportRepository) TotalUserCount(ctx context.Context, tenantID int64) (int64, error) {
	start := time.Now()
	out, err := r.inner.TotalUserCount(ctx, tenantID)
	r.observe("total_user_count", start, err)
	return out, err
}

func (r *instrumentedReportRepository) DepartmentUsage(ctx context.Context, tenantID int64, w models.Window) ([]models.DepartmentUsage, error) {
	start := time.Now()
	out, err := r.inner.DepartmentUsage(ctx, tenantID, w)
	r.observe("department_usage", start, err)
	return out, err
}

func (r *instrumentedReportRepository) DepartmentDistribution(ctx context.Context, tenantID int64, w models.Window) ([]models.DepartmentShare, error) {
	start := time.Now()
	out, err := r.inner.DepartmentDistribution(ctx, tenantID, w)
	r.observe("department_distribution", start, err)
	return out, err
}

func (r *instrumentedReportRepository) DailyActiveUsers(ctx context.Context, tenantID int64, w models.Window) ([]models.DailyActiveUsers, error) {
	start := time.Now()
	out, err := r.inner.DailyActiveUsers(ctx, tenantID, w)
	r.observe("daily_active_users", start, err)
	return out, err
}

func (r *instrumentedReportRepository) DailyUsage(ctx context.Context, tenantID int64, w models.Window) ([]models.DailyUsage, error) {
	start := time.Now()
	out, err := r.inner.DailyUsage(ctx, tenantID, w)
	r.observe("daily_usage", start, err)
	return out, err
}

func (r *instrumentedReportRepository) ModelDistribution(ctx context.Context, tenantID int64, w models.Window) ([]models.ModelUsage, error) {
	start := time.Now()
	out, err := r.inner.ModelDistribution(ctx, tenantID, w)
	r.observe("model_distribution", start, err)
	return out, err
}

func (r *instrumentedReportRepository) RecentDenyEvents(ctx context.Context, tenantID int64, w models.Window, limit int) ([]models.DenyEvent, error) {
	start := time.Now()
	out, err := r.inner.RecentDenyEvents(ctx, tenantID, w, limit)
	r.observe("recent_deny_events", start, err)
	return out, err
}

func (r *instrumentedReportRepository) ShadowEventBuckets(ctx context.Context, tenantID int64, w models.Window) ([]models.HeatmapBucket, error) {
	start := time.Now()
	out, err := r.inner.ShadowEventBuckets(ctx, tenantID, w)
	r.observe("shadow_event_buckets", start, err)
	return out, err
}
