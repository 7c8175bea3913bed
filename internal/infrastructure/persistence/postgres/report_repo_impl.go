package postgres

import (
	"context"
	"time"

	"github.com/dashiq/reporting/internal/domain/models"
	"github.com/dashiq/reporting/internal/domain/repository"
	"github.com/dashiq/reporting/pkg/constants"
	"github.com/dashiq/reporting/pkg/errors"
	"github.com/dashiq/reporting/pkg/logger"
)

// ReportRepositoryImpl implements ReportRepository against PostgreSQL.
// All queries are read-only projections scoped by tenant and half-open
// window, bounded by a per-query timeout.
type ReportRepositoryImpl struct {
	db     *DBConnection
	logger logger.Logger
}

// NewReportRepository creates a new PostgreSQL report repository instance.
func NewReportRepository(db *DBConnection, log logger.Logger) repository.ReportRepository {
	return &ReportRepositoryImpl{
		db:     db,
		logger: log,
	}
}

func (r *ReportRepositoryImpl) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, constants.DefaultQueryTimeout)
}

func (r *ReportRepositoryImpl) fail(ctx context.Context, query string, err error) error {
	r.logger.Error(ctx, "Aggregation query failed", err, logger.String("query", query))
	return errors.ErrQueryFailure(query).WithCause(err)
}

// UsageTotals sums requests, tokens and cost over prompt sessions.
func (r *ReportRepositoryImpl) UsageTotals(ctx context.Context, tenantID int64, w models.Window) (models.UsageTotals, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var row struct {
		TotalRequests int64
		TotalTokens   int64
		TotalCost     float64
	}
	err := r.db.DB().WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(ps.total_prompts), 0) AS total_requests,
		       COALESCE(SUM(ps.total_tokens), 0)  AS total_tokens,
		       COALESCE(SUM(ps.total_cost), 0)    AS total_cost
		FROM prompt_sessions ps
		JOIN users u ON u.id = ps.user_id
		WHERE u.tenant_id = ? AND ps.created_at >= ? AND ps.created_at < ?`,
		tenantID, w.Start, w.End,
	).Scan(&row).Error
	if err != nil {
		return models.UsageTotals{}, r.fail(ctx, "usage_totals", err)
	}

	return models.UsageTotals{
		TotalRequests: row.TotalRequests,
		TotalTokens:   row.TotalTokens,
		TotalCost:     row.TotalCost,
	}, nil
}

// ViolationCount counts denied decisions inside the window.
func (r *ReportRepositoryImpl) ViolationCount(ctx context.Context, tenantID int64, w models.Window) (int64, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var count int64
	err := r.db.DB().WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM decision_logs dl
		JOIN users u ON u.id = dl.user_id
		WHERE u.tenant_id = ? AND dl.decision = 'deny' AND dl.ts >= ? AND dl.ts < ?`,
		tenantID, w.Start, w.End,
	).Scan(&count).Error
	if err != nil {
		return 0, r.fail(ctx, "violation_count", err)
	}
	return count, nil
}

// ShadowEventCount counts shadow AI events inside the window.
func (r *ReportRepositoryImpl) ShadowEventCount(ctx context.Context, tenantID int64, w models.Window) (int64, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var count int64
	err := r.db.DB().WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM shadow_events
		WHERE tenant_id = ? AND ts >= ? AND ts < ?`,
		tenantID, w.Start, w.End,
	).Scan(&count).Error
	if err != nil {
		return 0, r.fail(ctx, "shadow_event_count", err)
	}
	return count, nil
}

// ActiveUserCount counts distinct users with prompt sessions in the window.
func (r *ReportRepositoryImpl) ActiveUserCount(ctx context.Context, tenantID int64, w models.Window) (int64, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var count int64
	err := r.db.DB().WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT ps.user_id)
		FROM prompt_sessions ps
		JOIN users u ON u.id = ps.user_id
		WHERE u.tenant_id = ? AND ps.created_at >= ? AND ps.created_at < ?`,
		tenantID, w.Start, w.End,
	).Scan(&count).Error
	if err != nil {
		return 0, r.fail(ctx, "active_user_count", err)
	}
	return count, nil
}

// TotalUserCount counts all users of the tenant.
func (r *ReportRepositoryImpl) TotalUserCount(ctx context.Context, tenantID int64) (int64, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var count int64
	err := r.db.DB().WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM users WHERE tenant_id = ?`,
		tenantID,
	).Scan(&count).Error
	if err != nil {
		return 0, r.fail(ctx, "total_user_count", err)
	}
	return count, nil
}

// DepartmentUsage aggregates usage grouped by department. Per-user sums are
// pre-aggregated in subqueries so the session and violation joins cannot
// inflate each other.
func (r *ReportRepositoryImpl) DepartmentUsage(ctx context.Context, tenantID int64, w models.Window) ([]models.DepartmentUsage, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var rows []models.DepartmentUsage
	err := r.db.DB().WithContext(ctx).Raw(`
		SELECT u.department                     AS department,
		       COUNT(DISTINCT u.id)             AS user_count,
		       COALESCE(SUM(s.requests), 0)     AS total_requests,
		       COALESCE(SUM(s.tokens), 0)       AS total_tokens,
		       COALESCE(SUM(s.cost), 0)         AS total_cost,
		       COALESCE(SUM(d.violations), 0)   AS violations
		FROM users u
		LEFT JOIN (
			SELECT user_id,
			       SUM(total_prompts) AS requests,
			       SUM(total_tokens)  AS tokens,
			       SUM(total_cost)    AS cost
			FROM prompt_sessions
			WHERE created_at >= ? AND created_at < ?
			GROUP BY user_id
		) s ON s.user_id = u.id
		LEFT JOIN (
			SELECT user_id, COUNT(*) AS violations
			FROM decision_logs
			WHERE decision = 'deny' AND ts >= ? AND ts < ?
			GROUP BY user_id
		) d ON d.user_id = u.id
		WHERE u.tenant_id = ? AND u.department IS NOT NULL
		GROUP BY u.department
		ORDER BY total_requests DESC`,
		w.Start, w.End, w.Start, w.End, tenantID,
	).Scan(&rows).Error
	if err != nil {
		return nil, r.fail(ctx, "department_usage", err)
	}
	return rows, nil
}

// DepartmentDistribution counts active users per department.
func (r *ReportRepositoryImpl) DepartmentDistribution(ctx context.Context, tenantID int64, w models.Window) ([]models.DepartmentShare, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var rows []models.DepartmentShare
	err := r.db.DB().WithContext(ctx).Raw(`
		SELECT u.department              AS department,
		       COUNT(DISTINCT ps.user_id) AS user_count
		FROM users u
		JOIN prompt_sessions ps ON ps.user_id = u.id
		WHERE u.tenant_id = ? AND u.department IS NOT NULL
		  AND ps.created_at >= ? AND ps.created_at < ?
		GROUP BY u.department
		ORDER BY user_count DESC`,
		tenantID, w.Start, w.End,
	).Scan(&rows).Error
	if err != nil {
		return nil, r.fail(ctx, "department_distribution", err)
	}
	return rows, nil
}

// DailyActiveUsers returns distinct active users per day, ordered by date.
func (r *ReportRepositoryImpl) DailyActiveUsers(ctx context.Context, tenantID int64, w models.Window) ([]models.DailyActiveUsers, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var rows []models.DailyActiveUsers
	err := r.db.DB().WithContext(ctx).Raw(`
		SELECT DATE(ps.created_at)        AS date,
		       COUNT(DISTINCT ps.user_id) AS users
		FROM prompt_sessions ps
		JOIN users u ON u.id = ps.user_id
		WHERE u.tenant_id = ? AND ps.created_at >= ? AND ps.created_at < ?
		GROUP BY DATE(ps.created_at)
		ORDER BY date`,
		tenantID, w.Start, w.End,
	).Scan(&rows).Error
	if err != nil {
		return nil, r.fail(ctx, "daily_active_users", err)
	}
	return rows, nil
}

// DailyUsage returns request, token and cost sums per day, ordered by date.
func (r *ReportRepositoryImpl) DailyUsage(ctx context.Context, tenantID int64, w models.Window) ([]models.DailyUsage, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var rows []models.DailyUsage
	err := r.db.DB().WithContext(ctx).Raw(`
		SELECT DATE(ps.created_at)                AS date,
		       COALESCE(SUM(ps.total_prompts), 0) AS requests,
		       COALESCE(SUM(ps.total_tokens), 0)  AS tokens,
		       COALESCE(SUM(ps.total_cost), 0)    AS cost
		FROM prompt_sessions ps
		JOIN users u ON u.id = ps.user_id
		WHERE u.tenant_id = ? AND ps.created_at >= ? AND ps.created_at < ?
		GROUP BY DATE(ps.created_at)
		ORDER BY date`,
		tenantID, w.Start, w.End,
	).Scan(&rows).Error
	if err != nil {
		return nil, r.fail(ctx, "daily_usage", err)
	}
	return rows, nil
}

// ModelDistribution aggregates usage grouped by model name.
func (r *ReportRepositoryImpl) ModelDistribution(ctx context.Context, tenantID int64, w models.Window) ([]models.ModelUsage, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var rows []models.ModelUsage
	err := r.db.DB().WithContext(ctx).Raw(`
		SELECT ps.model_name                       AS model_name,
		       COUNT(DISTINCT ps.user_id)          AS user_count,
		       COUNT(*)                            AS session_count,
		       COALESCE(SUM(ps.total_prompts), 0)  AS total_requests,
		       COALESCE(SUM(ps.total_cost), 0)     AS total_cost
		FROM prompt_sessions ps
		JOIN users u ON u.id = ps.user_id
		WHERE u.tenant_id = ? AND ps.model_name IS NOT NULL
		  AND ps.created_at >= ? AND ps.created_at < ?
		GROUP BY ps.model_name
		ORDER BY total_requests DESC`,
		tenantID, w.Start, w.End,
	).Scan(&rows).Error
	if err != nil {
		return nil, r.fail(ctx, "model_distribution", err)
	}
	return rows, nil
}

// RecentDenyEvents returns the most recent denials with their derived risk
// bucket. The severity mapping lives in SQL so ordering and limiting stay
// in one round trip; internal/domain/service.RiskFromReasons mirrors it.
func (r *ReportRepositoryImpl) RecentDenyEvents(ctx context.Context, tenantID int64, w models.Window, limit int) ([]models.DenyEvent, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var rows []struct {
		UserName   string
		UserEmail  string
		ModelName  string
		Reason     string
		Risk       string
		OccurredAt time.Time
	}
	err := r.db.DB().WithContext(ctx).Raw(`
		SELECT COALESCE(u.display_name, u.email) AS user_name,
		       u.email                           AS user_email,
		       COALESCE(dl.model_name, '')       AS model_name,
		       COALESCE(dl.reasons[1], '')       AS reason,
		       CASE
		         WHEN 'PII_DETECTED' = ANY(dl.reasons)
		           OR 'DATA_LEAK_PREVENTION' = ANY(dl.reasons)      THEN 'Critical'
		         WHEN 'PROMPT_INJECTION_DETECTED' = ANY(dl.reasons) THEN 'High'
		         WHEN 'USAGE_LIMIT_EXCEEDED' = ANY(dl.reasons)      THEN 'Medium'
		         ELSE 'Low'
		       END                               AS risk,
		       dl.ts                             AS occurred_at
		FROM decision_logs dl
		JOIN users u ON u.id = dl.user_id
		WHERE u.tenant_id = ? AND dl.decision = 'deny' AND dl.ts >= ? AND dl.ts < ?
		ORDER BY dl.ts DESC
		LIMIT ?`,
		tenantID, w.Start, w.End, limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, r.fail(ctx, "recent_deny_events", err)
	}

	events := make([]models.DenyEvent, len(rows))
	for i, row := range rows {
		events[i] = models.DenyEvent{
			UserName:   row.UserName,
			UserEmail:  row.UserEmail,
			ModelName:  row.ModelName,
			Reason:     row.Reason,
			Risk:       constants.RiskLevel(row.Risk),
			OccurredAt: row.OccurredAt,
		}
	}
	return events, nil
}

// ShadowEventBuckets returns non-empty (day-of-week, hour) counts.
func (r *ReportRepositoryImpl) ShadowEventBuckets(ctx context.Context, tenantID int64, w models.Window) ([]models.HeatmapBucket, error) {
	ctx, cancel := r.queryCtx(ctx)
	defer cancel()

	var rows []models.HeatmapBucket
	err := r.db.DB().WithContext(ctx).Raw(`
		SELECT EXTRACT(DOW FROM ts)::int  AS day_of_week,
		       EXTRACT(HOUR FROM ts)::int AS hour,
		       COUNT(*)                   AS count
		FROM shadow_events
		WHERE tenant_id = ? AND ts >= ? AND ts < ?
		GROUP BY 1, 2`,
		tenantID, w.Start, w.End,
	).Scan(&rows).Error
	if err != nil {
		return nil, r.fail(ctx, "shadow_event_buckets", err)
	}
	return rows, nil
}
