// Package service provides application-level services that orchestrate
// the domain services, the report repository and the response cache.
package service

import (
	"context"
	"math"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dashiq/reporting/internal/application/dto"
	"github.com/dashiq/reporting/internal/domain/models"
	"github.com/dashiq/reporting/internal/domain/repository"
	domainservice "github.com/dashiq/reporting/internal/domain/service"
	"github.com/dashiq/reporting/internal/infrastructure/monitoring"
	cachestore "github.com/dashiq/reporting/internal/infrastructure/persistence/redis"
	"github.com/dashiq/reporting/pkg/constants"
	apperrors "github.com/dashiq/reporting/pkg/errors"
	"github.com/dashiq/reporting/pkg/logger"
)

// Endpoint names used for cache keys and audit records.
const (
	endpointKPI                    = "kpi"
	endpointDepartmentUsage        = "department-usage"
	endpointRecentEvents           = "recent-events"
	endpointShadowHeatmap          = "shadow-ai-heatmap"
	endpointUsersTrend             = "users-trend"
	endpointModelDistribution      = "model-distribution"
	endpointDepartmentDistribution = "department-distribution"
	endpointUsageTrend             = "usage-trend"
	endpointUserStatistics         = "user-statistics"
	endpointChartData              = "chart-data"
)

const (
	trailingWindowDays = 7
	minEventLimit      = 1
	maxEventLimit      = 100
)

// DashboardAppService exposes the aggregated dashboard reports. Every
// method scopes its data by the caller's tenant; filterable reports also
// return the filter echo for the response envelope.
type DashboardAppService interface {
	// KPI returns the four headline cards with period-over-period trends.
	KPI(ctx context.Context, tenantID int64, f models.DateFilter) (*dto.KPIData, *models.FilterEcho, error)

	// DepartmentUsage returns per-department usage over the trailing week.
	DepartmentUsage(ctx context.Context, tenantID int64) ([]dto.DepartmentUsageRow, error)

	// RecentEvents returns the newest high-risk denials of the trailing week.
	RecentEvents(ctx context.Context, tenantID int64, limit int) ([]dto.RecentEventRow, error)

	// ShadowHeatmap returns the hour-by-weekday shadow AI grid for the
	// trailing week, always 7 rows of 24 cells.
	ShadowHeatmap(ctx context.Context, tenantID int64) ([]domainservice.HeatmapRow, error)

	// UsersTrend returns daily active users inside the filtered window.
	UsersTrend(ctx context.Context, tenantID int64, f models.DateFilter) ([]dto.UsersTrendPoint, *models.FilterEcho, error)

	// ModelDistribution returns usage grouped by model inside the window.
	ModelDistribution(ctx context.Context, tenantID int64, f models.DateFilter) ([]dto.ModelDistributionRow, *models.FilterEcho, error)

	// DepartmentDistribution returns active users per department inside the window.
	DepartmentDistribution(ctx context.Context, tenantID int64, f models.DateFilter) ([]dto.DepartmentShareRow, *models.FilterEcho, error)

	// UsageTrend returns daily request sums over the trailing week.
	UsageTrend(ctx context.Context, tenantID int64) ([]dto.UsageTrendPoint, error)

	// UserStatistics returns adoption counters with growth for the window.
	UserStatistics(ctx context.Context, tenantID int64, f models.DateFilter) (*dto.UserStatisticsData, *models.FilterEcho, error)

	// ChartData fetches the four filterable chart sections concurrently.
	// Sections fail independently; a section error never fails the whole
	// response.
	ChartData(ctx context.Context, tenantID int64, f models.DateFilter) (*dto.ChartData, *models.FilterEcho, error)
}

// dashboardAppServiceImpl is the concrete implementation of DashboardAppService.
type dashboardAppServiceImpl struct {
	repo    repository.ReportRepository
	cache   cachestore.CacheManager
	audit   domainservice.AuditService
	metrics *monitoring.Metrics
	logger  logger.Logger
	now     func() time.Time
}

// NewDashboardAppService creates a new instance of DashboardAppService.
func NewDashboardAppService(
	repo repository.ReportRepository,
	cache cachestore.CacheManager,
	audit domainservice.AuditService,
	metrics *monitoring.Metrics,
	log logger.Logger,
) DashboardAppService {
	return &dashboardAppServiceImpl{
		repo:    repo,
		cache:   cache,
		audit:   audit,
		metrics: metrics,
		logger:  log,
		now:     time.Now,
	}
}

// resolveFilter converts the raw filter into a window, auditing rejects.
func (s *dashboardAppServiceImpl) resolveFilter(ctx context.Context, tenantID int64, f models.DateFilter, endpoint string) (models.ResolvedFilter, error) {
	rf, err := domainservice.ResolveWindow(f, s.now())
	if err != nil {
		s.logger.Warn(ctx, "rejected dashboard filter",
			logger.String("endpoint", endpoint),
			logger.Error(err))
		s.auditEvent(ctx, models.NewAuditEvent(tenantID, constants.EventTypeFilterRejected, "failure", err.Error()).
			WithEndpoint(endpoint))
		return models.ResolvedFilter{}, err
	}
	return rf, nil
}

// trailingEcho keys the fixed trailing-week reports in the cache. The
// component values collapse to "all" so the key stays stable; staleness
// is bounded by the cache TTL.
func trailingEcho() models.FilterEcho {
	return models.FilterEcho{Year: "all", Month: "all", Week: "all", Period: constants.FilterTypeWeek}
}

func (s *dashboardAppServiceImpl) auditEvent(ctx context.Context, event *models.AuditEvent) {
	if s.audit == nil {
		return
	}
	// Best effort; the publisher logs its own failures.
	_ = s.audit.LogEvent(ctx, event)
}

func (s *dashboardAppServiceImpl) auditServed(ctx context.Context, tenantID int64, endpoint string) {
	s.auditEvent(ctx, models.NewAuditEvent(tenantID, constants.EventTypeReportServed, "success", "").
		WithEndpoint(endpoint))
}

// cacheGet reports whether dest was filled from the cache.
func (s *dashboardAppServiceImpl) cacheGet(ctx context.Context, tenantID int64, endpoint string, echo models.FilterEcho, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetReport(ctx, tenantID, endpoint, echo, dest)
	ok := err == nil && hit
	if s.metrics != nil {
		s.metrics.RecordCacheAccess(ok)
	}
	return ok
}

func (s *dashboardAppServiceImpl) cacheSet(ctx context.Context, tenantID int64, endpoint string, echo models.FilterEcho, payload interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetReport(ctx, tenantID, endpoint, echo, payload); err != nil {
		s.logger.Warn(ctx, "failed to cache report payload",
			logger.String("endpoint", endpoint),
			logger.Error(err))
	}
}

// KPI assembles the four headline cards. Current and previous window
// counters are fetched concurrently; any query failure fails the report.
func (s *dashboardAppServiceImpl) KPI(ctx context.Context, tenantID int64, f models.DateFilter) (*dto.KPIData, *models.FilterEcho, error) {
	rf, err := s.resolveFilter(ctx, tenantID, f, endpointKPI)
	if err != nil {
		return nil, nil, err
	}

	var cached dto.KPIData
	if s.cacheGet(ctx, tenantID, endpointKPI, rf.Echo, &cached) {
		return &cached, &rf.Echo, nil
	}

	current, previous := rf.Window, domainservice.PreviousWindow(rf.Window)

	var cur, prev models.KPISnapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		totals, err := s.repo.UsageTotals(gctx, tenantID, current)
		cur.TotalRequests = totals.TotalRequests
		return err
	})
	g.Go(func() error {
		var err error
		cur.Violations, err = s.repo.ViolationCount(gctx, tenantID, current)
		return err
	})
	g.Go(func() error {
		var err error
		cur.ShadowDetected, err = s.repo.ShadowEventCount(gctx, tenantID, current)
		return err
	})
	g.Go(func() error {
		var err error
		cur.ActiveUsers, err = s.repo.ActiveUserCount(gctx, tenantID, current)
		return err
	})
	g.Go(func() error {
		totals, err := s.repo.UsageTotals(gctx, tenantID, previous)
		prev.TotalRequests = totals.TotalRequests
		return err
	})
	g.Go(func() error {
		var err error
		prev.Violations, err = s.repo.ViolationCount(gctx, tenantID, previous)
		return err
	})
	g.Go(func() error {
		var err error
		prev.ShadowDetected, err = s.repo.ShadowEventCount(gctx, tenantID, previous)
		return err
	})
	g.Go(func() error {
		var err error
		prev.ActiveUsers, err = s.repo.ActiveUserCount(gctx, tenantID, previous)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	data := &dto.KPIData{
		TotalAIRequests:  newKPICard(cur.TotalRequests, prev.TotalRequests),
		PolicyViolations: newKPICard(cur.Violations, prev.Violations),
		ShadowAIDetected: newKPICard(cur.ShadowDetected, prev.ShadowDetected),
		AIServiceUsers:   newKPICard(cur.ActiveUsers, prev.ActiveUsers),
	}

	s.cacheSet(ctx, tenantID, endpointKPI, rf.Echo, data)
	s.auditServed(ctx, tenantID, endpointKPI)
	return data, &rf.Echo, nil
}

func newKPICard(current, previous int64) dto.KPICard {
	growth := domainservice.Growth(current, previous)
	return dto.KPICard{
		Value:   domainservice.FormatCount(current),
		Trend:   domainservice.FormatGrowth(growth),
		TrendUp: growth >= 0,
	}
}

// DepartmentUsage reports per-department usage over the trailing week.
func (s *dashboardAppServiceImpl) DepartmentUsage(ctx context.Context, tenantID int64) ([]dto.DepartmentUsageRow, error) {
	echo := trailingEcho()

	var cached []dto.DepartmentUsageRow
	if s.cacheGet(ctx, tenantID, endpointDepartmentUsage, echo, &cached) {
		return cached, nil
	}

	window := domainservice.TrailingDays(trailingWindowDays, s.now())
	rows, err := s.repo.DepartmentUsage(ctx, tenantID, window)
	if err != nil {
		return nil, err
	}

	out := dto.NewDepartmentUsageRows(rows)
	s.cacheSet(ctx, tenantID, endpointDepartmentUsage, echo, out)
	s.auditServed(ctx, tenantID, endpointDepartmentUsage)
	return out, nil
}

// RecentEvents reports the newest high-risk denials of the trailing week.
func (s *dashboardAppServiceImpl) RecentEvents(ctx context.Context, tenantID int64, limit int) ([]dto.RecentEventRow, error) {
	if limit < minEventLimit || limit > maxEventLimit {
		return nil, apperrors.ErrInvalidFilter("limit must be between 1 and 100").
			WithMetadata("limit", limit)
	}

	echo := trailingEcho()
	endpoint := endpointRecentEvents + ":" + strconv.Itoa(limit)

	var cached []dto.RecentEventRow
	if s.cacheGet(ctx, tenantID, endpoint, echo, &cached) {
		return cached, nil
	}

	window := domainservice.TrailingDays(trailingWindowDays, s.now())
	rows, err := s.repo.RecentDenyEvents(ctx, tenantID, window, limit)
	if err != nil {
		return nil, err
	}

	out := dto.NewRecentEventRows(rows)
	s.cacheSet(ctx, tenantID, endpoint, echo, out)
	s.auditServed(ctx, tenantID, endpointRecentEvents)
	return out, nil
}

// ShadowHeatmap reports the zero-filled weekday-by-hour grid.
func (s *dashboardAppServiceImpl) ShadowHeatmap(ctx context.Context, tenantID int64) ([]domainservice.HeatmapRow, error) {
	echo := trailingEcho()

	var cached []domainservice.HeatmapRow
	if s.cacheGet(ctx, tenantID, endpointShadowHeatmap, echo, &cached) {
		return cached, nil
	}

	window := domainservice.TrailingDays(trailingWindowDays, s.now())
	buckets, err := s.repo.ShadowEventBuckets(ctx, tenantID, window)
	if err != nil {
		return nil, err
	}

	out := domainservice.BuildHeatmap(buckets)
	s.cacheSet(ctx, tenantID, endpointShadowHeatmap, echo, out)
	s.auditServed(ctx, tenantID, endpointShadowHeatmap)
	return out, nil
}

// UsersTrend reports daily active users inside the filtered window.
func (s *dashboardAppServiceImpl) UsersTrend(ctx context.Context, tenantID int64, f models.DateFilter) ([]dto.UsersTrendPoint, *models.FilterEcho, error) {
	rf, err := s.resolveFilter(ctx, tenantID, f, endpointUsersTrend)
	if err != nil {
		return nil, nil, err
	}
	out, err := s.usersTrend(ctx, tenantID, rf)
	if err != nil {
		return nil, nil, err
	}
	return out, &rf.Echo, nil
}

func (s *dashboardAppServiceImpl) usersTrend(ctx context.Context, tenantID int64, rf models.ResolvedFilter) ([]dto.UsersTrendPoint, error) {
	var cached []dto.UsersTrendPoint
	if s.cacheGet(ctx, tenantID, endpointUsersTrend, rf.Echo, &cached) {
		return cached, nil
	}

	rows, err := s.repo.DailyActiveUsers(ctx, tenantID, rf.Window)
	if err != nil {
		return nil, err
	}

	out := dto.NewUsersTrendPoints(rows)
	s.cacheSet(ctx, tenantID, endpointUsersTrend, rf.Echo, out)
	s.auditServed(ctx, tenantID, endpointUsersTrend)
	return out, nil
}

// ModelDistribution reports usage grouped by model inside the window.
func (s *dashboardAppServiceImpl) ModelDistribution(ctx context.Context, tenantID int64, f models.DateFilter) ([]dto.ModelDistributionRow, *models.FilterEcho, error) {
	rf, err := s.resolveFilter(ctx, tenantID, f, endpointModelDistribution)
	if err != nil {
		return nil, nil, err
	}
	out, err := s.modelDistribution(ctx, tenantID, rf)
	if err != nil {
		return nil, nil, err
	}
	return out, &rf.Echo, nil
}

func (s *dashboardAppServiceImpl) modelDistribution(ctx context.Context, tenantID int64, rf models.ResolvedFilter) ([]dto.ModelDistributionRow, error) {
	var cached []dto.ModelDistributionRow
	if s.cacheGet(ctx, tenantID, endpointModelDistribution, rf.Echo, &cached) {
		return cached, nil
	}

	rows, err := s.repo.ModelDistribution(ctx, tenantID, rf.Window)
	if err != nil {
		return nil, err
	}

	out := dto.NewModelDistributionRows(rows)
	s.cacheSet(ctx, tenantID, endpointModelDistribution, rf.Echo, out)
	s.auditServed(ctx, tenantID, endpointModelDistribution)
	return out, nil
}

// DepartmentDistribution reports active users per department.
func (s *dashboardAppServiceImpl) DepartmentDistribution(ctx context.Context, tenantID int64, f models.DateFilter) ([]dto.DepartmentShareRow, *models.FilterEcho, error) {
	rf, err := s.resolveFilter(ctx, tenantID, f, endpointDepartmentDistribution)
	if err != nil {
		return nil, nil, err
	}
	out, err := s.departmentDistribution(ctx, tenantID, rf)
	if err != nil {
		return nil, nil, err
	}
	return out, &rf.Echo, nil
}

func (s *dashboardAppServiceImpl) departmentDistribution(ctx context.Context, tenantID int64, rf models.ResolvedFilter) ([]dto.DepartmentShareRow, error) {
	var cached []dto.DepartmentShareRow
	if s.cacheGet(ctx, tenantID, endpointDepartmentDistribution, rf.Echo, &cached) {
		return cached, nil
	}

	rows, err := s.repo.DepartmentDistribution(ctx, tenantID, rf.Window)
	if err != nil {
		return nil, err
	}

	out := dto.NewDepartmentShareRows(rows)
	s.cacheSet(ctx, tenantID, endpointDepartmentDistribution, rf.Echo, out)
	s.auditServed(ctx, tenantID, endpointDepartmentDistribution)
	return out, nil
}

// UsageTrend reports daily usage sums over the trailing week.
func (s *dashboardAppServiceImpl) UsageTrend(ctx context.Context, tenantID int64) ([]dto.UsageTrendPoint, error) {
	echo := trailingEcho()

	var cached []dto.UsageTrendPoint
	if s.cacheGet(ctx, tenantID, endpointUsageTrend, echo, &cached) {
		return cached, nil
	}

	window := domainservice.TrailingDays(trailingWindowDays, s.now())
	rows, err := s.repo.DailyUsage(ctx, tenantID, window)
	if err != nil {
		return nil, err
	}

	out := dto.NewUsageTrendPoints(rows)
	s.cacheSet(ctx, tenantID, endpointUsageTrend, echo, out)
	s.auditServed(ctx, tenantID, endpointUsageTrend)
	return out, nil
}

// UserStatistics reports adoption counters with period-over-period growth.
func (s *dashboardAppServiceImpl) UserStatistics(ctx context.Context, tenantID int64, f models.DateFilter) (*dto.UserStatisticsData, *models.FilterEcho, error) {
	rf, err := s.resolveFilter(ctx, tenantID, f, endpointUserStatistics)
	if err != nil {
		return nil, nil, err
	}
	out, err := s.userStatistics(ctx, tenantID, rf)
	if err != nil {
		return nil, nil, err
	}
	return out, &rf.Echo, nil
}

func (s *dashboardAppServiceImpl) userStatistics(ctx context.Context, tenantID int64, rf models.ResolvedFilter) (*dto.UserStatisticsData, error) {
	var cached dto.UserStatisticsData
	if s.cacheGet(ctx, tenantID, endpointUserStatistics, rf.Echo, &cached) {
		return &cached, nil
	}

	totalUsers, err := s.repo.TotalUserCount(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.repo.ActiveUserCount(ctx, tenantID, rf.Window)
	if err != nil {
		return nil, err
	}
	previousActive, err := s.repo.ActiveUserCount(ctx, tenantID, domainservice.PreviousWindow(rf.Window))
	if err != nil {
		return nil, err
	}

	var adoptionRate float64
	if totalUsers > 0 {
		adoptionRate = math.Round(float64(activeUsers)/float64(totalUsers)*1000) / 10
	}

	out := &dto.UserStatisticsData{
		TotalUsers:     totalUsers,
		AIServiceUsers: activeUsers,
		AdoptionRate:   adoptionRate,
		Growth:         domainservice.Growth(activeUsers, previousActive),
	}

	s.cacheSet(ctx, tenantID, endpointUserStatistics, rf.Echo, out)
	s.auditServed(ctx, tenantID, endpointUserStatistics)
	return out, nil
}

// ChartData fans out the four filterable chart sections concurrently.
// Each section settles on its own; a failed section carries its error
// code while the others still return data.
func (s *dashboardAppServiceImpl) ChartData(ctx context.Context, tenantID int64, f models.DateFilter) (*dto.ChartData, *models.FilterEcho, error) {
	rf, err := s.resolveFilter(ctx, tenantID, f, endpointChartData)
	if err != nil {
		return nil, nil, err
	}

	var data dto.ChartData
	var g errgroup.Group
	g.Go(func() error {
		points, err := s.usersTrend(ctx, tenantID, rf)
		data.UsersTrend = chartSection(points, err)
		return nil
	})
	g.Go(func() error {
		rows, err := s.modelDistribution(ctx, tenantID, rf)
		data.ModelDistribution = chartSection(rows, err)
		return nil
	})
	g.Go(func() error {
		rows, err := s.departmentDistribution(ctx, tenantID, rf)
		data.DepartmentDistribution = chartSection(rows, err)
		return nil
	})
	g.Go(func() error {
		stats, err := s.userStatistics(ctx, tenantID, rf)
		data.UserStatistics = chartSection(stats, err)
		return nil
	})
	// Closures always return nil; sections settle independently.
	_ = g.Wait()

	return &data, &rf.Echo, nil
}

func chartSection(data interface{}, err error) dto.ChartSection {
	if err != nil {
		code := string(constants.ErrCodeInternal)
		if appErr, ok := apperrors.AsAppError(err); ok {
			code = string(appErr.Code())
		}
		return dto.ChartSection{Error: code}
	}
	return dto.ChartSection{Data: data}
}
