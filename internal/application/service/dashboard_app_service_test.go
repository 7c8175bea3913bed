package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashiq/reporting/internal/domain/models"
	repomocks "github.com/dashiq/reporting/internal/domain/repository/mocks"
	domainservice "github.com/dashiq/reporting/internal/domain/service"
	"github.com/dashiq/reporting/internal/infrastructure/monitoring"
	"github.com/dashiq/reporting/internal/infrastructure/persistence/memory"
	"github.com/dashiq/reporting/pkg/constants"
	apperrors "github.com/dashiq/reporting/pkg/errors"
	"github.com/dashiq/reporting/pkg/logger"
)

var testNow = time.Date(2025, time.November, 18, 14, 30, 0, 0, time.UTC)

const testTenant = int64(7)

func newTestService(repo *repomocks.MockReportRepository) *dashboardAppServiceImpl {
	svc := NewDashboardAppService(repo, memory.NewCacheManager(), nil, nil, logger.NewNoopLogger()).(*dashboardAppServiceImpl)
	svc.now = func() time.Time { return testNow }
	return svc
}

func novemberWindow() models.Window {
	start := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	return models.Window{Start: start, End: start.AddDate(0, 1, 0)}
}

func TestKPIComputesTrendsFromPreviousWindow(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)

	current := novemberWindow()
	previous := domainservice.PreviousWindow(current)

	repo.On("UsageTotals", mock.Anything, testTenant, current).
		Return(models.UsageTotals{TotalRequests: 1500, TotalTokens: 90000, TotalCost: 42.5}, nil)
	repo.On("UsageTotals", mock.Anything, testTenant, previous).
		Return(models.UsageTotals{TotalRequests: 1000}, nil)
	repo.On("ViolationCount", mock.Anything, testTenant, current).Return(int64(30), nil)
	repo.On("ViolationCount", mock.Anything, testTenant, previous).Return(int64(40), nil)
	repo.On("ShadowEventCount", mock.Anything, testTenant, current).Return(int64(12), nil)
	repo.On("ShadowEventCount", mock.Anything, testTenant, previous).Return(int64(0), nil)
	repo.On("ActiveUserCount", mock.Anything, testTenant, current).Return(int64(85), nil)
	repo.On("ActiveUserCount", mock.Anything, testTenant, previous).Return(int64(85), nil)

	data, echo, err := svc.KPI(context.Background(), testTenant, models.DateFilter{})
	require.NoError(t, err)
	require.NotNil(t, data)

	assert.Equal(t, "1.5K", data.TotalAIRequests.Value)
	assert.Equal(t, "+50.0%", data.TotalAIRequests.Trend)
	assert.True(t, data.TotalAIRequests.TrendUp)

	assert.Equal(t, "30", data.PolicyViolations.Value)
	assert.Equal(t, "-25.0%", data.PolicyViolations.Trend)
	assert.False(t, data.PolicyViolations.TrendUp)

	// Zero previous with positive current reports 100% growth.
	assert.Equal(t, "+100.0%", data.ShadowAIDetected.Trend)

	assert.Equal(t, "+0.0%", data.AIServiceUsers.Trend)

	require.NotNil(t, echo)
	assert.Equal(t, "all", echo.Year)
	assert.Equal(t, constants.FilterTypeMonth, echo.Period)
}

func TestKPIServesSecondRequestFromCache(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)

	repo.On("UsageTotals", mock.Anything, testTenant, mock.Anything).Return(models.UsageTotals{TotalRequests: 10}, nil)
	repo.On("ViolationCount", mock.Anything, testTenant, mock.Anything).Return(int64(1), nil)
	repo.On("ShadowEventCount", mock.Anything, testTenant, mock.Anything).Return(int64(2), nil)
	repo.On("ActiveUserCount", mock.Anything, testTenant, mock.Anything).Return(int64(3), nil)

	first, _, err := svc.KPI(context.Background(), testTenant, models.DateFilter{Year: "2025", Month: "11"})
	require.NoError(t, err)
	second, _, err := svc.KPI(context.Background(), testTenant, models.DateFilter{Year: "2025", Month: "11"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "UsageTotals", 2) // current + previous, once each
}

func TestCacheLookupsAreCounted(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)
	svc.metrics = monitoring.NewMetricsWith(prometheus.NewRegistry())

	repo.On("UsageTotals", mock.Anything, testTenant, mock.Anything).Return(models.UsageTotals{TotalRequests: 10}, nil)
	repo.On("ViolationCount", mock.Anything, testTenant, mock.Anything).Return(int64(1), nil)
	repo.On("ShadowEventCount", mock.Anything, testTenant, mock.Anything).Return(int64(2), nil)
	repo.On("ActiveUserCount", mock.Anything, testTenant, mock.Anything).Return(int64(3), nil)

	_, _, err := svc.KPI(context.Background(), testTenant, models.DateFilter{Year: "2025", Month: "11"})
	require.NoError(t, err)
	_, _, err = svc.KPI(context.Background(), testTenant, models.DateFilter{Year: "2025", Month: "11"})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.CacheAccess.WithLabelValues("miss")))
	assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.CacheAccess.WithLabelValues("hit")))
}

func TestKPIRejectsMalformedFilter(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)

	_, _, err := svc.KPI(context.Background(), testTenant, models.DateFilter{Year: "twenty"})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidFilterError(err))
	repo.AssertNotCalled(t, "UsageTotals")
}

func TestKPIPropagatesQueryFailure(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)

	queryErr := apperrors.ErrQueryFailure("violation_count")
	repo.On("UsageTotals", mock.Anything, testTenant, mock.Anything).Return(models.UsageTotals{}, nil)
	repo.On("ViolationCount", mock.Anything, testTenant, mock.Anything).Return(int64(0), queryErr)
	repo.On("ShadowEventCount", mock.Anything, testTenant, mock.Anything).Return(int64(0), nil)
	repo.On("ActiveUserCount", mock.Anything, testTenant, mock.Anything).Return(int64(0), nil)

	_, _, err := svc.KPI(context.Background(), testTenant, models.DateFilter{})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeQueryFailure, appErr.Code())
}

func TestRecentEventsValidatesLimit(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)

	for _, limit := range []int{0, -5, 101} {
		_, err := svc.RecentEvents(context.Background(), testTenant, limit)
		require.Error(t, err, "limit %d", limit)
		assert.True(t, apperrors.IsInvalidFilterError(err))
	}
	repo.AssertNotCalled(t, "RecentDenyEvents")
}

func TestRecentEventsFormatsRows(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)

	occurred := time.Date(2025, time.November, 17, 9, 5, 0, 0, time.UTC)
	repo.On("RecentDenyEvents", mock.Anything, testTenant, mock.Anything, 10).
		Return([]models.DenyEvent{{
			UserName:   "Dana Reyes",
			UserEmail:  "dana@example.com",
			ModelName:  "gpt-4o",
			Reason:     "PII_DETECTED",
			Risk:       constants.RiskLevelCritical,
			OccurredAt: occurred,
		}}, nil)

	rows, err := svc.RecentEvents(context.Background(), testTenant, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dana Reyes", rows[0].User)
	assert.Equal(t, "Critical", rows[0].RiskLevel)
	assert.Equal(t, "09:05", rows[0].Time)
}

func TestShadowHeatmapAlwaysFullGrid(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)

	repo.On("ShadowEventBuckets", mock.Anything, testTenant, mock.Anything).
		Return([]models.HeatmapBucket{{DayOfWeek: 3, Hour: 15, Count: 9}}, nil)

	rows, err := svc.ShadowHeatmap(context.Background(), testTenant)
	require.NoError(t, err)
	require.Len(t, rows, 7)

	cells := 0
	for _, row := range rows {
		cells += len(row.Hours)
	}
	assert.Equal(t, 168, cells)
	assert.Equal(t, "Wed", rows[3].Day)
	assert.Equal(t, int64(9), rows[3].Hours[15])
	assert.Equal(t, int64(0), rows[0].Hours[0])
}

func TestUserStatisticsAdoptionAndGrowth(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)

	current := novemberWindow()
	previous := domainservice.PreviousWindow(current)

	repo.On("TotalUserCount", mock.Anything, testTenant).Return(int64(200), nil)
	repo.On("ActiveUserCount", mock.Anything, testTenant, current).Return(int64(85), nil)
	repo.On("ActiveUserCount", mock.Anything, testTenant, previous).Return(int64(50), nil)

	stats, echo, err := svc.UserStatistics(context.Background(), testTenant, models.DateFilter{})
	require.NoError(t, err)
	require.NotNil(t, echo)
	assert.Equal(t, int64(200), stats.TotalUsers)
	assert.Equal(t, int64(85), stats.AIServiceUsers)
	assert.InDelta(t, 42.5, stats.AdoptionRate, 0.001)
	assert.InDelta(t, 70.0, stats.Growth, 0.001)
}

func TestUserStatisticsZeroUsers(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)

	repo.On("TotalUserCount", mock.Anything, testTenant).Return(int64(0), nil)
	repo.On("ActiveUserCount", mock.Anything, testTenant, mock.Anything).Return(int64(0), nil)

	stats, _, err := svc.UserStatistics(context.Background(), testTenant, models.DateFilter{})
	require.NoError(t, err)
	assert.Zero(t, stats.AdoptionRate)
	assert.Zero(t, stats.Growth)
}

func TestChartDataSectionsSettleIndependently(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)

	day := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	repo.On("DailyActiveUsers", mock.Anything, testTenant, mock.Anything).
		Return([]models.DailyActiveUsers{{Date: day, Users: 12}}, nil)
	repo.On("ModelDistribution", mock.Anything, testTenant, mock.Anything).
		Return(nil, apperrors.ErrQueryFailure("model_distribution"))
	repo.On("DepartmentDistribution", mock.Anything, testTenant, mock.Anything).
		Return([]models.DepartmentShare{{Department: "Legal", UserCount: 4}}, nil)
	repo.On("TotalUserCount", mock.Anything, testTenant).Return(int64(100), nil)
	repo.On("ActiveUserCount", mock.Anything, testTenant, mock.Anything).Return(int64(20), nil)

	data, echo, err := svc.ChartData(context.Background(), testTenant, models.DateFilter{Year: "2025", Month: "11"})
	require.NoError(t, err)
	require.NotNil(t, echo)
	assert.Equal(t, "2025", echo.Year)

	assert.NotNil(t, data.UsersTrend.Data)
	assert.Empty(t, data.UsersTrend.Error)

	assert.Nil(t, data.ModelDistribution.Data)
	assert.Equal(t, string(constants.ErrCodeQueryFailure), data.ModelDistribution.Error)

	assert.NotNil(t, data.DepartmentDistribution.Data)
	assert.NotNil(t, data.UserStatistics.Data)
}

func TestUsersTrendLabelsDays(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)

	repo.On("DailyActiveUsers", mock.Anything, testTenant, mock.Anything).
		Return([]models.DailyActiveUsers{
			{Date: time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC), Users: 12},
			{Date: time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC), Users: 15},
		}, nil)

	points, _, err := svc.UsersTrend(context.Background(), testTenant, models.DateFilter{Year: "2025", Month: "11"})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "Nov 03", points[0].Date)
	assert.Equal(t, int64(12), points[0].Users)
	assert.Equal(t, "Nov 04", points[1].Date)
}

func TestDepartmentUsageUsesTrailingWeek(t *testing.T) {
	repo := new(repomocks.MockReportRepository)
	svc := newTestService(repo)

	expected := domainservice.TrailingDays(7, testNow)
	repo.On("DepartmentUsage", mock.Anything, testTenant, expected).
		Return([]models.DepartmentUsage{{
			Department:    "Engineering",
			UserCount:     14,
			TotalRequests: 2100,
			TotalTokens:   550000,
			TotalCost:     123.456,
			Violations:    3,
		}}, nil)

	rows, err := svc.DepartmentUsage(context.Background(), testTenant)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Engineering", rows[0].Department)
	assert.Equal(t, "$123.46", rows[0].TotalCost)
	repo.AssertExpectations(t)
}
