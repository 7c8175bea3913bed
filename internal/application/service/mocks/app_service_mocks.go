package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dashiq/reporting/internal/application/dto"
	"github.com/dashiq/reporting/internal/domain/models"
	domainservice "github.com/dashiq/reporting/internal/domain/service"
)

type MockDashboardAppService struct {
	mock.Mock
}

func (m *MockDashboardAppService) KPI(ctx context.Context, tenantID int64, f models.DateFilter) (*dto.KPIData, *models.FilterEcho, error) {
	args := m.Called(ctx, tenantID, f)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*dto.KPIData), args.Get(1).(*models.FilterEcho), args.Error(2)
}

func (m *MockDashboardAppService) DepartmentUsage(ctx context.Context, tenantID int64) ([]dto.DepartmentUsageRow, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.DepartmentUsageRow), args.Error(1)
}

func (m *MockDashboardAppService) RecentEvents(ctx context.Context, tenantID int64, limit int) ([]dto.RecentEventRow, error) {
	args := m.Called(ctx, tenantID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RecentEventRow), args.Error(1)
}

func (m *MockDashboardAppService) ShadowHeatmap(ctx context.Context, tenantID int64) ([]domainservice.HeatmapRow, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domainservice.HeatmapRow), args.Error(1)
}

func (m *MockDashboardAppService) UsersTrend(ctx context.Context, tenantID int64, f models.DateFilter) ([]dto.UsersTrendPoint, *models.FilterEcho, error) {
	args := m.Called(ctx, tenantID, f)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]dto.UsersTrendPoint), args.Get(1).(*models.FilterEcho), args.Error(2)
}

func (m *MockDashboardAppService) ModelDistribution(ctx context.Context, tenantID int64, f models.DateFilter) ([]dto.ModelDistributionRow, *models.FilterEcho, error) {
	args := m.Called(ctx, tenantID, f)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]dto.ModelDistributionRow), args.Get(1).(*models.FilterEcho), args.Error(2)
}

func (m *MockDashboardAppService) DepartmentDistribution(ctx context.Context, tenantID int64, f models.DateFilter) ([]dto.DepartmentShareRow, *models.FilterEcho, error) {
	args := m.Called(ctx, tenantID, f)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]dto.DepartmentShareRow), args.Get(1).(*models.FilterEcho), args.Error(2)
}

func (m *MockDashboardAppService) UsageTrend(ctx context.Context, tenantID int64) ([]dto.UsageTrendPoint, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.UsageTrendPoint), args.Error(1)
}

func (m *MockDashboardAppService) UserStatistics(ctx context.Context, tenantID int64, f models.DateFilter) (*dto.UserStatisticsData, *models.FilterEcho, error) {
	args := m.Called(ctx, tenantID, f)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*dto.UserStatisticsData), args.Get(1).(*models.FilterEcho), args.Error(2)
}

func (m *MockDashboardAppService) ChartData(ctx context.Context, tenantID int64, f models.DateFilter) (*dto.ChartData, *models.FilterEcho, error) {
	args := m.Called(ctx, tenantID, f)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*dto.ChartData), args.Get(1).(*models.FilterEcho), args.Error(2)
}

type MockPromptCheckAppService struct {
	mock.Mock
}

func (m *MockPromptCheckAppService) Check(ctx context.Context, tenantID int64, req models.PromptCheckRequest) (*models.PromptCheckResult, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromptCheckResult), args.Error(1)
}
