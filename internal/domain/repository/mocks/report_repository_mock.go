package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dashiq/reporting/internal/domain/models"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) UsageTotals(ctx context.Context, tenantID int64, w models.Window) (models.UsageTotals, error) {
	args := m.Called(ctx, tenantID, w)
	return args.Get(0).(models.UsageTotals), args.Error(1)
}

func (m *MockReportRepository) ViolationCount(ctx context.Context, tenantID int64, w models.Window) (int64, error) {
	args := m.Called(ctx, tenantID, w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) ShadowEventCount(ctx context.Context, tenantID int64, w models.Window) (int64, error) {
	args := m.Called(ctx, tenantID, w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) ActiveUserCount(ctx context.Context, tenantID int64, w models.Window) (int64, error) {
	args := m.Called(ctx, tenantID, w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) TotalUserCount(ctx context.Context, tenantID int64) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) DepartmentUsage(ctx context.Context, tenantID int64, w models.Window) ([]models.DepartmentUsage, error) {
	args := m.Called(ctx, tenantID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DepartmentUsage), args.Error(1)
}

func (m *MockReportRepository) DepartmentDistribution(ctx context.Context, tenantID int64, w models.Window) ([]models.DepartmentShare, error) {
	args := m.Called(ctx, tenantID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DepartmentShare), args.Error(1)
}

func (m *MockReportRepository) DailyActiveUsers(ctx context.Context, tenantID int64, w models.Window) ([]models.DailyActiveUsers, error) {
	args := m.Called(ctx, tenantID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyActiveUsers), args.Error(1)
}

func (m *MockReportRepository) DailyUsage(ctx context.Context, tenantID int64, w models.Window) ([]models.DailyUsage, error) {
	args := m.Called(ctx, tenantID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyUsage), args.Error(1)
}

func (m *MockReportRepository) ModelDistribution(ctx context.Context, tenantID int64, w models.Window) ([]models.ModelUsage, error) {
	args := m.Called(ctx, tenantID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ModelUsage), args.Error(1)
}

func (m *MockReportRepository) RecentDenyEvents(ctx context.Context, tenantID int64, w models.Window, limit int) ([]models.DenyEvent, error) {
	args := m.Called(ctx, tenantID, w, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DenyEvent), args.Error(1)
}

func (m *MockReportRepository) ShadowEventBuckets(ctx context.Context, tenantID int64, w models.Window) ([]models.HeatmapBucket, error) {
	args := m.Called(ctx, tenantID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HeatmapBucket), args.Error(1)
}
