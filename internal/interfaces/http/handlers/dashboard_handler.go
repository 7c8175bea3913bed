// Package handlers implements the HTTP handlers for the reporting API.
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dashiq/reporting/internal/application/dto"
	"github.com/dashiq/reporting/internal/application/service"
	"github.com/dashiq/reporting/internal/domain/models"
	"github.com/dashiq/reporting/internal/interfaces/http/middleware"
	apperrors "github.com/dashiq/reporting/pkg/errors"
)

const defaultEventLimit = 10

// DashboardHandler serves the aggregated dashboard reports.
type DashboardHandler struct {
	dashboard service.DashboardAppService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboard service.DashboardAppService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// bindFilter reads the optional year/month/week query parameters.
func bindFilter(c *gin.Context) models.DateFilter {
	return models.DateFilter{
		Year:  c.Query("year"),
		Month: c.Query("month"),
		Week:  c.Query("week"),
	}
}

// tenant resolves the authenticated tenant or aborts with 401.
func tenant(c *gin.Context) (int64, bool) {
	id, ok := middleware.TenantID(c)
	if !ok {
		dto.SendError(c, apperrors.ErrUnauthorized("tenant not resolved"))
	}
	return id, ok
}

// KPI handles GET /api/dashboard/kpi.
func (h *DashboardHandler) KPI(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	data, filter, err := h.dashboard.KPI(c.Request.Context(), tenantID, bindFilter(c))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, data, filter)
}

// DepartmentUsage handles GET /api/dashboard/department-usage.
func (h *DashboardHandler) DepartmentUsage(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	rows, err := h.dashboard.DepartmentUsage(c.Request.Context(), tenantID)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, rows, nil)
}

// RecentEvents handles GET /api/dashboard/recent-events.
func (h *DashboardHandler) RecentEvents(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}

	limit := defaultEventLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			dto.SendError(c, apperrors.ErrInvalidFilter("limit is not numeric: "+raw))
			return
		}
		limit = parsed
	}

	rows, err := h.dashboard.RecentEvents(c.Request.Context(), tenantID, limit)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, rows, nil)
}

// ShadowHeatmap handles GET /api/dashboard/shadow-ai-heatmap.
func (h *DashboardHandler) ShadowHeatmap(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	rows, err := h.dashboard.ShadowHeatmap(c.Request.Context(), tenantID)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, rows, nil)
}

// UsersTrend handles GET /api/dashboard/users-trend.
func (h *DashboardHandler) UsersTrend(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	points, filter, err := h.dashboard.UsersTrend(c.Request.Context(), tenantID, bindFilter(c))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, points, filter)
}

// ModelDistribution handles GET /api/dashboard/model-distribution.
func (h *DashboardHandler) ModelDistribution(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	rows, filter, err := h.dashboard.ModelDistribution(c.Request.Context(), tenantID, bindFilter(c))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, rows, filter)
}

// DepartmentDistribution handles GET /api/dashboard/department-distribution.
func (h *DashboardHandler) DepartmentDistribution(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	rows, filter, err := h.dashboard.DepartmentDistribution(c.Request.Context(), tenantID, bindFilter(c))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, rows, filter)
}

// UsageTrend handles GET /api/dashboard/usage-trend.
func (h *DashboardHandler) UsageTrend(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	points, err := h.dashboard.UsageTrend(c.Request.Context(), tenantID)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, points, nil)
}

// UserStatistics handles GET /api/dashboard/user-statistics.
func (h *DashboardHandler) UserStatistics(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	stats, filter, err := h.dashboard.UserStatistics(c.Request.Context(), tenantID, bindFilter(c))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, stats, filter)
}

// ChartData handles GET /api/dashboard/chart-data, the combined fan-out
// for a dashboard filter change.
func (h *DashboardHandler) ChartData(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}
	data, filter, err := h.dashboard.ChartData(c.Request.Context(), tenantID, bindFilter(c))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, data, filter)
}
