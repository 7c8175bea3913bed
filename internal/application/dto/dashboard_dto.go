package dto

import (
	"github.com/dashiq/reporting/internal/domain/models"
	domainservice "github.com/dashiq/reporting/internal/domain/service"
)

// KPICard is one dashboard summary card. Value carries the formatted
// count (e.g. "12.4K") and Trend the signed growth versus the previous
// window of equal duration.
type KPICard struct {
	Value   string `json:"value"`
	Trend   string `json:"trend"`
	TrendUp bool   `json:"trendUp"`
}

// KPIData groups the four headline cards.
type KPIData struct {
	TotalAIRequests  KPICard `json:"totalAIRequests"`
	PolicyViolations KPICard `json:"policyViolations"`
	ShadowAIDetected KPICard `json:"shadowAIDetected"`
	AIServiceUsers   KPICard `json:"aiServiceUsers"`
}

// DepartmentUsageRow is one row of the department usage table.
type DepartmentUsageRow struct {
	Department    string `json:"department"`
	UserCount     int64  `json:"userCount"`
	TotalRequests int64  `json:"totalRequests"`
	TotalTokens   int64  `json:"totalTokens"`
	TotalCost     string `json:"totalCost"`
	Violations    int64  `json:"violations"`
}

// DepartmentShareRow is one slice of the department distribution chart.
type DepartmentShareRow struct {
	Department string `json:"department"`
	UserCount  int64  `json:"userCount"`
}

// UsersTrendPoint is one day of the active-users series. Date carries a
// "Mon DD" display label.
type UsersTrendPoint struct {
	Date  string `json:"date"`
	Users int64  `json:"users"`
}

// UsageTrendPoint is one day of the usage series.
type UsageTrendPoint struct {
	Date     string  `json:"date"`
	Requests int64   `json:"requests"`
	Tokens   int64   `json:"tokens"`
	Cost     float64 `json:"cost"`
}

// ModelDistributionRow is one row of the model distribution chart.
type ModelDistributionRow struct {
	ModelName     string `json:"modelName"`
	UserCount     int64  `json:"userCount"`
	SessionCount  int64  `json:"sessionCount"`
	TotalRequests int64  `json:"totalRequests"`
	TotalCost     string `json:"totalCost"`
}

// RecentEventRow is one recent high-risk denial, formatted for display.
type RecentEventRow struct {
	User      string `json:"user"`
	Email     string `json:"email"`
	Model     string `json:"model"`
	Reason    string `json:"reason"`
	RiskLevel string `json:"riskLevel"`
	Time      string `json:"time"`
}

// UserStatisticsData holds the adoption counters and growth.
type UserStatisticsData struct {
	TotalUsers     int64   `json:"totalUsers"`
	AIServiceUsers int64   `json:"aiServiceUsers"`
	AdoptionRate   float64 `json:"adoptionRate"`
	Growth         float64 `json:"growth"`
}

// ChartSection holds one independently-fetched slice of the combined
// chart payload. Exactly one of Data and Error is set; a failed section
// never suppresses its siblings.
type ChartSection struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// ChartData is the fan-out response for a dashboard filter change.
type ChartData struct {
	UsersTrend             ChartSection `json:"usersTrend"`
	ModelDistribution      ChartSection `json:"modelDistribution"`
	DepartmentDistribution ChartSection `json:"departmentDistribution"`
	UserStatistics         ChartSection `json:"userStatistics"`
}

// trendLabel renders the "Mon DD" day label used by the trend charts.
const trendLabel = "Jan 02"

// NewDepartmentUsageRows maps department aggregation rows for display.
func NewDepartmentUsageRows(rows []models.DepartmentUsage) []DepartmentUsageRow {
	out := make([]DepartmentUsageRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, DepartmentUsageRow{
			Department:    r.Department,
			UserCount:     r.UserCount,
			TotalRequests: r.TotalRequests,
			TotalTokens:   r.TotalTokens,
			TotalCost:     domainservice.FormatCost(r.TotalCost),
			Violations:    r.Violations,
		})
	}
	return out
}

// NewDepartmentShareRows maps department distribution rows.
func NewDepartmentShareRows(rows []models.DepartmentShare) []DepartmentShareRow {
	out := make([]DepartmentShareRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, DepartmentShareRow{Department: r.Department, UserCount: r.UserCount})
	}
	return out
}

// NewUsersTrendPoints maps daily active-user counts to labeled points.
func NewUsersTrendPoints(rows []models.DailyActiveUsers) []UsersTrendPoint {
	out := make([]UsersTrendPoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, UsersTrendPoint{
			Date:  r.Date.UTC().Format(trendLabel),
			Users: r.Users,
		})
	}
	return out
}

// NewUsageTrendPoints maps daily usage sums to labeled points.
func NewUsageTrendPoints(rows []models.DailyUsage) []UsageTrendPoint {
	out := make([]UsageTrendPoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, UsageTrendPoint{
			Date:     r.Date.UTC().Format(trendLabel),
			Requests: r.Requests,
			Tokens:   r.Tokens,
			Cost:     r.Cost,
		})
	}
	return out
}

// NewModelDistributionRows maps model aggregation rows for display.
func NewModelDistributionRows(rows []models.ModelUsage) []ModelDistributionRow {
	out := make([]ModelDistributionRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ModelDistributionRow{
			ModelName:     r.ModelName,
			UserCount:     r.UserCount,
			SessionCount:  r.SessionCount,
			TotalRequests: r.TotalRequests,
			TotalCost:     domainservice.FormatCost(r.TotalCost),
		})
	}
	return out
}

// NewRecentEventRows maps deny events, rendering the event time as an
// HH:MM UTC label.
func NewRecentEventRows(rows []models.DenyEvent) []RecentEventRow {
	out := make([]RecentEventRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, RecentEventRow{
			User:      r.UserName,
			Email:     r.UserEmail,
			Model:     r.ModelName,
			Reason:    r.Reason,
			RiskLevel: string(r.Risk),
			Time:      r.OccurredAt.UTC().Format("15:04"),
		})
	}
	return out
}
