package models

import (
	"time"

	"github.com/dashiq/reporting/pkg/constants"
)

// UsageTotals holds the window-wide sums over prompt sessions.
type UsageTotals struct {
	TotalRequests int64
	TotalTokens   int64
	TotalCost     float64
}

// KPISnapshot holds the four headline counters for one window.
type KPISnapshot struct {
	TotalRequests  int64
	Violations     int64
	ShadowDetected int64
	ActiveUsers    int64
}

// DepartmentUsage is one aggregation row grouped by users.department.
type DepartmentUsage struct {
	Department    string
	UserCount     int64
	TotalRequests int64
	TotalTokens   int64
	TotalCost     float64
	Violations    int64
}

// DepartmentShare is one slice of the department distribution chart.
type DepartmentShare struct {
	Department string
	UserCount  int64
}

// DailyActiveUsers is one point of the users trend series.
type DailyActiveUsers struct {
	Date  time.Time
	Users int64
}

// DailyUsage is one point of the usage trend series.
type DailyUsage struct {
	Date     time.Time
	Requests int64
	Tokens   int64
	Cost     float64
}

// ModelUsage is one aggregation row grouped by model_name.
type ModelUsage struct {
	ModelName     string
	UserCount     int64
	SessionCount  int64
	TotalRequests int64
	TotalCost     float64
}

// DenyEvent is one recent policy denial with its derived risk bucket.
type DenyEvent struct {
	UserName   string
	UserEmail  string
	ModelName  string
	Reason     string
	Risk       constants.RiskLevel
	OccurredAt time.Time
}

// HeatmapBucket is one non-empty (day-of-week, hour) count from the store.
// DOW follows Postgres EXTRACT(DOW): 0 = Sunday.
type HeatmapBucket struct {
	DayOfWeek int
	Hour      int
	Count     int64
}

// UserStatistics holds the adoption counters for one window.
type UserStatistics struct {
	TotalUsers     int64
	AIServiceUsers int64
}
