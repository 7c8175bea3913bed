package service

import (
	"github.com/dashiq/reporting/internal/domain/models"
)

// heatmapDays follows Postgres EXTRACT(DOW) ordering: 0 = Sunday.
var heatmapDays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// HeatmapRow is one day row of the shadow AI heatmap, 24 hourly cells.
type HeatmapRow struct {
	Day   string  `json:"day"`
	Hours []int64 `json:"hours"`
}

// BuildHeatmap expands sparse (day, hour) buckets into the full 7x24 grid.
// Every cell is zero-filled before bucket counts are applied, so the output
// always contains exactly 168 cells. Buckets outside the grid are dropped.
func BuildHeatmap(buckets []models.HeatmapBucket) []HeatmapRow {
	rows := make([]HeatmapRow, len(heatmapDays))
	for i, day := range heatmapDays {
		rows[i] = HeatmapRow{Day: day, Hours: make([]int64, 24)}
	}

	for _, b := range buckets {
		if b.DayOfWeek < 0 || b.DayOfWeek > 6 || b.Hour < 0 || b.Hour > 23 {
			continue
		}
		rows[b.DayOfWeek].Hours[b.Hour] += b.Count
	}

	return rows
}
