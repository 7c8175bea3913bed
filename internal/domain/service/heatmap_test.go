package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashiq/reporting/internal/domain/models"
)

func TestBuildHeatmap_EmptyInputIsZeroFilledGrid(t *testing.T) {
	rows := BuildHeatmap(nil)

	require.Len(t, rows, 7)
	cells := 0
	for _, row := range rows {
		require.Len(t, row.Hours, 24)
		cells += len(row.Hours)
		for _, v := range row.Hours {
			assert.Zero(t, v)
		}
	}
	assert.Equal(t, 168, cells)
}

func TestBuildHeatmap_DayOrdering(t *testing.T) {
	rows := BuildHeatmap(nil)

	days := make([]string, len(rows))
	for i, row := range rows {
		days[i] = row.Day
	}
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, days)
}

func TestBuildHeatmap_AppliesBuckets(t *testing.T) {
	rows := BuildHeatmap([]models.HeatmapBucket{
		{DayOfWeek: 0, Hour: 0, Count: 3},
		{DayOfWeek: 1, Hour: 9, Count: 12},
		{DayOfWeek: 6, Hour: 23, Count: 1},
	})

	assert.Equal(t, int64(3), rows[0].Hours[0])
	assert.Equal(t, int64(12), rows[1].Hours[9])
	assert.Equal(t, int64(1), rows[6].Hours[23])
}

func TestBuildHeatmap_DropsOutOfRangeBuckets(t *testing.T) {
	rows := BuildHeatmap([]models.HeatmapBucket{
		{DayOfWeek: 7, Hour: 0, Count: 5},
		{DayOfWeek: 0, Hour: 24, Count: 5},
		{DayOfWeek: -1, Hour: 3, Count: 5},
	})

	for _, row := range rows {
		for _, v := range row.Hours {
			assert.Zero(t, v)
		}
	}
}
