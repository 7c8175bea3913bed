package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashiq/reporting/internal/domain/models"
	"github.com/dashiq/reporting/pkg/constants"
	"github.com/dashiq/reporting/pkg/errors"
)

var testNow = time.Date(2025, time.November, 18, 14, 30, 0, 0, time.UTC)

func TestResolveWindow_FullYear(t *testing.T) {
	rf, err := ResolveWindow(models.DateFilter{Year: "2025"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), rf.Window.Start)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), rf.Window.End)
	assert.Equal(t, constants.FilterTypeYear, rf.Echo.Period)
}

func TestResolveWindow_CalendarMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  string
		month string
		days  int
	}{
		{"january", "2025", "1", 31},
		{"february", "2025", "2", 28},
		{"leap february", "2024", "2", 29},
		{"april", "2025", "4", 30},
		{"december", "2025", "12", 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rf, err := ResolveWindow(models.DateFilter{Year: tt.year, Month: tt.month}, testNow)
			require.NoError(t, err)

			assert.Equal(t, constants.FilterTypeMonth, rf.Echo.Period)
			assert.Equal(t, 1, rf.Window.Start.Day())
			assert.Equal(t, float64(tt.days*24), rf.Window.Duration().Hours())
		})
	}
}

func TestResolveWindow_WeekBlocks(t *testing.T) {
	// November 2025 has 30 days: week 4 covers days 22-28, week 5 is
	// clamped to days 29-30.
	rf, err := ResolveWindow(models.DateFilter{Year: "2025", Month: "11", Week: "4"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 22, 0, 0, 0, 0, time.UTC), rf.Window.Start)
	assert.Equal(t, time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC), rf.Window.End)
	assert.Equal(t, constants.FilterTypeWeek, rf.Echo.Period)

	rf, err = ResolveWindow(models.DateFilter{Year: "2025", Month: "11", Week: "5"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC), rf.Window.Start)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), rf.Window.End)
}

func TestResolveWindow_Week5OfFebruaryRejected(t *testing.T) {
	// February 2025 has 28 days; week 5 would start on day 29.
	_, err := ResolveWindow(models.DateFilter{Year: "2025", Month: "2", Week: "5"}, testNow)
	require.Error(t, err)

	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeInvalidFilter, appErr.Code())
}

func TestResolveWindow_DefaultsToCurrentMonth(t *testing.T) {
	for _, f := range []models.DateFilter{
		{},
		{Year: "all"},
		{Year: "all", Month: "all", Week: "all"},
		{Month: "7"}, // month without year is ignored
	} {
		rf, err := ResolveWindow(f, testNow)
		require.NoError(t, err)

		assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), rf.Window.Start)
		assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), rf.Window.End)
		assert.Equal(t, constants.FilterTypeMonth, rf.Echo.Period)
	}
}

func TestResolveWindow_MalformedComponents(t *testing.T) {
	tests := []struct {
		name   string
		filter models.DateFilter
	}{
		{"non-numeric year", models.DateFilter{Year: "twenty"}},
		{"year out of range", models.DateFilter{Year: "1850"}},
		{"non-numeric month", models.DateFilter{Year: "2025", Month: "nov"}},
		{"month out of range", models.DateFilter{Year: "2025", Month: "13"}},
		{"week zero", models.DateFilter{Year: "2025", Month: "11", Week: "0"}},
		{"week six", models.DateFilter{Year: "2025", Month: "11", Week: "6"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveWindow(tt.filter, testNow)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidFilterError(err))
		})
	}
}

func TestResolveWindow_EchoPreservesInputs(t *testing.T) {
	rf, err := ResolveWindow(models.DateFilter{Year: "2025", Month: "3"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "2025", rf.Echo.Year)
	assert.Equal(t, "3", rf.Echo.Month)
	assert.Equal(t, "all", rf.Echo.Week)
}

func TestPreviousWindow_AbutsWithEqualDuration(t *testing.T) {
	windows := []models.Window{
		{Start: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)},
		{Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Start: time.Date(2025, 11, 22, 0, 0, 0, 0, time.UTC), End: time.Date(2025, 11, 29, 0, 0, 0, 0, time.UTC)},
	}

	for _, w := range windows {
		prev := PreviousWindow(w)
		assert.Equal(t, w.Start, prev.End, "no gap or overlap")
		assert.Equal(t, w.Duration(), prev.Duration(), "equal duration")
	}
}

func TestTrailingDays(t *testing.T) {
	w := TrailingDays(7, testNow)
	assert.Equal(t, testNow, w.End)
	assert.Equal(t, testNow.AddDate(0, 0, -7), w.Start)
}

func TestGrowth(t *testing.T) {
	assert.Equal(t, 0.0, Growth(0, 0))
	assert.Equal(t, 100.0, Growth(5, 0))
	assert.Equal(t, 50.0, Growth(15, 10))
	assert.Equal(t, -50.0, Growth(5, 10))
}

func TestWindowContains(t *testing.T) {
	w := models.Window{
		Start: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Contains(w.Start), "start is inclusive")
	assert.False(t, w.Contains(w.End), "end is exclusive")
	assert.True(t, w.Contains(time.Date(2025, 11, 30, 23, 59, 59, 0, time.UTC)))
}
