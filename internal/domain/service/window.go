// Package service holds the pure domain logic of the reporting pipeline:
// date window resolution, period comparison, heatmap shaping and number
// formatting. Nothing in this package touches the store or the transport.
package service

import (
	"strconv"
	"time"

	"github.com/dashiq/reporting/internal/domain/models"
	"github.com/dashiq/reporting/pkg/constants"
	"github.com/dashiq/reporting/pkg/errors"
)

const (
	minFilterYear = 2000
	maxFilterYear = 2100
)

// ResolveWindow converts raw filter inputs into a half-open UTC window.
//
// Resolution is evaluated top-down, first matching branch wins:
//  1. year, month and week concrete: the fixed 7-day block of that month,
//     clamped to the month end.
//  2. year and month concrete: the calendar month.
//  3. year concrete: the calendar year.
//  4. nothing concrete: the current calendar month of now.
//
// A month or week value without the coarser components is ignored, matching
// the top-down policy. now is truncated to UTC before use.
func ResolveWindow(f models.DateFilter, now time.Time) (models.ResolvedFilter, error) {
	now = now.UTC()

	if !models.IsSet(f.Year) {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return resolved(f, constants.FilterTypeMonth, start, start.AddDate(0, 1, 0)), nil
	}

	year, err := parseComponent("year", f.Year, minFilterYear, maxFilterYear)
	if err != nil {
		return models.ResolvedFilter{}, err
	}

	if !models.IsSet(f.Month) {
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return resolved(f, constants.FilterTypeYear, start, start.AddDate(1, 0, 0)), nil
	}

	month, err := parseComponent("month", f.Month, 1, 12)
	if err != nil {
		return models.ResolvedFilter{}, err
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	if !models.IsSet(f.Week) {
		return resolved(f, constants.FilterTypeMonth, monthStart, nextMonth), nil
	}

	week, err := parseComponent("week", f.Week, 1, 5)
	if err != nil {
		return models.ResolvedFilter{}, err
	}

	// Fixed 7-day blocks: week w covers days (w-1)*7+1 through w*7.
	startDay := (week-1)*7 + 1
	daysInMonth := int(nextMonth.Sub(monthStart).Hours() / 24)
	if startDay > daysInMonth {
		return models.ResolvedFilter{}, errors.ErrFilterFieldOutOfRange("week", week).
			WithMetadata("days_in_month", daysInMonth)
	}

	start := monthStart.AddDate(0, 0, startDay-1)
	end := start.AddDate(0, 0, 7)
	if end.After(nextMonth) {
		end = nextMonth
	}

	return resolved(f, constants.FilterTypeWeek, start, end), nil
}

// TrailingDays returns the half-open window covering the last n whole days
// up to now, used by the fixed trailing-7-day report endpoints.
func TrailingDays(n int, now time.Time) models.Window {
	end := now.UTC()
	return models.Window{Start: end.AddDate(0, 0, -n), End: end}
}

// PreviousWindow derives the immediately preceding window of equal duration.
// The returned window abuts the input: previous.End == current.Start.
func PreviousWindow(w models.Window) models.Window {
	return models.Window{
		Start: w.Start.Add(-w.Duration()),
		End:   w.Start,
	}
}

// Growth computes the period-over-period growth percentage. A zero previous
// count yields 100 when the current count is positive and 0 otherwise.
func Growth(current, previous int64) float64 {
	if previous > 0 {
		return float64(current-previous) / float64(previous) * 100
	}
	if current > 0 {
		return 100
	}
	return 0
}

func resolved(f models.DateFilter, period constants.FilterType, start, end time.Time) models.ResolvedFilter {
	return models.ResolvedFilter{
		Window: models.Window{Start: start, End: end},
		Echo: models.FilterEcho{
			Year:   echoValue(f.Year),
			Month:  echoValue(f.Month),
			Week:   echoValue(f.Week),
			Period: period,
		},
	}
}

func echoValue(raw string) string {
	if raw == "" {
		return "all"
	}
	return raw
}

func parseComponent(name, raw string, min, max int) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.ErrInvalidFilter("filter field '" + name + "' is not numeric: " + raw).
			WithMetadata("field", name).
			WithMetadata("value", raw)
	}
	if v < min || v > max {
		return 0, errors.ErrFilterFieldOutOfRange(name, v)
	}
	return v, nil
}
