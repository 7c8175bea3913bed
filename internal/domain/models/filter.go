package models

import (
	"time"

	"github.com/dashiq/reporting/pkg/constants"
)

// DateFilter carries the raw dashboard filter inputs as received from the
// query string. Empty and "all" values mean the component is unset.
type DateFilter struct {
	Year  string `form:"year" json:"year"`
	Month string `form:"month" json:"month"`
	Week  string `form:"week" json:"week"`
}

// IsSet reports whether a filter component carries a concrete value.
func IsSet(component string) bool {
	return component != "" && component != "all"
}

// Window is a half-open UTC time range [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t falls inside the half-open range.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ResolvedFilter pairs the computed window with the echo payload returned
// to the caller alongside every report.
type ResolvedFilter struct {
	Window Window
	Echo   FilterEcho
}

// FilterEcho is the filter block embedded in every response envelope.
type FilterEcho struct {
	Year   string               `json:"year"`
	Month  string               `json:"month"`
	Week   string               `json:"week"`
	Period constants.FilterType `json:"period"`
}
