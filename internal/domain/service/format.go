package service

import (
	"fmt"
	"math"
	"strconv"
)

// FormatCount renders dashboard card values. Counts above 999 collapse to
// a one-decimal "K" form, half-up rounded; everything else is the plain
// integer string.
//
//	999   -> "999"
//	1000  -> "1.0K"
//	12450 -> "12.5K"
func FormatCount(v int64) string {
	if v <= 999 {
		return strconv.FormatInt(v, 10)
	}
	thousands := math.Round(float64(v)/100) / 10
	return strconv.FormatFloat(thousands, 'f', 1, 64) + "K"
}

// FormatGrowth renders a growth percentage as a signed trend label,
// e.g. "+12.5%" or "-3.0%".
func FormatGrowth(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatCost renders a cost sum with a currency prefix and two decimals.
func FormatCost(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// FormatPercent renders a ratio already scaled to 0..100 with one decimal.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
