package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{42, "42"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{12400, "12.4K"},
		{12450, "12.5K"},
		{999999, "1000.0K"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCount(tt.in), "FormatCount(%d)", tt.in)
	}
}

func TestFormatGrowth(t *testing.T) {
	assert.Equal(t, "+12.5%", FormatGrowth(12.5))
	assert.Equal(t, "+0.0%", FormatGrowth(0))
	assert.Equal(t, "-3.0%", FormatGrowth(-3))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.00", FormatCost(0))
	assert.Equal(t, "$1234.50", FormatCost(1234.5))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "64.3%", FormatPercent(64.26))
	assert.Equal(t, "100.0%", FormatPercent(100))
}
