package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dashiq/reporting/pkg/constants"
)

func TestRiskFromReasons(t *testing.T) {
	tests := []struct {
		name    string
		reasons []string
		want    constants.RiskLevel
	}{
		{"pii", []string{"PII_DETECTED"}, constants.RiskLevelCritical},
		{"data leak", []string{"DATA_LEAK_PREVENTION"}, constants.RiskLevelCritical},
		{"injection", []string{"PROMPT_INJECTION_DETECTED"}, constants.RiskLevelHigh},
		{"usage limit", []string{"USAGE_LIMIT_EXCEEDED"}, constants.RiskLevelMedium},
		{"unknown code", []string{"SOMETHING_ELSE"}, constants.RiskLevelLow},
		{"empty", nil, constants.RiskLevelLow},
		{"severity wins over order", []string{"USAGE_LIMIT_EXCEEDED", "PII_DETECTED"}, constants.RiskLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskFromReasons(tt.reasons))
		})
	}
}
