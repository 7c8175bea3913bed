package service

import (
	"github.com/dashiq/reporting/pkg/constants"
)

// RiskFromReasons maps deny reason codes to a severity bucket. The first
// matching rule wins, checked in decreasing severity order.
func RiskFromReasons(reasons []string) constants.RiskLevel {
	has := func(code string) bool {
		for _, r := range reasons {
			if r == code {
				return true
			}
		}
		return false
	}

	switch {
	case has("PII_DETECTED"), has("DATA_LEAK_PREVENTION"):
		return constants.RiskLevelCritical
	case has("PROMPT_INJECTION_DETECTED"):
		return constants.RiskLevelHigh
	case has("USAGE_LIMIT_EXCEEDED"):
		return constants.RiskLevelMedium
	default:
		return constants.RiskLevelLow
	}
}
