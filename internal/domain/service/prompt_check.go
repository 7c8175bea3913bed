package service

import (
	"context"

	"github.com/dashiq/reporting/internal/domain/models"
)

// PromptChecker evaluates a prompt against the upstream filter service.
// When the upstream cannot be reached the implementation fails closed
// and returns an upstream_unavailable error.
type PromptChecker interface {
	CheckPrompt(ctx context.Context, req models.PromptCheckRequest) (*models.PromptCheckResult, error)
}
