package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dashiq/reporting/internal/domain/models"
)

type MockPromptChecker struct {
	mock.Mock
}

func (m *MockPromptChecker) CheckPrompt(ctx context.Context, req models.PromptCheckRequest) (*models.PromptCheckResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PromptCheckResult), args.Error(1)
}
