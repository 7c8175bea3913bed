package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dashiq/reporting/internal/domain/models"
	servicemocks "github.com/dashiq/reporting/internal/domain/service/mocks"
	"github.com/dashiq/reporting/pkg/constants"
	apperrors "github.com/dashiq/reporting/pkg/errors"
	"github.com/dashiq/reporting/pkg/logger"
)

func TestPromptCheckPassesVerdictThrough(t *testing.T) {
	checker := new(servicemocks.MockPromptChecker)
	audit := new(servicemocks.MockAuditService)
	svc := NewPromptCheckAppService(checker, audit, logger.NewNoopLogger())

	req := models.PromptCheckRequest{Prompt: "draft a press release", UserID: "user-9"}
	checker.On("CheckPrompt", mock.Anything, req).
		Return(&models.PromptCheckResult{IsBlocked: false}, nil)
	audit.On("LogEvent", mock.Anything, mock.MatchedBy(func(e *models.AuditEvent) bool {
		return e.EventType == constants.EventTypePromptChecked && e.ActorID == "user-9"
	})).Return(nil)

	result, err := svc.Check(context.Background(), testTenant, req)
	require.NoError(t, err)
	assert.False(t, result.IsBlocked)
	audit.AssertExpectations(t)
}

func TestPromptCheckAuditsBlockedVerdict(t *testing.T) {
	checker := new(servicemocks.MockPromptChecker)
	audit := new(servicemocks.MockAuditService)
	svc := NewPromptCheckAppService(checker, audit, logger.NewNoopLogger())

	req := models.PromptCheckRequest{Prompt: "here is our customer list", UserID: "user-2"}
	checker.On("CheckPrompt", mock.Anything, req).
		Return(&models.PromptCheckResult{IsBlocked: true, Reason: "DATA_LEAK_PREVENTION"}, nil)
	audit.On("LogEvent", mock.Anything, mock.MatchedBy(func(e *models.AuditEvent) bool {
		return e.EventType == constants.EventTypePromptBlocked && e.Message == "DATA_LEAK_PREVENTION"
	})).Return(nil)

	result, err := svc.Check(context.Background(), testTenant, req)
	require.NoError(t, err)
	assert.True(t, result.IsBlocked)
	audit.AssertExpectations(t)
}

func TestPromptCheckFailsClosedOnUpstreamError(t *testing.T) {
	checker := new(servicemocks.MockPromptChecker)
	audit := new(servicemocks.MockAuditService)
	svc := NewPromptCheckAppService(checker, audit, logger.NewNoopLogger())

	req := models.PromptCheckRequest{Prompt: "hello", UserID: "user-1"}
	checker.On("CheckPrompt", mock.Anything, req).
		Return(nil, apperrors.ErrUpstreamUnavailable("prompt filter service unavailable"))
	audit.On("LogEvent", mock.Anything, mock.MatchedBy(func(e *models.AuditEvent) bool {
		return e.EventType == constants.EventTypePromptBlocked
	})).Return(nil)

	result, err := svc.Check(context.Background(), testTenant, req)
	require.NoError(t, err)
	assert.True(t, result.IsBlocked)
	assert.Equal(t, "upstream_unavailable", result.Reason)
}

func TestPromptCheckPropagatesOtherErrors(t *testing.T) {
	checker := new(servicemocks.MockPromptChecker)
	svc := NewPromptCheckAppService(checker, nil, logger.NewNoopLogger())

	req := models.PromptCheckRequest{Prompt: "hello", UserID: "user-1"}
	checker.On("CheckPrompt", mock.Anything, req).
		Return(nil, apperrors.ErrInternal("encode failure"))

	_, err := svc.Check(context.Background(), testTenant, req)
	require.Error(t, err)
	assert.False(t, apperrors.IsUpstreamError(err))
}
