package service

import (
	"context"

	"github.com/dashiq/reporting/internal/domain/models"
	domainservice "github.com/dashiq/reporting/internal/domain/service"
	"github.com/dashiq/reporting/pkg/constants"
	apperrors "github.com/dashiq/reporting/pkg/errors"
	"github.com/dashiq/reporting/pkg/logger"
)

// upstreamBlockedReason is reported when the filter service cannot be
// reached and the verdict falls back to blocked.
const upstreamBlockedReason = "upstream_unavailable"

// PromptCheckAppService fronts the prompt filter upstream. Verdicts are
// audited; when the upstream is unreachable the prompt is reported
// blocked rather than let through unchecked.
type PromptCheckAppService interface {
	Check(ctx context.Context, tenantID int64, req models.PromptCheckRequest) (*models.PromptCheckResult, error)
}

// promptCheckAppServiceImpl is the concrete implementation of PromptCheckAppService.
type promptCheckAppServiceImpl struct {
	checker domainservice.PromptChecker
	audit   domainservice.AuditService
	logger  logger.Logger
}

// NewPromptCheckAppService creates a new instance of PromptCheckAppService.
func NewPromptCheckAppService(
	checker domainservice.PromptChecker,
	audit domainservice.AuditService,
	log logger.Logger,
) PromptCheckAppService {
	return &promptCheckAppServiceImpl{
		checker: checker,
		audit:   audit,
		logger:  log,
	}
}

// Check forwards the prompt to the filter service and audits the verdict.
// Upstream exhaustion fails closed: the caller gets a blocked verdict
// with an upstream_unavailable reason instead of an unchecked pass.
func (s *promptCheckAppServiceImpl) Check(ctx context.Context, tenantID int64, req models.PromptCheckRequest) (*models.PromptCheckResult, error) {
	result, err := s.checker.CheckPrompt(ctx, req)
	if err != nil {
		if apperrors.IsUpstreamError(err) {
			s.logger.Warn(ctx, "prompt filter unreachable, blocking prompt",
				logger.String("user_id", req.UserID))
			blocked := &models.PromptCheckResult{IsBlocked: true, Reason: upstreamBlockedReason}
			s.auditVerdict(ctx, tenantID, req.UserID, blocked)
			return blocked, nil
		}
		return nil, err
	}

	s.auditVerdict(ctx, tenantID, req.UserID, result)
	return result, nil
}

func (s *promptCheckAppServiceImpl) auditVerdict(ctx context.Context, tenantID int64, userID string, result *models.PromptCheckResult) {
	if s.audit == nil {
		return
	}
	eventType := constants.EventTypePromptChecked
	if result.IsBlocked {
		eventType = constants.EventTypePromptBlocked
	}
	event := models.NewAuditEvent(tenantID, eventType, "success", result.Reason).
		WithActor(userID)
	if result.IsBlocked && result.Reason != upstreamBlockedReason {
		risk := domainservice.RiskFromReasons([]string{result.Reason})
		event = event.WithMetadata(map[string]interface{}{"risk": string(risk)})
	}
	// Best effort; the publisher logs its own failures.
	_ = s.audit.LogEvent(ctx, event)
}
