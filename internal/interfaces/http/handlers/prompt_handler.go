package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/dashiq/reporting/internal/application/dto"
	"github.com/dashiq/reporting/internal/application/service"
	"github.com/dashiq/reporting/internal/domain/models"
	apperrors "github.com/dashiq/reporting/pkg/errors"
)

// PromptHandler fronts the prompt filter upstream.
type PromptHandler struct {
	promptCheck service.PromptCheckAppService
}

// NewPromptHandler creates a new PromptHandler.
func NewPromptHandler(promptCheck service.PromptCheckAppService) *PromptHandler {
	return &PromptHandler{promptCheck: promptCheck}
}

// Check handles POST /api/prompt/check.
func (h *PromptHandler) Check(c *gin.Context) {
	tenantID, ok := tenant(c)
	if !ok {
		return
	}

	var req models.PromptCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, apperrors.ErrInvalidFilter("prompt and user_id are required").WithCause(err))
		return
	}

	result, err := h.promptCheck.Check(c.Request.Context(), tenantID, req)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, result, nil)
}
