// Package dto defines the HTTP response envelope and the dashboard
// payload shapes.
package dto

import (
	"net/http"
	"time"

	"github.com/dashiq/reporting/internal/domain/models"
	apperrors "github.com/dashiq/reporting/pkg/errors"
)

// APIResponse is the uniform envelope for every dashboard endpoint.
// Success bodies carry data plus the echoed filter; failure bodies carry
// the error code and a human-readable message.
type APIResponse struct {
	Success   bool               `json:"success"`
	Data      interface{}        `json:"data,omitempty"`
	Filter    *models.FilterEcho `json:"filter,omitempty"`
	Error     string             `json:"error,omitempty"`
	Message   string             `json:"message,omitempty"`
	Timestamp string             `json:"timestamp"`
}

// SuccessResponse wraps data in a success envelope. filter may be nil for
// endpoints with a fixed window.
func SuccessResponse(data interface{}, filter *models.FilterEcho) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		Filter:    filter,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorResponse converts an error into its HTTP status and envelope.
// AppErrors keep their code and status; anything else maps to a generic
// internal error so driver details never leak to the caller.
func ErrorResponse(err error) (int, *APIResponse) {
	status := http.StatusInternalServerError
	code := "internal_error"
	message := "an unexpected error occurred"

	if appErr, ok := apperrors.AsAppError(err); ok {
		status = appErr.HTTPStatus()
		code = string(appErr.Code())
		message = appErr.Description()
	}

	return status, &APIResponse{
		Success:   false,
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}
