// Package errors defines custom error types and error handling utilities for the reporting service.
// This package provides structured error types that map to API error codes and HTTP status codes.
package errors

import (
	"fmt"
	"net/http"

	"github.com/dashiq/reporting/pkg/constants"
)

// ================================================================================
// Base Error Interface
// ================================================================================

// AppError represents a structured error with additional metadata
type AppError interface {
	error

	// Code returns the machine-readable error code
	Code() constants.ErrorCode

	// HTTPStatus returns the HTTP status code
	HTTPStatus() int

	// Description returns a human-readable description
	Description() string

	// Unwrap returns the underlying error for error chain support
	Unwrap() error

	// WithCause adds a cause error to the error chain
	WithCause(cause error) AppError

	// WithMetadata adds additional context metadata
	WithMetadata(key string, value interface{}) AppError

	// Metadata returns all metadata
	Metadata() map[string]interface{}
}

// ================================================================================
// Base Error Implementation
// ================================================================================

// baseError is the internal implementation of AppError
type baseError struct {
	code        constants.ErrorCode
	httpStatus  int
	description string
	message     string
	cause       error
	metadata    map[string]interface{}
}

// Error implements the error interface
func (e *baseError) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.description
}

// Code returns the machine-readable error code
func (e *baseError) Code() constants.ErrorCode {
	return e.code
}

// HTTPStatus returns the HTTP status code
func (e *baseError) HTTPStatus() int {
	return e.httpStatus
}

// Description returns the error description
func (e *baseError) Description() string {
	return e.description
}

// Unwrap returns the underlying cause error
func (e *baseError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause error to the error chain
func (e *baseError) WithCause(cause error) AppError {
	e.cause = cause
	return e
}

// WithMetadata adds additional context metadata
func (e *baseError) WithMetadata(key string, value interface{}) AppError {
	if e.metadata == nil {
		e.metadata = make(map[string]interface{})
	}
	e.metadata[key] = value
	return e
}

// Metadata returns all metadata
func (e *baseError) Metadata() map[string]interface{} {
	return e.metadata
}

// ================================================================================
// Error Constructor
// ================================================================================

// NewError creates a new AppError with the specified parameters
func NewError(code constants.ErrorCode, httpStatus int, description string, message string) AppError {
	return &baseError{
		code:        code,
		httpStatus:  httpStatus,
		description: description,
		message:     message,
		metadata:    make(map[string]interface{}),
	}
}

// ================================================================================
// Predefined Error Constructors
// ================================================================================

// ErrInvalidFilter creates an invalid_filter error
func ErrInvalidFilter(message string) AppError {
	return NewError(
		constants.ErrCodeInvalidFilter,
		http.StatusBadRequest,
		"The date filter is missing a required field, contains a non-numeric value, or falls outside the supported range.",
		message,
	)
}

// ErrQueryFailure creates a query_failure error
func ErrQueryFailure(message string) AppError {
	return NewError(
		constants.ErrCodeQueryFailure,
		http.StatusInternalServerError,
		"An aggregation query against the reporting store failed.",
		message,
	)
}

// ErrUpstreamUnavailable creates an upstream_unavailable error
func ErrUpstreamUnavailable(message string) AppError {
	return NewError(
		constants.ErrCodeUpstreamUnavailable,
		http.StatusServiceUnavailable,
		"The prompt filter service did not respond within the retry budget.",
		message,
	)
}

// ErrUnauthorized creates an unauthorized error
func ErrUnauthorized(message string) AppError {
	return NewError(
		constants.ErrCodeUnauthorized,
		http.StatusUnauthorized,
		"The request is missing a valid tenant credential.",
		message,
	)
}

// ErrNotFound creates a not_found error
func ErrNotFound(message string) AppError {
	return NewError(
		constants.ErrCodeNotFound,
		http.StatusNotFound,
		"The requested resource does not exist.",
		message,
	)
}

// ErrRateLimited creates a rate_limited error
func ErrRateLimited(message string) AppError {
	return NewError(
		constants.ErrCodeRateLimited,
		http.StatusTooManyRequests,
		"The tenant has exhausted its request budget for the current window.",
		message,
	)
}

// ErrCacheError creates a cache_error error
func ErrCacheError(message string) AppError {
	return NewError(
		constants.ErrCodeCacheError,
		http.StatusInternalServerError,
		"A cache operation failed.",
		message,
	)
}

// ErrInternal creates an internal_error error
func ErrInternal(message string) AppError {
	return NewError(
		constants.ErrCodeInternal,
		http.StatusInternalServerError,
		"The server encountered an unexpected condition that prevented it from fulfilling the request.",
		message,
	)
}

// ================================================================================
// Domain-Specific Error Constructors
// ================================================================================

// ErrMissingFilterField creates an error for a filter missing a required field
func ErrMissingFilterField(field string) AppError {
	return ErrInvalidFilter(fmt.Sprintf("missing required filter field: %s", field)).
		WithMetadata("field", field)
}

// ErrFilterFieldOutOfRange creates an error for a filter field outside its valid range
func ErrFilterFieldOutOfRange(field string, value int) AppError {
	return ErrInvalidFilter(fmt.Sprintf("filter field '%s' out of range: %d", field, value)).
		WithMetadata("field", field).
		WithMetadata("value", value)
}

// ErrDatabaseConnectionFailed creates a database connection failed error
func ErrDatabaseConnectionFailed(reason string) AppError {
	return ErrInternal(fmt.Sprintf("failed to connect to database: %s", reason)).
		WithMetadata("reason", reason)
}

// ErrCacheConnectionFailed creates a cache connection failed error
func ErrCacheConnectionFailed(reason string) AppError {
	return ErrCacheError(fmt.Sprintf("failed to connect to cache: %s", reason)).
		WithMetadata("reason", reason)
}

// ================================================================================
// Error Validation Utilities
// ================================================================================

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(AppError)
	return ok
}

// AsAppError attempts to cast an error to AppError
func AsAppError(err error) (AppError, bool) {
	appErr, ok := err.(AppError)
	return appErr, ok
}

// WrapError wraps a generic error into an AppError
func WrapError(err error, code constants.ErrorCode, message string) AppError {
	var httpStatus int

	switch code {
	case constants.ErrCodeInvalidFilter:
		httpStatus = http.StatusBadRequest
	case constants.ErrCodeUnauthorized:
		httpStatus = http.StatusUnauthorized
	case constants.ErrCodeNotFound:
		httpStatus = http.StatusNotFound
	case constants.ErrCodeUpstreamUnavailable:
		httpStatus = http.StatusServiceUnavailable
	case constants.ErrCodeRateLimited:
		httpStatus = http.StatusTooManyRequests
	default:
		httpStatus = http.StatusInternalServerError
	}

	return NewError(code, httpStatus, err.Error(), message).WithCause(err)
}

// IsInvalidFilterError checks if an error is an invalid filter error
func IsInvalidFilterError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code() == constants.ErrCodeInvalidFilter
	}
	return false
}

// IsUpstreamError checks if an error came from the prompt filter upstream
func IsUpstreamError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code() == constants.ErrCodeUpstreamUnavailable
	}
	return false
}

// ShouldLogError determines if an error should be logged based on severity
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus() >= 500
	}
	return true
}

// ================================================================================
// Error Response Builder
// ================================================================================

// ErrorResponse represents the JSON structure for error payloads
type ErrorResponse struct {
	Code     string                 `json:"code"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ToErrorResponse converts an AppError to an ErrorResponse
func ToErrorResponse(err AppError) *ErrorResponse {
	return &ErrorResponse{
		Code:     string(err.Code()),
		Message:  err.Error(),
		Metadata: err.Metadata(),
	}
}

// ToGenericErrorResponse converts any error to an ErrorResponse
func ToGenericErrorResponse(err error) *ErrorResponse {
	if appErr, ok := AsAppError(err); ok {
		return ToErrorResponse(appErr)
	}

	// Fallback to generic server error
	return &ErrorResponse{
		Code:    string(constants.ErrCodeInternal),
		Message: "An unexpected error occurred",
	}
}
