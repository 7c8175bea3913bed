// Package constants defines system-wide constants for the governance reporting service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Filter Granularity Constants
// ================================================================================

// FilterType represents the granularity of a dashboard date filter
type FilterType string

const (
	// FilterTypeYear selects a whole calendar year
	FilterTypeYear FilterType = "year"

	// FilterTypeMonth selects a calendar month within a year
	FilterTypeMonth FilterType = "month"

	// FilterTypeWeek selects a week-of-month slice within a month
	FilterTypeWeek FilterType = "week"
)

// ================================================================================
// Decision Constants
// ================================================================================

// Decision represents the outcome recorded for a governed prompt
type Decision string

const (
	// DecisionAllow indicates the prompt passed policy checks
	DecisionAllow Decision = "allow"

	// DecisionDeny indicates the prompt was denied by policy
	DecisionDeny Decision = "deny"
)

// RiskLevel represents the severity bucket assigned to a deny event
type RiskLevel string

const (
	// RiskLevelCritical covers PII and credential exposure
	RiskLevelCritical RiskLevel = "Critical"

	// RiskLevelHigh covers policy violations and jailbreak attempts
	RiskLevelHigh RiskLevel = "High"

	// RiskLevelMedium covers usage limit violations
	RiskLevelMedium RiskLevel = "Medium"

	// RiskLevelLow covers every other deny reason
	RiskLevelLow RiskLevel = "Low"
)

// ================================================================================
// Error Code Constants
// ================================================================================

// ErrorCode represents machine-readable error codes returned by the API
type ErrorCode string

const (
	// ErrCodeInvalidFilter indicates a malformed or out-of-range date filter
	ErrCodeInvalidFilter ErrorCode = "invalid_filter"

	// ErrCodeQueryFailure indicates an aggregation query failed
	ErrCodeQueryFailure ErrorCode = "query_failure"

	// ErrCodeUpstreamUnavailable indicates the prompt filter service could not be reached
	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"

	// ErrCodeUnauthorized indicates a missing or invalid tenant credential
	ErrCodeUnauthorized ErrorCode = "unauthorized"

	// ErrCodeNotFound indicates the requested route or resource does not exist
	ErrCodeNotFound ErrorCode = "not_found"

	// ErrCodeCacheError indicates a cache read or write failed
	ErrCodeCacheError ErrorCode = "cache_error"

	// ErrCodeRateLimited indicates the tenant exhausted its request budget
	ErrCodeRateLimited ErrorCode = "rate_limited"

	// ErrCodeInternal indicates an unexpected server error
	ErrCodeInternal ErrorCode = "internal_error"
)

// ================================================================================
// Cache Key Prefix Constants
// ================================================================================

const (
	// CacheKeyPrefixReport is the prefix for cached dashboard report payloads
	CacheKeyPrefixReport = "report:"

	// ReportCacheTTL is the cache lifetime for dashboard report payloads
	ReportCacheTTL = 60 * time.Second

	// LocalCacheTTL is the in-process fallback cache lifetime
	LocalCacheTTL = 30 * time.Second
)

// ================================================================================
// Database Table Name Constants
// ================================================================================

const (
	// TableNameUsers is the name of the governed users table
	TableNameUsers = "users"

	// TableNamePromptSessions is the name of the prompt sessions table
	TableNamePromptSessions = "prompt_sessions"

	// TableNameDecisionLogs is the name of the decision logs table
	TableNameDecisionLogs = "decision_logs"

	// TableNameShadowEvents is the name of the shadow AI events table
	TableNameShadowEvents = "shadow_events"
)

// ================================================================================
// Service Configuration Constants
// ================================================================================

const (
	// DefaultServicePort is the default HTTP service port
	DefaultServicePort = 8000

	// DefaultHealthCheckPath is the health check endpoint path
	DefaultHealthCheckPath = "/health"

	// DefaultReadinessCheckPath is the readiness check endpoint path
	DefaultReadinessCheckPath = "/health/ready"

	// DefaultQueryTimeout bounds every aggregation query
	DefaultQueryTimeout = 10 * time.Second

	// DefaultShutdownTimeout is the graceful shutdown timeout
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultRateLimitPerMinute is the per-tenant API request budget
	DefaultRateLimitPerMinute = 300

	// PromptCheckTimeout bounds a single call to the prompt filter service
	PromptCheckTimeout = 5 * time.Second

	// PromptCheckRetries is the number of retries after a failed prompt filter call
	PromptCheckRetries = 2
)

// ================================================================================
// Audit Event Type Constants
// ================================================================================

// AuditEventType represents different types of auditable events
type AuditEventType string

const (
	// EventTypeReportServed represents a dashboard report being served
	EventTypeReportServed AuditEventType = "report_served"

	// EventTypePromptChecked represents a prompt passing through the policy gate
	EventTypePromptChecked AuditEventType = "prompt_checked"

	// EventTypePromptBlocked represents a prompt denied by the policy gate
	EventTypePromptBlocked AuditEventType = "prompt_blocked"

	// EventTypeFilterRejected represents an invalid date filter being rejected
	EventTypeFilterRejected AuditEventType = "filter_rejected"
)

// ================================================================================
// Logging Constants
// ================================================================================

// LogLevel represents the severity level of log messages
type LogLevel string

const (
	// LogLevelDebug is the most verbose logging level
	LogLevelDebug LogLevel = "debug"

	// LogLevelInfo is the standard informational logging level
	LogLevelInfo LogLevel = "info"

	// LogLevelWarn indicates potential issues
	LogLevelWarn LogLevel = "warn"

	// LogLevelError indicates errors that need attention
	LogLevelError LogLevel = "error"

	// LogLevelFatal indicates critical errors that cause service termination
	LogLevelFatal LogLevel = "fatal"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey represents keys used in context.Context
type ContextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID is the key for distributed trace ID in context
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeyTenantID is the key for tenant ID in context
	ContextKeyTenantID ContextKey = "tenant_id"

	// ContextKeyUserID is the key for the governed user ID in context
	ContextKeyUserID ContextKey = "user_id"
)

// ================================================================================
// JWT Claim Keys
// ================================================================================

const (
	// ClaimKeyTenantID is the custom "tenant_id" claim
	ClaimKeyTenantID = "tenant_id"

	// ClaimKeySubject is the standard "sub" claim
	ClaimKeySubject = "sub"
)
