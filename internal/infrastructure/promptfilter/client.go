// Package promptfilter implements the PromptChecker interface against
// the upstream prompt filter HTTP service.
package promptfilter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dashiq/reporting/internal/config"
	"github.com/dashiq/reporting/internal/domain/models"
	"github.com/dashiq/reporting/internal/domain/service"
	"github.com/dashiq/reporting/internal/infrastructure/monitoring"
	apperrors "github.com/dashiq/reporting/pkg/errors"
	"github.com/dashiq/reporting/pkg/logger"
)

const checkPath = "/prompt/check"

// Client calls the prompt filter service over HTTP. Transient failures
// are retried a bounded number of times; when all attempts fail the
// caller receives an upstream_unavailable error so the request fails
// closed rather than letting an unchecked prompt through.
type Client struct {
	baseURL    string
	retries    int
	httpClient *http.Client
	metrics    *monitoring.Metrics
	logger     logger.Logger
}

// NewClient creates a prompt filter client from configuration.
func NewClient(cfg config.PromptFilterConfig, metrics *monitoring.Metrics, log logger.Logger) service.PromptChecker {
	return &Client{
		baseURL: cfg.BaseURL,
		retries: cfg.Retries,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout(),
		},
		metrics: metrics,
		logger:  log.WithComponent("PromptFilterClient"),
	}
}

// CheckPrompt posts the prompt to the upstream filter and returns its
// verdict. Retries use a short linear backoff.
func (c *Client) CheckPrompt(ctx context.Context, req models.PromptCheckRequest) (*models.PromptCheckResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.ErrInternal("failed to encode prompt check request").WithCause(err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.metrics.RecordUpstreamRetry()
			select {
			case <-ctx.Done():
				return nil, apperrors.ErrUpstreamUnavailable("prompt filter check aborted").WithCause(ctx.Err())
			case <-time.After(time.Duration(attempt) * 200 * time.Millisecond):
			}
		}

		result, err := c.doCheck(ctx, payload)
		if err == nil {
			outcome := "allowed"
			if result.IsBlocked {
				outcome = "blocked"
			}
			c.metrics.RecordPromptCheck(outcome)
			return result, nil
		}
		lastErr = err
		c.logger.Warn(ctx, "prompt filter attempt failed",
			logger.Int("attempt", attempt+1),
			logger.Error(err))
	}

	c.metrics.RecordPromptCheck("unavailable")
	c.logger.Error(ctx, "prompt filter unreachable, failing closed", lastErr)
	return nil, apperrors.ErrUpstreamUnavailable("prompt filter service unavailable").WithCause(lastErr)
}

func (c *Client) doCheck(ctx context.Context, payload []byte) (*models.PromptCheckResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+checkPath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prompt filter returned status %d", resp.StatusCode)
	}

	var result models.PromptCheckResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode prompt filter response: %w", err)
	}
	return &result, nil
}
