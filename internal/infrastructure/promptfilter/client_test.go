package promptfilter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashiq/reporting/internal/config"
	"github.com/dashiq/reporting/internal/domain/models"
	"github.com/dashiq/reporting/internal/infrastructure/monitoring"
	"github.com/dashiq/reporting/pkg/constants"
	apperrors "github.com/dashiq/reporting/pkg/errors"
	"github.com/dashiq/reporting/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string, retries int) *Client {
	t.Helper()
	cfg := config.PromptFilterConfig{
		BaseURL: baseURL,
		Timeout: 2,
		Retries: retries,
	}
	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())
	return NewClient(cfg, metrics, logger.NewNoopLogger()).(*Client)
}

func TestCheckPromptAllowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, checkPath, r.URL.Path)

		var req models.PromptCheckRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "summarize the quarterly report", req.Prompt)
		assert.Equal(t, "user-12", req.UserID)

		json.NewEncoder(w).Encode(models.PromptCheckResult{IsBlocked: false})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	result, err := client.CheckPrompt(context.Background(), models.PromptCheckRequest{
		Prompt: "summarize the quarterly report",
		UserID: "user-12",
	})
	require.NoError(t, err)
	assert.False(t, result.IsBlocked)
	assert.Empty(t, result.Reason)
}

func TestCheckPromptBlocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PromptCheckResult{
			IsBlocked: true,
			Reason:    "PII_DETECTED",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	result, err := client.CheckPrompt(context.Background(), models.PromptCheckRequest{
		Prompt: "my ssn is 123-45-6789",
		UserID: "user-3",
	})
	require.NoError(t, err)
	assert.True(t, result.IsBlocked)
	assert.Equal(t, "PII_DETECTED", result.Reason)
}

func TestCheckPromptRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(models.PromptCheckResult{IsBlocked: false})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	result, err := client.CheckPrompt(context.Background(), models.PromptCheckRequest{
		Prompt: "hello",
		UserID: "u",
	})
	require.NoError(t, err)
	assert.False(t, result.IsBlocked)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCheckPromptFailsClosed(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	result, err := client.CheckPrompt(context.Background(), models.PromptCheckRequest{
		Prompt: "hello",
		UserID: "u",
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, int32(3), calls.Load())

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, constants.ErrCodeUpstreamUnavailable, appErr.Code())
}

func TestCheckPromptUnreachableHost(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1", 0)
	_, err := client.CheckPrompt(context.Background(), models.PromptCheckRequest{
		Prompt: "hello",
		UserID: "u",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstreamError(err))
}
