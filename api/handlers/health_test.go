package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthStatus {
	t.Helper()
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	return status
}

func TestHealthHandler_Live(t *testing.T) {
	h := NewHealthHandler(zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	h.HandleLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", decodeHealth(t, rec).Status)
}

func TestHealthHandler_ReadyGate(t *testing.T) {
	h := NewHealthHandler(zaptest.NewLogger(t))

	// Not ready until startup flips the gate.
	rec := httptest.NewRecorder()
	h.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "starting", decodeHealth(t, rec).Status)

	h.SetReady(true)
	rec = httptest.NewRecorder()
	h.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decodeHealth(t, rec).Status)

	// Shutdown drains by flipping the gate back.
	h.SetReady(false)
	rec = httptest.NewRecorder()
	h.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthHandler_DependencyChecks(t *testing.T) {
	h := NewHealthHandler(zaptest.NewLogger(t))
	h.SetReady(true)
	h.RegisterCheck(CheckFunc{CheckName: "token-cache", Fn: func(ctx context.Context) error {
		return nil
	}})
	h.RegisterCheck(CheckFunc{CheckName: "otlp", Fn: func(ctx context.Context) error {
		return errors.New("connection refused")
	}})

	rec := httptest.NewRecorder()
	h.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	status := decodeHealth(t, rec)
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "pass", status.Checks["token-cache"].Status)
	assert.Equal(t, "fail", status.Checks["otlp"].Status)
	assert.Contains(t, status.Checks["otlp"].Message, "connection refused")
}

func TestHealthHandler_Legacy(t *testing.T) {
	h := NewHealthHandler(zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	h.HandleLegacyHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	status := decodeHealth(t, rec)
	assert.Equal(t, "ok", status.Status)
	assert.Contains(t, status.Note, "deprecated")
}

func TestHealthHandler_Version(t *testing.T) {
	h := NewHealthHandler(zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	h.HandleVersion("0.1.0", "2025-06-01", "abc1234")(rec,
		httptest.NewRequest(http.MethodGet, "/version", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "0.1.0", envelope.Data["version"])
}
