package handlers

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ActraStride/xulcan/api"
)

// HealthHandler serves the orchestration probes. Liveness only confirms the
// process runs; readiness additionally requires startup to have finished
// and every registered dependency check to pass.
type HealthHandler struct {
	logger *zap.Logger
	ready  atomic.Bool
	mu     sync.RWMutex
	checks []HealthCheck
}

// HealthCheck is a named dependency probe.
type HealthCheck interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthStatus is the probe response body.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Note      string                 `json:"note,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is one dependency check outcome.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// NewHealthHandler creates a handler that reports not-ready until SetReady.
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		logger: logger,
		checks: make([]HealthCheck, 0),
	}
}

// SetReady flips the readiness gate. The server sets it true once startup
// completes and false again when shutdown begins, draining traffic before
// connections close.
func (h *HealthHandler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// RegisterCheck adds a dependency probe to the readiness evaluation.
func (h *HealthHandler) RegisterCheck(check HealthCheck) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, check)
}

// HandleLive serves GET /health/live. It never consults dependencies; a
// failing liveness probe means the process itself needs a restart.
func (h *HealthHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, HealthStatus{
		Status:    "alive",
		Timestamp: time.Now().UTC(),
	})
}

// HandleReady serves GET /health/ready. Registered checks run concurrently;
// the first failure marks the service unready with a 503.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	if !h.ready.Load() {
		api.WriteJSON(w, http.StatusServiceUnavailable, HealthStatus{
			Status:    "starting",
			Timestamp: time.Now().UTC(),
			Note:      "system is starting up or shutting down",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.mu.RLock()
	checks := make([]HealthCheck, len(h.checks))
	copy(checks, h.checks)
	h.mu.RUnlock()

	var resultsMu sync.Mutex
	results := make(map[string]CheckResult, len(checks))

	g, ctx := errgroup.WithContext(ctx)
	for _, check := range checks {
		g.Go(func() error {
			start := time.Now()
			err := check.Check(ctx)
			latency := time.Since(start)

			result := CheckResult{Status: "pass", Latency: latency.String()}
			if err != nil {
				result.Status = "fail"
				result.Message = err.Error()
				h.logger.Warn("readiness check failed",
					zap.String("check", check.Name()),
					zap.Error(err),
					zap.Duration("latency", latency),
				)
			}

			resultsMu.Lock()
			results[check.Name()] = result
			resultsMu.Unlock()
			return err
		})
	}
	err := g.Wait()

	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now().UTC(),
		Checks:    results,
	}
	if err != nil {
		status.Status = "unhealthy"
		api.WriteJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	api.WriteJSON(w, http.StatusOK, status)
}

// HandleLegacyHealth serves GET /health for older probes.
func (h *HealthHandler) HandleLegacyHealth(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Note:      "deprecated: use /health/live or /health/ready",
	})
}

// HandleVersion serves GET /version with build identity.
func (h *HealthHandler) HandleVersion(version, buildTime, gitCommit string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.WriteSuccess(w, r, map[string]string{
			"version":    version,
			"build_time": buildTime,
			"git_commit": gitCommit,
		})
	}
}

// CheckFunc adapts a plain function into a HealthCheck.
type CheckFunc struct {
	CheckName string
	Fn        func(ctx context.Context) error
}

func (c CheckFunc) Name() string                    { return c.CheckName }
func (c CheckFunc) Check(ctx context.Context) error { return c.Fn(ctx) }
