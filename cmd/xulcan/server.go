package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ActraStride/xulcan/api"
	"github.com/ActraStride/xulcan/api/handlers"
	"github.com/ActraStride/xulcan/config"
	"github.com/ActraStride/xulcan/internal/metrics"
	"github.com/ActraStride/xulcan/internal/server"
	"github.com/ActraStride/xulcan/internal/telemetry"
)

// Server wires the validation service: the API listener, the metrics
// listener, health probes, and the optional config watcher.
type Server struct {
	cfg       config.Config
	logger    *zap.Logger
	otel      *telemetry.Providers
	health    *handlers.HealthHandler
	collector *metrics.Collector

	apiSrv     *server.Manager
	metricsSrv *server.Manager
	watcher    *config.Watcher

	cancel context.CancelFunc
}

// NewServer assembles all handlers and listeners from cfg. configPath,
// when non-empty, enables hot-reload watching of that file.
func NewServer(cfg config.Config, configPath string, logger *zap.Logger, otel *telemetry.Providers) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	collector := metrics.NewCollector(cfg.Project.Name, logger)
	health := handlers.NewHealthHandler(logger)
	validation := handlers.NewValidationHandler(logger, collector)

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		otel:      otel,
		health:    health,
		collector: collector,
		cancel:    cancel,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health/live", health.HandleLive)
	mux.HandleFunc("GET /health/ready", health.HandleReady)
	mux.HandleFunc("GET /health", health.HandleLegacyHealth)
	mux.HandleFunc("GET /version", health.HandleVersion(Version, BuildTime, GitCommit))

	base := cfg.Project.APIBasePath
	mux.HandleFunc("POST "+base+"/validate/messages", validation.HandleValidateMessages)
	mux.HandleFunc("POST "+base+"/validate/blueprint", validation.HandleValidateBlueprint)
	mux.HandleFunc("POST "+base+"/validate/tools", validation.HandleValidateTools)
	mux.HandleFunc("POST "+base+"/usage", validation.HandleReportUsage)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		api.WriteErrorMessage(w, r, http.StatusNotFound, "not_found", "no such route")
	})

	handler := Chain(mux,
		Recovery(logger),
		RequestID(),
		SecurityHeaders(),
		OTelTracing(),
		MetricsMiddleware(collector),
		RateLimiter(ctx, float64(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst),
		RequestLogger(logger),
	)

	apiCfg := server.DefaultConfig()
	apiCfg.Addr = fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	apiCfg.ReadTimeout = cfg.Server.ReadTimeout
	apiCfg.WriteTimeout = cfg.Server.WriteTimeout
	apiCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	s.apiSrv = server.NewManager(handler, apiCfg, logger)
	s.apiSrv.OnReady(health.SetReady)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", collector.Handler())
	metricsCfg := server.DefaultConfig()
	metricsCfg.Addr = fmt.Sprintf(":%d", cfg.Server.MetricsPort)
	metricsCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	s.metricsSrv = server.NewManager(metricsMux, metricsCfg, logger.With(zap.String("listener", "metrics")))

	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, 10*time.Second, logger)
		if err != nil {
			logger.Warn("config watcher disabled", zap.Error(err))
		} else {
			watcher.OnReload(func(old, new *config.Config) {
				logger.Info("configuration reloaded",
					zap.String("environment", new.Project.Environment))
			})
			s.watcher = watcher
		}
	}

	return s
}

// Start brings up the metrics listener, the API listener, and the
// config watcher. The readiness gate flips once the API listener is
// bound.
func (s *Server) Start() error {
	if err := s.metricsSrv.Start(); err != nil {
		return fmt.Errorf("start metrics server: %w", err)
	}
	if err := s.apiSrv.Start(); err != nil {
		return fmt.Errorf("start api server: %w", err)
	}
	if s.watcher != nil {
		s.watcher.Start(context.Background())
	}
	s.logger.Info("xulcan serving",
		zap.String("api", s.apiSrv.Addr()),
		zap.String("metrics", s.metricsSrv.Addr()),
		zap.String("base_path", s.cfg.Project.APIBasePath),
	)
	return nil
}

// WaitForShutdown blocks until the API listener exits, then tears
// everything else down.
func (s *Server) WaitForShutdown() {
	s.apiSrv.WaitForShutdown()
	s.Shutdown(context.Background())
}

// Shutdown stops all components in reverse start order.
func (s *Server) Shutdown(ctx context.Context) {
	s.cancel()
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if err := s.apiSrv.Shutdown(ctx); err != nil {
		s.logger.Error("api server shutdown", zap.Error(err))
	}
	if err := s.metricsSrv.Shutdown(ctx); err != nil {
		s.logger.Error("metrics server shutdown", zap.Error(err))
	}
	if s.otel != nil {
		flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.otel.Shutdown(flushCtx); err != nil {
			s.logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}
}
