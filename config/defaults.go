package config

import "time"

// DefaultConfig returns the development defaults every load starts from.
func DefaultConfig() *Config {
	return &Config{
		Project:   DefaultProjectConfig(),
		Server:    DefaultServerConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultProjectConfig returns the project identity defaults.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Name:        "xulcan",
		Version:     "0.1.0",
		Environment: "development",
		APIBasePath: "/api/v1",
		SecretKey:   DefaultSecretKey,
	}
}

// DefaultServerConfig returns the HTTP serving defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8080,
		MetricsPort:     9091,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		RateLimitRPS:    100,
		RateLimitBurst:  200,
	}
}

// DefaultLogConfig returns the logging defaults.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig returns the telemetry defaults. Export is off
// until an endpoint is configured.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "xulcan",
		SampleRate:   0.1,
	}
}
