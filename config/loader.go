package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSecretKey is the placeholder shipped in development images. It is
// rejected outright when Environment is "production".
const DefaultSecretKey = "changeme_in_production"

// Config is the complete Xulcan service configuration.
type Config struct {
	Project   ProjectConfig   `yaml:"project" env:"PROJECT"`
	Server    ServerConfig    `yaml:"server" env:"SERVER"`
	Log       LogConfig       `yaml:"log" env:"LOG"`
	Telemetry TelemetryConfig `yaml:"telemetry" env:"TELEMETRY"`
	Providers ProvidersConfig `yaml:"providers" env:"PROVIDERS"`
}

// ProjectConfig carries service identity and environment.
type ProjectConfig struct {
	Name        string `yaml:"name" env:"NAME"`
	Version     string `yaml:"version" env:"VERSION"`
	Environment string `yaml:"environment" env:"ENVIRONMENT"`
	// APIBasePath prefixes every versioned route.
	APIBasePath string `yaml:"api_base_path" env:"API_BASE_PATH"`
	// SecretKey signs tokens and sessions. SecretKeyFile, when set, takes
	// priority and reads the key from a Docker secret.
	SecretKey     string `yaml:"secret_key" env:"SECRET_KEY"`
	SecretKeyFile string `yaml:"secret_key_file" env:"SECRET_KEY_FILE"`
}

// ServerConfig carries the HTTP serving parameters.
type ServerConfig struct {
	HTTPPort        int           `yaml:"http_port" env:"HTTP_PORT"`
	MetricsPort     int           `yaml:"metrics_port" env:"METRICS_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    int           `yaml:"rate_limit_rps" env:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" env:"RATE_LIMIT_BURST"`
}

// LogConfig carries the zap logger parameters.
type LogConfig struct {
	// Level: debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format: json, console.
	Format           string   `yaml:"format" env:"FORMAT"`
	OutputPaths      []string `yaml:"output_paths" env:"OUTPUT_PATHS"`
	EnableCaller     bool     `yaml:"enable_caller" env:"ENABLE_CALLER"`
	EnableStacktrace bool     `yaml:"enable_stacktrace" env:"ENABLE_STACKTRACE"`
}

// TelemetryConfig carries the OpenTelemetry export parameters.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled" env:"ENABLED"`
	OTLPEndpoint string  `yaml:"otlp_endpoint" env:"OTLP_ENDPOINT"`
	ServiceName  string  `yaml:"service_name" env:"SERVICE_NAME"`
	SampleRate   float64 `yaml:"sample_rate" env:"SAMPLE_RATE"`
}

// ProvidersConfig carries per-provider credentials.
type ProvidersConfig struct {
	OpenAI    ProviderCredentials `yaml:"openai" env:"OPENAI"`
	Anthropic ProviderCredentials `yaml:"anthropic" env:"ANTHROPIC"`
	Google    ProviderCredentials `yaml:"google" env:"GOOGLE"`
}

// ProviderCredentials resolves an API key with file priority: a key file
// (Docker secret) wins over the inline/env value.
type ProviderCredentials struct {
	APIKey     string `yaml:"api_key" env:"API_KEY"`
	APIKeyFile string `yaml:"api_key_file" env:"API_KEY_FILE"`
}

// Resolve returns the effective API key. A configured-but-missing key file
// is an error rather than a silent fallback, so a broken secret mount fails
// loudly at startup.
func (p ProviderCredentials) Resolve() (string, error) {
	if p.APIKeyFile != "" {
		data, err := os.ReadFile(p.APIKeyFile)
		if err != nil {
			return "", fmt.Errorf("api key file %q: %w", p.APIKeyFile, err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return p.APIKey, nil
}

// Configured reports whether any credential source is set.
func (p ProviderCredentials) Configured() bool {
	return p.APIKey != "" || p.APIKeyFile != ""
}

// Loader builds a Config with the defaults → YAML → env precedence.
type Loader struct {
	configPath string
	envPrefix  string
	validators []func(*Config) error
}

// NewLoader creates a loader with the XULCAN env prefix.
func NewLoader() *Loader {
	return &Loader{
		envPrefix:  "XULCAN",
		validators: make([]func(*Config) error, 0),
	}
}

// WithConfigPath sets the YAML file to load. A missing file is not an
// error; defaults and env still apply.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix overrides the environment variable prefix.
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// WithValidator appends a validation hook run after loading.
func (l *Loader) WithValidator(v func(*Config) error) *Loader {
	l.validators = append(l.validators, v)
	return l
}

// Load resolves the configuration: defaults, then the YAML file, then env
// overrides, then Validate plus any registered validators.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()

	if l.configPath != "" {
		if err := l.loadFromFile(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := l.loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, v := range l.validators {
		if err := v(cfg); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	return cfg, nil
}

func (l *Loader) loadFromFile(cfg *Config) error {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

func (l *Loader) loadFromEnv(cfg *Config) error {
	return l.setFieldsFromEnv(reflect.ValueOf(cfg).Elem(), l.envPrefix)
}

// setFieldsFromEnv walks the struct and applies PREFIX_SECTION_FIELD
// environment overrides following the env tags.
func (l *Loader) setFieldsFromEnv(v reflect.Value, prefix string) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		envTag := fieldType.Tag.Get("env")
		if envTag == "" || envTag == "-" {
			continue
		}

		envKey := prefix + "_" + envTag

		if field.Kind() == reflect.Struct {
			if err := l.setFieldsFromEnv(field, envKey); err != nil {
				return err
			}
			continue
		}

		envValue := os.Getenv(envKey)
		if envValue == "" {
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return fmt.Errorf("failed to set %s: %w", envKey, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	if !field.CanSet() {
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(i)
		}

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Slice:
		// Comma-separated string slices only.
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			field.Set(reflect.ValueOf(parts))
		}
	}

	return nil
}

// MustLoad loads the configuration or panics. Intended for main().
func MustLoad(path string) *Config {
	cfg, err := NewLoader().WithConfigPath(path).Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Validate checks cross-field coherence.
func (c *Config) Validate() error {
	var errs []string

	switch c.Project.Environment {
	case "development", "staging", "production":
	default:
		errs = append(errs, fmt.Sprintf("unknown environment %q", c.Project.Environment))
	}
	// Shipping the placeholder key to production is a hard failure, not a
	// warning.
	if c.Project.Environment == "production" && c.Project.SecretKeyFile == "" &&
		c.Project.SecretKey == DefaultSecretKey {
		errs = append(errs, "default secret_key cannot be used in production")
	}

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, "invalid HTTP port")
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		errs = append(errs, "invalid metrics port")
	}
	if c.Server.RateLimitRPS <= 0 || c.Server.RateLimitBurst < c.Server.RateLimitRPS {
		errs = append(errs, "rate limit burst must be >= rps and rps positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("unknown log level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("unknown log format %q", c.Log.Format))
	}

	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		errs = append(errs, "telemetry sample_rate must be in [0, 1]")
	}
	if c.Telemetry.Enabled && c.Telemetry.OTLPEndpoint == "" {
		errs = append(errs, "telemetry enabled without an OTLP endpoint")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
