package config

import (
	"fmt"
	"net/url"

	"go.uber.org/multierr"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func ValidateStatic(cfg *Config) error {
	return multierr.Combine(
		validateQueue(cfg.Queue),
		validateDatabase(cfg.Database),
		validateLogging(cfg.Logging),
		validateTracing(cfg.Tracing),
	)
}

func validateQueue(cfg QueueConfig) error {
	if cfg.URL == "" {
		return &ValidationError{Field: "queue.url", Message: "queue url is required"}
	}

	u, err := url.Parse(cfg.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationError{
			Field:   "queue.url",
			Message: fmt.Sprintf("must be an absolute http(s) url, got %q", cfg.URL),
		}
	}

	if cfg.FetchTimeout <= 0 {
		return &ValidationError{Field: "queue.fetch_timeout", Message: "fetch timeout must be positive"}
	}

	return nil
}

func validateDatabase(cfg DatabaseConfig) error {
	if cfg.Postgres.Host == "" {
		return &ValidationError{Field: "database.postgres.host", Message: "host is required"}
	}

	if cfg.Postgres.Port < 1 || cfg.Postgres.Port > 65535 {
		return &ValidationError{
			Field:   "database.postgres.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Postgres.Port),
		}
	}

	if cfg.Postgres.DBName == "" {
		return &ValidationError{Field: "database.postgres.dbname", Message: "database name is required"}
	}

	if cfg.ConnectTimeout <= 0 {
		return &ValidationError{Field: "database.connect_timeout", Message: "connect timeout must be positive"}
	}

	if cfg.StatementTimeout <= 0 {
		return &ValidationError{Field: "database.statement_timeout", Message: "statement timeout must be positive"}
	}

	return nil
}

func validateLogging(cfg LoggingConfig) error {
	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", cfg.Level)}
	}

	switch cfg.Format {
	case "json", "console":
	default:
		return &ValidationError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", cfg.Format)}
	}

	return nil
}

func validateTracing(cfg TracingConfig) error {
	if cfg.Enabled && cfg.OTLP.Endpoint == "" {
		return &ValidationError{Field: "tracing.otlp.endpoint", Message: "endpoint is required when tracing is enabled"}
	}
	return nil
}
