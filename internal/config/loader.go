package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"logingest/internal/constants"
)

// LoadConfig reads configFile when given, then applies environment overrides.
// Without a file every key falls back to its default.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVariables(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("queue.url", constants.DefaultQueueURL)
	v.SetDefault("queue.fetch_timeout", constants.DefaultFetchTimeout)
	v.SetDefault("queue.verify_body_digest", false)
	v.SetDefault("queue.delete_after_insert", false)

	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.password", "postgres")
	v.SetDefault("database.postgres.dbname", "postgres")
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.run_migrations", true)
	v.SetDefault("database.connect_timeout", constants.DefaultConnectTimeout)
	v.SetDefault("database.statement_timeout", constants.DefaultStatementTimeout)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("metrics.textfile_path", "")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.otlp.endpoint", "localhost:4317")
	v.SetDefault("tracing.otlp.insecure", true)
	v.SetDefault("tracing.sampler.type", "always_on")
	v.SetDefault("tracing.sampler.param", 1.0)
}

func bindEnvVariables(v *viper.Viper) {
	v.BindEnv("queue.url", "QUEUE_URL")
	v.BindEnv("queue.fetch_timeout", "QUEUE_FETCH_TIMEOUT")
	v.BindEnv("queue.verify_body_digest", "QUEUE_VERIFY_BODY_DIGEST")
	v.BindEnv("queue.delete_after_insert", "QUEUE_DELETE_AFTER_INSERT")

	v.BindEnv("database.postgres.host", "DATABASE_POSTGRES_HOST")
	v.BindEnv("database.postgres.port", "DATABASE_POSTGRES_PORT")
	v.BindEnv("database.postgres.user", "DATABASE_POSTGRES_USER")
	v.BindEnv("database.postgres.password", "DATABASE_POSTGRES_PASSWORD")
	v.BindEnv("database.postgres.dbname", "DATABASE_POSTGRES_DBNAME")
	v.BindEnv("database.postgres.sslmode", "DATABASE_POSTGRES_SSLMODE")
	v.BindEnv("database.run_migrations", "DATABASE_RUN_MIGRATIONS")
	v.BindEnv("database.statement_timeout", "DATABASE_STATEMENT_TIMEOUT")

	v.BindEnv("logging.level", "LOGGING_LEVEL")
	v.BindEnv("logging.format", "LOGGING_FORMAT")

	v.BindEnv("metrics.textfile_path", "METRICS_TEXTFILE_PATH")

	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.service_name", "TRACING_SERVICE_NAME")
	v.BindEnv("tracing.otlp.endpoint", "TRACING_OTLP_ENDPOINT")
	v.BindEnv("tracing.otlp.insecure", "TRACING_OTLP_INSECURE")
}
