package config

import (
	"time"
)

type Config struct {
	Queue    QueueConfig    `mapstructure:"queue"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type QueueConfig struct {
	URL               string        `mapstructure:"url"`
	FetchTimeout      time.Duration `mapstructure:"fetch_timeout"`
	VerifyBodyDigest  bool          `mapstructure:"verify_body_digest"`
	DeleteAfterInsert bool          `mapstructure:"delete_after_insert"`
}

type DatabaseConfig struct {
	Postgres         PostgresConfig `mapstructure:"postgres"`
	RunMigrations    bool           `mapstructure:"run_migrations"`
	ConnectTimeout   time.Duration  `mapstructure:"connect_timeout"`
	StatementTimeout time.Duration  `mapstructure:"statement_timeout"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the Prometheus textfile written when a run ends.
// An empty path disables the export.
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
}

type TracingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	ServiceName string        `mapstructure:"service_name"`
	OTLP        OTLPConfig    `mapstructure:"otlp"`
	Sampler     SamplerConfig `mapstructure:"sampler"`
}

type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

type SamplerConfig struct {
	Type  string  `mapstructure:"type"`
	Param float64 `mapstructure:"param"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
