package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logingest/internal/constants"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultQueueURL, cfg.Queue.URL)
	assert.Equal(t, constants.DefaultFetchTimeout, cfg.Queue.FetchTimeout)
	assert.False(t, cfg.Queue.DeleteAfterInsert)
	assert.Equal(t, "localhost", cfg.Database.Postgres.Host)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "postgres", cfg.Database.Postgres.DBName)
	assert.True(t, cfg.Database.RunMigrations)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
queue:
  url: http://sqs.local:4566/000000000000/logins
  fetch_timeout: 3s
  verify_body_digest: true
database:
  postgres:
    host: db.internal
    port: 6543
  statement_timeout: 2s
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("DATABASE_POSTGRES_PASSWORD", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://sqs.local:4566/000000000000/logins", cfg.Queue.URL)
	assert.Equal(t, 3*time.Second, cfg.Queue.FetchTimeout)
	assert.True(t, cfg.Queue.VerifyBodyDigest)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, 6543, cfg.Database.Postgres.Port)
	assert.Equal(t, "from-env", cfg.Database.Postgres.Password)
	assert.Equal(t, 2*time.Second, cfg.Database.StatementTimeout)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateStatic(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Queue: QueueConfig{URL: constants.DefaultQueueURL, FetchTimeout: time.Second},
			Database: DatabaseConfig{
				Postgres:         PostgresConfig{Host: "localhost", Port: 5432, DBName: "postgres"},
				ConnectTimeout:   time.Second,
				StatementTimeout: time.Second,
			},
			Logging: LoggingConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "relative queue url", mutate: func(c *Config) { c.Queue.URL = "/login-queue" }, field: "queue.url"},
		{name: "zero fetch timeout", mutate: func(c *Config) { c.Queue.FetchTimeout = 0 }, field: "queue.fetch_timeout"},
		{name: "bad port", mutate: func(c *Config) { c.Database.Postgres.Port = 70000 }, field: "database.postgres.port"},
		{name: "zero statement timeout", mutate: func(c *Config) { c.Database.StatementTimeout = 0 }, field: "database.statement_timeout"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "trace" }, field: "logging.level"},
		{name: "tracing without endpoint", mutate: func(c *Config) { c.Tracing.Enabled = true }, field: "tracing.otlp.endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateStatic(cfg)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
