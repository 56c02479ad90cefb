package constants

import "time"

const (
	ServiceName = "login-ingest"
)

const (
	DefaultQueueURL         = "http://localhost:4566/000000000000/login-queue"
	DefaultFetchTimeout     = 10 * time.Second
	DefaultHTTPTimeout      = 30 * time.Second
	MaxQueueResponseBytes   = 1 << 20
	DefaultConnectTimeout   = 10 * time.Second
	DefaultStatementTimeout = 10 * time.Second
)

const (
	ShutdownTimeout    = 5 * time.Second
	HealthCheckTimeout = 5 * time.Second
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)

const (
	LoginsTable = "user_logins"
)

const (
	FieldSecretKey  = "secret_key"
	FieldCreateDate = "create_date"
	FieldUserID     = "user_id"
	FieldAppVersion = "app_version"
	FieldDeviceType = "device_type"
	FieldIP         = "ip"
	FieldDeviceID   = "device_id"
	FieldLocale     = "locale"
)
