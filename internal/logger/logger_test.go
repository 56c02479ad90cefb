package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"logingest/pkg/logging"
)

func TestNew(t *testing.T) {
	log, err := New("debug", "console")
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = New("info", "xml")
	assert.Error(t, err)

	_, err = New("verbose", "json")
	assert.Error(t, err)
}

func TestSugaredLogger_ContextFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core))
	log.SetServiceName("login-ingest")

	ctx := logging.WithRunID(context.Background(), "run-42")
	log.InfowCtx(ctx, "Record inserted", "table", "user_logins")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "run-42", fields["run_id"])
	assert.Equal(t, "login-ingest", fields["service_name"])
	assert.Equal(t, "user_logins", fields["table"])
}
