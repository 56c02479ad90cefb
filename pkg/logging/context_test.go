package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLogFields(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetLogFields(ctx))

	ctx = WithRunID(ctx, "run-1")
	ctx = WithMessageID(ctx, "msg-1")
	ctx = WithServiceName(ctx, "login-ingest")

	assert.Equal(t, []interface{}{
		"run_id", "run-1",
		"message_id", "msg-1",
		"service_name", "login-ingest",
	}, GetLogFields(ctx))
}
