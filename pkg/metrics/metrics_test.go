package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRunAndTextfile(t *testing.T) {
	Register()
	Register()

	before := testutil.ToFloat64(RunsTotal.WithLabelValues("error", "DECODE_ERROR"))
	RecordRun("DECODE_ERROR", errors.New("no message"))
	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues("error", "DECODE_ERROR")))

	ObserveStage("decode", 3*time.Millisecond, nil)
	IncDatabaseQuery("insert", nil)

	path := filepath.Join(t.TempDir(), "login_ingest.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "login_ingest_runs_total")
	assert.Contains(t, string(data), "login_ingest_stage_duration_ms")
}
