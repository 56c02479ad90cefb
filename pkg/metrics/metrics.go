package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the metrics of one run. It is exported to a textfile for
// the node_exporter textfile collector since the process does not serve HTTP.
var Registry = prometheus.NewRegistry()

var (
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_ingest_runs_total",
			Help: "Total number of ingest runs by outcome (count)",
		},
		[]string{"status", "kind"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "login_ingest_stage_duration_ms",
			Help:    "Duration of each pipeline stage in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"stage", "status"},
	)

	FetchedBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "login_ingest_fetched_bytes",
			Help:    "Size of queue responses in bytes",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
		},
	)

	RecordsInsertedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "login_ingest_records_inserted_total",
			Help: "Total number of rows inserted into user_logins (count)",
		},
	)

	DatabaseQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_ingest_database_queries_total",
			Help: "Total number of database statements (count)",
		},
		[]string{"operation", "status"},
	)

	LastRunTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "login_ingest_last_run_timestamp_seconds",
			Help: "Unix time at which the last run finished",
		},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		Registry.MustRegister(
			RunsTotal,
			StageDuration,
			FetchedBytes,
			RecordsInsertedTotal,
			DatabaseQueriesTotal,
			LastRunTimestamp,
		)
	})
}

func ObserveStage(stage string, duration time.Duration, err error) {
	StageDuration.WithLabelValues(stage, status(err)).Observe(float64(duration.Milliseconds()))
}

func ObserveFetchedBytes(size int) {
	FetchedBytes.Observe(float64(size))
}

func IncDatabaseQuery(operation string, err error) {
	DatabaseQueriesTotal.WithLabelValues(operation, status(err)).Inc()
}

// RecordRun counts a finished run; kind is the error code or empty on success.
func RecordRun(kind string, err error) {
	RunsTotal.WithLabelValues(status(err), kind).Inc()
	LastRunTimestamp.SetToCurrentTime()
}

// WriteTextfile atomically writes Registry in the Prometheus text format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
