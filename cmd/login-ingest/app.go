package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"logingest/internal/config"
	"logingest/internal/display"
	"logingest/internal/ingest"
	"logingest/internal/logger"
	"logingest/internal/queue"
	"logingest/internal/storage"
	"logingest/pkg/bootstrap"
	apperrors "logingest/pkg/errors"
	"logingest/pkg/health"
	"logingest/pkg/metrics"
	"logingest/pkg/migrations"
)

type App struct {
	*bootstrap.Base
	dbConnector *bootstrap.DatabaseConnector
	queue       *queue.Client
	out         io.Writer
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName(cfg.Tracing.ServiceName)
	}
	return &App{
		Base:        bootstrap.NewBase(cfg, log),
		dbConnector: bootstrap.NewDatabaseConnector(cfg, log),
		queue:       queue.NewClient(cfg.Queue, log),
		out:         os.Stdout,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := a.InitTracing(); err != nil {
		return apperrors.ErrConfig.WithCause(err)
	}
	metrics.Register()
	return nil
}

// Run ingests exactly one message. The database handle lives only for the
// duration of the call.
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.RecoverPanic(r)
		}
		kind := ""
		if err != nil {
			kind = apperrors.Kind(err)
		}
		metrics.RecordRun(kind, err)
	}()

	db, err := a.dbConnector.InitPostgreSQL(ctx)
	if err != nil {
		return apperrors.ErrStore.WithCause(err).WithMessage("database is unavailable")
	}
	defer a.closeDatabase(ctx, db)

	if a.Config.Database.RunMigrations {
		if err := a.migrate(ctx); err != nil {
			return err
		}
	}

	var acker ingest.Acknowledger
	if a.Config.Queue.DeleteAfterInsert {
		acker = a.queue
	}

	pipeline := ingest.NewPipeline(
		a.queue,
		ingest.NewDecoder(a.Config.Queue.VerifyBodyDigest, a.Logger),
		a.Logger,
	)
	store := storage.NewPostgresStore(db, a.Config.Database.StatementTimeout, a.Logger)
	svc := ingest.NewService(pipeline, store, acker, a.out, a.Logger)

	result, err := svc.Ingest(ctx)
	if err != nil {
		return err
	}

	a.Logger.InfowCtx(ctx, "Record stored",
		"message_id", result.MessageID,
		"user_id", result.Record.UserID,
		"create_date", result.Record.CreateDate,
	)
	return nil
}

func (a *App) Migrate(ctx context.Context) error {
	return a.migrate(ctx)
}

func (a *App) migrate(ctx context.Context) error {
	applied, err := migrations.UpPostgres(bootstrap.PostgresDSN(a.Config.Database.Postgres))
	if err != nil {
		return apperrors.ErrStore.WithCause(err).WithMessage("schema migration failed")
	}
	a.Logger.InfowCtx(ctx, "Schema migrations checked", "applied", applied)
	return nil
}

func (a *App) Show(ctx context.Context) error {
	db, err := a.dbConnector.InitPostgreSQL(ctx)
	if err != nil {
		return apperrors.ErrStore.WithCause(err).WithMessage("database is unavailable")
	}
	defer a.closeDatabase(ctx, db)

	store := storage.NewPostgresStore(db, a.Config.Database.StatementTimeout, a.Logger)
	rows, err := store.FetchAll(ctx)
	if err != nil {
		return err
	}
	return display.RenderLogins(a.out, "Table "+a.Config.Database.Postgres.DBName+".user_logins", rows)
}

// Check pings every dependency and prints one line per dependency.
func (a *App) Check(ctx context.Context) error {
	db, err := a.dbConnector.OpenPostgreSQL()
	if err != nil {
		return apperrors.ErrStore.WithCause(err)
	}
	defer a.closeDatabase(ctx, db)

	registry := health.NewCheckerRegistry()
	registry.Register(health.NewPostgreSQLChecker(db))
	registry.Register(health.NewQueueChecker(a.queue))

	h := registry.Check(ctx)
	for _, name := range []string{"postgresql", "queue"} {
		result := h.Checks[name]
		fmt.Fprintf(a.out, "%-10s %-9s %s %s\n", name, result.Status, result.Latency, result.Message)
	}

	if !h.Healthy() {
		return apperrors.ErrInternal.WithMessage("dependency check failed").WithDetail("status", string(h.Status))
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.Base.Shutdown(ctx, func(ctx context.Context) error {
		path := a.Config.Metrics.TextfilePath
		if path == "" {
			return nil
		}
		if err := metrics.WriteTextfile(path); err != nil {
			return fmt.Errorf("failed to write metrics textfile: %w", err)
		}
		return nil
	})
}

func (a *App) closeDatabase(ctx context.Context, db *sql.DB) {
	if err := db.Close(); err != nil {
		a.Logger.WarnwCtx(ctx, "Failed to close database", "error", err)
	}
}
