package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"

	"logingest/internal/constants"
	"logingest/internal/logger"
	apperrors "logingest/pkg/errors"
	"logingest/pkg/metrics"
	"logingest/pkg/models"
	"logingest/pkg/tracing"
)

const selectLogins = `SELECT user_id, device_type, masked_ip, masked_device_id, locale, app_version, create_date FROM ` + constants.LoginsTable

// PostgresStore executes named statements against user_logins. Every call
// runs under its own timeout.
type PostgresStore struct {
	db      *sql.DB
	timeout time.Duration
	logger  logger.Logger
}

func NewPostgresStore(db *sql.DB, timeout time.Duration, log logger.Logger) *PostgresStore {
	if timeout <= 0 {
		timeout = constants.DefaultStatementTimeout
	}
	return &PostgresStore{
		db:      db,
		timeout: timeout,
		logger:  log,
	}
}

// Execute runs stmt inside a transaction. Nothing is committed unless the
// statement succeeds before the timeout.
func (s *PostgresStore) Execute(ctx context.Context, stmt Statement, params map[string]any) (err error) {
	args, err := stmt.Bind(params)
	if err != nil {
		return apperrors.ErrStore.WithCause(err).WithMessage("parameter binding failed for %s", stmt.Name)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ctx, span := tracing.StartSpan(ctx, "storage.execute",
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", stmt.Name),
	)
	defer func() {
		metrics.IncDatabaseQuery(stmt.Name, err)
		tracing.EndSpan(span, err)
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.ErrStore.WithCause(err).WithMessage("begin transaction failed")
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				s.logger.WarnwCtx(ctx, "Rollback failed", "statement", stmt.Name, "error", rbErr)
			}
		}
	}()

	res, err := tx.ExecContext(ctx, stmt.Query(), args...)
	if err != nil {
		return apperrors.ErrStore.WithCause(deadlineCause(ctx, err)).WithMessage("%s failed", stmt.Name)
	}

	if err = tx.Commit(); err != nil {
		return apperrors.ErrStore.WithCause(err).WithMessage("commit of %s failed", stmt.Name)
	}

	affected, _ := res.RowsAffected()
	s.logger.InfowCtx(ctx, "Statement executed",
		"statement", stmt.Name,
		"rows_affected", affected,
	)
	return nil
}

func (s *PostgresStore) FetchAll(ctx context.Context) (rows []models.LoginRow, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ctx, span := tracing.StartSpan(ctx, "storage.fetch_all",
		attribute.String("db.system", "postgresql"),
		attribute.String("db.collection.name", constants.LoginsTable),
	)
	defer func() {
		metrics.IncDatabaseQuery("fetch_all", err)
		tracing.EndSpan(span, err)
	}()

	result, err := s.db.QueryContext(ctx, selectLogins)
	if err != nil {
		return nil, apperrors.ErrStore.WithCause(deadlineCause(ctx, err)).WithMessage("query of %s failed", constants.LoginsTable)
	}
	defer result.Close()

	for result.Next() {
		var row models.LoginRow
		if err = result.Scan(
			&row.UserID,
			&row.DeviceType,
			&row.MaskedIP,
			&row.MaskedDeviceID,
			&row.Locale,
			&row.AppVersion,
			&row.CreateDate,
		); err != nil {
			return nil, apperrors.ErrStore.WithCause(err).WithMessage("scan of %s failed", constants.LoginsTable)
		}
		rows = append(rows, row)
	}
	if err = result.Err(); err != nil {
		return nil, apperrors.ErrStore.WithCause(fmt.Errorf("iterate rows: %w", err))
	}

	return rows, nil
}

// deadlineCause keeps an expired deadline visible to errors.Is even when the
// driver reports the cancellation in its own words.
func deadlineCause(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		return multierr.Append(ctxErr, err)
	}
	return err
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.ErrStore.WithCause(err).WithMessage("postgresql ping failed")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
