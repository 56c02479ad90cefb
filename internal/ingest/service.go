package ingest

import (
	"context"
	"io"

	"logingest/internal/display"
	"logingest/internal/logger"
	"logingest/internal/storage"
	"logingest/pkg/logging"
	"logingest/pkg/metrics"
	"logingest/pkg/models"
)

// Store is the persistence side of a run.
type Store interface {
	Execute(ctx context.Context, stmt storage.Statement, params map[string]any) error
	FetchAll(ctx context.Context) ([]models.LoginRow, error)
}

// Acknowledger removes a message from the queue once its row is committed.
type Acknowledger interface {
	Delete(ctx context.Context, receiptHandle string) error
}

// Service runs the pipeline and persists its record, printing the table
// before and after the insert.
type Service struct {
	pipeline *Pipeline
	store    Store
	acker    Acknowledger
	out      io.Writer
	logger   logger.Logger
}

// NewService wires a service; acker may be nil to leave messages on the queue.
func NewService(pipeline *Pipeline, store Store, acker Acknowledger, out io.Writer, log logger.Logger) *Service {
	return &Service{
		pipeline: pipeline,
		store:    store,
		acker:    acker,
		out:      out,
		logger:   log,
	}
}

// Ingest processes exactly one queued message. The store is not touched
// unless every pipeline stage succeeded.
func (s *Service) Ingest(ctx context.Context) (*Result, error) {
	result, err := s.pipeline.Run(ctx)
	if err != nil {
		return nil, err
	}
	ctx = logging.WithMessageID(ctx, result.MessageID)

	s.logger.InfowCtx(ctx, "Viewing user_logins table before inserting new record")
	if err := s.ShowTable(ctx, "Table before inserting new record"); err != nil {
		return nil, err
	}

	s.logger.InfowCtx(ctx, "Inserting record into PostgreSQL")
	if err := s.store.Execute(ctx, storage.InsertLogin, result.Record.Params()); err != nil {
		s.logger.ErrorwCtx(ctx, "Insert failed", "error", err)
		return nil, err
	}
	metrics.RecordsInsertedTotal.Inc()
	s.logger.InfowCtx(ctx, "Successfully inserted record into PostgreSQL")

	if err := s.ShowTable(ctx, "Table after inserting new record"); err != nil {
		return nil, err
	}

	if s.acker != nil {
		if err := s.acker.Delete(ctx, result.ReceiptHandle); err != nil {
			s.logger.ErrorwCtx(ctx, "Row committed but message could not be deleted from the queue", "error", err)
			return result, err
		}
		s.logger.InfowCtx(ctx, "Message deleted from queue")
	}

	return result, nil
}

func (s *Service) ShowTable(ctx context.Context, title string) error {
	rows, err := s.store.FetchAll(ctx)
	if err != nil {
		return err
	}
	return display.RenderLogins(s.out, title, rows)
}
