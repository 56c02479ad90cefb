package ingest

import (
	"context"
	"time"

	"logingest/internal/logger"
	apperrors "logingest/pkg/errors"
	"logingest/pkg/logging"
	"logingest/pkg/metrics"
	"logingest/pkg/models"
	"logingest/pkg/tracing"
)

// Source delivers the raw response of one queue poll.
type Source interface {
	Receive(ctx context.Context) ([]byte, error)
}

// Result is the outcome of one pipeline run.
type Result struct {
	Record        *models.SchemaRecord
	MessageID     string
	ReceiptHandle string
}

// Pipeline runs fetch, decode, mask and format in order and stops at the
// first failing stage.
type Pipeline struct {
	source    Source
	decoder   *Decoder
	masker    *Masker
	formatter *Formatter
	logger    logger.Logger
}

func NewPipeline(source Source, decoder *Decoder, log logger.Logger) *Pipeline {
	return &Pipeline{
		source:    source,
		decoder:   decoder,
		masker:    NewMasker(log),
		formatter: NewFormatter(log),
		logger:    log,
	}
}

func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "ingest.pipeline")
	result, err := p.run(ctx)
	tracing.EndSpan(span, err)
	return result, err
}

func (p *Pipeline) run(ctx context.Context) (*Result, error) {
	var raw []byte
	err := p.stage(ctx, "fetch", func(ctx context.Context) error {
		var err error
		raw, err = p.source.Receive(ctx)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrFetch)
		}
		metrics.ObserveFetchedBytes(len(raw))
		return nil
	})
	if err != nil {
		return nil, err
	}

	var record *models.FieldRecord
	err = p.stage(ctx, "decode", func(ctx context.Context) error {
		var err error
		record, err = p.decoder.Decode(ctx, raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	ctx = logging.WithMessageID(ctx, record.MessageID)

	var masked *models.FieldRecord
	err = p.stage(ctx, "mask", func(ctx context.Context) error {
		var err error
		masked, err = p.masker.Mask(ctx, record, MaskedFields)
		return err
	})
	if err != nil {
		return nil, err
	}

	var schema *models.SchemaRecord
	err = p.stage(ctx, "format", func(ctx context.Context) error {
		var err error
		schema, err = p.formatter.Format(ctx, masked)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.logger.InfowCtx(ctx, "Message transformed",
		"masked_fields", masked.MaskedFields(),
		"create_date", schema.CreateDate,
	)

	return &Result{
		Record:        schema,
		MessageID:     record.MessageID,
		ReceiptHandle: record.ReceiptHandle,
	}, nil
}

func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := tracing.StartSpan(ctx, "ingest."+name)
	start := time.Now()

	err := fn(ctx)

	metrics.ObserveStage(name, time.Since(start), err)
	tracing.EndSpan(span, err)

	if err != nil {
		p.logger.ErrorwCtx(ctx, "Pipeline stage failed",
			"stage", name,
			"kind", apperrors.Kind(err),
			"error", err,
		)
	}
	return err
}
