package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"logingest/internal/config"
	"logingest/internal/logger"
	"logingest/pkg/tracing"
)

// Base holds what every command needs: config, logger and tracer provider.
type Base struct {
	Config         *config.Config
	Logger         logger.Logger
	TracerProvider *tracing.TracerProvider
}

func NewBase(cfg *config.Config, log logger.Logger) *Base {
	return &Base{
		Config: cfg,
		Logger: log,
	}
}

func (b *Base) InitTracing() error {
	tp, err := tracing.Init(b.Config.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	b.TracerProvider = tp
	return nil
}

// Shutdown runs additionalShutdown, then flushes tracing. All errors are combined.
func (b *Base) Shutdown(ctx context.Context, additionalShutdown func(ctx context.Context) error) error {
	var errs error

	if additionalShutdown != nil {
		errs = multierr.Append(errs, additionalShutdown(ctx))
	}

	if b.TracerProvider != nil {
		if err := b.TracerProvider.Shutdown(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("tracer provider shutdown error: %w", err))
		}
	}

	return errs
}
