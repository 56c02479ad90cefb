package ingest

import (
	"context"
	"strings"

	"logingest/internal/constants"
	"logingest/internal/logger"
	apperrors "logingest/pkg/errors"
	"logingest/pkg/models"
)

// MaskedFields are the fields replaced by their digest before persisting.
var MaskedFields = []string{constants.FieldIP, constants.FieldDeviceID}

type Masker struct {
	hasher *Hasher
	logger logger.Logger
}

func NewMasker(log logger.Logger) *Masker {
	return &Masker{
		hasher: NewHasher(),
		logger: log,
	}
}

// Mask returns a copy of record in which every named field holds
// Digest(value, secret_key). The input record is left untouched. A missing
// field or secret rejects the whole record.
func (m *Masker) Mask(ctx context.Context, record *models.FieldRecord, fields []string) (*models.FieldRecord, error) {
	if record == nil {
		return nil, apperrors.ErrMasking.WithMessage("record is nil")
	}
	if len(fields) == 0 {
		return nil, apperrors.ErrMasking.WithMessage("no fields specified for masking")
	}

	secret, ok := record.Get(constants.FieldSecretKey)
	if !ok || strings.TrimSpace(secret) == "" {
		return nil, apperrors.ErrMasking.WithMessage("secret_key is missing")
	}

	if missing := record.Missing(fields...); len(missing) > 0 {
		return nil, apperrors.ErrMasking.
			WithMessage("cannot mask missing fields: %s", strings.Join(missing, ", ")).
			WithDetail("missing", missing)
	}

	masked := record.Clone()
	for _, field := range fields {
		value, _ := record.Get(field)
		masked.SetMasked(field, m.hasher.Digest(value, secret))
	}

	m.logger.DebugwCtx(ctx, "Masked fields", "fields", fields)
	return masked, nil
}
