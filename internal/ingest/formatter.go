package ingest

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"logingest/internal/constants"
	"logingest/internal/logger"
	apperrors "logingest/pkg/errors"
	"logingest/pkg/models"
)

type Formatter struct {
	logger logger.Logger
}

func NewFormatter(log logger.Logger) *Formatter {
	return &Formatter{logger: log}
}

// Format coerces record to the user_logins column types. Every field is
// checked; any failure rejects the record as a whole.
func (f *Formatter) Format(ctx context.Context, record *models.FieldRecord) (*models.SchemaRecord, error) {
	if record == nil {
		return nil, apperrors.ErrFormat.WithMessage("record is nil")
	}

	var errs error
	str := func(name string) string {
		v, ok := record.Get(name)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("field %s is missing", name))
		}
		return v
	}

	out := &models.SchemaRecord{
		CreateDate: str(constants.FieldCreateDate),
		UserID:     str(constants.FieldUserID),
		DeviceType: str(constants.FieldDeviceType),
		IP:         str(constants.FieldIP),
		DeviceID:   str(constants.FieldDeviceID),
		Locale:     str(constants.FieldLocale),
	}

	if raw, ok := record.Get(constants.FieldAppVersion); !ok {
		errs = multierr.Append(errs, fmt.Errorf("field %s is missing", constants.FieldAppVersion))
	} else if version, err := ParseAppVersion(raw); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		out.AppVersion = version
	}

	if errs != nil {
		return nil, apperrors.ErrFormat.WithCause(errs).WithMessage("record does not fit the %s schema", constants.LoginsTable)
	}

	f.logger.DebugwCtx(ctx, "Completed data formatting", "app_version", out.AppVersion)
	return out, nil
}

// ParseAppVersion collapses a dotted version to its digits: "3.1.2" is 312.
// The result must fit a PostgreSQL integer column.
func ParseAppVersion(raw string) (int32, error) {
	digits := strings.ReplaceAll(strings.TrimSpace(raw), ".", "")
	if digits == "" {
		return 0, fmt.Errorf("field %s %q has no digits", constants.FieldAppVersion, raw)
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("field %s %q is not a dotted number", constants.FieldAppVersion, raw)
		}
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n > math.MaxInt32 {
		return 0, fmt.Errorf("field %s %q overflows an integer column", constants.FieldAppVersion, raw)
	}
	return int32(n), nil
}
