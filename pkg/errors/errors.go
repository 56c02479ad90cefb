package errors

import (
	"context"
	"errors"
	"fmt"
)

const (
	ExitInternal = 1
	ExitConfig   = 2
	ExitDecode   = 3
	ExitMasking  = 4
	ExitFormat   = 5
	ExitStore    = 6
	ExitFetch    = 7
)

var (
	ErrInternal = NewError("INTERNAL_ERROR", "internal error", ExitInternal)
	ErrConfig   = NewError("CONFIG_ERROR", "invalid configuration", ExitConfig)
	ErrDecode   = NewError("DECODE_ERROR", "payload decode failed", ExitDecode)
	ErrMasking  = NewError("MASKING_ERROR", "field masking failed", ExitMasking)
	ErrFormat   = NewError("FORMAT_ERROR", "schema formatting failed", ExitFormat)
	ErrStore    = NewError("STORE_ERROR", "store operation failed", ExitStore)
	ErrFetch    = NewError("FETCH_ERROR", "queue fetch failed", ExitFetch)
)

type FatalError interface {
	error
	IsFatal() bool
}

// Error is the typed failure carried from every pipeline stage up to main.
// Two errors with the same Code match under errors.Is.
type Error struct {
	Code     string
	Message  string
	ExitCode int
	Details  map[string]interface{}
	Cause    error
}

func NewError(code, message string, exitCode int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		ExitCode: exitCode,
		Details:  make(map[string]interface{}),
	}
}

func (e *Error) Error() string {
	msg := e.Message

	if len(e.Details) > 0 {
		if detailMsg, ok := e.Details["message"].(string); ok && detailMsg != "" {
			msg = detailMsg
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// IsFatal is always true: a run never recovers from a stage failure.
func (e *Error) IsFatal() bool {
	return true
}

func (e *Error) WithCause(cause error) *Error {
	err := e.clone()
	err.Cause = cause
	if cause != nil && errors.Is(cause, context.DeadlineExceeded) {
		err.Details["timeout"] = true
	}
	return err
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	err := e.clone()
	err.Details[key] = value
	return err
}

func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	return e.WithDetail("message", fmt.Sprintf(format, args...))
}

func (e *Error) clone() *Error {
	err := *e
	err.Details = make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		err.Details[k] = v
	}
	return &err
}

func Wrap(err error, appErr *Error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}
	return appErr.WithCause(err)
}

func IsDecode(err error) bool  { return errors.Is(err, ErrDecode) }
func IsMasking(err error) bool { return errors.Is(err, ErrMasking) }
func IsFormat(err error) bool  { return errors.Is(err, ErrFormat) }
func IsStore(err error) bool   { return errors.Is(err, ErrStore) }
func IsFetch(err error) bool   { return errors.Is(err, ErrFetch) }

func IsTimeout(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		if v, ok := appErr.Details["timeout"].(bool); ok && v {
			return true
		}
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// Kind returns the error code, or INTERNAL_ERROR for untyped errors.
func Kind(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal.Code
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.ExitCode != 0 {
		return appErr.ExitCode
	}
	return ExitInternal
}
