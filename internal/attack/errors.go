package attack

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig matches every configuration error returned by
// Config.Validate, ParseMode, ParseEncoding and ParseCeiling.
var ErrInvalidConfig = errors.New("invalid run configuration")

// Configuration error causes.
var (
	ErrEmptyTarget     = errors.New("target value is required")
	ErrEmptyWordlist   = errors.New("dictionary mode requires a non-empty wordlist")
	ErrInvalidCeiling  = errors.New("attempt ceiling must be a positive integer")
	ErrUnknownMode     = errors.New("unknown attack mode")
	ErrUnknownEncoding = errors.New("unknown target encoding")
)

// ErrRunInProgress is returned by Engine.Start and Engine.Reset while a run
// is executing.
var ErrRunInProgress = errors.New("a run is already in progress")

// ErrCancelled is wrapped by the error of a run that was stopped before it
// cracked the target or exhausted its budget.
var ErrCancelled = errors.New("run cancelled")

// errStopped is returned internally when a progress consumer asks to stop.
var errStopped = errors.New("progress consumer stopped")

// ConfigError reports which field of a Config was rejected.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

// Unwrap exposes both ErrInvalidConfig and the specific cause to errors.Is.
func (e *ConfigError) Unwrap() []error {
	return []error{ErrInvalidConfig, e.Err}
}

func configError(field string, err error) error {
	return &ConfigError{Field: field, Err: err}
}
