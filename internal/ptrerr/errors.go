// Package ptrerr provides the error kinds and wrapping helpers ptee uses
// throughout the pipeline. Named ptrerr (not errors) to avoid shadowing the
// standard library errors package the way this file itself imports it.
package ptrerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the error kinds named by the filter's error handling
// design: a ConfigError aborts before any streaming, a DecodeError is
// recovered from inline, PrimarySinkError is fatal, AuxiliarySinkError drops
// just that sink, and InputError is treated as EOF.
var (
	ErrConfig       = errors.New("invalid configuration")
	ErrDecode       = errors.New("decode error")
	ErrPrimarySink  = errors.New("primary sink write failed")
	ErrAuxiliarySink = errors.New("auxiliary sink write failed")
	ErrInput        = errors.New("input read failed")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is checks if an error is of a specific kind.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Config wraps err as a ConfigError with the given context.
func Config(context string, err error) error {
	return fmt.Errorf("%s: %w: %w", context, ErrConfig, err)
}
