// Package errors holds the error taxonomy shared by the generator, the line
// scanner and the filter pipeline. Every failure aborts the current run, so
// the kinds below exist to tell the user where it failed, not to drive retries.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// Source errors: missing file, permission denied, I/O fault while reading
	ErrSourceRead   = errors.New("source read failed")
	ErrFileNotFound = errors.New("file not found")

	// Sink errors: disk full, permission denied, I/O fault while writing
	ErrSinkWrite = errors.New("sink write failed")

	// Compressor errors: invalid internal codec state, surfaced on write or close
	ErrCompression = errors.New("compression failed")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")

	// General errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrCanceled        = errors.New("run canceled")
)

// Wrap wraps an error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// New creates a new error with formatted message
func New(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to extract a specific error type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the wrapped error
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// markedError tags an underlying error with one of the sentinel kinds.
type markedError struct {
	kind error
	err  error
}

func (m *markedError) Error() string {
	return fmt.Sprintf("%s: %s", m.kind, m.err)
}

func (m *markedError) Unwrap() []error {
	return []error{m.kind, m.err}
}

// Mark tags err with kind, so that both Is(err, kind) and Is(err, <cause>)
// hold. Marking an error that already carries kind returns it unchanged.
func Mark(kind, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, kind) {
		return err
	}
	return &markedError{kind: kind, err: err}
}

// Kind returns the first sentinel kind found in err's chain, or nil.
func Kind(err error) error {
	for _, kind := range []error{ErrCanceled, ErrInvalidConfig, ErrFileNotFound,
		ErrSourceRead, ErrCompression, ErrSinkWrite, ErrInvalidArgument} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Multi-error support for closing several resources

// MultiError represents multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new MultiError
func NewMultiError() *MultiError {
	return &MultiError{
		errors: make([]error, 0),
	}
}

// Add adds an error to the MultiError
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// HasErrors returns true if there are any errors
func (m *MultiError) HasErrors() bool {
	return len(m.errors) > 0
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return ""
	}
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}
	return fmt.Sprintf("multiple errors occurred: %v", m.errors)
}

// Unwrap exposes all collected errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.errors
}

// Errors returns all collected errors
func (m *MultiError) Errors() []error {
	return m.errors
}

// ErrorOrNil returns nil if no errors, the single error if there is exactly
// one, otherwise the MultiError
func (m *MultiError) ErrorOrNil() error {
	switch len(m.errors) {
	case 0:
		return nil
	case 1:
		return m.errors[0]
	default:
		return m
	}
}
