package rideformat

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateFormat     = errors.New("format already registered")
	ErrInvalidRegistration = errors.New("invalid format registration")
	ErrInvalidPath         = errors.New("path has no format suffix")
	ErrUnknownFormat       = errors.New("unknown ride file format")
	ErrReaderFailure       = errors.New("ride file could not be read")
	ErrIO                  = errors.New("ride file i/o failure")
)

// ErrorClassifier lets registry errors declare a stable kind for metrics and
// status output.
type ErrorClassifier interface {
	ErrorKind() string
}

// Kind returns the classifier kind for err, or "other" when err carries none.
func Kind(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	switch {
	case errors.Is(err, ErrInvalidPath):
		return "invalid_path"
	case errors.Is(err, ErrDuplicateFormat):
		return "duplicate_format"
	}
	return "other"
}

// UnknownFormatError reports a suffix with no registered reader.
type UnknownFormatError struct {
	Path   string
	Suffix string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("%s: no reader registered for suffix %q", e.Path, e.Suffix)
}

func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }

func (e *UnknownFormatError) ErrorKind() string { return "unknown_format" }

// ReadError carries the reader's own error list unchanged.
type ReadError struct {
	Path   string
	Suffix string
	Errors []string
}

func (e *ReadError) Error() string {
	switch len(e.Errors) {
	case 0:
		return fmt.Sprintf("%s: %v", e.Path, ErrReaderFailure)
	case 1:
		return fmt.Sprintf("%s: %s", e.Path, e.Errors[0])
	default:
		return fmt.Sprintf("%s: %d errors: %s", e.Path, len(e.Errors), strings.Join(e.Errors, "; "))
	}
}

func (e *ReadError) Unwrap() error { return ErrReaderFailure }

func (e *ReadError) ErrorKind() string { return "reader_failure" }

// IOError wraps a failure opening, reading, or listing ride files.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both the i/o marker and the underlying cause.
func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }

func (e *IOError) ErrorKind() string { return "io" }
