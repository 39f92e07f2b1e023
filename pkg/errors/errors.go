package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the different classes of failure the pipeline distinguishes
type ErrorType string

const (
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeParse       ErrorType = "parse"
	ErrorTypeIO          ErrorType = "io"
	ErrorTypeEmptyResult ErrorType = "empty_result"
	ErrorTypeFile        ErrorType = "file"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error is a typed pipeline error, optionally tied to a file path
type Error struct {
	Type    ErrorType
	Message string
	Path    string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error: %s", e.Type, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s error (%s): %s", e.Type, e.Path, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Empty-result conditions. They stop a run cleanly without writing the
// dependent artifact.
var (
	ErrNoConnections      = &Error{Type: ErrorTypeEmptyResult, Message: "no connections found"}
	ErrNoEdgesAfterFilter = &Error{Type: ErrorTypeEmptyResult, Message: "no edges left after applying the weight threshold"}
)

// New creates a typed error
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates a typed error around a cause, tied to path
func Wrap(errorType ErrorType, path, message string, err error) *Error {
	return &Error{Type: errorType, Message: message, Path: path, Err: err}
}

// Config is shorthand for a configuration error
func Config(path, message string, err error) *Error {
	return Wrap(ErrorTypeConfig, path, message, err)
}

// Parse is shorthand for a parse error
func Parse(path, message string, err error) *Error {
	return Wrap(ErrorTypeParse, path, message, err)
}

// TypeOf returns the ErrorType of the first typed error in err's chain
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsFatal reports whether err must abort the run
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch TypeOf(err) {
	case ErrorTypeEmptyResult, ErrorTypeFile:
		return false
	default:
		return true
	}
}

// IsEmptyResult reports whether err is a clean stop with nothing to write
func IsEmptyResult(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeEmptyResult
}
