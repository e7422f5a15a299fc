// Package errors defines the typed errors returned across mastermatch.
//
// Every type answers errors.Is for one sentinel, so callers can branch on
// the kind of failure without knowing which package produced it:
//
//	ErrNotFound       unknown make or model in a lookup
//	ErrInvalidInput   a rejected row, field name or batch
//	ErrInvalidConfig  thresholds or server settings a component cannot run with
//	ErrTimeout        a refresh that ran past its deadline
//	ErrCanceled       work abandoned because the caller went away
package errors

import (
	"errors"
	"fmt"
	"time"
)

// New is errors.New, re-exported so callers need only one errors import.
var New = errors.New

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrIndexNotLoaded    = errors.New("reference index not loaded")
	ErrTimeout           = errors.New("operation timed out")
	ErrCanceled          = errors.New("operation canceled")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// NotFoundError reports a catalog value that does not exist, such as a make
// passed to a model listing.
type NotFoundError struct {
	Resource string // "make", "model", "sheet"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError reports caller input that was rejected before any
// matching happened.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError creates a ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError reports settings a component refuses at construction.
type ConfigError struct {
	Component string // "matcher", "client", "server"
	Message   string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Component == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// NewConfigError creates a ConfigError.
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{Component: component, Message: message, Err: err}
}

// ParseError reports a catalog document or row sheet that could not be
// decoded.
type ParseError struct {
	Format  string // "yaml", "json", "csv", "xlsx"
	File    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("parse error in %s at %s:%d: %s", e.Format, e.File, e.Line, e.Message)
	case e.File != "":
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError creates a ParseError.
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{Format: format, File: file, Message: message, Err: err}
}

// WrapParse wraps a decoder error as a ParseError. A nil err stays nil.
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// IOError reports a failed read of a catalog file, database or upload.
type IOError struct {
	Operation string // "read", "open", "query"
	Path      string
	Err       error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// WrapIO wraps err as an IOError. A nil err stays nil.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// ResourceError reports a failed step on a long-lived resource: an index
// refresh, a source load, the client itself.
type ResourceError struct {
	Operation string // "refresh", "load", "create"
	Resource  string // "index", "source", "client"
	ID        string
	Err       error
}

func (e *ResourceError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Resource, e.Err)
	}
	return fmt.Sprintf("failed to %s %s %s: %v", e.Operation, e.Resource, e.ID, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// WrapResource wraps err as a ResourceError. A nil err stays nil.
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Operation: operation, Resource: resource, ID: id, Err: err}
}

// TimeoutError reports an operation cut off by its own deadline.
type TimeoutError struct {
	Operation string
	After     time.Duration
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Operation, e.After)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// NewTimeoutError creates a TimeoutError. err is usually
// context.DeadlineExceeded and stays reachable through errors.Is.
func NewTimeoutError(operation string, after time.Duration, err error) *TimeoutError {
	return &TimeoutError{Operation: operation, After: after, Err: err}
}

// CanceledError reports work stopped because its context was canceled.
type CanceledError struct {
	Operation string
	Err       error
}

func (e *CanceledError) Error() string {
	return e.Operation + " canceled: " + e.Err.Error()
}

func (e *CanceledError) Unwrap() error { return e.Err }

func (e *CanceledError) Is(target error) bool { return target == ErrCanceled }

// Canceled wraps a context error as a CanceledError. A nil err stays nil.
func Canceled(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &CanceledError{Operation: operation, Err: err}
}

func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsValidationError(err error) bool { return errors.Is(err, ErrInvalidInput) }
func IsConfigError(err error) bool     { return errors.Is(err, ErrInvalidConfig) }
func IsTimeout(err error) bool         { return errors.Is(err, ErrTimeout) }
func IsCanceled(err error) bool        { return errors.Is(err, ErrCanceled) }
