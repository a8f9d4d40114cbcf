// Package errors provides standardized error types and helpers for the resolver codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrEmptyURN indicates an empty or whitespace-only URN string
	ErrEmptyURN = errors.New("empty urn")
	// ErrMalformedURN indicates a URN that violates the CTS grammar
	ErrMalformedURN = errors.New("malformed urn")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrHooksetLoad indicates the configured hookset could not be loaded
	ErrHooksetLoad = errors.New("hookset load failed")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal indicates an internal system error
	ErrInternal = errors.New("internal error")
)

// MalformedURNError represents a CTS URN grammar violation with context
type MalformedURNError struct {
	URN     string // The offending raw URN string
	Message string // Human-readable description of the violation
	Err     error  // Underlying error, if any
}

func (e *MalformedURNError) Error() string {
	if e.URN != "" {
		return fmt.Sprintf("malformed urn %q: %s", e.URN, e.Message)
	}
	return fmt.Sprintf("malformed urn: %s", e.Message)
}

func (e *MalformedURNError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMalformedURN
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "passage", "work", "hookset")
	ID       string // Identifier of the resource (usually a URN)
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// HooksetLoadError represents a failure to resolve the configured hookset
type HooksetLoadError struct {
	Path   string // Dotted path from configuration
	Reason string // Why the hookset is unusable
	Err    error  // Underlying error, if any
}

func (e *HooksetLoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("cannot load hookset %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("cannot load hookset: %s", e.Reason)
}

func (e *HooksetLoadError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrHooksetLoad
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "CEX", "TextInventory", "JSON")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for creating common errors

// NewMalformedURN creates a MalformedURNError
func NewMalformedURN(urn, message string) *MalformedURNError {
	return &MalformedURNError{
		URN:     urn,
		Message: message,
	}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewHooksetLoad creates a HooksetLoadError
func NewHooksetLoad(path, reason string) *HooksetLoadError {
	return &HooksetLoadError{
		Path:   path,
		Reason: reason,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
