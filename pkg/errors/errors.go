// Package errors provides custom error types for the midivault system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the midivault system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotPopulated indicates that a system has no song data and no way to fetch it
	ErrNotPopulated = errors.New("not populated")

	// ErrClosed indicates that an operation was attempted after Close
	ErrClosed = errors.New("closed")

	// ErrRateLimited indicates that the archive rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")

	// ErrArchiveUnavailable indicates that the archive is temporarily unavailable
	ErrArchiveUnavailable = errors.New("archive unavailable")

	// ErrVerificationFailed indicates that downloaded bytes failed verification
	ErrVerificationFailed = errors.New("verification failed")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// TransportError represents a network or HTTP failure while talking to the archive
type TransportError struct {
	URL        string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed (status %d): %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request to %s failed: %s", e.URL, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TransportError) Is(target error) bool {
	if e.StatusCode == 404 {
		return target == ErrNotFound
	}
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrArchiveUnavailable
	}
	return false
}

// NewTransportError creates a new TransportError
func NewTransportError(url string, statusCode int, message string) *TransportError {
	return &TransportError{
		URL:        url,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotPopulated checks if an error is a not populated error
func IsNotPopulated(err error) bool {
	return errors.Is(err, ErrNotPopulated)
}

// IsClosed checks if an error indicates use after Close
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsRateLimited checks if an error is a rate limit error
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsArchiveUnavailable checks if an error indicates archive unavailability
func IsArchiveUnavailable(err error) bool {
	return errors.Is(err, ErrArchiveUnavailable)
}

// IsVerificationFailed checks if an error is a download verification failure
func IsVerificationFailed(err error) bool {
	return errors.Is(err, ErrVerificationFailed)
}

// ParseError represents an error when a fetched page has an unrecognized structure
type ParseError struct {
	URL     string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("parse error at %s: %s", e.URL, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(url, message string, err error) *ParseError {
	return &ParseError{
		URL:     url,
		Message: message,
		Err:     err,
	}
}

// FormatError represents a malformed snapshot during decode
type FormatError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed snapshot field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("malformed snapshot: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a new FormatError
func NewFormatError(field, message string, err error) *FormatError {
	return &FormatError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// VerificationError represents downloaded bytes failing size or checksum checks
type VerificationError struct {
	Title    string
	WantSize int
	GotSize  int
	WantSum  string
	GotSum   string
}

// Error implements the error interface
func (e *VerificationError) Error() string {
	if e.WantSize != e.GotSize {
		return fmt.Sprintf("verification failed for %s: size %d does not match expected %d", e.Title, e.GotSize, e.WantSize)
	}
	return fmt.Sprintf("verification failed for %s: checksum %s does not match expected %s", e.Title, e.GotSum, e.WantSum)
}

// Is implements errors.Is support
func (e *VerificationError) Is(target error) bool {
	return target == ErrVerificationFailed
}

// NewVerificationError creates a new VerificationError
func NewVerificationError(title string, wantSize, gotSize int, wantSum, gotSum string) *VerificationError {
	return &VerificationError{
		Title:    title,
		WantSize: wantSize,
		GotSize:  gotSize,
		WantSum:  wantSum,
		GotSum:   gotSum,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "delete", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "populate", "refresh", "download", "restore"
	Resource  string // "catalog", "system", "game", "song"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(url string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(url, err.Error(), err)
}

// WrapFormat wraps an error as a FormatError
func WrapFormat(field string, err error) error {
	if err == nil {
		return nil
	}
	return &FormatError{Field: field, Message: err.Error(), Err: err}
}

// WrapTransport wraps an error as a TransportError
func WrapTransport(url string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{
		URL:        url,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
