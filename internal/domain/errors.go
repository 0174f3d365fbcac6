// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package domain

import "errors"

// ErrorType represents the semantic category of an error. The ingestion
// pipeline branches on these categories: only ErrorTypeNotFound is retried
// by the recording fetch loop, everything else aborts the ingestion.
type ErrorType int

const (
	ErrorTypeValidation    ErrorType = iota // Input validation errors (400 Bad Request)
	ErrorTypeNotFound                       // Resource not found (404; the upstream "not ready" signal)
	ErrorTypeConflict                       // Resource conflict (409)
	ErrorTypeInternal                       // Internal errors (500)
	ErrorTypeUnavailable                    // Service unavailable (503)
	ErrorTypeConfiguration                  // No credentials stored for the tenant and no fallback
	ErrorTypeAuth                           // Upstream token exchange rejected
	ErrorTypeUpstream                       // Upstream API non-2xx other than 404
	ErrorTypeNotReady                       // Recording still unavailable after retry exhaustion
	ErrorTypeStorage                        // Local disk or stream failure while writing a recording
)

// DomainError represents an error with semantic type information.
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error // underlying error for wrapping
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// GetErrorType returns the semantic type of an error.
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal // default fallback
}

// Error constructors for different types
func NewValidationError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Err: errors.Join(err...)}
}

func NewNotFoundError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Message: message, Err: errors.Join(err...)}
}

func NewConflictError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Message: message, Err: errors.Join(err...)}
}

func NewInternalError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeInternal, Message: message, Err: errors.Join(err...)}
}

func NewUnavailableError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnavailable, Message: message, Err: errors.Join(err...)}
}

func NewConfigurationError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConfiguration, Message: message, Err: errors.Join(err...)}
}

func NewAuthError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeAuth, Message: message, Err: errors.Join(err...)}
}

func NewUpstreamError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUpstream, Message: message, Err: errors.Join(err...)}
}

func NewNotReadyError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeNotReady, Message: message, Err: errors.Join(err...)}
}

func NewStorageError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeStorage, Message: message, Err: errors.Join(err...)}
}

// ErrNoRecordingFound signals that the upstream recording list exists but
// contains no voice entry. It is terminal: the retry loop must not retry it.
// Callers detect it with errors.Is.
var ErrNoRecordingFound = errors.New("engagement has no voice recording")
