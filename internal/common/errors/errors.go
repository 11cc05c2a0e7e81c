// Package errors provides standardized error handling for the intent resolver.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeGenerativeTimeout   ErrorCode = "GENERATIVE_TIMEOUT"
	ErrCodeGenerativeFailed    ErrorCode = "GENERATIVE_REQUEST_FAILED"
	ErrCodeMalformedResponse   ErrorCode = "MALFORMED_GENERATIVE_RESPONSE"
	ErrCodeUnknownIntentLabel  ErrorCode = "UNKNOWN_INTENT_LABEL"
	ErrCodeCatalogLoadFailed   ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeTrainingLogFailed   ErrorCode = "TRAINING_LOG_FAILED"
	ErrCodeCacheUnavailable    ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeInvalidResolveInput ErrorCode = "INVALID_RESOLVE_INPUT"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is lets errors.Is match two StandardErrors by code.
func (e *StandardError) Is(target error) bool {
	var std *StandardError
	if errors.As(target, &std) {
		return e.Code == std.Code
	}
	return false
}

// HasCode reports whether err carries the given resolver error code.
func HasCode(err error, code ErrorCode) bool {
	var std *StandardError
	if errors.As(err, &std) {
		return std.Code == code
	}
	return false
}

// IsAdapterFailure reports whether err is a recoverable generative-boundary
// failure, i.e. one that triggers the rule fallback instead of surfacing.
func IsAdapterFailure(err error) bool {
	var std *StandardError
	if errors.As(err, &std) {
		switch std.Code {
		case ErrCodeGenerativeTimeout, ErrCodeGenerativeFailed, ErrCodeMalformedResponse:
			return true
		}
	}
	return false
}

// NewGenerativeTimeoutError creates a retryable adapter timeout error.
func NewGenerativeTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerativeTimeout,
		Message:   "Generative classifier call timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerativeFailedError creates a retryable adapter transport error.
func NewGenerativeFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerativeFailed,
		Message:   "Generative classifier request failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedResponseError creates a non-retryable response validation error.
func NewMalformedResponseError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   "Generative classifier response failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownIntentLabelError creates a non-retryable training error for a
// single example whose label is absent from the catalog.
func NewUnknownIntentLabelError(label string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownIntentLabel,
		Message:   "Training example references an intent not in the catalog",
		Details:   fmt.Sprintf("intent: %s", label),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadError creates a non-fatal catalog load error. Callers fall
// back to the built-in default catalog.
func NewCatalogLoadError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Intent catalog could not be loaded",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTrainingLogError creates a retryable training log persistence error.
func NewTrainingLogError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTrainingLogFailed,
		Message:   "Training log append failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache backend error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Response cache backend unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidResolveInputError creates a non-retryable request error.
func NewInvalidResolveInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidResolveInput,
		Message:   "Resolve request is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
