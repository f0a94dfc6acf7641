// Package errors provides standardized error handling for the assessment
// service. Upstream prediction failures are normalized here so the caller can
// treat every flavor of failure as "no prediction available".
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "INPUT_VALIDATION_FAILED"

	ErrCodePredictionUnavailable ErrorCode = "PREDICTION_UNAVAILABLE"
	ErrCodePredictionTimeout     ErrorCode = "PREDICTION_TIMEOUT"
	ErrCodePredictionMalformed   ErrorCode = "PREDICTION_MALFORMED"
	ErrCodePredictionRejected    ErrorCode = "PREDICTION_REJECTED"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
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

// NewValidationFailedError creates a non-retryable input validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPredictionUnavailableError creates a retryable upstream transport error.
func NewPredictionUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePredictionUnavailable,
		Message:   "Prediction service unreachable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPredictionTimeoutError creates a retryable upstream timeout error.
func NewPredictionTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodePredictionTimeout,
		Message:   "Prediction service timeout",
		Details:   "call exceeded the configured timeout",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPredictionMalformedError creates a non-retryable decode error.
func NewPredictionMalformedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePredictionMalformed,
		Message:   "Prediction response could not be decoded",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPredictionRejectedError creates a non-retryable error for upstream
// success=false payloads.
func NewPredictionRejectedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePredictionRejected,
		Message:   "Prediction service rejected the request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error. Callers treat it
// as a cache miss.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Prediction cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// GetRetryCount returns the in-process retry budget for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodePredictionUnavailable:
		return 2
	case ErrCodePredictionTimeout:
		return 1
	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
