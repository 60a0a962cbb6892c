package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure taxonomy.
// Use errors.Is() to check against these.
var (
	ErrTransport     = errors.New("transport failure")
	ErrMalformedBody = errors.New("malformed response body")
	ErrApplication   = errors.New("application failure")
	ErrPrecondition  = errors.New("precondition failed")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
)

// DefaultFailureMessage is surfaced when the API reports a failure without a message.
const DefaultFailureMessage = "Something went wrong"

// APIError represents a structured storefront error.
// Implements error interface and supports unwrapping.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"` // HTTP status, not serialized
	Err        error  `json:"-"` // Wrapped error, not serialized
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a network-level failure (unreachable host, reset, canceled).
func NewTransportError(err error) *APIError {
	return &APIError{
		Code:       "TRANSPORT_ERROR",
		Message:    "commerce API unreachable",
		StatusCode: http.StatusBadGateway,
		Err:        fmt.Errorf("%w: %v", ErrTransport, err),
	}
}

// NewMalformedBodyError reports a response body that is not valid JSON.
func NewMalformedBodyError(err error) *APIError {
	return &APIError{
		Code:       "MALFORMED_BODY",
		Message:    "Invalid JSON response",
		StatusCode: http.StatusBadGateway,
		Err:        fmt.Errorf("%w: %v", ErrMalformedBody, err),
	}
}

// NewEmptyErrorBody reports a failure status that came back without a body.
func NewEmptyErrorBody(status int) *APIError {
	return &APIError{
		Code:       "EMPTY_ERROR_BODY",
		Message:    "API returned an error with no body",
		StatusCode: upstreamStatus(status),
		Err:        classify(status),
	}
}

// NewApplicationError reports a failure the API described in its body.
// An empty message falls back to DefaultFailureMessage.
func NewApplicationError(status int, message string) *APIError {
	if message == "" {
		message = DefaultFailureMessage
	}
	return &APIError{
		Code:       "APPLICATION_ERROR",
		Message:    message,
		StatusCode: upstreamStatus(status),
		Err:        classify(status),
	}
}

// NewPreconditionError reports a locally detected missing prerequisite.
// No network call is made when this is returned.
func NewPreconditionError(reason string) *APIError {
	return &APIError{
		Code:       "PRECONDITION_FAILED",
		Message:    reason,
		StatusCode: http.StatusPreconditionFailed,
		Err:        ErrPrecondition,
	}
}

// NewValidationError reports a malformed request to the storefront itself.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		StatusCode: http.StatusBadRequest,
		Err:        ErrInvalidInput,
	}
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// classify picks the sentinel chain for an upstream status.
func classify(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrApplication, ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrApplication, ErrNotFound)
	default:
		return ErrApplication
	}
}

// upstreamStatus maps the upstream status to the status we report.
// Client errors pass through; 2xx with a failure marker becomes 422.
func upstreamStatus(status int) int {
	switch {
	case status >= 400 && status < 500:
		return status
	case status >= 200 && status < 300:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
