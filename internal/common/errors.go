// Package common provides shared utilities used across all features
package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Engine error taxonomy. Validation errors are detected before any I/O and
// never retried; not-found conditions are expected outcomes of normal
// operation; provider errors are transient infrastructure failures.
var (
	// Validation
	ErrInvalidAmount   = errors.New("invalid amount: must be positive")
	ErrInvalidSlippage = errors.New("invalid slippage: must be within [0, 50] percent")
	ErrBelowMinimum    = errors.New("computed amount below caller minimum")

	// Not-found
	ErrPoolNotFound    = errors.New("pool not found")
	ErrNoRouteFound    = errors.New("no route found")
	ErrQuoteNotFound   = errors.New("quote not found")
	ErrQuoteExpired    = errors.New("quote expired")
	ErrNetworkNotFound = errors.New("network not configured")

	// Provider
	ErrRoutingUnavailable = errors.New("routing unavailable: all route candidates failed to load pool state")

	// Arithmetic
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
)

// IsNotFound reports whether err is an expected not-found condition rather
// than an infrastructure failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPoolNotFound) ||
		errors.Is(err, ErrNoRouteFound) ||
		errors.Is(err, ErrQuoteNotFound) ||
		errors.Is(err, ErrQuoteExpired) ||
		errors.Is(err, ErrNetworkNotFound)
}

// IsValidation reports whether err was detected at the request boundary.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidSlippage) ||
		errors.Is(err, ErrBelowMinimum)
}

// HttpError represents an HTTP error with status code and message
type HttpError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s %s", e.StatusCode, e.Code, e.Message)
}

func messageOrDefault(msg string, defaultMsg string) string {
	if msg != "" {
		return msg
	}
	return defaultMsg
}

// HTTP Error constructors

func HTTPErrorBadRequest(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusBadRequest,
		Code:       "BAD_REQUEST",
		Message:    messageOrDefault(msg, "Bad request"),
	}
}

func HTTPErrorNotFound(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusNotFound,
		Code:       "NOT_FOUND",
		Message:    messageOrDefault(msg, "Not found"),
	}
}

func HTTPErrorGone(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusGone,
		Code:       "GONE",
		Message:    messageOrDefault(msg, "Gone"),
	}
}

func HTTPErrorInternalError(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    messageOrDefault(msg, "Internal server error"),
	}
}

func HTTPErrorServiceUnavailable(msg string) *HttpError {
	return &HttpError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       "SERVICE_UNAVAILABLE",
		Message:    messageOrDefault(msg, "Service unavailable"),
	}
}

// FromEngineError maps an engine error onto its HTTP representation.
func FromEngineError(err error) *HttpError {
	switch {
	case IsValidation(err):
		return HTTPErrorBadRequest(err.Error())
	case errors.Is(err, ErrQuoteExpired):
		return HTTPErrorGone(err.Error())
	case IsNotFound(err), errors.Is(err, ErrInsufficientLiquidity):
		return HTTPErrorNotFound(err.Error())
	case errors.Is(err, ErrRoutingUnavailable):
		return HTTPErrorServiceUnavailable(err.Error())
	default:
		return HTTPErrorInternalError(err.Error())
	}
}
