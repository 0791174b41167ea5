package coinbase

import (
	"errors"
	"fmt"
	"time"
)

// ErrMissingCredentials indicates NewSigner was called without CDP credentials.
var ErrMissingCredentials = errors.New("coinbase: CDP credentials not provided")

// CDPError is a non-2xx response from the Coinbase Developer Platform API.
//
// Retryable is true for rate limits and server errors. RetryAfter carries the
// server's requested delay when it sent one.
type CDPError struct {
	StatusCode int
	ErrorType  string
	Message    string
	RequestID  string
	Retryable  bool
	RetryAfter time.Duration
	Method     string
	Path       string
}

func (e *CDPError) Error() string {
	msg := fmt.Sprintf("CDP API error [%d]: %s", e.StatusCode, e.Message)
	if e.RequestID != "" {
		msg += fmt.Sprintf(" (RequestID: %s)", e.RequestID)
	}
	if e.Method != "" && e.Path != "" {
		msg += fmt.Sprintf(" [%s %s]", e.Method, e.Path)
	}
	return msg
}

// Error type constants for programmatic error classification.
const (
	ErrorTypeRateLimit   = "rate_limit"
	ErrorTypeServerError = "server_error"
	ErrorTypeAuthError   = "auth_error"
	ErrorTypeClientError = "client_error"
	ErrorTypeNotFound    = "not_found"
)
