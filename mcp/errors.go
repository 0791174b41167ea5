package mcp

import (
	"errors"
	"fmt"

	"github.com/mark3labs/openaction-go"
)

// ErrInvalidArguments indicates a tool call whose arguments are missing or malformed.
var ErrInvalidArguments = errors.New("invalid tool arguments")

// ToolError is the JSON payload of a failed tool call.
type ToolError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`

	// Reason is the backend's refusal reason for broadcasting and unsigned call failures.
	Reason string `json:"reason,omitempty"`
}

// NewToolError describes err for a tool result.
func NewToolError(err error) ToolError {
	toolErr := ToolError{
		Error: err.Error(),
		Code:  string(openaction.CodeOf(err)),
	}

	var broadcasting *openaction.BroadcastingError
	var unsigned *openaction.UnsignedCallError
	switch {
	case errors.As(err, &broadcasting):
		toolErr.Reason = string(broadcasting.Reason)
	case errors.As(err, &unsigned):
		toolErr.Reason = string(unsigned.Reason)
	}
	if errors.Is(err, ErrInvalidArguments) && toolErr.Code == "" {
		toolErr.Code = string(openaction.ErrCodeInvalidRequest)
	}
	return toolErr
}

// InvalidArguments formats an error wrapping ErrInvalidArguments.
func InvalidArguments(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArguments, fmt.Sprintf(format, args...))
}
