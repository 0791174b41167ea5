// Package mcp exposes the open action orchestrator as MCP (Model Context Protocol)
// tools. This package holds the tool names and result payloads shared by the
// server and its callers.
package mcp

import (
	"time"

	"github.com/mark3labs/openaction-go"
)

// Tool names.
const (
	ToolActOnPublication   = "act_on_publication"
	ToolWaitForTransaction = "wait_for_transaction"
)

// Tool argument keys.
const (
	ArgRequest        = "request"
	ArgHandle         = "handle"
	ArgTimeoutSeconds = "timeout_seconds"
)

// DefaultWaitTimeout bounds wait_for_transaction when the caller sets no timeout.
const DefaultWaitTimeout = 2 * time.Minute

// ActResult is the JSON payload of a successful act_on_publication call.
type ActResult struct {
	Strategy    string                 `json:"strategy"`
	Transaction openaction.Transaction `json:"transaction"`

	// Handle is passed to wait_for_transaction.
	Handle string `json:"handle"`
}

// WaitResult is the JSON payload of a successful wait_for_transaction call.
type WaitResult struct {
	Status      openaction.TransactionStatus `json:"status"`
	Transaction openaction.Transaction       `json:"transaction"`
}
