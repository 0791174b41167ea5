// Package server serves the open action tools over MCP.
package server

import (
	"context"
	"net/http"
	"time"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mark3labs/openaction-go"
	"github.com/mark3labs/openaction-go/mcp"
)

// Executor runs an action request to its Result. *openaction.OpenAction satisfies it.
type Executor interface {
	Execute(ctx context.Context, request openaction.ActionRequest) openaction.Result
}

// Server wraps an MCP server carrying the open action tools.
type Server struct {
	mcpServer   *mcpserver.MCPServer
	executor    Executor
	poller      openaction.CompletionPoller
	logger      *zap.Logger
	waitTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for tool calls.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWaitTimeout caps how long wait_for_transaction may block.
func WithWaitTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.waitTimeout = timeout
		}
	}
}

// NewServer creates an MCP server exposing act_on_publication and, when poller
// is not nil, wait_for_transaction.
func NewServer(name, version string, executor Executor, poller openaction.CompletionPoller, opts ...Option) *Server {
	s := &Server{
		mcpServer:   mcpserver.NewMCPServer(name, version, mcpserver.WithToolCapabilities(false)),
		executor:    executor,
		poller:      poller,
		logger:      zap.NewNop(),
		waitTimeout: mcp.DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer.AddTool(actTool(), s.handleAct)
	if poller != nil {
		s.mcpServer.AddTool(waitTool(), s.handleWait)
	}
	return s
}

func actTool() mcpproto.Tool {
	return mcpproto.NewTool(
		mcp.ToolActOnPublication,
		mcpproto.WithDescription("Act on a publication: collect it or run its open action module. "+
			"Checks the fee is affordable, then relays or submits the action and returns a transaction handle."),
		mcpproto.WithString(mcp.ArgRequest, mcpproto.Required(),
			mcpproto.Description(`JSON action request envelope: {"type": "SIMPLE_COLLECT", "request": {...}}`)),
	)
}

func waitTool() mcpproto.Tool {
	return mcpproto.NewTool(
		mcp.ToolWaitForTransaction,
		mcpproto.WithDescription("Wait for a transaction returned by act_on_publication to complete or fail."),
		mcpproto.WithString(mcp.ArgHandle, mcpproto.Required(), mcpproto.Description("Transaction handle")),
		mcpproto.WithNumber(mcp.ArgTimeoutSeconds, mcpproto.Description("Maximum seconds to wait")),
	)
}

// Handler returns the MCP streamable HTTP handler.
func (s *Server) Handler() http.Handler {
	return mcpserver.NewStreamableHTTPServer(s.mcpServer)
}

// ServeStdio serves MCP over standard input and output until it closes.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

// GetMCPServer returns the underlying MCP server (for advanced usage)
func (s *Server) GetMCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}
