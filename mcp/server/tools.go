package server

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/mark3labs/openaction-go"
	"github.com/mark3labs/openaction-go/encoding"
	"github.com/mark3labs/openaction-go/mcp"
	"github.com/mark3labs/openaction-go/retry"
	"github.com/mark3labs/openaction-go/validation"
)

// handleAct executes the enveloped request. Execution failures are tool errors,
// not protocol errors, so the calling model can read and react to them.
func (s *Server) handleAct(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	raw, ok := req.GetArguments()[mcp.ArgRequest].(string)
	if !ok || raw == "" {
		return toolError(mcp.InvalidArguments("%s must be a JSON string", mcp.ArgRequest)), nil
	}

	request, err := encoding.UnmarshalRequest([]byte(raw))
	if err != nil {
		return toolError(err), nil
	}
	if err := validation.ValidateActionRequest(request); err != nil {
		return toolError(err), nil
	}

	result := s.executor.Execute(ctx, request)
	if result.Err != nil {
		s.logger.Info("act_on_publication failed",
			zap.String("publication_id", request.Target()),
			zap.Error(result.Err),
		)
		return toolError(result.Err), nil
	}

	handle, err := encoding.EncodeTransaction(result.Transaction)
	if err != nil {
		return toolError(err), nil
	}
	return toolJSON(mcp.ActResult{
		Strategy:    result.Strategy.String(),
		Transaction: *result.Transaction,
		Handle:      handle,
	})
}

// handleWait blocks until the transaction is terminal or the timeout elapses, in
// which case it reports pending.
func (s *Server) handleWait(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
	args := req.GetArguments()

	handle, ok := args[mcp.ArgHandle].(string)
	if !ok || handle == "" {
		return toolError(mcp.InvalidArguments("%s is required", mcp.ArgHandle)), nil
	}
	tx, err := encoding.DecodeTransaction(handle)
	if err != nil {
		return toolError(mcp.InvalidArguments("%v", err)), nil
	}

	timeout := s.waitTimeout
	if seconds, ok := args[mcp.ArgTimeoutSeconds].(float64); ok {
		if seconds <= 0 {
			return toolError(mcp.InvalidArguments("%s must be positive", mcp.ArgTimeoutSeconds)), nil
		}
		if d := time.Duration(seconds * float64(time.Second)); d < timeout {
			timeout = d
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	status, err := s.poller.WaitUntilComplete(waitCtx, tx)
	switch {
	case err == nil:
	case errors.Is(err, retry.ErrPollTimeout), errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		status = openaction.TransactionStatusPending
	default:
		return toolError(err), nil
	}

	return toolJSON(mcp.WaitResult{Status: status, Transaction: *tx})
}

func toolJSON(v interface{}) (*mcpproto.CallToolResult, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcpproto.NewToolResultText(string(body)), nil
}

func toolError(err error) *mcpproto.CallToolResult {
	body, _ := json.Marshal(mcp.NewToolError(err))
	return mcpproto.NewToolResultError(string(body))
}
