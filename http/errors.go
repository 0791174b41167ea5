package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/mark3labs/openaction-go"
	"github.com/mark3labs/openaction-go/http/internal/helpers"
	"github.com/mark3labs/openaction-go/relay"
)

// StatusFor maps an execution error to the HTTP status the API responds with.
//
//   - insufficient funds or allowance: 402
//   - rate limited by the relay: 429
//   - other relay rejections with a known reason: 422
//   - relay unreachable: 503
//   - unknown relay failures, ledger and signing failures: 502
//   - the backend failing to build an unsigned call: 502, or 422 when the
//     publication is not collectable
//   - invalid or unresolvable requests: 400
//   - deadline exceeded: 504
func StatusFor(err error) int {
	var broadcasting *openaction.BroadcastingError
	switch {
	case errors.Is(err, openaction.ErrInsufficientFunds), errors.Is(err, openaction.ErrInsufficientAllowance):
		return http.StatusPaymentRequired
	case errors.Is(err, relay.ErrRelayUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &broadcasting):
		switch broadcasting.Reason {
		case openaction.ReasonRateLimited:
			return http.StatusTooManyRequests
		case openaction.ReasonUnknown:
			return http.StatusBadGateway
		default:
			return http.StatusUnprocessableEntity
		}
	case errors.Is(err, openaction.ErrLedgerSubmission), errors.Is(err, openaction.ErrSigningFailed):
		return http.StatusBadGateway
	case errors.Is(err, openaction.ErrNotCollectable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, openaction.ErrUnsignedCall):
		return http.StatusBadGateway
	case errors.Is(err, openaction.ErrInvalidRequest), errors.Is(err, openaction.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorResponse(r *http.Request, err error) helpers.ErrorResponse {
	response := helpers.ErrorResponse{
		Error:     err.Error(),
		Code:      string(openaction.CodeOf(err)),
		RequestID: RequestIDFromContext(r.Context()),
	}

	var broadcasting *openaction.BroadcastingError
	var unsigned *openaction.UnsignedCallError
	switch {
	case errors.As(err, &broadcasting):
		response.Reason = string(broadcasting.Reason)
	case errors.As(err, &unsigned):
		response.Reason = string(unsigned.Reason)
	}
	return response
}
