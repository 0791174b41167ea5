// Package http serves the open action orchestrator over a JSON HTTP API and
// provides a client for it.
//
// Routes:
//
//	POST /v1/actions                  execute an enveloped action request
//	GET  /v1/transactions/status      wait for a submitted transaction, by handle
//	GET  /healthz                     liveness
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mark3labs/openaction-go"
	"github.com/mark3labs/openaction-go/encoding"
	"github.com/mark3labs/openaction-go/http/internal/helpers"
	"github.com/mark3labs/openaction-go/retry"
	"github.com/mark3labs/openaction-go/validation"
)

// DefaultWaitTimeout bounds how long a status request waits for completion.
const DefaultWaitTimeout = 30 * time.Second

// Executor runs an action request to its Result. *openaction.OpenAction satisfies it.
type Executor interface {
	Execute(ctx context.Context, request openaction.ActionRequest) openaction.Result
}

// ActResponse is the body of a successful POST /v1/actions.
type ActResponse struct {
	Strategy    string                 `json:"strategy"`
	Transaction openaction.Transaction `json:"transaction"`

	// Handle is the encoded transaction to pass to the status endpoint.
	Handle string `json:"handle"`
}

// StatusResponse is the body of a successful status request.
type StatusResponse struct {
	Status      openaction.TransactionStatus `json:"status"`
	Transaction openaction.Transaction       `json:"transaction"`
}

type server struct {
	executor    Executor
	poller      openaction.CompletionPoller
	logger      *zap.Logger
	waitTimeout time.Duration
}

// Option configures the router.
type Option func(*server)

// WithLogger sets the logger for request and execution logs.
func WithLogger(logger *zap.Logger) Option {
	return func(s *server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWaitTimeout sets the longest a status request may wait.
func WithWaitTimeout(timeout time.Duration) Option {
	return func(s *server) {
		if timeout > 0 {
			s.waitTimeout = timeout
		}
	}
}

// NewRouter builds the API router. poller may be nil, in which case the status
// endpoint responds 501.
func NewRouter(executor Executor, poller openaction.CompletionPoller, opts ...Option) chi.Router {
	s := &server{
		executor:    executor,
		poller:      poller,
		logger:      zap.NewNop(),
		waitTimeout: DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/actions", s.handleAct)
		r.Get("/transactions/status", s.handleStatus)
	})
	return r
}

func (s *server) handleAct(w http.ResponseWriter, r *http.Request) {
	var envelope encoding.RequestEnvelope
	if err := helpers.DecodeJSON(r, &envelope); err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", openaction.ErrInvalidRequest, err))
		return
	}

	request, err := envelope.ActionRequest()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := validation.ValidateActionRequest(request); err != nil {
		s.writeError(w, r, err)
		return
	}

	result := s.executor.Execute(r.Context(), request)
	if result.Err != nil {
		s.writeError(w, r, result.Err)
		return
	}

	handle, err := encoding.EncodeTransaction(result.Transaction)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusAccepted, ActResponse{
		Strategy:    result.Strategy.String(),
		Transaction: *result.Transaction,
		Handle:      handle,
	})
}

// handleStatus waits for the transaction in the handle query parameter to finish.
// The optional wait parameter (seconds) shortens the server's wait timeout; a
// transaction still running when the wait ends is reported as pending.
func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.poller == nil {
		helpers.WriteError(w, http.StatusNotImplemented, helpers.ErrorResponse{
			Error:     "transaction tracking is not configured",
			RequestID: RequestIDFromContext(r.Context()),
		})
		return
	}

	tx, err := encoding.DecodeTransaction(r.URL.Query().Get("handle"))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", openaction.ErrInvalidRequest, err))
		return
	}

	timeout := s.waitTimeout
	if wait := r.URL.Query().Get("wait"); wait != "" {
		seconds, err := strconv.Atoi(wait)
		if err != nil || seconds < 0 {
			s.writeError(w, r, fmt.Errorf("%w: wait must be a non-negative number of seconds", openaction.ErrInvalidRequest))
			return
		}
		if d := time.Duration(seconds) * time.Second; d < timeout {
			timeout = d
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	status, err := s.poller.WaitUntilComplete(ctx, tx)
	switch {
	case err == nil:
	case errors.Is(err, retry.ErrPollTimeout), errors.Is(err, context.DeadlineExceeded) && r.Context().Err() == nil:
		status = openaction.TransactionStatusPending
	default:
		s.writeError(w, r, err)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, StatusResponse{Status: status, Transaction: *tx})
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request error", zap.Error(err), zap.String("request_id", RequestIDFromContext(r.Context())))
	}
	helpers.WriteError(w, status, errorResponse(r, err))
}
