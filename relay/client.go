// Package relay is the HTTP client of the backend that builds protocol calls and
// relays actions. It implements every gateway and relayer the strategies need, and
// completion polling for relayed transactions.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mark3labs/openaction-go"
	"github.com/mark3labs/openaction-go/encoding"
	"github.com/mark3labs/openaction-go/retry"
)

// Header names sent to the backend. HeaderIdempotencyKey is only sent for calls
// with a stable identity, so a resent broadcast is recognised as the same one.
const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestID      = "X-Request-ID"
)

// Client talks to the relay backend over JSON/HTTP.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	ChainID        int64
	RequestTimeout time.Duration // Timeout for a single backend call
	StatusRetry    retry.Config  // Retries of idempotent status reads
	Poll           retry.PollConfig

	logger *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// NewClient creates a relay client for baseURL on chainID.
func NewClient(baseURL string, chainID int64, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, openaction.NewConfigurationError("relay base URL is required")
	}

	c := &Client{
		BaseURL:        strings.TrimRight(baseURL, "/"),
		HTTPClient:     &http.Client{},
		ChainID:        chainID,
		RequestTimeout: 30 * time.Second,
		StatusRetry:    retry.DefaultConfig,
		Poll:           retry.DefaultPollConfig,
		logger:         zap.NewNop(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithHTTPClient sets a custom underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		if httpClient == nil {
			return openaction.NewConfigurationError("nil http client")
		}
		c.HTTPClient = httpClient
		return nil
	}
}

// WithRequestTimeout bounds every backend call.
func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		if timeout <= 0 {
			return openaction.NewConfigurationError("request timeout must be positive, got %s", timeout)
		}
		c.RequestTimeout = timeout
		return nil
	}
}

// WithPollConfig sets how relayed transactions are polled to completion.
func WithPollConfig(config retry.PollConfig) ClientOption {
	return func(c *Client) error {
		c.Poll = config
		return nil
	}
}

// WithStatusRetry sets how a single status read is retried.
func WithStatusRetry(config retry.Config) ClientOption {
	return func(c *Client) error {
		c.StatusRetry = config
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

// actRequest is the body of every request-scoped call.
type actRequest struct {
	Request encoding.RequestEnvelope `json:"request"`
	Nonce   *uint64                  `json:"nonce,omitempty"`
}

// relayResult is either a relay success or a relay error.
type relayResult struct {
	TxID    string `json:"txId,omitempty"`
	TxHash  string `json:"txHash,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

type typedDataResponse struct {
	ID        string             `json:"id"`
	Nonce     uint64             `json:"nonce"`
	TypedData apitypes.TypedData `json:"typedData"`
}

type broadcastRequest struct {
	ID        string `json:"id"`
	Signature string `json:"signature"`
}

type transactionResponse struct {
	To      string `json:"to"`
	Data    string `json:"data"`
	Value   string `json:"value,omitempty"`
	ChainID int64  `json:"chainId"`
}

type statusResponse struct {
	Status string `json:"status"`
	TxHash string `json:"txHash,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// statusError is a non-2xx response without a recognised body.
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%v: status %d: %s", ErrUnexpectedResponse, e.StatusCode, e.Body)
}

func (e *statusError) Unwrap() error {
	return ErrUnexpectedResponse
}

// RelayDelegable implements transactions.DelegableRelayer.
func (c *Client) RelayDelegable(ctx context.Context, request openaction.ActionRequest) (openaction.RelayReceipt, error) {
	envelope, err := encoding.NewRequestEnvelope(request)
	if err != nil {
		return openaction.RelayReceipt{}, err
	}
	return c.relay(ctx, "/v1/act/delegable", "", actRequest{Request: envelope})
}

// RelayProtocolCall implements transactions.ProtocolCallRelayer.
func (c *Client) RelayProtocolCall(ctx context.Context, call openaction.SignedProtocolCall) (openaction.RelayReceipt, error) {
	return c.relay(ctx, "/v1/act/broadcast", call.ID, broadcastRequest{ID: call.ID, Signature: call.Signature})
}

func (c *Client) relay(ctx context.Context, path, idempotencyKey string, body interface{}) (openaction.RelayReceipt, error) {
	var result relayResult
	status, err := c.do(ctx, http.MethodPost, path, idempotencyKey, body, &result)
	if err != nil {
		var unexpected *statusError
		if errors.As(err, &unexpected) && unexpected.StatusCode == http.StatusTooManyRequests {
			return openaction.RelayReceipt{}, openaction.NewBroadcastingError(openaction.ReasonRateLimited, err)
		}
		return openaction.RelayReceipt{}, err
	}

	if result.Reason != "" {
		reason := broadcastingReason(result.Reason)
		c.logger.Warn("relay rejected action",
			zap.String("path", path),
			zap.Int("status", status),
			zap.String("reason", result.Reason),
		)
		return openaction.RelayReceipt{}, openaction.NewBroadcastingError(reason, relayMessage(result))
	}
	if result.TxID == "" {
		return openaction.RelayReceipt{}, fmt.Errorf("%w: relay result without txId", ErrUnexpectedResponse)
	}

	return openaction.RelayReceipt{TxID: result.TxID, TxHash: result.TxHash}, nil
}

func relayMessage(result relayResult) error {
	if result.Message == "" {
		return nil
	}
	return errors.New(result.Message)
}

// CreateUnsignedProtocolCall implements transactions.ProtocolCallGateway.
func (c *Client) CreateUnsignedProtocolCall(ctx context.Context, request openaction.ActionRequest, nonceOverride *uint64) (*openaction.UnsignedProtocolCall, error) {
	envelope, err := encoding.NewRequestEnvelope(request)
	if err != nil {
		return nil, err
	}

	var resp typedDataResponse
	if _, err := c.do(ctx, http.MethodPost, "/v1/act/typed-data", "", actRequest{Request: envelope, Nonce: nonceOverride}, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: typed data without id", ErrUnexpectedResponse)
	}

	return &openaction.UnsignedProtocolCall{
		ID:        resp.ID,
		Nonce:     resp.Nonce,
		TypedData: resp.TypedData,
		Request:   request,
	}, nil
}

// CreateUnsignedTransaction implements transactions.TransactionGateway.
func (c *Client) CreateUnsignedTransaction(ctx context.Context, request openaction.ActionRequest) (*openaction.LedgerCall, error) {
	envelope, err := encoding.NewRequestEnvelope(request)
	if err != nil {
		return nil, err
	}

	var resp transactionResponse
	if _, err := c.do(ctx, http.MethodPost, "/v1/act/transaction", "", actRequest{Request: envelope}, &resp); err != nil {
		return nil, err
	}

	data, err := hexutil.Decode(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid call data: %v", ErrUnexpectedResponse, err)
	}

	value := new(big.Int)
	if resp.Value != "" {
		if _, ok := value.SetString(resp.Value, 0); !ok {
			return nil, fmt.Errorf("%w: invalid call value %q", ErrUnexpectedResponse, resp.Value)
		}
	}

	chainID := resp.ChainID
	if chainID == 0 {
		chainID = c.ChainID
	}

	return &openaction.LedgerCall{
		To:      resp.To,
		Data:    data,
		Value:   value,
		ChainID: chainID,
		Request: request,
	}, nil
}

// Status returns the current status of a relayed transaction. The read is retried on
// transport failures and server errors.
func (c *Client) Status(ctx context.Context, txID string) (openaction.TransactionStatus, error) {
	resp, err := retry.WithRetry(ctx, c.StatusRetry, isTransient, func() (statusResponse, error) {
		var resp statusResponse
		_, err := c.do(ctx, http.MethodGet, "/v1/transactions/"+url.PathEscape(txID)+"/status", "", nil, &resp)
		return resp, err
	})
	if err != nil {
		return "", err
	}

	switch resp.Status {
	case "PROCESSING", "OPTIMISTICALLY_UPDATED":
		return openaction.TransactionStatusPending, nil
	case "COMPLETE":
		return openaction.TransactionStatusComplete, nil
	case "FAILED":
		return openaction.TransactionStatusFailed, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction status %q", ErrUnexpectedResponse, resp.Status)
	}
}

// WaitUntilComplete implements openaction.CompletionPoller for relayed transactions.
func (c *Client) WaitUntilComplete(ctx context.Context, tx *openaction.Transaction) (openaction.TransactionStatus, error) {
	return retry.Poll(ctx, c.Poll, func(ctx context.Context) (openaction.TransactionStatus, bool, error) {
		status, err := c.Status(ctx, tx.ID)
		if err != nil {
			return "", false, err
		}
		return status, status != openaction.TransactionStatusPending, nil
	})
}

func isTransient(err error) bool {
	if errors.Is(err, ErrRelayUnavailable) {
		return true
	}
	var unexpected *statusError
	return errors.As(err, &unexpected) && unexpected.StatusCode >= http.StatusInternalServerError
}

// do sends one request and decodes a JSON response into out. A body carrying a
// reason is decoded even on non-2xx statuses so relay rejections keep their reason.
func (c *Client) do(ctx context.Context, method, path, idempotencyKey string, body, out interface{}) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.RequestTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set(HeaderIdempotencyKey, idempotencyKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", ErrRelayUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %v", ErrRelayUnavailable, err)
	}

	c.logger.Debug("relay response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, c.responseError(resp.StatusCode, payload, out)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return resp.StatusCode, nil
}

// responseError interprets a non-2xx body. A relay reason is decoded into out when
// out is a relay result, so the caller reports the typed rejection.
func (c *Client) responseError(status int, payload []byte, out interface{}) error {
	var rejection relayResult
	if err := json.Unmarshal(payload, &rejection); err == nil && rejection.Reason != "" {
		if rejection.Reason == reasonNotCollectable {
			message := rejection.Message
			if message == "" {
				message = "backend refused the publication"
			}
			return &openaction.ConfigurationError{Message: message, Err: openaction.ErrNotCollectable}
		}
		if result, ok := out.(*relayResult); ok {
			*result = rejection
			return nil
		}
		return openaction.NewBroadcastingError(broadcastingReason(rejection.Reason), relayMessage(rejection))
	}
	return &statusError{StatusCode: status, Body: strings.TrimSpace(string(payload))}
}
