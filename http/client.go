package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/openaction-go"
	"github.com/mark3labs/openaction-go/encoding"
	"github.com/mark3labs/openaction-go/http/internal/helpers"
	"github.com/mark3labs/openaction-go/retry"
)

// Client calls an API served by NewRouter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	poll       retry.PollConfig
}

// ClientOption configures a Client.
type ClientOption func(*Client) error

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultWaitTimeout + 10*time.Second},
		poll:       retry.PollConfig{Interval: time.Second, MaxConsecutiveErrors: 3},
	}

	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}
	return client, nil
}

// WithHTTPClient sets a custom underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		if httpClient == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.httpClient = httpClient
		return nil
	}
}

// WithClientPollConfig sets how WaitUntilComplete re-asks while the server reports pending.
func WithClientPollConfig(config retry.PollConfig) ClientOption {
	return func(c *Client) error {
		c.poll = config
		return nil
	}
}

// APIError is a non-2xx API response.
type APIError struct {
	StatusCode int
	Message    string
	Code       openaction.ErrorCode
	Reason     openaction.BroadcastingErrorReason
	RequestID  string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("openaction API error [%d]: %s", e.StatusCode, e.Message)
	if e.RequestID != "" {
		msg += fmt.Sprintf(" (RequestID: %s)", e.RequestID)
	}
	return msg
}

// Is matches the openaction sentinel named by the response code, so callers can
// use errors.Is the same way against local and remote execution.
func (e *APIError) Is(target error) bool {
	switch e.Code {
	case openaction.ErrCodeInsufficientFunds:
		return target == openaction.ErrInsufficientFunds
	case openaction.ErrCodeInsufficientAllowance:
		return target == openaction.ErrInsufficientAllowance
	case openaction.ErrCodeBroadcastingFailed:
		return target == openaction.ErrBroadcastingFailed
	case openaction.ErrCodeLedgerSubmission:
		return target == openaction.ErrLedgerSubmission
	case openaction.ErrCodeConfiguration:
		return target == openaction.ErrConfiguration
	case openaction.ErrCodeSigningFailed:
		return target == openaction.ErrSigningFailed
	case openaction.ErrCodeInvalidRequest:
		return target == openaction.ErrInvalidRequest
	default:
		return false
	}
}

// Act submits request for execution.
func (c *Client) Act(ctx context.Context, request openaction.ActionRequest) (*ActResponse, error) {
	envelope, err := encoding.NewRequestEnvelope(request)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/actions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var response ActResponse
	if err := c.do(req, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Status asks the server to wait up to wait for tx to finish.
func (c *Client) Status(ctx context.Context, tx *openaction.Transaction, wait time.Duration) (openaction.TransactionStatus, error) {
	handle, err := encoding.EncodeTransaction(tx)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("handle", handle)
	if wait > 0 {
		query.Set("wait", fmt.Sprintf("%d", int(wait/time.Second)))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/transactions/status?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	var response StatusResponse
	if err := c.do(req, &response); err != nil {
		return "", err
	}
	return response.Status, nil
}

// WaitUntilComplete implements openaction.CompletionPoller against the remote API.
func (c *Client) WaitUntilComplete(ctx context.Context, tx *openaction.Transaction) (openaction.TransactionStatus, error) {
	return retry.Poll(ctx, c.poll, func(ctx context.Context) (openaction.TransactionStatus, bool, error) {
		status, err := c.Status(ctx, tx, 0)
		if err != nil {
			return "", false, err
		}
		return status, status != openaction.TransactionStatusPending, nil
	})
}

func (c *Client) do(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := helpers.ReadError(resp)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    body.Error,
			Code:       openaction.ErrorCode(body.Code),
			Reason:     openaction.BroadcastingErrorReason(body.Reason),
			RequestID:  body.RequestID,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
