package coinbase

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultBaseURL is the production CDP API.
const DefaultBaseURL = "https://api.cdp.coinbase.com"

// cdpAuth is an interface for JWT token generation, allowing for testing with mock implementations.
type cdpAuth interface {
	GenerateBearerToken(method, path string) (string, error)
	GenerateWalletAuthToken(method, path string, bodyHash []byte) (string, error)
}

// CDPClient is an HTTP client for the CDP REST API. It authenticates every request
// and retries rate limits and server errors with exponential backoff.
//
// CDPClient is safe for concurrent use by multiple goroutines.
type CDPClient struct {
	baseURL     string
	httpClient  *http.Client
	auth        cdpAuth
	maxRetries  uint64
	initialWait time.Duration
}

// NewCDPClient creates a client for the production API.
func NewCDPClient(auth cdpAuth) *CDPClient {
	return &CDPClient{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		auth:        auth,
		maxRetries:  4,
		initialWait: 100 * time.Millisecond,
	}
}

// doRequest executes one authenticated request. Non-2xx responses become *CDPError.
func (c *CDPClient) doRequest(ctx context.Context, method, path string, body, result interface{}, requireWalletAuth bool) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	token, err := c.auth.GenerateBearerToken(method, path)
	if err != nil {
		return fmt.Errorf("generate JWT: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	if requireWalletAuth {
		hash := sha256.Sum256(bodyBytes)
		walletToken, err := c.auth.GenerateWalletAuthToken(method, path, hash[:])
		if err != nil {
			return fmt.Errorf("generate wallet auth JWT: %w", err)
		}
		req.Header.Set("X-Wallet-Auth", walletToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyError(resp, method, path)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// classifyError builds a CDPError from a non-2xx response.
//
//   - 429: rate_limit, retryable, honours Retry-After
//   - 5xx: server_error, retryable
//   - 401, 403: auth_error
//   - 404: not_found
//   - other 4xx: client_error
func classifyError(resp *http.Response, method, path string) error {
	cdpErr := &CDPError{
		StatusCode: resp.StatusCode,
		RequestID:  resp.Header.Get("X-Request-ID"),
		Method:     method,
		Path:       path,
	}

	bodyText, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var apiErr struct {
		ErrorMessage string `json:"errorMessage"`
	}
	if json.Unmarshal(bodyText, &apiErr) == nil && apiErr.ErrorMessage != "" {
		cdpErr.Message = apiErr.ErrorMessage
	} else if len(bodyText) > 0 {
		cdpErr.Message = string(bodyText)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		cdpErr.ErrorType = ErrorTypeRateLimit
		cdpErr.Retryable = true
		cdpErr.RetryAfter = parseRetryAfter(resp)
		if cdpErr.Message == "" {
			cdpErr.Message = "Rate limit exceeded"
		}
	case resp.StatusCode >= 500:
		cdpErr.ErrorType = ErrorTypeServerError
		cdpErr.Retryable = true
		if cdpErr.Message == "" {
			cdpErr.Message = "CDP server error"
		}
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		cdpErr.ErrorType = ErrorTypeAuthError
		if cdpErr.Message == "" {
			cdpErr.Message = "Authentication failed - check API credentials"
		}
	case resp.StatusCode == http.StatusNotFound:
		cdpErr.ErrorType = ErrorTypeNotFound
		if cdpErr.Message == "" {
			cdpErr.Message = "Resource not found"
		}
	default:
		cdpErr.ErrorType = ErrorTypeClientError
		if cdpErr.Message == "" {
			cdpErr.Message = "Invalid request parameters"
		}
	}

	return cdpErr
}

// parseRetryAfter reads Retry-After as seconds or an HTTP date. Zero means absent.
func parseRetryAfter(resp *http.Response) time.Duration {
	retryAfter := resp.Header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}

	if retryTime, err := http.ParseTime(retryAfter); err == nil {
		if duration := time.Until(retryTime); duration > 0 {
			return duration
		}
	}
	return 0
}

// retryAfterBackOff prefers the delay the server asked for over the wrapped policy.
type retryAfterBackOff struct {
	backoff.BackOff
	lastErr *error
}

func (b retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	var cdpErr *CDPError
	if errors.As(*b.lastErr, &cdpErr) && cdpErr.RetryAfter > 0 {
		return cdpErr.RetryAfter
	}
	return next
}

// doRequestWithRetry wraps doRequest with exponential backoff for retryable CDPErrors.
// Other errors, including transport failures, are returned on the first attempt.
func (c *CDPClient) doRequestWithRetry(ctx context.Context, method, path string, body, result interface{}, requireWalletAuth bool) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = c.initialWait
	expBackoff.MaxInterval = 10 * time.Second
	expBackoff.RandomizationFactor = 0.25

	var lastErr error
	operation := func() error {
		lastErr = c.doRequest(ctx, method, path, body, result, requireWalletAuth)
		if lastErr == nil {
			return nil
		}
		var cdpErr *CDPError
		if errors.As(lastErr, &cdpErr) && cdpErr.Retryable {
			return lastErr
		}
		return backoff.Permanent(lastErr)
	}

	policy := backoff.WithContext(
		retryAfterBackOff{BackOff: backoff.WithMaxRetries(expBackoff, c.maxRetries), lastErr: &lastErr},
		ctx,
	)
	return backoff.Retry(operation, policy)
}
