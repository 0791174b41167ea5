package coinbase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type fakeAuth struct {
	walletCalls atomic.Int32
}

func (f *fakeAuth) GenerateBearerToken(method, path string) (string, error) {
	return "bearer-" + method, nil
}

func (f *fakeAuth) GenerateWalletAuthToken(method, path string, bodyHash []byte) (string, error) {
	f.walletCalls.Add(1)
	return "wallet-" + method, nil
}

func newTestCDPClient(t *testing.T, handler http.HandlerFunc) (*CDPClient, *fakeAuth) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	auth := &fakeAuth{}
	client := NewCDPClient(auth)
	client.baseURL = server.URL
	client.initialWait = time.Millisecond
	return client, auth
}

func TestDoRequest_AuthenticationHeaders(t *testing.T) {
	client, auth := newTestCDPClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer bearer-POST" {
			t.Errorf("unexpected Authorization header %q", got)
		}
		if got := r.Header.Get("X-Wallet-Auth"); got != "wallet-POST" {
			t.Errorf("unexpected X-Wallet-Auth header %q", got)
		}
		w.Write([]byte(`{"address":"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"}`))
	})

	var account CDPAccount
	if err := client.doRequest(context.Background(), "POST", "/platform/v2/evm/accounts", map[string]string{"name": "a"}, &account, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Address != "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266" {
		t.Errorf("unexpected address %s", account.Address)
	}
	if auth.walletCalls.Load() != 1 {
		t.Errorf("expected one wallet token, got %d", auth.walletCalls.Load())
	}
}

func TestDoRequest_ErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantType      string
		wantRetryable bool
		wantMessage   string
	}{
		{name: "rate limit", status: 429, wantType: ErrorTypeRateLimit, wantRetryable: true, wantMessage: "Rate limit exceeded"},
		{name: "server error", status: 503, wantType: ErrorTypeServerError, wantRetryable: true, wantMessage: "CDP server error"},
		{name: "unauthorized", status: 401, wantType: ErrorTypeAuthError},
		{name: "forbidden", status: 403, wantType: ErrorTypeAuthError},
		{name: "not found", status: 404, wantType: ErrorTypeNotFound},
		{name: "bad request with api message", status: 400, body: `{"errorType":"invalid_request","errorMessage":"name is taken"}`, wantType: ErrorTypeClientError, wantMessage: "name is taken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestCDPClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Request-ID", "req-123")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := client.doRequest(context.Background(), "GET", "/test", nil, nil, false)
			var cdpErr *CDPError
			if !errors.As(err, &cdpErr) {
				t.Fatalf("expected CDPError, got %v", err)
			}
			if cdpErr.ErrorType != tt.wantType {
				t.Errorf("expected type %s, got %s", tt.wantType, cdpErr.ErrorType)
			}
			if cdpErr.Retryable != tt.wantRetryable {
				t.Errorf("expected retryable %v, got %v", tt.wantRetryable, cdpErr.Retryable)
			}
			if tt.wantMessage != "" && cdpErr.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, cdpErr.Message)
			}
			if !strings.Contains(cdpErr.Error(), "req-123") || !strings.Contains(cdpErr.Error(), "[GET /test]") {
				t.Errorf("error should name the request: %s", cdpErr.Error())
			}
		})
	}
}

func TestDoRequestWithRetry_ServerError(t *testing.T) {
	var attempts atomic.Int32
	client, _ := newTestCDPClient(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{}`))
	})

	if err := client.doRequestWithRetry(context.Background(), "GET", "/test", nil, nil, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestDoRequestWithRetry_NonRetryableError(t *testing.T) {
	var attempts atomic.Int32
	client, _ := newTestCDPClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	err := client.doRequestWithRetry(context.Background(), "GET", "/test", nil, nil, false)
	var cdpErr *CDPError
	if !errors.As(err, &cdpErr) || cdpErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 CDPError, got %v", err)
	}
	if attempts.Load() != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts.Load())
	}
}

func TestDoRequestWithRetry_MaxAttemptsExhausted(t *testing.T) {
	var attempts atomic.Int32
	client, _ := newTestCDPClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	err := client.doRequestWithRetry(context.Background(), "GET", "/test", nil, nil, false)
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts.Load() != 5 {
		t.Errorf("expected 5 attempts, got %d", attempts.Load())
	}
}

func TestDoRequestWithRetry_RetryAfterHeader(t *testing.T) {
	var attempts atomic.Int32
	var first time.Time
	var elapsed time.Duration
	client, _ := newTestCDPClient(t, func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			first = time.Now()
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		elapsed = time.Since(first)
		w.Write([]byte(`{}`))
	})

	if err := client.doRequestWithRetry(context.Background(), "GET", "/test", nil, nil, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed < 900*time.Millisecond {
		t.Errorf("expected to wait for Retry-After, waited %s", elapsed)
	}
}

func TestDoRequestWithRetry_ContextCancellation(t *testing.T) {
	client, _ := newTestCDPClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "10")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := client.doRequestWithRetry(ctx, "GET", "/test", nil, nil, false)
	if err == nil {
		t.Fatal("expected error")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("retry should stop when the context ends")
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{name: "missing", header: "", want: 0},
		{name: "seconds", header: "30", want: 30 * time.Second},
		{name: "invalid", header: "soon", want: 0},
		{name: "past date", header: "Mon, 02 Jan 2006 15:04:05 GMT", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{Header: http.Header{}}
			if tt.header != "" {
				resp.Header.Set("Retry-After", tt.header)
			}
			if got := parseRetryAfter(resp); got != tt.want {
				t.Errorf("parseRetryAfter() = %s, want %s", got, tt.want)
			}
		})
	}

	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	resp := &http.Response{Header: http.Header{"Retry-After": []string{future}}}
	if got := parseRetryAfter(resp); got < 58*time.Minute {
		t.Errorf("expected about an hour, got %s", got)
	}
}
