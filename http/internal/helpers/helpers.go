// Package helpers provides the request and response plumbing shared by the HTTP
// API handlers and its client, so both sides agree on one JSON shape.
package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MaxBodyBytes bounds request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`

	// Reason is the relay rejection reason for broadcasting failures.
	Reason string `json:"reason,omitempty"`

	RequestID string `json:"requestId,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignore encoding errors - headers are already sent
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, status int, response ErrorResponse) {
	if response.Error == "" {
		response.Error = http.StatusText(status)
	}
	WriteJSON(w, status, response)
}

// DecodeJSON decodes the request body into v, rejecting unknown fields, trailing
// data and bodies larger than MaxBodyBytes.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("empty request body")
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if err == io.EOF {
			return fmt.Errorf("empty request body")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if decoder.More() {
		return fmt.Errorf("invalid JSON body: trailing data")
	}
	return nil
}

// ReadError decodes an ErrorResponse from a non-2xx response. Bodies that are not
// an ErrorResponse are returned as the error text.
func ReadError(resp *http.Response) ErrorResponse {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var response ErrorResponse
	if err := json.Unmarshal(body, &response); err != nil || response.Error == "" {
		response = ErrorResponse{Error: string(body)}
	}
	if response.Error == "" {
		response.Error = http.StatusText(resp.StatusCode)
	}
	return response
}
