// Package encoding provides the wire forms of open action data.
// Requests travel as a type-discriminated JSON envelope; transaction handles are
// base64 JSON so callers can persist them and resume polling later.
package encoding

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/openaction-go"
)

// RequestEnvelope is the JSON form of an openaction.ActionRequest.
type RequestEnvelope struct {
	Type    openaction.ActionType `json:"type"`
	Request json.RawMessage       `json:"request"`
}

// NewRequestEnvelope wraps request in its envelope.
func NewRequestEnvelope(request openaction.ActionRequest) (RequestEnvelope, error) {
	if _, _, err := openaction.FeeOf(request); err != nil {
		return RequestEnvelope{}, err
	}

	body, err := json.Marshal(request)
	if err != nil {
		return RequestEnvelope{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	return RequestEnvelope{Type: request.Type(), Request: body}, nil
}

// ActionRequest decodes the enveloped request into its concrete variant.
// Unknown discriminators are rejected with openaction.ErrInvalidRequest.
func (e RequestEnvelope) ActionRequest() (openaction.ActionRequest, error) {
	switch e.Type {
	case openaction.ActionTypeLegacyCollect:
		return decodeVariant[openaction.LegacyCollectRequest](e.Request)
	case openaction.ActionTypeSimpleCollect:
		return decodeVariant[openaction.SimpleCollectRequest](e.Request)
	case openaction.ActionTypeMultirecipientCollect:
		return decodeVariant[openaction.MultirecipientCollectRequest](e.Request)
	case openaction.ActionTypeSharedRevenueCollect:
		return decodeVariant[openaction.SharedRevenueCollectRequest](e.Request)
	case openaction.ActionTypeUnknown:
		return decodeVariant[openaction.UnknownActionRequest](e.Request)
	default:
		return nil, fmt.Errorf("%w: unknown action type %q", openaction.ErrInvalidRequest, e.Type)
	}
}

func decodeVariant[T openaction.ActionRequest](data json.RawMessage) (openaction.ActionRequest, error) {
	var request T
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: missing request body", openaction.ErrInvalidRequest)
	}
	if err := json.Unmarshal(data, &request); err != nil {
		return nil, fmt.Errorf("%w: %v", openaction.ErrInvalidRequest, err)
	}
	return request, nil
}

// MarshalRequest converts request to its JSON envelope.
func MarshalRequest(request openaction.ActionRequest) ([]byte, error) {
	envelope, err := NewRequestEnvelope(request)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope)
}

// UnmarshalRequest parses a JSON envelope produced by MarshalRequest.
func UnmarshalRequest(data []byte) (openaction.ActionRequest, error) {
	var envelope RequestEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", openaction.ErrInvalidRequest, err)
	}
	return envelope.ActionRequest()
}

// EncodeTransaction converts a transaction handle to a base64-encoded JSON string.
// The originating request is not part of the handle.
func EncodeTransaction(tx *openaction.Transaction) (string, error) {
	if tx == nil {
		return "", fmt.Errorf("nil transaction")
	}
	txJSON, err := json.Marshal(tx)
	if err != nil {
		return "", fmt.Errorf("failed to marshal transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(txJSON), nil
}

// DecodeTransaction converts a string produced by EncodeTransaction back to a handle.
//
// Returns an error if base64 decoding, JSON unmarshaling or kind validation fails.
func DecodeTransaction(encoded string) (*openaction.Transaction, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	var tx openaction.Transaction
	if err := json.Unmarshal(decoded, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}

	switch tx.Kind {
	case openaction.TransactionKindRelayed, openaction.TransactionKindNative:
	default:
		return nil, fmt.Errorf("%w: unknown transaction kind %q", openaction.ErrInvalidRequest, tx.Kind)
	}
	if tx.ID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", openaction.ErrInvalidRequest)
	}
	return &tx, nil
}
