// Package transactions implements the three execution strategies of an open action.
package transactions

//go:generate mockgen -source=interfaces.go -destination=../mocks/mock_transactions.go -package=mocks

import (
	"context"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/mark3labs/openaction-go"
)

// DelegableRelayer asks the relay to submit a request without a user signature.
// A relay rejection is reported as *openaction.BroadcastingError.
type DelegableRelayer interface {
	RelayDelegable(ctx context.Context, request openaction.ActionRequest) (openaction.RelayReceipt, error)
}

// ProtocolCallGateway asks the backend for the typed data authorizing request.
// A nil nonceOverride lets the backend pick the next nonce.
type ProtocolCallGateway interface {
	CreateUnsignedProtocolCall(ctx context.Context, request openaction.ActionRequest, nonceOverride *uint64) (*openaction.UnsignedProtocolCall, error)
}

// TypedDataSigner signs EIP-712 typed data with the acting wallet.
type TypedDataSigner interface {
	SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error)
}

// ProtocolCallRelayer submits a signed protocol call through the relay.
type ProtocolCallRelayer interface {
	RelayProtocolCall(ctx context.Context, call openaction.SignedProtocolCall) (openaction.RelayReceipt, error)
}

// TransactionGateway asks the backend for the ledger call that performs request.
type TransactionGateway interface {
	CreateUnsignedTransaction(ctx context.Context, request openaction.ActionRequest) (*openaction.LedgerCall, error)
}

// LedgerSubmitter signs a ledger call with the acting wallet and sends it.
type LedgerSubmitter interface {
	Submit(ctx context.Context, call openaction.LedgerCall) (*openaction.Transaction, error)
}
