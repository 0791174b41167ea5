package openaction

//go:generate mockgen -source=strategy.go -destination=mocks/mock_strategy.go -package=mocks

import "context"

// Strategy executes an action request along one execution path.
// Implementations perform at most one submission per call and never retry.
type Strategy interface {
	// Execute submits request and returns the handle of the pending transaction.
	// It does not wait for ledger confirmation.
	Execute(ctx context.Context, request ActionRequest) (*Transaction, error)
}

// StrategyFunc adapts an ordinary function to the Strategy interface.
type StrategyFunc func(ctx context.Context, request ActionRequest) (*Transaction, error)

// Execute calls f(ctx, request).
func (f StrategyFunc) Execute(ctx context.Context, request ActionRequest) (*Transaction, error) {
	return f(ctx, request)
}

// StrategyKind names one of the execution paths.
type StrategyKind int

const (
	// StrategyNone means no strategy runs; execution terminates with an error.
	StrategyNone StrategyKind = iota
	// StrategyDelegableSigning relays the request without a user signature.
	StrategyDelegableSigning
	// StrategySignedOnChain signs backend typed data and relays the signature.
	StrategySignedOnChain
	// StrategyPaidTransaction submits a user-paid transaction directly to the ledger.
	StrategyPaidTransaction
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyDelegableSigning:
		return "delegable_signing"
	case StrategySignedOnChain:
		return "signed_on_chain"
	case StrategyPaidTransaction:
		return "paid_transaction"
	default:
		return "none"
	}
}
