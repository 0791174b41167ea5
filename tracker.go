package openaction

//go:generate mockgen -source=tracker.go -destination=mocks/mock_tracker.go -package=mocks

import "context"

// CompletionPoller waits for a submitted transaction to reach a terminal status.
// Cancelling ctx stops waiting; it never affects the submitted transaction.
type CompletionPoller interface {
	WaitUntilComplete(ctx context.Context, tx *Transaction) (TransactionStatus, error)
}

// Tracker routes completion polling by how the transaction was submitted.
type Tracker struct {
	relayed CompletionPoller
	native  CompletionPoller
}

// NewTracker creates a Tracker. Either poller may be nil if that path is unused.
func NewTracker(relayed, native CompletionPoller) *Tracker {
	return &Tracker{relayed: relayed, native: native}
}

// WaitUntilComplete implements CompletionPoller.
func (t *Tracker) WaitUntilComplete(ctx context.Context, tx *Transaction) (TransactionStatus, error) {
	if tx == nil {
		return "", NewConfigurationError("nil transaction")
	}

	var poller CompletionPoller
	switch tx.Kind {
	case TransactionKindRelayed:
		poller = t.relayed
	case TransactionKindNative:
		poller = t.native
	default:
		return "", NewConfigurationError("unknown transaction kind %q", tx.Kind)
	}
	if poller == nil {
		return "", NewConfigurationError("no completion poller for %s transactions", tx.Kind)
	}
	return poller.WaitUntilComplete(ctx, tx)
}
