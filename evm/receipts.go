package evm

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/mark3labs/openaction-go"
	"github.com/mark3labs/openaction-go/retry"
)

// ReceiptWatcher polls the ledger until a native transaction is mined.
type ReceiptWatcher struct {
	backend Backend
	poll    retry.PollConfig
}

// NewReceiptWatcher creates a watcher polling backend with poll.
func NewReceiptWatcher(backend Backend, poll retry.PollConfig) *ReceiptWatcher {
	return &ReceiptWatcher{backend: backend, poll: poll}
}

// WaitUntilComplete implements openaction.CompletionPoller for native transactions.
func (w *ReceiptWatcher) WaitUntilComplete(ctx context.Context, tx *openaction.Transaction) (openaction.TransactionStatus, error) {
	hash := tx.TxHash
	if hash == "" {
		hash = tx.ID
	}

	return retry.Poll(ctx, w.poll, func(ctx context.Context) (openaction.TransactionStatus, bool, error) {
		receipt, err := w.backend.TransactionReceipt(ctx, common.HexToHash(hash))
		if errors.Is(err, ethereum.NotFound) {
			return openaction.TransactionStatusPending, false, nil
		}
		if err != nil {
			return "", false, err
		}
		if receipt.Status == types.ReceiptStatusSuccessful {
			return openaction.TransactionStatusComplete, true, nil
		}
		return openaction.TransactionStatusFailed, true, nil
	})
}

// DefaultReceiptPoll polls every two seconds for up to five minutes.
var DefaultReceiptPoll = retry.PollConfig{
	Interval:             2 * time.Second,
	Timeout:              5 * time.Minute,
	MaxConsecutiveErrors: 3,
}
