package transactions

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mark3labs/openaction-go"
)

// DelegableSigning relays a request without a user signature. The relay signs on the
// profile's behalf through its delegated manager.
type DelegableSigning struct {
	relayer DelegableRelayer
	chainID int64
	logger  *zap.Logger
}

// NewDelegableSigning creates the delegable signing strategy for chainID.
func NewDelegableSigning(relayer DelegableRelayer, chainID int64, opts ...Option) *DelegableSigning {
	o := applyOptions(opts)
	return &DelegableSigning{relayer: relayer, chainID: chainID, logger: o.logger}
}

// Execute implements openaction.Strategy.
func (s *DelegableSigning) Execute(ctx context.Context, request openaction.ActionRequest) (*openaction.Transaction, error) {
	receipt, err := s.relayer.RelayDelegable(ctx, request)
	if err != nil {
		return nil, asBroadcastingError(err)
	}

	s.logger.Debug("delegable action relayed",
		zap.String("publication_id", request.Target()),
		zap.String("tx_id", receipt.TxID),
	)
	return relayedTransaction(receipt, s.chainID, request), nil
}

func relayedTransaction(receipt openaction.RelayReceipt, chainID int64, request openaction.ActionRequest) *openaction.Transaction {
	return &openaction.Transaction{
		ID:      receipt.TxID,
		Kind:    openaction.TransactionKindRelayed,
		TxHash:  receipt.TxHash,
		ChainID: chainID,
		Request: request,
	}
}

// asBroadcastingError returns err as a BroadcastingError, tagging untyped relay
// failures with ReasonUnknown.
func asBroadcastingError(err error) error {
	var broadcasting *openaction.BroadcastingError
	if errors.As(err, &broadcasting) {
		return broadcasting
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return openaction.NewBroadcastingError(openaction.ReasonUnknown, err)
}
