package transactions

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mark3labs/openaction-go"
)

// PaidTransaction submits a user-paid transaction straight to the ledger.
type PaidTransaction struct {
	gateway   TransactionGateway
	submitter LedgerSubmitter
	logger    *zap.Logger
}

// NewPaidTransaction creates the paid transaction strategy.
func NewPaidTransaction(gateway TransactionGateway, submitter LedgerSubmitter, opts ...Option) *PaidTransaction {
	o := applyOptions(opts)
	return &PaidTransaction{gateway: gateway, submitter: submitter, logger: o.logger}
}

// Execute implements openaction.Strategy.
func (s *PaidTransaction) Execute(ctx context.Context, request openaction.ActionRequest) (*openaction.Transaction, error) {
	call, err := s.gateway.CreateUnsignedTransaction(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("create unsigned transaction: %w", err)
	}
	if call == nil {
		return nil, openaction.NewConfigurationError("no ledger call for publication %s", request.Target())
	}
	call.Request = request

	tx, err := s.submitter.Submit(ctx, *call)
	if err != nil {
		var submission *openaction.LedgerSubmissionError
		if errors.As(err, &submission) {
			return nil, submission
		}
		return nil, &openaction.LedgerSubmissionError{Err: err}
	}
	if tx == nil {
		return nil, &openaction.LedgerSubmissionError{Err: errors.New("ledger client returned no transaction")}
	}
	tx.Request = request

	s.logger.Debug("paid action submitted",
		zap.String("publication_id", request.Target()),
		zap.String("tx_hash", tx.TxHash),
		zap.Int64("chain_id", tx.ChainID),
	)
	return tx, nil
}
