package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/mark3labs/openaction-go"
)

// LedgerClient builds, signs and sends EIP-1559 transactions for the paid path.
// It sends each call at most once.
type LedgerClient struct {
	backend Backend
	signer  TransactionSigner
	chainID *big.Int
	logger  *zap.Logger

	// gasMargin is added to the gas estimate, in percent.
	gasMargin uint64
}

// LedgerOption configures a LedgerClient.
type LedgerOption func(*LedgerClient)

// WithLedgerLogger sets the logger.
func WithLedgerLogger(logger *zap.Logger) LedgerOption {
	return func(c *LedgerClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithGasMargin sets the percentage added on top of the gas estimate.
func WithGasMargin(percent uint64) LedgerOption {
	return func(c *LedgerClient) {
		c.gasMargin = percent
	}
}

// NewLedgerClient creates a ledger client sending transactions signed by signer to chainID.
func NewLedgerClient(backend Backend, signer TransactionSigner, chainID int64, opts ...LedgerOption) *LedgerClient {
	c := &LedgerClient{
		backend:   backend,
		signer:    signer,
		chainID:   big.NewInt(chainID),
		logger:    zap.NewNop(),
		gasMargin: 20,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit implements transactions.LedgerSubmitter. Every failure is returned as
// *openaction.LedgerSubmissionError.
func (c *LedgerClient) Submit(ctx context.Context, call openaction.LedgerCall) (*openaction.Transaction, error) {
	if call.ChainID != 0 && call.ChainID != c.chainID.Int64() {
		return nil, &openaction.LedgerSubmissionError{
			Err: fmt.Errorf("%w: call for chain %d, client on chain %d", ErrInvalidChainID, call.ChainID, c.chainID.Int64()),
		}
	}

	tx, err := c.buildTransaction(ctx, call)
	if err != nil {
		return nil, &openaction.LedgerSubmissionError{Err: err}
	}

	signed, err := c.signer.SignTransaction(ctx, tx)
	if err != nil {
		return nil, &openaction.LedgerSubmissionError{Err: err}
	}

	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return nil, &openaction.LedgerSubmissionError{Err: fmt.Errorf("failed to send transaction: %w", err)}
	}

	hash := signed.Hash().Hex()
	c.logger.Info("transaction sent",
		zap.String("tx_hash", hash),
		zap.String("to", call.To),
		zap.Uint64("nonce", signed.Nonce()),
		zap.Uint64("gas", signed.Gas()),
	)

	return &openaction.Transaction{
		ID:      hash,
		Kind:    openaction.TransactionKindNative,
		TxHash:  hash,
		ChainID: c.chainID.Int64(),
		Request: call.Request,
	}, nil
}

func (c *LedgerClient) buildTransaction(ctx context.Context, call openaction.LedgerCall) (*types.Transaction, error) {
	if !common.IsHexAddress(call.To) {
		return nil, fmt.Errorf("invalid call target %q", call.To)
	}
	from := c.signer.Address()
	to := common.HexToAddress(call.To)
	value := call.Value
	if value == nil {
		value = new(big.Int)
	}

	nonce, err := c.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	tipCap, err := c.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas tip: %w", err)
	}

	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest header: %w", err)
	}
	baseFee := head.BaseFee
	if baseFee == nil {
		baseFee = new(big.Int)
	}
	feeCap := new(big.Int).Add(tipCap, new(big.Int).Mul(baseFee, big.NewInt(2)))

	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  call.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}
	gas += gas * c.gasMargin / 100

	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      call.Data,
	}), nil
}
