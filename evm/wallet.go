// Package evm provides the EVM ledger side of open actions: a local wallet that signs
// typed data and transactions, a ledger client for the paid path, ERC-20 affordability
// checks and a receipt watcher.
package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// TransactionSigner signs ledger transactions on behalf of one account.
type TransactionSigner interface {
	Address() common.Address
	SignTransaction(ctx context.Context, tx *types.Transaction) (*types.Transaction, error)
}

// Wallet holds a private key in memory and signs with it.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
}

// WalletOption configures a Wallet.
type WalletOption func(*Wallet) error

// NewWallet creates a wallet from exactly one key source option plus WithChainID.
func NewWallet(opts ...WalletOption) (*Wallet, error) {
	w := &Wallet{}

	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	if w.privateKey == nil {
		return nil, ErrInvalidKey
	}
	if w.chainID == nil || w.chainID.Sign() <= 0 {
		return nil, ErrInvalidChainID
	}

	w.address = crypto.PubkeyToAddress(w.privateKey.PublicKey)
	return w, nil
}

// WithPrivateKey sets the private key from a hex string.
func WithPrivateKey(hexKey string) WalletOption {
	return func(w *Wallet) error {
		privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
		if err != nil {
			return ErrInvalidKey
		}

		w.privateKey = privateKey
		return nil
	}
}

// WithChainID sets the chain transactions are signed for.
func WithChainID(chainID int64) WalletOption {
	return func(w *Wallet) error {
		w.chainID = big.NewInt(chainID)
		return nil
	}
}

// Address returns the wallet's account address.
func (w *Wallet) Address() common.Address {
	return w.address
}

// ChainID returns the chain the wallet signs transactions for.
func (w *Wallet) ChainID() *big.Int {
	return new(big.Int).Set(w.chainID)
}

// SignTypedData signs EIP-712 typed data. The returned signature has v in {27, 28}.
func (w *Wallet) SignTypedData(_ context.Context, typedData apitypes.TypedData) ([]byte, error) {
	digest, err := TypedDataHash(typedData)
	if err != nil {
		return nil, err
	}

	signature, err := crypto.Sign(digest, w.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign typed data: %w", err)
	}

	signature[64] += 27
	return signature, nil
}

// SignTransaction signs tx for the wallet's chain.
func (w *Wallet) SignTransaction(_ context.Context, tx *types.Transaction) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(w.chainID), w.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}
