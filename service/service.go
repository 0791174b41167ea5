// Package service assembles an OpenAction orchestrator and its collaborators from
// configuration: the signer, the relay client, the ledger client and the
// completion tracker.
package service

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/mark3labs/openaction-go"
	"github.com/mark3labs/openaction-go/config"
	"github.com/mark3labs/openaction-go/evm"
	"github.com/mark3labs/openaction-go/relay"
	"github.com/mark3labs/openaction-go/signers/coinbase"
	"github.com/mark3labs/openaction-go/transactions"
)

// Signer is an account that signs both typed data and transactions.
// *evm.Wallet and *coinbase.Signer satisfy it.
type Signer interface {
	Address() common.Address
	transactions.TypedDataSigner
	evm.TransactionSigner
}

// Service is a fully wired orchestrator.
type Service struct {
	Environment  openaction.Environment
	Signer       Signer
	Relay        *relay.Client
	Ledger       *evm.LedgerClient
	Orchestrator *openaction.OpenAction
	Tracker      *openaction.Tracker

	close func()
}

// Open dials the configured RPC endpoint and builds the service over it.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Service, error) {
	client, err := evm.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, err)
	}

	svc, err := Build(ctx, cfg, client, logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	svc.close = client.Close
	return svc, nil
}

// Build wires the service over backend.
func Build(ctx context.Context, cfg *config.Config, backend evm.Backend, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	env, err := cfg.Environment()
	if err != nil {
		return nil, err
	}

	signer, err := NewSigner(ctx, cfg.Signer, env.ChainID)
	if err != nil {
		return nil, err
	}

	relayClient, err := relay.NewClient(env.BackendURL, env.ChainID,
		relay.WithRequestTimeout(cfg.Relay.RequestTimeout),
		relay.WithLogger(logger.Named("relay")),
	)
	if err != nil {
		return nil, err
	}

	strategyLogger := transactions.WithLogger(logger.Named("strategy"))
	ledger := evm.NewLedgerClient(backend, signer, env.ChainID, evm.WithLedgerLogger(logger.Named("ledger")))

	orchestrator, err := openaction.New(
		evm.NewTokenAvailability(backend, signer.Address(), evm.WithAvailabilityLogger(logger.Named("availability"))),
		transactions.NewSignedOnChain(relayClient, signer, relayClient, env.ChainID, strategyLogger),
		transactions.NewDelegableSigning(relayClient, env.ChainID, strategyLogger),
		transactions.NewPaidTransaction(relayClient, ledger, strategyLogger),
		openaction.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("open action service ready",
		zap.String("network", env.Name),
		zap.Int64("chain_id", env.ChainID),
		zap.String("account", signer.Address().Hex()),
	)

	return &Service{
		Environment:  env,
		Signer:       signer,
		Relay:        relayClient,
		Ledger:       ledger,
		Orchestrator: orchestrator,
		Tracker:      openaction.NewTracker(relayClient, evm.NewReceiptWatcher(backend, evm.DefaultReceiptPoll)),
		close:        func() {},
	}, nil
}

// Close releases the RPC connection opened by Open.
func (s *Service) Close() {
	s.close()
}

// NewSigner builds the signer selected by cfg for chainID.
func NewSigner(ctx context.Context, cfg config.SignerConfig, chainID int64) (Signer, error) {
	var key evm.WalletOption
	switch cfg.Type {
	case config.SignerPrivateKey:
		key = evm.WithPrivateKey(cfg.PrivateKey)
	case config.SignerKeystore:
		key = evm.WithKeystore(cfg.KeystorePath, cfg.KeystorePassword)
	case config.SignerMnemonic:
		key = evm.WithMnemonic(cfg.Mnemonic, cfg.AccountIndex)
	case config.SignerCDP:
		signer, err := coinbase.NewSigner(ctx, cfg.CDP.AccountName,
			coinbase.WithCDPCredentials(cfg.CDP.APIKeyName, cfg.CDP.APIKeySecret, cfg.CDP.WalletSecret),
			coinbase.WithChainID(chainID),
		)
		if err != nil {
			return nil, fmt.Errorf("cdp signer: %w", err)
		}
		return signer, nil
	default:
		return nil, fmt.Errorf("unknown signer type %q", cfg.Type)
	}

	wallet, err := evm.NewWallet(key, evm.WithChainID(chainID))
	if err != nil {
		return nil, fmt.Errorf("%s signer: %w", cfg.Type, err)
	}
	return wallet, nil
}
