package transactions

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/mark3labs/openaction-go"
)

// SignedOnChain fetches typed data for a request, has the user sign it and relays
// the signature.
type SignedOnChain struct {
	gateway ProtocolCallGateway
	signer  TypedDataSigner
	relayer ProtocolCallRelayer
	chainID int64
	logger  *zap.Logger
}

// NewSignedOnChain creates the signed on-chain strategy for chainID.
func NewSignedOnChain(gateway ProtocolCallGateway, signer TypedDataSigner, relayer ProtocolCallRelayer, chainID int64, opts ...Option) *SignedOnChain {
	o := applyOptions(opts)
	return &SignedOnChain{
		gateway: gateway,
		signer:  signer,
		relayer: relayer,
		chainID: chainID,
		logger:  o.logger,
	}
}

// Execute implements openaction.Strategy.
func (s *SignedOnChain) Execute(ctx context.Context, request openaction.ActionRequest) (*openaction.Transaction, error) {
	return s.execute(ctx, request, nil)
}

// Retry runs the strategy again with an explicit signature nonce, typically after a
// previous signature was produced but never relayed.
func (s *SignedOnChain) Retry(ctx context.Context, request openaction.ActionRequest, nonce uint64) (*openaction.Transaction, error) {
	return s.execute(ctx, request, &nonce)
}

func (s *SignedOnChain) execute(ctx context.Context, request openaction.ActionRequest, nonceOverride *uint64) (*openaction.Transaction, error) {
	unsigned, err := s.gateway.CreateUnsignedProtocolCall(ctx, request, nonceOverride)
	if err != nil {
		return nil, openaction.NewUnsignedCallError(err)
	}
	if unsigned == nil {
		return nil, openaction.NewUnsignedCallError(fmt.Errorf("no typed data for publication %s", request.Target()))
	}

	signature, err := s.signer.SignTypedData(ctx, unsigned.TypedData)
	if err != nil {
		return nil, openaction.NewActionError(openaction.ErrCodeSigningFailed, "failed to sign typed data", err).
			WithDetails("callId", unsigned.ID).
			WithDetails("nonce", unsigned.Nonce)
	}

	receipt, err := s.relayer.RelayProtocolCall(ctx, openaction.SignedProtocolCall{
		ID:        unsigned.ID,
		Signature: hexutil.Encode(signature),
		Request:   request,
	})
	if err != nil {
		return nil, asBroadcastingError(err)
	}

	s.logger.Debug("signed action relayed",
		zap.String("publication_id", request.Target()),
		zap.String("call_id", unsigned.ID),
		zap.Uint64("nonce", unsigned.Nonce),
		zap.String("tx_id", receipt.TxID),
	)
	return relayedTransaction(receipt, s.chainID, request), nil
}
