// Package coinbase signs open actions with wallets held by the Coinbase Developer
// Platform, so no private key is kept locally. A Signer produces both the typed-data
// signatures of the signed on-chain path and the transactions of the paid path.
package coinbase

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Signer signs through a CDP EVM account.
type Signer struct {
	cdpClient   *CDPClient
	auth        *CDPAuth
	accountName string
	baseURL     string
	httpClient  *http.Client
	address     common.Address
	chainID     *big.Int
}

// SignerOption is a functional option for configuring a Signer.
type SignerOption func(*Signer) error

// NewSigner creates a signer over the CDP account called accountName, creating the
// account if it does not exist yet.
func NewSigner(ctx context.Context, accountName string, opts ...SignerOption) (*Signer, error) {
	s := &Signer{accountName: accountName}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.auth == nil {
		return nil, ErrMissingCredentials
	}
	if s.accountName == "" {
		return nil, fmt.Errorf("account name is required")
	}
	if s.chainID == nil || s.chainID.Sign() <= 0 {
		return nil, fmt.Errorf("chain id is required (use WithChainID option)")
	}

	s.cdpClient = NewCDPClient(s.auth)
	if s.baseURL != "" {
		s.cdpClient.baseURL = strings.TrimRight(s.baseURL, "/")
	}
	if s.httpClient != nil {
		s.cdpClient.httpClient = s.httpClient
	}

	account, err := CreateOrGetAccount(ctx, s.cdpClient, s.accountName)
	if err != nil {
		return nil, err
	}
	s.address = common.HexToAddress(account.Address)

	return s, nil
}

// WithCDPCredentials sets the CDP API credentials.
// apiKeyName format: "organizations/{org-id}/apiKeys/{key-id}" or just the UUID.
func WithCDPCredentials(apiKeyName, apiKeySecret, walletSecret string) SignerOption {
	return func(s *Signer) error {
		auth, err := NewCDPAuth(apiKeyName, apiKeySecret, walletSecret)
		if err != nil {
			return fmt.Errorf("failed to initialize CDP auth: %w", err)
		}
		s.auth = auth
		return nil
	}
}

// WithCDPCredentialsFromEnv loads CDP credentials from CDP_API_KEY_NAME,
// CDP_API_KEY_SECRET and CDP_WALLET_SECRET.
func WithCDPCredentialsFromEnv() SignerOption {
	return func(s *Signer) error {
		apiKeyName := os.Getenv("CDP_API_KEY_NAME")
		apiKeySecret := os.Getenv("CDP_API_KEY_SECRET")
		walletSecret := os.Getenv("CDP_WALLET_SECRET")

		if apiKeyName == "" {
			return fmt.Errorf("CDP_API_KEY_NAME environment variable not set")
		}
		if apiKeySecret == "" {
			return fmt.Errorf("CDP_API_KEY_SECRET environment variable not set")
		}

		return WithCDPCredentials(apiKeyName, apiKeySecret, walletSecret)(s)
	}
}

// WithChainID sets the chain transactions are signed for.
func WithChainID(chainID int64) SignerOption {
	return func(s *Signer) error {
		s.chainID = big.NewInt(chainID)
		return nil
	}
}

// WithBaseURL points the signer at another CDP endpoint.
func WithBaseURL(baseURL string) SignerOption {
	return func(s *Signer) error {
		s.baseURL = baseURL
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for CDP calls.
func WithHTTPClient(client *http.Client) SignerOption {
	return func(s *Signer) error {
		s.httpClient = client
		return nil
	}
}

// Address returns the CDP account address.
func (s *Signer) Address() common.Address {
	return s.address
}

// AccountName returns the CDP account name.
func (s *Signer) AccountName() string {
	return s.accountName
}

type signTypedDataResponse struct {
	Signature string `json:"signature"`
}

// SignTypedData signs EIP-712 typed data. The returned signature has v in {27, 28}.
func (s *Signer) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	path := fmt.Sprintf("/platform/v2/evm/accounts/%s/sign/typed-data", s.address.Hex())

	// CDP API expects the typed data fields at the top level, not nested
	var resp signTypedDataResponse
	if err := s.cdpClient.doRequestWithRetry(ctx, http.MethodPost, path, typedData, &resp, true); err != nil {
		return nil, fmt.Errorf("sign typed data: %w", err)
	}

	signature, err := hexutil.Decode(resp.Signature)
	if err != nil || len(signature) != 65 {
		return nil, fmt.Errorf("sign typed data: invalid signature %q", resp.Signature)
	}
	if signature[64] < 27 {
		signature[64] += 27
	}
	return signature, nil
}

type signTransactionRequest struct {
	Transaction string `json:"transaction"`
}

type signTransactionResponse struct {
	SignedTransaction string `json:"signedTransaction"`
}

// SignTransaction signs tx with the CDP account and checks the result was signed by
// that account for the configured chain.
func (s *Signer) SignTransaction(ctx context.Context, tx *types.Transaction) (*types.Transaction, error) {
	if tx.ChainId().Cmp(s.chainID) != 0 {
		return nil, fmt.Errorf("transaction for chain %s, signer on chain %s", tx.ChainId(), s.chainID)
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}

	path := fmt.Sprintf("/platform/v2/evm/accounts/%s/sign/transaction", s.address.Hex())
	var resp signTransactionResponse
	if err := s.cdpClient.doRequestWithRetry(ctx, http.MethodPost, path, signTransactionRequest{Transaction: hexutil.Encode(raw)}, &resp, true); err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	signedRaw, err := hexutil.Decode(resp.SignedTransaction)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: invalid response: %w", err)
	}
	signed := new(types.Transaction)
	if err := signed.UnmarshalBinary(signedRaw); err != nil {
		return nil, fmt.Errorf("sign transaction: invalid response: %w", err)
	}

	sender, err := types.Sender(types.LatestSignerForChainID(s.chainID), signed)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	if sender != s.address {
		return nil, fmt.Errorf("sign transaction: signed by %s, expected %s", sender.Hex(), s.address.Hex())
	}
	return signed, nil
}
