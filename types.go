package openaction

import (
	"math/big"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// ActionType identifies the variant of an ActionRequest on the wire.
type ActionType string

const (
	ActionTypeLegacyCollect         ActionType = "LEGACY_COLLECT"
	ActionTypeSimpleCollect         ActionType = "SIMPLE_COLLECT"
	ActionTypeMultirecipientCollect ActionType = "MULTIRECIPIENT_COLLECT"
	ActionTypeSharedRevenueCollect  ActionType = "SHARED_REVENUE_COLLECT"
	ActionTypeUnknown               ActionType = "UNKNOWN_OPEN_ACTION"
)

// FeeType distinguishes collect fees from protocol mint fees.
type FeeType string

const (
	FeeTypeCollect FeeType = "COLLECT"
	FeeTypeMint    FeeType = "MINT"
)

// Token describes an ERC-20 asset. The zero address denotes the chain's native asset.
type Token struct {
	// Address is the token contract address.
	Address string `json:"address"`

	// Symbol is the token symbol (e.g., "WMATIC", "USDC").
	Symbol string `json:"symbol"`

	// Decimals is the number of decimal places for the token.
	Decimals int `json:"decimals"`
}

// Amount is a quantity of a token in atomic units.
type Amount struct {
	Asset Token    `json:"asset"`
	Value *big.Int `json:"value"`
}

// IsZero reports whether the amount is absent or zero.
func (a Amount) IsZero() bool {
	return a.Value == nil || a.Value.Sign() == 0
}

// String renders the amount in human units followed by the token symbol.
func (a Amount) String() string {
	return BigIntToAmount(a.Value, a.Asset.Decimals) + " " + a.Asset.Symbol
}

// Fee is the price attached to an open action.
type Fee struct {
	// Type is either a collect fee or a protocol mint fee.
	Type FeeType `json:"type"`

	// Amount is what the acting account must be able to pay.
	Amount Amount `json:"amount"`

	// Module is the open action module contract address.
	Module string `json:"module"`

	// Spender is the contract that must be allowed to pull Amount from the account.
	Spender string `json:"spender"`

	// ExecutorClient is the app that receives the executor share of a mint fee.
	ExecutorClient string `json:"executorClient,omitempty"`
}

// ActionFlags are the session-shape and trust decisions made upstream.
// They are taken as given and never re-derived here.
type ActionFlags struct {
	// Public marks a wallet-only actor with no profile session.
	Public bool `json:"public"`

	// Sponsored requests that the relay covers gas.
	Sponsored bool `json:"sponsored"`

	// Signless requests execution through a previously granted delegation.
	Signless bool `json:"signless"`
}

// ActionRequest is a request to act on a publication. The set of implementations
// is closed: LegacyCollectRequest, SimpleCollectRequest, MultirecipientCollectRequest,
// SharedRevenueCollectRequest and UnknownActionRequest.
type ActionRequest interface {
	// Type returns the wire discriminator of the variant.
	Type() ActionType

	// Target returns the ID of the publication acted upon.
	Target() string

	// Flags returns the execution flags of the request.
	Flags() ActionFlags

	sealed()
}

// LegacyCollectRequest collects a publication through a legacy collect module.
type LegacyCollectRequest struct {
	ActionFlags
	PublicationID string `json:"publicationId"`
	Referrer      string `json:"referrer,omitempty"`
	Fee           *Fee   `json:"fee,omitempty"`
}

// SimpleCollectRequest collects a publication through the simple collect module.
type SimpleCollectRequest struct {
	ActionFlags
	PublicationID string   `json:"publicationId"`
	Referrers     []string `json:"referrers,omitempty"`
	Fee           *Fee     `json:"fee,omitempty"`
}

// MultirecipientCollectRequest collects through the multirecipient fee module.
// It always carries a fee.
type MultirecipientCollectRequest struct {
	ActionFlags
	PublicationID string   `json:"publicationId"`
	Referrers     []string `json:"referrers,omitempty"`
	Fee           Fee      `json:"fee"`
}

// SharedRevenueCollectRequest collects through the protocol shared revenue module.
// The fee is a collect fee when the collect price is non-zero, a mint fee otherwise.
type SharedRevenueCollectRequest struct {
	ActionFlags
	PublicationID string   `json:"publicationId"`
	Referrers     []string `json:"referrers,omitempty"`
	Fee           Fee      `json:"fee"`
}

// UnknownActionRequest executes an arbitrary open action module.
// Whether it costs anything cannot be determined, so it never carries a Fee.
type UnknownActionRequest struct {
	ActionFlags
	PublicationID string   `json:"publicationId"`
	Address       string   `json:"address"`
	Data          string   `json:"data"`
	Referrers     []string `json:"referrers,omitempty"`
	Amount        *Amount  `json:"amount,omitempty"`
}

func (r LegacyCollectRequest) Type() ActionType         { return ActionTypeLegacyCollect }
func (r SimpleCollectRequest) Type() ActionType         { return ActionTypeSimpleCollect }
func (r MultirecipientCollectRequest) Type() ActionType { return ActionTypeMultirecipientCollect }
func (r SharedRevenueCollectRequest) Type() ActionType  { return ActionTypeSharedRevenueCollect }
func (r UnknownActionRequest) Type() ActionType         { return ActionTypeUnknown }

func (r LegacyCollectRequest) Target() string         { return r.PublicationID }
func (r SimpleCollectRequest) Target() string         { return r.PublicationID }
func (r MultirecipientCollectRequest) Target() string { return r.PublicationID }
func (r SharedRevenueCollectRequest) Target() string  { return r.PublicationID }
func (r UnknownActionRequest) Target() string         { return r.PublicationID }

func (r LegacyCollectRequest) Flags() ActionFlags         { return r.ActionFlags }
func (r SimpleCollectRequest) Flags() ActionFlags         { return r.ActionFlags }
func (r MultirecipientCollectRequest) Flags() ActionFlags { return r.ActionFlags }
func (r SharedRevenueCollectRequest) Flags() ActionFlags  { return r.ActionFlags }
func (r UnknownActionRequest) Flags() ActionFlags         { return r.ActionFlags }

func (LegacyCollectRequest) sealed()         {}
func (SimpleCollectRequest) sealed()         {}
func (MultirecipientCollectRequest) sealed() {}
func (SharedRevenueCollectRequest) sealed()  {}
func (UnknownActionRequest) sealed()         {}

// TransactionKind tells how a transaction reached the ledger.
type TransactionKind string

const (
	// TransactionKindRelayed is submitted by the relay; ID is the relay's transaction id.
	TransactionKindRelayed TransactionKind = "relayed"

	// TransactionKindNative is submitted directly; ID is the ledger transaction hash.
	TransactionKindNative TransactionKind = "native"
)

// Transaction is the handle of a submitted action.
type Transaction struct {
	// ID is the relay transaction id or, for native transactions, the transaction hash.
	ID string `json:"id"`

	// Kind is how the transaction was submitted.
	Kind TransactionKind `json:"kind"`

	// TxHash is the ledger transaction hash when known at submission time.
	TxHash string `json:"txHash,omitempty"`

	// ChainID is the chain the transaction was submitted to.
	ChainID int64 `json:"chainId"`

	// Request is the request that produced the transaction.
	Request ActionRequest `json:"-"`
}

// TransactionStatus is the terminal or pending state of a submitted transaction.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusComplete TransactionStatus = "complete"
	TransactionStatusFailed   TransactionStatus = "failed"
)

// AvailabilityRequest asks whether the active account can pay Amount to Spender.
type AvailabilityRequest struct {
	Amount  Amount
	Spender string
}

// UnsignedProtocolCall is typed data produced by the backend for the user to sign.
type UnsignedProtocolCall struct {
	// ID identifies the typed data on the backend; it is echoed back on relay.
	ID string

	// Nonce is the signature nonce embedded in TypedData.
	Nonce uint64

	// TypedData is the EIP-712 payload to sign.
	TypedData apitypes.TypedData

	// Request is the request the call was created for.
	Request ActionRequest
}

// SignedProtocolCall is an UnsignedProtocolCall plus the signer's signature.
type SignedProtocolCall struct {
	ID        string
	Signature string
	Request   ActionRequest
}

// LedgerCall is a ledger-level contract call for the paid path.
type LedgerCall struct {
	To      string
	Data    []byte
	Value   *big.Int
	ChainID int64
	Request ActionRequest
}

// RelayReceipt is what the relay returns when it accepts a submission.
type RelayReceipt struct {
	TxID   string
	TxHash string
}

// AmountToBigInt converts a decimal amount string to *big.Int in atomic units.
// For example, "1.5" with 18 decimals becomes 1500000000000000000.
func AmountToBigInt(amount string, decimals int) (*big.Int, error) {
	value, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, ErrInvalidAmount
	}

	value.Mul(value, new(big.Rat).SetInt(pow10(decimals)))
	if !value.IsInt() {
		return nil, ErrInvalidAmount
	}
	return new(big.Int).Set(value.Num()), nil
}

// BigIntToAmount converts a *big.Int in atomic units to a decimal string.
// For example, 1500000 with 6 decimals becomes "1.500000".
func BigIntToAmount(value *big.Int, decimals int) string {
	if value == nil {
		return "0"
	}
	return new(big.Rat).SetFrac(value, pow10(decimals)).FloatString(decimals)
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}
