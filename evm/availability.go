package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/mark3labs/openaction-go"
)

const erc20ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

var erc20 = mustParseABI(erc20ABI)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}
	return parsed
}

// ReadRetryConfig bounds retries of read-only RPC calls.
type ReadRetryConfig struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultReadRetry retries a failed read three times, starting at 200ms.
var DefaultReadRetry = ReadRetryConfig{
	MaxRetries:      3,
	InitialInterval: 200 * time.Millisecond,
	MaxInterval:     2 * time.Second,
}

// TokenAvailability checks ERC-20 balances and allowances of one account.
// A zero token address denotes the native asset, for which only the balance is checked.
type TokenAvailability struct {
	backend Backend
	owner   common.Address
	retry   ReadRetryConfig
	logger  *zap.Logger
}

// AvailabilityOption configures a TokenAvailability.
type AvailabilityOption func(*TokenAvailability)

// WithReadRetry overrides DefaultReadRetry.
func WithReadRetry(config ReadRetryConfig) AvailabilityOption {
	return func(a *TokenAvailability) {
		a.retry = config
	}
}

// WithAvailabilityLogger sets the logger.
func WithAvailabilityLogger(logger *zap.Logger) AvailabilityOption {
	return func(a *TokenAvailability) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewTokenAvailability creates a checker for owner's funds.
func NewTokenAvailability(backend Backend, owner common.Address, opts ...AvailabilityOption) *TokenAvailability {
	a := &TokenAvailability{
		backend: backend,
		owner:   owner,
		retry:   DefaultReadRetry,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CheckAvailability implements openaction.TokenAvailability.
//
// The balance is checked before the allowance, so an account short on both reports
// insufficient funds.
func (a *TokenAvailability) CheckAvailability(ctx context.Context, request openaction.AvailabilityRequest) error {
	required := request.Amount.Value
	if required == nil || required.Sign() == 0 {
		return nil
	}

	token := common.HexToAddress(request.Amount.Asset.Address)
	if token == (common.Address{}) {
		balance, err := a.read(ctx, "balance", func() (*big.Int, error) {
			return a.backend.BalanceAt(ctx, a.owner, nil)
		})
		if err != nil {
			return err
		}
		if balance.Cmp(required) < 0 {
			return &openaction.InsufficientFundsError{Amount: request.Amount}
		}
		return nil
	}

	balance, err := a.read(ctx, "balanceOf", func() (*big.Int, error) {
		return a.callUint256(ctx, token, "balanceOf", a.owner)
	})
	if err != nil {
		return err
	}
	if balance.Cmp(required) < 0 {
		return &openaction.InsufficientFundsError{Amount: request.Amount}
	}

	if !common.IsHexAddress(request.Spender) {
		return openaction.NewConfigurationError("invalid fee spender %q", request.Spender)
	}
	allowance, err := a.read(ctx, "allowance", func() (*big.Int, error) {
		return a.callUint256(ctx, token, "allowance", a.owner, common.HexToAddress(request.Spender))
	})
	if err != nil {
		return err
	}
	if allowance.Cmp(required) < 0 {
		return &openaction.InsufficientAllowanceError{Amount: request.Amount}
	}
	return nil
}

func (a *TokenAvailability) callUint256(ctx context.Context, token common.Address, method string, args ...interface{}) (*big.Int, error) {
	data, err := erc20.Pack(method, args...)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to pack %s: %w", method, err))
	}

	out, err := a.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, err
	}

	values, err := erc20.Unpack(method, out)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to unpack %s: %w", method, err))
	}
	value, ok := values[0].(*big.Int)
	if !ok {
		return nil, backoff.Permanent(fmt.Errorf("unexpected %s result %T", method, values[0]))
	}
	return value, nil
}

func (a *TokenAvailability) read(ctx context.Context, what string, fn func() (*big.Int, error)) (*big.Int, error) {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = a.retry.InitialInterval
	expBackoff.MaxInterval = a.retry.MaxInterval

	var value *big.Int
	operation := func() error {
		var err error
		value, err = fn()
		return err
	}
	notify := func(err error, wait time.Duration) {
		a.logger.Debug("token read failed, retrying",
			zap.String("read", what),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(expBackoff, a.retry.MaxRetries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", what, err)
	}
	return value, nil
}
