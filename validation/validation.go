// Package validation checks decoded action requests before they reach the orchestrator.
// Every failure wraps openaction.ErrInvalidRequest.
package validation

import (
	"fmt"
	"math/big"
	"regexp"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/mark3labs/openaction-go"
)

var (
	// evmAddressRegex matches Ethereum-style addresses (0x followed by 40 hex chars)
	evmAddressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

	// publicationIDRegex matches on-chain ids (0x01-0x02) and momoka ids (0x01-0x02-DA-<uuid>)
	publicationIDRegex = regexp.MustCompile(`^0x[a-fA-F0-9]+-0x[a-fA-F0-9]+(-DA-[a-fA-F0-9-]+)?$`)
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", openaction.ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// ValidateAmount validates that an amount string is a valid positive integer.
// Returns an error if the amount is empty, malformed, or not greater than zero.
func ValidateAmount(amount string) error {
	if amount == "" {
		return invalid("amount cannot be empty")
	}

	amt, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return invalid("invalid amount format: %s", amount)
	}

	if amt.Sign() <= 0 {
		return invalid("amount must be greater than 0, got: %s", amount)
	}

	return nil
}

// ValidateAddress validates an EVM address.
func ValidateAddress(address string) error {
	if address == "" {
		return invalid("address cannot be empty")
	}
	if !evmAddressRegex.MatchString(address) {
		return invalid("invalid EVM address format: %s (expected 0x followed by 40 hex characters)", address)
	}
	return nil
}

// ValidatePublicationID validates a publication id.
func ValidatePublicationID(id string) error {
	if id == "" {
		return invalid("publication id cannot be empty")
	}
	if !publicationIDRegex.MatchString(id) {
		return invalid("invalid publication id: %s", id)
	}
	return nil
}

// ValidateFee validates the fee attached to a request.
func ValidateFee(fee openaction.Fee) error {
	switch fee.Type {
	case openaction.FeeTypeCollect, openaction.FeeTypeMint:
	case "":
		return invalid("fee type cannot be empty")
	default:
		return invalid("unsupported fee type %s", fee.Type)
	}

	if fee.Amount.Value == nil {
		return invalid("fee amount cannot be empty")
	}
	if fee.Amount.Value.Sign() < 0 {
		return invalid("fee amount cannot be negative: %s", fee.Amount.Value)
	}
	if err := ValidateAddress(fee.Amount.Asset.Address); err != nil {
		return fmt.Errorf("fee asset: %w", err)
	}

	if err := ValidateAddress(fee.Spender); err != nil {
		return fmt.Errorf("fee spender: %w", err)
	}
	if fee.Module != "" {
		if err := ValidateAddress(fee.Module); err != nil {
			return fmt.Errorf("fee module: %w", err)
		}
	}
	if fee.ExecutorClient != "" {
		if err := ValidateAddress(fee.ExecutorClient); err != nil {
			return fmt.Errorf("fee executor client: %w", err)
		}
	}

	return nil
}

// ValidateActionRequest performs structural validation of a decoded request.
// Flags are not checked: they are decisions made by the caller.
func ValidateActionRequest(request openaction.ActionRequest) error {
	fee, hasFee, err := openaction.FeeOf(request)
	if err != nil {
		return err
	}

	if err := ValidatePublicationID(request.Target()); err != nil {
		return err
	}

	if hasFee {
		if err := ValidateFee(fee); err != nil {
			return err
		}
	}

	var unknown openaction.UnknownActionRequest
	switch r := request.(type) {
	case openaction.UnknownActionRequest:
		unknown = r
	case *openaction.UnknownActionRequest:
		unknown = *r
	default:
		return nil
	}

	if err := ValidateAddress(unknown.Address); err != nil {
		return fmt.Errorf("action module: %w", err)
	}
	if unknown.Data != "" {
		if _, err := hexutil.Decode(unknown.Data); err != nil {
			return invalid("action data must be 0x-prefixed hex: %v", err)
		}
	}
	if unknown.Amount != nil && unknown.Amount.Value != nil && unknown.Amount.Value.Sign() < 0 {
		return invalid("action amount cannot be negative")
	}
	return nil
}
