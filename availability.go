package openaction

//go:generate mockgen -source=availability.go -destination=mocks/mock_availability.go -package=mocks

import (
	"context"
	"errors"
)

// TokenAvailability answers whether the active account can pay an amount to a spender.
//
// CheckAvailability returns nil when the account can pay, *InsufficientFundsError when
// the balance is too low and *InsufficientAllowanceError when the spender is not approved
// for the full amount. Any other error is a transport failure.
type TokenAvailability interface {
	CheckAvailability(ctx context.Context, request AvailabilityRequest) error
}

// TokenAvailabilityFunc adapts an ordinary function to the TokenAvailability interface.
type TokenAvailabilityFunc func(ctx context.Context, request AvailabilityRequest) error

// CheckAvailability calls f(ctx, request).
func (f TokenAvailabilityFunc) CheckAvailability(ctx context.Context, request AvailabilityRequest) error {
	return f(ctx, request)
}

// IsAffordabilityError reports whether err is an insufficient funds or allowance failure.
func IsAffordabilityError(err error) bool {
	var funds *InsufficientFundsError
	var allowance *InsufficientAllowanceError
	return errors.As(err, &funds) || errors.As(err, &allowance)
}
