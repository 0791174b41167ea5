package openaction_test

import (
	"context"
	"math/big"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/mark3labs/openaction-go"
)

// countingStrategy records invocations and always succeeds.
type countingStrategy struct {
	calls atomic.Int32
}

func (s *countingStrategy) Execute(_ context.Context, request openaction.ActionRequest) (*openaction.Transaction, error) {
	s.calls.Add(1)
	return &openaction.Transaction{ID: "tx", Kind: openaction.TransactionKindRelayed, Request: request}, nil
}

type propertyRig struct {
	checks     atomic.Int32
	signed     countingStrategy
	delegable  countingStrategy
	paid       countingStrategy
	presented  []openaction.Result
	openAction *openaction.OpenAction
}

func newPropertyRig(availability error) *propertyRig {
	rig := &propertyRig{}
	checker := openaction.TokenAvailabilityFunc(func(context.Context, openaction.AvailabilityRequest) error {
		rig.checks.Add(1)
		return availability
	})
	presenter := openaction.PresenterFunc(func(result openaction.Result) {
		rig.presented = append(rig.presented, result)
	})

	oa, err := openaction.New(checker, &rig.signed, &rig.delegable, &rig.paid,
		openaction.WithPresenter(presenter),
		openaction.WithMeterProvider(noop.NewMeterProvider()),
	)
	if err != nil {
		panic(err)
	}
	rig.openAction = oa
	return rig
}

func (r *propertyRig) invocations() (signed, delegable, paid int32) {
	return r.signed.calls.Load(), r.delegable.calls.Load(), r.paid.calls.Load()
}

// buildRequest maps generated values onto one of the five request variants.
// Variants 2 and 3 always carry a fee and variant 4 never does.
func buildRequest(variant int, withFee bool, value int64, flags openaction.ActionFlags) openaction.ActionRequest {
	fee := openaction.Fee{
		Type:    openaction.FeeTypeCollect,
		Amount:  openaction.Amount{Asset: usdc, Value: big.NewInt(value)},
		Spender: "0x2222222222222222222222222222222222222222",
	}
	var optional *openaction.Fee
	if withFee {
		optional = &fee
	}

	switch variant {
	case 0:
		return openaction.LegacyCollectRequest{ActionFlags: flags, PublicationID: "0x01-0x01", Fee: optional}
	case 1:
		return openaction.SimpleCollectRequest{ActionFlags: flags, PublicationID: "0x01-0x01", Fee: optional}
	case 2:
		return openaction.MultirecipientCollectRequest{ActionFlags: flags, PublicationID: "0x01-0x01", Fee: fee}
	case 3:
		return openaction.SharedRevenueCollectRequest{ActionFlags: flags, PublicationID: "0x01-0x01", Fee: fee}
	default:
		return openaction.UnknownActionRequest{ActionFlags: flags, PublicationID: "0x01-0x01"}
	}
}

func hasFee(request openaction.ActionRequest) bool {
	_, ok, _ := openaction.FeeOf(request)
	return ok
}

func requestGen() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 4),
		gen.Bool(),
		gen.Int64Range(1, 1_000_000),
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	).Map(func(values []interface{}) openaction.ActionRequest {
		return buildRequest(values[0].(int), values[1].(bool), values[2].(int64), openaction.ActionFlags{
			Public:    values[3].(bool),
			Sponsored: values[4].(bool),
			Signless:  values[5].(bool),
		})
	})
}

func TestProperty_AffordabilityFailureStopsExecution(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("insufficiency is presented and no strategy runs", prop.ForAll(
		func(request openaction.ActionRequest, allowance bool) bool {
			if !hasFee(request) {
				return true
			}
			fee, _, _ := openaction.FeeOf(request)

			var failure error = &openaction.InsufficientFundsError{Amount: fee.Amount}
			if allowance {
				failure = &openaction.InsufficientAllowanceError{Amount: fee.Amount}
			}

			rig := newPropertyRig(failure)
			rig.openAction.Execute(context.Background(), request)

			signed, delegable, paid := rig.invocations()
			return signed == 0 && delegable == 0 && paid == 0 &&
				len(rig.presented) == 1 && rig.presented[0].Err == failure
		},
		requestGen(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_ExactlyOneStrategy(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("affordable requests run exactly one strategy and present once", prop.ForAll(
		func(request openaction.ActionRequest) bool {
			rig := newPropertyRig(nil)
			rig.openAction.Execute(context.Background(), request)

			signed, delegable, paid := rig.invocations()
			if signed+delegable+paid != 1 || len(rig.presented) != 1 {
				return false
			}

			flags := request.Flags()
			switch {
			case flags.Public, !flags.Sponsored:
				return paid == 1
			case hasFee(request):
				return signed == 1
			default:
				return delegable == 1
			}
		},
		requestGen(),
	))

	properties.Property("affordability is checked exactly when a fee is present", prop.ForAll(
		func(request openaction.ActionRequest) bool {
			rig := newPropertyRig(nil)
			rig.openAction.Execute(context.Background(), request)

			if hasFee(request) {
				return rig.checks.Load() == 1
			}
			return rig.checks.Load() == 0
		},
		requestGen(),
	))

	properties.Property("the strategy receives the original request", prop.ForAll(
		func(request openaction.ActionRequest) bool {
			rig := newPropertyRig(nil)
			result := rig.openAction.Execute(context.Background(), request)

			return result.IsSuccess() && reflect.DeepEqual(result.Transaction.Request, request)
		},
		requestGen(),
	))

	properties.TestingRun(t)
}

func TestProperty_SelectStrategyIsPure(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("identical inputs select the same strategy", prop.ForAll(
		func(request openaction.ActionRequest, fails bool) bool {
			var availability error
			if fails {
				availability = openaction.ErrInsufficientAllowance
			}

			first, err1 := openaction.SelectStrategy(request, availability)
			second, err2 := openaction.SelectStrategy(request, availability)
			return first == second && err1 == err2
		},
		requestGen(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
