package openaction_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mark3labs/openaction-go"
	"github.com/mark3labs/openaction-go/mocks"
)

var usdc = openaction.Token{Address: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", Symbol: "USDC", Decimals: 6}

func collectFee(value int64) openaction.Fee {
	return openaction.Fee{
		Type:    openaction.FeeTypeCollect,
		Amount:  openaction.Amount{Asset: usdc, Value: big.NewInt(value)},
		Module:  "0x2222222222222222222222222222222222222222",
		Spender: "0x2222222222222222222222222222222222222222",
	}
}

func mintFee() openaction.Fee {
	fee := collectFee(10)
	fee.Type = openaction.FeeTypeMint
	fee.ExecutorClient = "0x3333333333333333333333333333333333333333"
	return fee
}

func ptr[T any](v T) *T { return &v }

var sponsored = openaction.ActionFlags{Sponsored: true}

type harness struct {
	availability *mocks.MockTokenAvailability
	signed       *mocks.MockStrategy
	delegable    *mocks.MockStrategy
	paid         *mocks.MockStrategy
	presenter    *mocks.MockPresenter
	openAction   *openaction.OpenAction
}

func setup(t *testing.T, opts ...openaction.Option) *harness {
	ctrl := gomock.NewController(t)
	h := &harness{
		availability: mocks.NewMockTokenAvailability(ctrl),
		signed:       mocks.NewMockStrategy(ctrl),
		delegable:    mocks.NewMockStrategy(ctrl),
		paid:         mocks.NewMockStrategy(ctrl),
		presenter:    mocks.NewMockPresenter(ctrl),
	}

	opts = append([]openaction.Option{
		openaction.WithPresenter(h.presenter),
		openaction.WithMeterProvider(noop.NewMeterProvider()),
	}, opts...)

	var err error
	h.openAction, err = openaction.New(h.availability, h.signed, h.delegable, h.paid, opts...)
	require.NoError(t, err)
	return h
}

func transactionFor(request openaction.ActionRequest, kind openaction.TransactionKind) *openaction.Transaction {
	return &openaction.Transaction{ID: "tx-1", Kind: kind, ChainID: 137, Request: request}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	ctrl := gomock.NewController(t)
	strategy := mocks.NewMockStrategy(ctrl)

	_, err := openaction.New(nil, strategy, strategy, strategy)
	assert.ErrorIs(t, err, openaction.ErrConfiguration)

	_, err = openaction.New(mocks.NewMockTokenAvailability(ctrl), strategy, nil, strategy)
	assert.ErrorIs(t, err, openaction.ErrConfiguration)
}

func TestOpenAction_AffordabilityFailure(t *testing.T) {
	requests := map[string]openaction.ActionRequest{
		"legacy with collect fee":         openaction.LegacyCollectRequest{ActionFlags: sponsored, Fee: ptr(collectFee(100))},
		"simple with collect fee":         openaction.SimpleCollectRequest{ActionFlags: sponsored, Fee: ptr(collectFee(100))},
		"shared revenue with mint fee":    openaction.SharedRevenueCollectRequest{ActionFlags: sponsored, Fee: mintFee()},
		"shared revenue with collect fee": openaction.SharedRevenueCollectRequest{ActionFlags: sponsored, Fee: collectFee(100)},
		"multirecipient":                  openaction.MultirecipientCollectRequest{ActionFlags: sponsored, Fee: collectFee(100)},
		"public simple":                   openaction.SimpleCollectRequest{ActionFlags: openaction.ActionFlags{Public: true}, Fee: ptr(collectFee(100))},
		"public multirecipient":           openaction.MultirecipientCollectRequest{ActionFlags: openaction.ActionFlags{Public: true}, Fee: collectFee(100)},
		"not sponsored legacy":            openaction.LegacyCollectRequest{Fee: ptr(collectFee(100))},
	}

	for name, request := range requests {
		fee, _, err := openaction.FeeOf(request)
		require.NoError(t, err)

		failures := []error{
			&openaction.InsufficientAllowanceError{Amount: fee.Amount},
			&openaction.InsufficientFundsError{Amount: fee.Amount},
		}
		for _, failure := range failures {
			t.Run(name, func(t *testing.T) {
				h := setup(t)

				h.availability.EXPECT().
					CheckAvailability(gomock.Any(), openaction.AvailabilityRequest{Amount: fee.Amount, Spender: fee.Spender}).
					Return(failure)
				h.presenter.EXPECT().Present(openaction.Result{Err: failure})

				result := h.openAction.Execute(context.Background(), request)

				assert.Same(t, failure, result.Err)
				assert.Equal(t, openaction.StrategyNone, result.Strategy)
				assert.False(t, result.IsSuccess())
			})
		}
	}
}

func TestOpenAction_SignedOnChain(t *testing.T) {
	requests := map[string]openaction.ActionRequest{
		"legacy":                       openaction.LegacyCollectRequest{ActionFlags: sponsored, Fee: ptr(collectFee(50))},
		"simple":                       openaction.SimpleCollectRequest{ActionFlags: sponsored, Fee: ptr(collectFee(50))},
		"shared revenue with mint fee": openaction.SharedRevenueCollectRequest{ActionFlags: sponsored, Fee: mintFee()},
		"multirecipient":               openaction.MultirecipientCollectRequest{ActionFlags: sponsored, Fee: collectFee(50)},
	}

	for name, request := range requests {
		t.Run(name, func(t *testing.T) {
			h := setup(t)
			tx := transactionFor(request, openaction.TransactionKindRelayed)

			h.availability.EXPECT().CheckAvailability(gomock.Any(), gomock.Any()).Return(nil)
			h.signed.EXPECT().Execute(gomock.Any(), request).Return(tx, nil)
			h.presenter.EXPECT().Present(openaction.Result{Strategy: openaction.StrategySignedOnChain, Transaction: tx})

			result := h.openAction.Execute(context.Background(), request)

			assert.True(t, result.IsSuccess())
			assert.Same(t, tx, result.Transaction)
		})
	}
}

func TestOpenAction_Public(t *testing.T) {
	public := openaction.ActionFlags{Public: true}

	tests := []struct {
		name    string
		request openaction.ActionRequest
		hasFee  bool
	}{
		{"simple without fee", openaction.SimpleCollectRequest{ActionFlags: public}, false},
		{"shared revenue", openaction.SharedRevenueCollectRequest{ActionFlags: public, Fee: mintFee()}, true},
		{"unknown", openaction.UnknownActionRequest{ActionFlags: public, Address: "0x4444444444444444444444444444444444444444"}, false},
		{"multirecipient", openaction.MultirecipientCollectRequest{ActionFlags: public, Fee: collectFee(5)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setup(t)
			tx := transactionFor(tt.request, openaction.TransactionKindNative)

			if tt.hasFee {
				h.availability.EXPECT().CheckAvailability(gomock.Any(), gomock.Any()).Return(nil)
			}
			h.paid.EXPECT().Execute(gomock.Any(), tt.request).Return(tx, nil)
			h.presenter.EXPECT().Present(gomock.Any())

			result := h.openAction.Execute(context.Background(), tt.request)

			assert.Equal(t, openaction.StrategyPaidTransaction, result.Strategy)
			assert.Same(t, tx, result.Transaction)
		})
	}
}

func TestOpenAction_DelegableSigning(t *testing.T) {
	requests := map[string]openaction.ActionRequest{
		"legacy without fee": openaction.LegacyCollectRequest{ActionFlags: sponsored},
		"simple without fee": openaction.SimpleCollectRequest{ActionFlags: sponsored},
		"unknown":            openaction.UnknownActionRequest{ActionFlags: sponsored, Amount: ptr(collectFee(1).Amount)},
	}

	for name, request := range requests {
		t.Run(name, func(t *testing.T) {
			h := setup(t)
			tx := transactionFor(request, openaction.TransactionKindRelayed)

			h.delegable.EXPECT().Execute(gomock.Any(), request).Return(tx, nil)
			h.presenter.EXPECT().Present(gomock.Any())

			result := h.openAction.Execute(context.Background(), request)

			assert.Equal(t, openaction.StrategyDelegableSigning, result.Strategy)
			assert.True(t, result.IsSuccess())
		})
	}
}

func TestOpenAction_NotSponsored(t *testing.T) {
	tests := []struct {
		name    string
		request openaction.ActionRequest
		hasFee  bool
	}{
		{"legacy", openaction.LegacyCollectRequest{Fee: ptr(collectFee(1))}, true},
		{"simple", openaction.SimpleCollectRequest{Fee: ptr(collectFee(1))}, true},
		{"shared revenue", openaction.SharedRevenueCollectRequest{Fee: mintFee()}, true},
		{"unknown", openaction.UnknownActionRequest{}, false},
		{"multirecipient", openaction.MultirecipientCollectRequest{Fee: collectFee(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setup(t)
			tx := transactionFor(tt.request, openaction.TransactionKindNative)

			if tt.hasFee {
				h.availability.EXPECT().CheckAvailability(gomock.Any(), gomock.Any()).Return(nil)
			}
			h.paid.EXPECT().Execute(gomock.Any(), tt.request).Return(tx, nil)
			h.presenter.EXPECT().Present(gomock.Any())

			result := h.openAction.Execute(context.Background(), tt.request)
			assert.Equal(t, openaction.StrategyPaidTransaction, result.Strategy)
		})
	}
}

func TestOpenAction_StrategyFailure(t *testing.T) {
	tests := []struct {
		name     string
		request  openaction.ActionRequest
		strategy func(h *harness) *mocks.MockStrategy
		err      error
	}{
		{
			name:     "relay rejection",
			request:  openaction.LegacyCollectRequest{ActionFlags: sponsored},
			strategy: func(h *harness) *mocks.MockStrategy { return h.delegable },
			err:      openaction.NewBroadcastingError(openaction.ReasonRateLimited, nil),
		},
		{
			name:     "ledger rejection",
			request:  openaction.SimpleCollectRequest{},
			strategy: func(h *harness) *mocks.MockStrategy { return h.paid },
			err:      &openaction.LedgerSubmissionError{Err: errors.New("intrinsic gas too low")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setup(t)

			tt.strategy(h).EXPECT().Execute(gomock.Any(), tt.request).Return(nil, tt.err)
			h.presenter.EXPECT().Present(gomock.Any()).Do(func(result openaction.Result) {
				assert.Same(t, tt.err, result.Err)
			})

			result := h.openAction.Execute(context.Background(), tt.request)
			assert.Same(t, tt.err, result.Err)
			assert.Nil(t, result.Transaction)
		})
	}
}

func TestOpenAction_NilTransaction(t *testing.T) {
	h := setup(t)
	request := openaction.SimpleCollectRequest{ActionFlags: sponsored}

	h.delegable.EXPECT().Execute(gomock.Any(), request).Return(nil, nil)
	h.presenter.EXPECT().Present(gomock.Any())

	result := h.openAction.Execute(context.Background(), request)
	assert.ErrorIs(t, result.Err, openaction.ErrConfiguration)
}

func TestOpenAction_UnresolvableRequest(t *testing.T) {
	h := setup(t)
	h.presenter.EXPECT().Present(gomock.Any())

	result := h.openAction.Execute(context.Background(), nil)
	assert.ErrorIs(t, result.Err, openaction.ErrConfiguration)
}

func TestOpenAction_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := setup(t, openaction.WithLogger(zap.New(core)))
	request := openaction.SimpleCollectRequest{ActionFlags: sponsored, PublicationID: "0x01-0x02"}

	h.delegable.EXPECT().Execute(gomock.Any(), request).
		Return(nil, openaction.NewBroadcastingError(openaction.ReasonNotSponsored, nil))
	h.presenter.EXPECT().Present(gomock.Any())

	h.openAction.Execute(context.Background(), request)

	entries := logs.FilterMessage("action execution failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "delegable_signing", fields["strategy"])
	assert.Equal(t, "0x01-0x02", fields["publication_id"])
	assert.Equal(t, "NOT_SPONSORED", fields["reason"])
}

func TestOpenAction_ConcurrentExecutions(t *testing.T) {
	h := setup(t)

	const n = 20
	h.delegable.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, request openaction.ActionRequest) (*openaction.Transaction, error) {
			return &openaction.Transaction{ID: request.Target(), Kind: openaction.TransactionKindRelayed, Request: request}, nil
		}).Times(n)
	h.presenter.EXPECT().Present(gomock.Any()).Times(n)

	var wg sync.WaitGroup
	results := make([]openaction.Result, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			request := openaction.LegacyCollectRequest{ActionFlags: sponsored, PublicationID: string(rune('a' + i))}
			results[i] = h.openAction.Execute(context.Background(), request)
		}(i)
	}
	wg.Wait()

	for i, result := range results {
		require.True(t, result.IsSuccess())
		assert.Equal(t, string(rune('a'+i)), result.Transaction.ID)
	}
}
