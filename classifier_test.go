package openaction

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFee(value int64) *Fee {
	return &Fee{
		Type:    FeeTypeCollect,
		Amount:  Amount{Asset: Token{Address: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", Symbol: "USDC", Decimals: 6}, Value: big.NewInt(value)},
		Module:  "0x1111111111111111111111111111111111111111",
		Spender: "0x1111111111111111111111111111111111111111",
	}
}

func TestFeeOf(t *testing.T) {
	fee := testFee(100)

	tests := []struct {
		name    string
		request ActionRequest
		wantFee bool
	}{
		{"legacy without fee", LegacyCollectRequest{}, false},
		{"legacy with fee", LegacyCollectRequest{Fee: fee}, true},
		{"legacy pointer with fee", &LegacyCollectRequest{Fee: fee}, true},
		{"simple without fee", SimpleCollectRequest{}, false},
		{"simple with fee", SimpleCollectRequest{Fee: fee}, true},
		{"simple pointer without fee", &SimpleCollectRequest{}, false},
		{"multirecipient", MultirecipientCollectRequest{Fee: *fee}, true},
		{"multirecipient pointer", &MultirecipientCollectRequest{Fee: *fee}, true},
		{"shared revenue", SharedRevenueCollectRequest{Fee: *fee}, true},
		{"shared revenue pointer", &SharedRevenueCollectRequest{Fee: *fee}, true},
		{"unknown with declared amount", UnknownActionRequest{Amount: &fee.Amount}, false},
		{"unknown pointer", &UnknownActionRequest{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := FeeOf(tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFee, ok)
			if tt.wantFee {
				assert.Equal(t, *fee, got)
			}
		})
	}
}

func TestFeeOf_Unresolvable(t *testing.T) {
	var nilSimple *SimpleCollectRequest

	for name, request := range map[string]ActionRequest{
		"nil":       nil,
		"typed nil": nilSimple,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := FeeOf(request)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestSelectStrategy(t *testing.T) {
	insufficient := &InsufficientFundsError{Amount: testFee(100).Amount}
	sponsored := ActionFlags{Sponsored: true}

	tests := []struct {
		name         string
		request      ActionRequest
		availability error
		want         StrategyKind
		wantErr      error
	}{
		{
			name:    "fee, affordable, sponsored, not public",
			request: SimpleCollectRequest{ActionFlags: sponsored, Fee: testFee(50)},
			want:    StrategySignedOnChain,
		},
		{
			name:    "fee, affordable, public",
			request: SimpleCollectRequest{ActionFlags: ActionFlags{Public: true}, Fee: testFee(50)},
			want:    StrategyPaidTransaction,
		},
		{
			name:    "fee, affordable, not sponsored",
			request: MultirecipientCollectRequest{Fee: *testFee(50)},
			want:    StrategyPaidTransaction,
		},
		{
			name:         "fee, unaffordable",
			request:      SimpleCollectRequest{ActionFlags: sponsored, Fee: testFee(100)},
			availability: insufficient,
			wantErr:      insufficient,
		},
		{
			name:         "fee, unaffordable, public",
			request:      SharedRevenueCollectRequest{ActionFlags: ActionFlags{Public: true}, Fee: *testFee(100)},
			availability: insufficient,
			wantErr:      insufficient,
		},
		{
			name:         "fee, unaffordable, not sponsored",
			request:      LegacyCollectRequest{Fee: testFee(100)},
			availability: insufficient,
			wantErr:      insufficient,
		},
		{
			name:    "no fee, sponsored",
			request: LegacyCollectRequest{ActionFlags: sponsored},
			want:    StrategyDelegableSigning,
		},
		{
			name:    "no fee, public",
			request: SimpleCollectRequest{ActionFlags: ActionFlags{Public: true, Sponsored: true}},
			want:    StrategyPaidTransaction,
		},
		{
			name:    "no fee, not sponsored",
			request: SimpleCollectRequest{},
			want:    StrategyPaidTransaction,
		},
		{
			name:         "no fee ignores availability",
			request:      UnknownActionRequest{ActionFlags: sponsored},
			availability: insufficient,
			want:         StrategyDelegableSigning,
		},
		{
			name:    "unknown, public",
			request: UnknownActionRequest{ActionFlags: ActionFlags{Public: true}},
			want:    StrategyPaidTransaction,
		},
		{
			name:    "nil request",
			request: nil,
			wantErr: ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectStrategy(tt.request, tt.availability)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, StrategyNone, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrategyKind_String(t *testing.T) {
	assert.Equal(t, "none", StrategyNone.String())
	assert.Equal(t, "delegable_signing", StrategyDelegableSigning.String())
	assert.Equal(t, "signed_on_chain", StrategySignedOnChain.String())
	assert.Equal(t, "paid_transaction", StrategyPaidTransaction.String())
}
