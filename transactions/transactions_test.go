package transactions_test

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mark3labs/openaction-go"
	"github.com/mark3labs/openaction-go/mocks"
	"github.com/mark3labs/openaction-go/relay"
	"github.com/mark3labs/openaction-go/transactions"
)

const chainID = 137

var request = openaction.SimpleCollectRequest{
	PublicationID: "0x01-0x02",
	Fee: &openaction.Fee{
		Type: openaction.FeeTypeCollect,
		Amount: openaction.Amount{
			Asset: openaction.Token{Address: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359", Symbol: "USDC", Decimals: 6},
			Value: big.NewInt(1_000_000),
		},
		Spender: "0x2222222222222222222222222222222222222222",
	},
	ActionFlags: openaction.ActionFlags{Sponsored: true},
}

func TestDelegableSigning_Execute(t *testing.T) {
	ctrl := gomock.NewController(t)
	relayer := mocks.NewMockDelegableRelayer(ctrl)

	relayer.EXPECT().RelayDelegable(gomock.Any(), request).
		Return(openaction.RelayReceipt{TxID: "relay-1", TxHash: "0xabc"}, nil)

	tx, err := transactions.NewDelegableSigning(relayer, chainID).Execute(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, &openaction.Transaction{
		ID:      "relay-1",
		Kind:    openaction.TransactionKindRelayed,
		TxHash:  "0xabc",
		ChainID: chainID,
		Request: request,
	}, tx)
}

func TestDelegableSigning_RelayFailures(t *testing.T) {
	tests := []struct {
		name       string
		relayErr   error
		wantReason openaction.BroadcastingErrorReason
		wantCtx    bool
	}{
		{
			name:       "typed rejection is reported verbatim",
			relayErr:   openaction.NewBroadcastingError(openaction.ReasonRateLimited, nil),
			wantReason: openaction.ReasonRateLimited,
		},
		{
			name:       "untyped failure becomes unknown",
			relayErr:   errors.New("502 bad gateway"),
			wantReason: openaction.ReasonUnknown,
		},
		{
			name:     "cancellation passes through",
			relayErr: context.Canceled,
			wantCtx:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			relayer := mocks.NewMockDelegableRelayer(ctrl)
			relayer.EXPECT().RelayDelegable(gomock.Any(), gomock.Any()).Return(openaction.RelayReceipt{}, tt.relayErr).Times(1)

			tx, err := transactions.NewDelegableSigning(relayer, chainID).Execute(context.Background(), request)
			assert.Nil(t, tx)

			if tt.wantCtx {
				assert.ErrorIs(t, err, context.Canceled)
				assert.NotErrorIs(t, err, openaction.ErrBroadcastingFailed)
				return
			}
			var broadcasting *openaction.BroadcastingError
			require.ErrorAs(t, err, &broadcasting)
			assert.Equal(t, tt.wantReason, broadcasting.Reason)
		})
	}
}

type signedRig struct {
	gateway *mocks.MockProtocolCallGateway
	signer  *mocks.MockTypedDataSigner
	relayer *mocks.MockProtocolCallRelayer
	signed  *transactions.SignedOnChain
}

func newSignedRig(t *testing.T) *signedRig {
	ctrl := gomock.NewController(t)
	r := &signedRig{
		gateway: mocks.NewMockProtocolCallGateway(ctrl),
		signer:  mocks.NewMockTypedDataSigner(ctrl),
		relayer: mocks.NewMockProtocolCallRelayer(ctrl),
	}
	r.signed = transactions.NewSignedOnChain(r.gateway, r.signer, r.relayer, chainID)
	return r
}

var unsignedCall = &openaction.UnsignedProtocolCall{
	ID:        "call-1",
	Nonce:     4,
	TypedData: apitypes.TypedData{PrimaryType: "Act"},
}

func TestSignedOnChain_Execute(t *testing.T) {
	r := newSignedRig(t)

	gomock.InOrder(
		r.gateway.EXPECT().CreateUnsignedProtocolCall(gomock.Any(), request, nil).Return(unsignedCall, nil),
		r.signer.EXPECT().SignTypedData(gomock.Any(), unsignedCall.TypedData).Return([]byte{0x01, 0x02, 0x1b}, nil),
		r.relayer.EXPECT().RelayProtocolCall(gomock.Any(), openaction.SignedProtocolCall{
			ID:        "call-1",
			Signature: "0x01021b",
			Request:   request,
		}).Return(openaction.RelayReceipt{TxID: "relay-2"}, nil),
	)

	tx, err := r.signed.Execute(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, "relay-2", tx.ID)
	assert.Equal(t, openaction.TransactionKindRelayed, tx.Kind)
	assert.Equal(t, int64(chainID), tx.ChainID)
}

func TestSignedOnChain_RetryWithNonce(t *testing.T) {
	r := newSignedRig(t)

	r.gateway.EXPECT().CreateUnsignedProtocolCall(gomock.Any(), request, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ openaction.ActionRequest, nonce *uint64) (*openaction.UnsignedProtocolCall, error) {
			require.NotNil(t, nonce)
			assert.Equal(t, uint64(9), *nonce)
			return &openaction.UnsignedProtocolCall{ID: "call-9", Nonce: *nonce}, nil
		})
	r.signer.EXPECT().SignTypedData(gomock.Any(), gomock.Any()).Return([]byte{0xff}, nil)
	r.relayer.EXPECT().RelayProtocolCall(gomock.Any(), gomock.Any()).Return(openaction.RelayReceipt{TxID: "relay-9"}, nil)

	tx, err := r.signed.Retry(context.Background(), request, 9)
	require.NoError(t, err)
	assert.Equal(t, "relay-9", tx.ID)
}

func TestSignedOnChain_Failures(t *testing.T) {
	t.Run("gateway failure stops before signing", func(t *testing.T) {
		r := newSignedRig(t)
		gatewayErr := errors.New("backend unavailable")
		r.gateway.EXPECT().CreateUnsignedProtocolCall(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, gatewayErr)

		_, err := r.signed.Execute(context.Background(), request)
		assert.ErrorIs(t, err, gatewayErr)
		assert.ErrorIs(t, err, openaction.ErrUnsignedCall)
		assert.Equal(t, openaction.ErrCodeConfiguration, openaction.CodeOf(err))
	})

	t.Run("gateway refusal is not a relay rejection", func(t *testing.T) {
		r := newSignedRig(t)
		r.gateway.EXPECT().CreateUnsignedProtocolCall(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, openaction.NewBroadcastingError(openaction.ReasonRateLimited, errors.New("slow down")))

		_, err := r.signed.Execute(context.Background(), request)
		var broadcasting *openaction.BroadcastingError
		assert.False(t, errors.As(err, &broadcasting))
		assert.NotErrorIs(t, err, openaction.ErrBroadcastingFailed)

		var unsigned *openaction.UnsignedCallError
		require.ErrorAs(t, err, &unsigned)
		assert.Equal(t, openaction.ReasonRateLimited, unsigned.Reason)
		assert.Contains(t, err.Error(), "slow down")
	})

	t.Run("not collectable stays detectable", func(t *testing.T) {
		r := newSignedRig(t)
		r.gateway.EXPECT().CreateUnsignedProtocolCall(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, &openaction.ConfigurationError{Message: "refused", Err: openaction.ErrNotCollectable})

		_, err := r.signed.Execute(context.Background(), request)
		assert.ErrorIs(t, err, openaction.ErrNotCollectable)
		assert.ErrorIs(t, err, openaction.ErrUnsignedCall)
	})

	t.Run("missing typed data", func(t *testing.T) {
		r := newSignedRig(t)
		r.gateway.EXPECT().CreateUnsignedProtocolCall(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		_, err := r.signed.Execute(context.Background(), request)
		assert.ErrorIs(t, err, openaction.ErrConfiguration)
		assert.ErrorIs(t, err, openaction.ErrUnsignedCall)
	})

	t.Run("signer refusal stops before relay", func(t *testing.T) {
		r := newSignedRig(t)
		r.gateway.EXPECT().CreateUnsignedProtocolCall(gomock.Any(), gomock.Any(), gomock.Any()).Return(unsignedCall, nil)
		r.signer.EXPECT().SignTypedData(gomock.Any(), gomock.Any()).Return(nil, errors.New("user rejected"))

		_, err := r.signed.Execute(context.Background(), request)
		var actionErr *openaction.ActionError
		require.ErrorAs(t, err, &actionErr)
		assert.Equal(t, openaction.ErrCodeSigningFailed, actionErr.Code)
		assert.ErrorIs(t, err, openaction.ErrSigningFailed)
		assert.Equal(t, "call-1", actionErr.Details["callId"])
		assert.Equal(t, uint64(4), actionErr.Details["nonce"])
	})

	t.Run("relay rejection", func(t *testing.T) {
		r := newSignedRig(t)
		r.gateway.EXPECT().CreateUnsignedProtocolCall(gomock.Any(), gomock.Any(), gomock.Any()).Return(unsignedCall, nil)
		r.signer.EXPECT().SignTypedData(gomock.Any(), gomock.Any()).Return([]byte{0x01}, nil)
		r.relayer.EXPECT().RelayProtocolCall(gomock.Any(), gomock.Any()).
			Return(openaction.RelayReceipt{}, openaction.NewBroadcastingError(openaction.ReasonNotSponsored, nil))

		_, err := r.signed.Execute(context.Background(), request)
		var broadcasting *openaction.BroadcastingError
		require.ErrorAs(t, err, &broadcasting)
		assert.Equal(t, openaction.ReasonNotSponsored, broadcasting.Reason)
	})
}

func TestPaidTransaction_Execute(t *testing.T) {
	ctrl := gomock.NewController(t)
	gateway := mocks.NewMockTransactionGateway(ctrl)
	submitter := mocks.NewMockLedgerSubmitter(ctrl)

	call := &openaction.LedgerCall{To: "0xDb46d1Dc155634FbC732f92E853b10B288AD5a1d", Data: []byte{0x01}, ChainID: chainID}
	gateway.EXPECT().CreateUnsignedTransaction(gomock.Any(), request).Return(call, nil)
	submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, submitted openaction.LedgerCall) (*openaction.Transaction, error) {
			assert.Equal(t, request, submitted.Request)
			return &openaction.Transaction{ID: "0xhash", Kind: openaction.TransactionKindNative, TxHash: "0xhash", ChainID: chainID}, nil
		})

	tx, err := transactions.NewPaidTransaction(gateway, submitter).Execute(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, openaction.TransactionKindNative, tx.Kind)
	assert.Equal(t, "0xhash", tx.TxHash)
	assert.Equal(t, request, tx.Request)
}

func TestPaidTransaction_Failures(t *testing.T) {
	submitErr := errors.New("insufficient funds for gas")

	tests := []struct {
		name   string
		call   *openaction.LedgerCall
		callFn error
		submit func(*mocks.MockLedgerSubmitter)
		want   error
	}{
		{
			name:   "gateway failure",
			callFn: errors.New("backend unavailable"),
			submit: func(*mocks.MockLedgerSubmitter) {},
		},
		{
			name:   "no ledger call",
			submit: func(*mocks.MockLedgerSubmitter) {},
			want:   openaction.ErrConfiguration,
		},
		{
			name: "submission rejected",
			call: &openaction.LedgerCall{To: "0x01"},
			submit: func(s *mocks.MockLedgerSubmitter) {
				s.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, submitErr)
			},
			want: openaction.ErrLedgerSubmission,
		},
		{
			name: "typed submission error kept",
			call: &openaction.LedgerCall{To: "0x01"},
			submit: func(s *mocks.MockLedgerSubmitter) {
				s.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, &openaction.LedgerSubmissionError{Err: submitErr})
			},
			want: submitErr,
		},
		{
			name: "no transaction",
			call: &openaction.LedgerCall{To: "0x01"},
			submit: func(s *mocks.MockLedgerSubmitter) {
				s.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			want: openaction.ErrLedgerSubmission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			gateway := mocks.NewMockTransactionGateway(ctrl)
			submitter := mocks.NewMockLedgerSubmitter(ctrl)

			gateway.EXPECT().CreateUnsignedTransaction(gomock.Any(), gomock.Any()).Return(tt.call, tt.callFn)
			tt.submit(submitter)

			tx, err := transactions.NewPaidTransaction(gateway, submitter).Execute(context.Background(), request)
			assert.Nil(t, tx)
			require.Error(t, err)
			if tt.callFn != nil {
				assert.ErrorIs(t, err, tt.callFn)
				assert.NotErrorIs(t, err, openaction.ErrLedgerSubmission)
			}
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestSignedOnChain_BackendFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantReason openaction.BroadcastingErrorReason
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: "down"},
		{name: "refusal with reason", status: http.StatusBadRequest, body: `{"reason":"RATE_LIMITED"}`, wantReason: openaction.ReasonRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/act/typed-data", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client, err := relay.NewClient(server.URL, chainID)
			require.NoError(t, err)

			ctrl := gomock.NewController(t)
			signed := transactions.NewSignedOnChain(client, mocks.NewMockTypedDataSigner(ctrl), client, chainID)

			_, err = signed.Execute(context.Background(), request)
			require.Error(t, err)
			assert.Equal(t, openaction.ErrCodeConfiguration, openaction.CodeOf(err))
			assert.ErrorIs(t, err, openaction.ErrUnsignedCall)

			var broadcasting *openaction.BroadcastingError
			assert.False(t, errors.As(err, &broadcasting))

			var unsigned *openaction.UnsignedCallError
			require.ErrorAs(t, err, &unsigned)
			assert.Equal(t, tt.wantReason, unsigned.Reason)
		})
	}
}
