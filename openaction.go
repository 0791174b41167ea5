// Package openaction executes actions on publications against an EVM ledger.
//
// An OpenAction orchestrator checks whether the acting account can pay the fee
// attached to a request, classifies the request and dispatches it to exactly one
// of three strategies:
//   - delegable signing, where the relay submits the action without a user signature
//   - signed on-chain execution, where the user signs backend typed data before relay
//   - paid transaction, where the user pays and submits directly to the ledger
//
// Every execution produces exactly one Result, delivered once to a Presenter.
package openaction

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/mark3labs/openaction-go"

// OpenAction is the action orchestrator. It holds only its collaborators and is
// safe for concurrent use.
type OpenAction struct {
	availability TokenAvailability
	signed       Strategy
	delegable    Strategy
	paid         Strategy
	presenter    Presenter

	logger        *zap.Logger
	meterProvider metric.MeterProvider
	executions    metric.Int64Counter
	duration      metric.Float64Histogram
}

// Option configures an OpenAction.
type Option func(*OpenAction)

// WithLogger sets the logger used for execution events.
func WithLogger(logger *zap.Logger) Option {
	return func(o *OpenAction) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMeterProvider sets the meter provider. The global provider is used otherwise.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *OpenAction) {
		if provider != nil {
			o.meterProvider = provider
		}
	}
}

// WithPresenter sets the sink that receives every Result.
func WithPresenter(presenter Presenter) Option {
	return func(o *OpenAction) {
		if presenter != nil {
			o.presenter = presenter
		}
	}
}

// New creates an orchestrator over the affordability checker and the three strategies.
func New(availability TokenAvailability, signed, delegable, paid Strategy, opts ...Option) (*OpenAction, error) {
	if availability == nil {
		return nil, NewConfigurationError("token availability is required")
	}
	if signed == nil || delegable == nil || paid == nil {
		return nil, NewConfigurationError("signed, delegable and paid strategies are required")
	}

	o := &OpenAction{
		availability:  availability,
		signed:        signed,
		delegable:     delegable,
		paid:          paid,
		presenter:     discardPresenter{},
		logger:        zap.NewNop(),
		meterProvider: otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(o)
	}

	meter := o.meterProvider.Meter(instrumentationName)

	var err error
	o.executions, err = meter.Int64Counter("openaction.executions",
		metric.WithDescription("Number of action executions by strategy and outcome"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return nil, err
	}

	o.duration, err = meter.Float64Histogram("openaction.execution.duration",
		metric.WithDescription("Action execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return o, nil
}

// Execute runs request to a terminal Result, presents it and returns it.
//
// If the request carries a fee, affordability is checked first and a failure ends
// the execution without running any strategy. No step is retried.
func (o *OpenAction) Execute(ctx context.Context, request ActionRequest) Result {
	start := time.Now()
	result := o.execute(ctx, request)

	outcome := "success"
	if result.Err != nil {
		outcome = string(CodeOf(result.Err))
		if outcome == "" {
			outcome = "error"
		}
	}
	attrs := metric.WithAttributes(
		attribute.String("strategy", result.Strategy.String()),
		attribute.String("outcome", outcome),
	)
	o.executions.Add(ctx, 1, attrs)
	o.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	o.log(request, result)
	o.presenter.Present(result)
	return result
}

func (o *OpenAction) execute(ctx context.Context, request ActionRequest) Result {
	fee, hasFee, err := FeeOf(request)
	if err != nil {
		return Result{Err: err}
	}

	var availability error
	if hasFee {
		availability = o.availability.CheckAvailability(ctx, AvailabilityRequest{
			Amount:  fee.Amount,
			Spender: fee.Spender,
		})
	}

	kind, err := SelectStrategy(request, availability)
	if err != nil {
		return Result{Err: err}
	}

	tx, err := o.strategy(kind).Execute(ctx, request)
	if err != nil {
		return Result{Strategy: kind, Err: err}
	}
	if tx == nil {
		return Result{Strategy: kind, Err: NewConfigurationError("%s returned no transaction", kind)}
	}
	return Result{Strategy: kind, Transaction: tx}
}

func (o *OpenAction) strategy(kind StrategyKind) Strategy {
	switch kind {
	case StrategySignedOnChain:
		return o.signed
	case StrategyDelegableSigning:
		return o.delegable
	default:
		return o.paid
	}
}

func (o *OpenAction) log(request ActionRequest, result Result) {
	fields := []zap.Field{zap.Stringer("strategy", result.Strategy)}
	if _, _, err := FeeOf(request); err == nil {
		fields = append(fields,
			zap.String("action_type", string(request.Type())),
			zap.String("publication_id", request.Target()),
		)
	}

	if result.Err != nil {
		var broadcasting *BroadcastingError
		if errors.As(result.Err, &broadcasting) {
			fields = append(fields, zap.String("reason", string(broadcasting.Reason)))
		}
		o.logger.Warn("action execution failed", append(fields, zap.Error(result.Err))...)
		return
	}

	o.logger.Info("action submitted", append(fields,
		zap.String("tx_id", result.Transaction.ID),
		zap.String("tx_kind", string(result.Transaction.Kind)),
	)...)
}
