package openaction

//go:generate mockgen -source=presenter.go -destination=mocks/mock_presenter.go -package=mocks

// Result is the terminal outcome of one execution: a transaction handle or an error.
type Result struct {
	// Strategy is the path that ran, or StrategyNone if execution stopped before dispatch.
	Strategy StrategyKind

	Transaction *Transaction
	Err         error
}

// IsSuccess reports whether the execution produced a transaction.
func (r Result) IsSuccess() bool {
	return r.Err == nil && r.Transaction != nil
}

// Presenter receives exactly one Result per execution.
type Presenter interface {
	Present(result Result)
}

// PresenterFunc adapts an ordinary function to the Presenter interface.
type PresenterFunc func(result Result)

// Present calls f(result).
func (f PresenterFunc) Present(result Result) {
	f(result)
}

type discardPresenter struct{}

func (discardPresenter) Present(Result) {}
