package transactions

import "go.uber.org/zap"

type options struct {
	logger *zap.Logger
}

// Option configures a strategy.
type Option func(*options)

// WithLogger sets the logger of a strategy.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
