package openaction

// FeeOf returns the fee attached to request, if any.
//
// UnknownActionRequest never reports a fee: the cost of an arbitrary module cannot be
// determined, so its declared amount is not checked.
func FeeOf(request ActionRequest) (Fee, bool, error) {
	switch r := request.(type) {
	case LegacyCollectRequest:
		return optionalFee(r.Fee)
	case *LegacyCollectRequest:
		if r == nil {
			return Fee{}, false, NewConfigurationError("nil action request")
		}
		return optionalFee(r.Fee)
	case SimpleCollectRequest:
		return optionalFee(r.Fee)
	case *SimpleCollectRequest:
		if r == nil {
			return Fee{}, false, NewConfigurationError("nil action request")
		}
		return optionalFee(r.Fee)
	case MultirecipientCollectRequest:
		return r.Fee, true, nil
	case *MultirecipientCollectRequest:
		if r == nil {
			return Fee{}, false, NewConfigurationError("nil action request")
		}
		return r.Fee, true, nil
	case SharedRevenueCollectRequest:
		return r.Fee, true, nil
	case *SharedRevenueCollectRequest:
		if r == nil {
			return Fee{}, false, NewConfigurationError("nil action request")
		}
		return r.Fee, true, nil
	case UnknownActionRequest:
		return Fee{}, false, nil
	case *UnknownActionRequest:
		if r == nil {
			return Fee{}, false, NewConfigurationError("nil action request")
		}
		return Fee{}, false, nil
	case nil:
		return Fee{}, false, NewConfigurationError("nil action request")
	default:
		return Fee{}, false, NewConfigurationError("unsupported action request %T", request)
	}
}

func optionalFee(fee *Fee) (Fee, bool, error) {
	if fee == nil {
		return Fee{}, false, nil
	}
	return *fee, true, nil
}

// SelectStrategy picks the execution path for request given the outcome of the
// affordability check. availability is ignored for requests without a fee.
//
// Rules are evaluated in order and the first match wins:
//  1. a fee is present and availability failed: no strategy, the failure is returned
//  2. the request is public: paid transaction
//  3. the request is not sponsored: paid transaction
//  4. a fee is present: signed on-chain execution
//  5. otherwise: delegable signing
//
// SelectStrategy is pure; identical inputs always yield identical outputs.
func SelectStrategy(request ActionRequest, availability error) (StrategyKind, error) {
	_, hasFee, err := FeeOf(request)
	if err != nil {
		return StrategyNone, err
	}

	if hasFee && availability != nil {
		return StrategyNone, availability
	}

	flags := request.Flags()
	switch {
	case flags.Public:
		return StrategyPaidTransaction, nil
	case !flags.Sponsored:
		return StrategyPaidTransaction, nil
	case hasFee:
		return StrategySignedOnChain, nil
	default:
		return StrategyDelegableSigning, nil
	}
}
