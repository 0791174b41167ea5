package openaction

// OpenActionArgs are the caller's choices for an action.
type OpenActionArgs struct {
	// Publication is the publication acted upon. Mirrors act on the mirrored publication.
	Publication Publication

	// Sponsored requests gas sponsorship. It only applies to profile sessions.
	Sponsored bool
}

// OpenActionParams selects what kind of action to build. Implementations are
// CollectParams and UnknownActionParams.
type OpenActionParams interface {
	openActionParams()
}

// CollectParams requests a collect through the publication's collect module.
type CollectParams struct {
	// Referrers overrides the default referrer, which is the mirror when acting through one.
	Referrers []string

	// ExecutorClient receives the executor share of a shared revenue mint fee.
	ExecutorClient string
}

// UnknownActionParams requests execution of an arbitrary open action module.
type UnknownActionParams struct {
	Address   string
	Data      string
	Referrers []string
	Amount    *Amount
}

func (CollectParams) openActionParams()       {}
func (UnknownActionParams) openActionParams() {}

// NewActionRequest builds the ActionRequest for acting on args.Publication with params
// on behalf of session.
//
// Sponsorship is only honored for profile sessions, and signless execution also
// requires the profile to have enabled it. Wallet-only sessions act through the
// environment's public act proxy and cannot collect through legacy modules.
func NewActionRequest(args OpenActionArgs, params OpenActionParams, session Session, env Environment) (ActionRequest, error) {
	switch p := params.(type) {
	case CollectParams:
		return newCollectRequest(args, p, session, env)
	case *CollectParams:
		if p == nil {
			return nil, NewConfigurationError("nil open action params")
		}
		return newCollectRequest(args, *p, session, env)
	case UnknownActionParams:
		return newUnknownActionRequest(args, p, session)
	case *UnknownActionParams:
		if p == nil {
			return nil, NewConfigurationError("nil open action params")
		}
		return newUnknownActionRequest(args, *p, session)
	default:
		return nil, NewConfigurationError("unsupported open action params %T", params)
	}
}

func targetPublication(p Publication) Publication {
	if p.IsMirror() {
		return *p.MirrorOn
	}
	return p
}

func feeSpender(session Session, env Environment, settings ModuleSettings) (string, error) {
	if !session.IsWalletOnly() {
		return settings.Contract(), nil
	}
	if env.PublicActProxy == "" {
		return "", NewConfigurationError("no public act proxy configured for %s", env.Name)
	}
	return env.PublicActProxy, nil
}

func newCollectRequest(args OpenActionArgs, params CollectParams, session Session, env Environment) (ActionRequest, error) {
	collectable := targetPublication(args.Publication)

	settings, ok := CollectModuleSettings(collectable)
	if !ok {
		return nil, &ConfigurationError{
			Message: "no open action module settings found for publication " + collectable.ID,
			Err:     ErrNotCollectable,
		}
	}

	walletOnly := session.IsWalletOnly()
	sponsored := !walletOnly && args.Sponsored
	signless := !walletOnly && sponsored && session.Profile.Signless

	var referrer string
	referrers := params.Referrers
	if args.Publication.IsMirror() {
		referrer = args.Publication.ID
		if referrers == nil {
			referrers = []string{args.Publication.ID}
		}
	}

	flags := ActionFlags{
		Public:    walletOnly,
		Sponsored: sponsored,
		Signless:  signless,
	}

	switch s := settings.(type) {
	case LegacyFeeCollectSettings:
		if walletOnly {
			return nil, NewConfigurationError("legacy collect cannot be collected with just a wallet")
		}
		return LegacyCollectRequest{
			ActionFlags:   flags,
			PublicationID: collectable.ID,
			Referrer:      referrer,
			Fee: &Fee{
				Type:    FeeTypeCollect,
				Amount:  s.Amount,
				Module:  s.ContractAddress,
				Spender: s.ContractAddress,
			},
		}, nil

	case LegacyFreeCollectSettings:
		if walletOnly {
			return nil, NewConfigurationError("legacy collect cannot be collected with just a wallet")
		}
		return LegacyCollectRequest{
			ActionFlags:   flags,
			PublicationID: collectable.ID,
			Referrer:      referrer,
		}, nil

	case SimpleCollectSettings:
		request := SimpleCollectRequest{
			ActionFlags:   flags,
			PublicationID: collectable.ID,
			Referrers:     referrers,
		}
		if !s.Amount.IsZero() {
			spender, err := feeSpender(session, env, s)
			if err != nil {
				return nil, err
			}
			request.Fee = &Fee{
				Type:    FeeTypeCollect,
				Amount:  s.Amount,
				Module:  s.ContractAddress,
				Spender: spender,
			}
		}
		return request, nil

	case MultirecipientCollectSettings:
		spender, err := feeSpender(session, env, s)
		if err != nil {
			return nil, err
		}
		return MultirecipientCollectRequest{
			ActionFlags:   flags,
			PublicationID: collectable.ID,
			Referrers:     referrers,
			Fee: Fee{
				Type:    FeeTypeCollect,
				Amount:  s.Amount,
				Module:  s.ContractAddress,
				Spender: spender,
			},
		}, nil

	case SharedRevenueCollectSettings:
		spender, err := feeSpender(session, env, s)
		if err != nil {
			return nil, err
		}
		fee := Fee{
			Type:    FeeTypeCollect,
			Amount:  s.Amount,
			Module:  s.ContractAddress,
			Spender: spender,
		}
		if s.Amount.IsZero() {
			fee.Type = FeeTypeMint
			fee.Amount = s.MintFee
			fee.ExecutorClient = params.ExecutorClient
		}
		return SharedRevenueCollectRequest{
			ActionFlags:   flags,
			PublicationID: collectable.ID,
			Referrers:     referrers,
			Fee:           fee,
		}, nil

	default:
		return nil, &ConfigurationError{
			Message: "publication " + collectable.ID + " is not collectable",
			Err:     ErrNotCollectable,
		}
	}
}

func newUnknownActionRequest(args OpenActionArgs, params UnknownActionParams, session Session) (ActionRequest, error) {
	target := targetPublication(args.Publication)

	settings, ok := UnknownModuleSettingsAt(target, params.Address)
	if !ok {
		return nil, NewConfigurationError("cannot find open action settings %s in publication %s", params.Address, target.ID)
	}

	var flags ActionFlags
	switch {
	case session.IsWalletOnly():
		flags.Public = true
	case settings.SponsoredApproved:
		flags.Sponsored = args.Sponsored
		flags.Signless = settings.SignlessApproved && session.Profile.Signless
	}

	return UnknownActionRequest{
		ActionFlags:   flags,
		PublicationID: target.ID,
		Address:       settings.ContractAddress,
		Data:          params.Data,
		Referrers:     params.Referrers,
		Amount:        params.Amount,
	}, nil
}
