package openaction

import "strings"

// Publication is the subset of a publication needed to build an action request.
type Publication struct {
	ID string `json:"id"`

	// MirrorOn is the mirrored publication when this publication is a mirror.
	MirrorOn *Publication `json:"mirrorOn,omitempty"`

	// OpenActionModules are the modules the publication was created with.
	OpenActionModules []ModuleSettings `json:"-"`
}

// IsMirror reports whether p mirrors another publication.
func (p Publication) IsMirror() bool {
	return p.MirrorOn != nil
}

// LegacyCollectKind names the legacy fee collect modules.
type LegacyCollectKind string

const (
	LegacyAaveFeeCollect           LegacyCollectKind = "LegacyAaveFeeCollectModule"
	LegacyERC4626FeeCollect        LegacyCollectKind = "LegacyERC4626FeeCollectModule"
	LegacyFeeCollect               LegacyCollectKind = "LegacyFeeCollectModule"
	LegacyLimitedFeeCollect        LegacyCollectKind = "LegacyLimitedFeeCollectModule"
	LegacyLimitedTimedFeeCollect   LegacyCollectKind = "LegacyLimitedTimedFeeCollectModule"
	LegacyMultirecipientFeeCollect LegacyCollectKind = "LegacyMultirecipientFeeCollectModule"
	LegacyTimedFeeCollect          LegacyCollectKind = "LegacyTimedFeeCollectModule"
	LegacySimpleCollect            LegacyCollectKind = "LegacySimpleCollectModule"
)

// ModuleSettings describes one open action module attached to a publication.
// The set of implementations is closed.
type ModuleSettings interface {
	// Contract returns the module contract address.
	Contract() string

	moduleSettings()
}

// LegacyFeeCollectSettings is any legacy collect module that charges a fee.
type LegacyFeeCollectSettings struct {
	Kind            LegacyCollectKind
	ContractAddress string
	Amount          Amount
}

// LegacyFreeCollectSettings is the legacy free collect module.
type LegacyFreeCollectSettings struct {
	ContractAddress string
}

// SimpleCollectSettings is the simple collect open action.
type SimpleCollectSettings struct {
	ContractAddress string
	Amount          Amount
}

// MultirecipientCollectSettings is the multirecipient fee collect open action.
type MultirecipientCollectSettings struct {
	ContractAddress string
	Amount          Amount
}

// SharedRevenueCollectSettings is the protocol shared revenue collect open action.
// MintFee applies when Amount is zero.
type SharedRevenueCollectSettings struct {
	ContractAddress string
	Amount          Amount
	MintFee         Amount
}

// UnknownModuleSettings is an open action module with no built-in support.
type UnknownModuleSettings struct {
	ContractAddress   string
	SponsoredApproved bool
	SignlessApproved  bool
}

func (s LegacyFeeCollectSettings) Contract() string      { return s.ContractAddress }
func (s LegacyFreeCollectSettings) Contract() string     { return s.ContractAddress }
func (s SimpleCollectSettings) Contract() string         { return s.ContractAddress }
func (s MultirecipientCollectSettings) Contract() string { return s.ContractAddress }
func (s SharedRevenueCollectSettings) Contract() string  { return s.ContractAddress }
func (s UnknownModuleSettings) Contract() string         { return s.ContractAddress }

func (LegacyFeeCollectSettings) moduleSettings()      {}
func (LegacyFreeCollectSettings) moduleSettings()     {}
func (SimpleCollectSettings) moduleSettings()         {}
func (MultirecipientCollectSettings) moduleSettings() {}
func (SharedRevenueCollectSettings) moduleSettings()  {}
func (UnknownModuleSettings) moduleSettings()         {}

// CollectModuleSettings returns the first collect module of p.
func CollectModuleSettings(p Publication) (ModuleSettings, bool) {
	for _, settings := range p.OpenActionModules {
		switch settings.(type) {
		case nil, UnknownModuleSettings:
			continue
		default:
			return settings, true
		}
	}
	return nil, false
}

// UnknownModuleSettingsAt returns the unknown module of p deployed at address.
func UnknownModuleSettingsAt(p Publication, address string) (UnknownModuleSettings, bool) {
	for _, settings := range p.OpenActionModules {
		if unknown, ok := settings.(UnknownModuleSettings); ok && strings.EqualFold(unknown.ContractAddress, address) {
			return unknown, true
		}
	}
	return UnknownModuleSettings{}, false
}
