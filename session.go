package openaction

// SessionType distinguishes profile sessions from wallet-only sessions.
type SessionType string

const (
	SessionTypeWithProfile SessionType = "WITH_PROFILE"
	SessionTypeJustWallet  SessionType = "JUST_WALLET"
)

// Profile is the acting profile of a profile session.
type Profile struct {
	ID string `json:"id"`

	// Signless reports whether the profile has delegated signing to the relay manager.
	Signless bool `json:"signless"`
}

// Session is the authenticated actor. A wallet-only session has no Profile.
type Session struct {
	Type    SessionType `json:"type"`
	Address string      `json:"address"`
	Profile *Profile    `json:"profile,omitempty"`
}

// NewProfileSession creates a session acting as profile through the wallet at address.
func NewProfileSession(address string, profile Profile) Session {
	return Session{Type: SessionTypeWithProfile, Address: address, Profile: &profile}
}

// NewWalletOnlySession creates a session with no profile.
func NewWalletOnlySession(address string) Session {
	return Session{Type: SessionTypeJustWallet, Address: address}
}

// IsWalletOnly reports whether the session has no profile.
func (s Session) IsWalletOnly() bool {
	return s.Type != SessionTypeWithProfile || s.Profile == nil
}
