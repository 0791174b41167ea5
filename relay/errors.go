package relay

import (
	"errors"

	"github.com/mark3labs/openaction-go"
)

var (
	// ErrRelayUnavailable indicates the relay could not be reached.
	ErrRelayUnavailable = errors.New("relay: service unavailable")

	// ErrUnexpectedResponse indicates a response the client cannot interpret.
	ErrUnexpectedResponse = errors.New("relay: unexpected response")
)

// Relay error reasons as the backend reports them.
const (
	reasonAppNotAllowed         = "APP_NOT_ALLOWED"
	reasonNoLensManagerEnabled  = "NO_LENS_MANAGER_ENABLED"
	reasonNoRelayManagerEnabled = "NO_RELAY_MANAGER_ENABLED"
	reasonNotSponsored          = "NOT_SPONSORED"
	reasonRateLimited           = "RATE_LIMITED"
	reasonNotCollectable        = "NOT_COLLECTABLE"
)

// broadcastingReason maps a backend reason to the closed set of broadcasting reasons.
func broadcastingReason(reason string) openaction.BroadcastingErrorReason {
	switch reason {
	case reasonAppNotAllowed:
		return openaction.ReasonAppNotAllowed
	case reasonNoLensManagerEnabled, reasonNoRelayManagerEnabled:
		return openaction.ReasonNoRelayManagerEnabled
	case reasonNotSponsored:
		return openaction.ReasonNotSponsored
	case reasonRateLimited:
		return openaction.ReasonRateLimited
	default:
		return openaction.ReasonUnknown
	}
}
