package openaction

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientFunds indicates the account balance cannot cover the fee.
	ErrInsufficientFunds = errors.New("openaction: insufficient funds")

	// ErrInsufficientAllowance indicates the spender is not approved for the fee amount.
	ErrInsufficientAllowance = errors.New("openaction: insufficient allowance")

	// ErrBroadcastingFailed indicates the relay rejected the action.
	ErrBroadcastingFailed = errors.New("openaction: broadcasting failed")

	// ErrLedgerSubmission indicates the ledger client rejected the transaction.
	ErrLedgerSubmission = errors.New("openaction: ledger submission failed")

	// ErrConfiguration indicates a request that cannot be resolved to any execution.
	ErrConfiguration = errors.New("openaction: configuration error")

	// ErrNotCollectable indicates the backend refused to build a call for the publication.
	ErrNotCollectable = errors.New("openaction: publication is not collectable")

	// ErrSigningFailed indicates the signer did not produce a signature.
	ErrSigningFailed = errors.New("openaction: signing failed")

	// ErrUnsignedCall indicates the backend did not produce the unsigned protocol call
	// a signed action needs.
	ErrUnsignedCall = errors.New("openaction: unsigned protocol call failed")

	// ErrInvalidAmount indicates a malformed or negative amount.
	ErrInvalidAmount = errors.New("openaction: invalid amount")

	// ErrInvalidRequest indicates a request that failed validation.
	ErrInvalidRequest = errors.New("openaction: invalid request")

	// ErrUnsupportedChain indicates a chain with no known configuration.
	ErrUnsupportedChain = errors.New("openaction: unsupported chain")
)

// ErrorCode classifies an ActionError.
type ErrorCode string

const (
	ErrCodeInsufficientFunds     ErrorCode = "insufficient_funds"
	ErrCodeInsufficientAllowance ErrorCode = "insufficient_allowance"
	ErrCodeBroadcastingFailed    ErrorCode = "broadcasting_failed"
	ErrCodeLedgerSubmission      ErrorCode = "ledger_submission_failed"
	ErrCodeConfiguration         ErrorCode = "configuration_error"
	ErrCodeSigningFailed         ErrorCode = "signing_failed"
	ErrCodeInvalidRequest        ErrorCode = "invalid_request"
)

// ActionError is an error with a machine readable code and optional details.
type ActionError struct {
	Code    ErrorCode
	Message string
	Err     error
	Details map[string]interface{}
}

// NewActionError creates an ActionError wrapping err.
func NewActionError(code ErrorCode, message string, err error) *ActionError {
	return &ActionError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

func (e *ActionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's code, so errors.Is(err, ErrSigningFailed)
// holds for an ActionError with ErrCodeSigningFailed.
func (e *ActionError) Is(target error) bool {
	sentinel, ok := codeSentinels[e.Code]
	return ok && target == sentinel
}

var codeSentinels = map[ErrorCode]error{
	ErrCodeInsufficientFunds:     ErrInsufficientFunds,
	ErrCodeInsufficientAllowance: ErrInsufficientAllowance,
	ErrCodeBroadcastingFailed:    ErrBroadcastingFailed,
	ErrCodeLedgerSubmission:      ErrLedgerSubmission,
	ErrCodeConfiguration:         ErrConfiguration,
	ErrCodeSigningFailed:         ErrSigningFailed,
	ErrCodeInvalidRequest:        ErrInvalidRequest,
}

// WithDetails attaches a key/value pair and returns the same error.
func (e *ActionError) WithDetails(key string, value interface{}) *ActionError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// InsufficientFundsError reports that the account balance is below Amount.
type InsufficientFundsError struct {
	Amount Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%v: need %s", ErrInsufficientFunds, e.Amount)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// InsufficientAllowanceError reports that the spender allowance is below Amount.
type InsufficientAllowanceError struct {
	Amount Amount
}

func (e *InsufficientAllowanceError) Error() string {
	return fmt.Sprintf("%v: need %s", ErrInsufficientAllowance, e.Amount)
}

func (e *InsufficientAllowanceError) Is(target error) bool {
	return target == ErrInsufficientAllowance
}

// BroadcastingErrorReason enumerates why the relay refused an action.
type BroadcastingErrorReason string

const (
	ReasonAppNotAllowed         BroadcastingErrorReason = "APP_NOT_ALLOWED"
	ReasonNoRelayManagerEnabled BroadcastingErrorReason = "NO_RELAY_MANAGER_ENABLED"
	ReasonNotSponsored          BroadcastingErrorReason = "NOT_SPONSORED"
	ReasonRateLimited           BroadcastingErrorReason = "RATE_LIMITED"
	ReasonUnknown               BroadcastingErrorReason = "UNKNOWN"
)

// BroadcastingError is a relay-side rejection. It is reported verbatim, never retried.
type BroadcastingError struct {
	Reason BroadcastingErrorReason
	Err    error
}

// NewBroadcastingError creates a BroadcastingError for reason.
func NewBroadcastingError(reason BroadcastingErrorReason, err error) *BroadcastingError {
	return &BroadcastingError{Reason: reason, Err: err}
}

func (e *BroadcastingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v (%s): %v", ErrBroadcastingFailed, e.Reason, e.Err)
	}
	return fmt.Sprintf("%v (%s)", ErrBroadcastingFailed, e.Reason)
}

func (e *BroadcastingError) Unwrap() error {
	return e.Err
}

func (e *BroadcastingError) Is(target error) bool {
	return target == ErrBroadcastingFailed
}

// LedgerSubmissionError wraps a failure of the ledger client on the paid path.
type LedgerSubmissionError struct {
	Err error
}

func (e *LedgerSubmissionError) Error() string {
	return fmt.Sprintf("%v: %v", ErrLedgerSubmission, e.Err)
}

func (e *LedgerSubmissionError) Unwrap() error {
	return e.Err
}

func (e *LedgerSubmissionError) Is(target error) bool {
	return target == ErrLedgerSubmission
}

// UnsignedCallError reports that the backend did not build the unsigned protocol
// call. It is fatal and belongs to the configuration class: the action is never
// signed or relayed. Reason carries the backend's refusal reason, if any; a refusal
// at this stage is not a relay rejection and never matches BroadcastingError.
type UnsignedCallError struct {
	Reason BroadcastingErrorReason
	Err    error
}

// NewUnsignedCallError wraps a gateway failure. A BroadcastingError is flattened
// into Reason so it is not reported as a rejected submission.
func NewUnsignedCallError(err error) *UnsignedCallError {
	var broadcasting *BroadcastingError
	if errors.As(err, &broadcasting) {
		e := &UnsignedCallError{Reason: broadcasting.Reason}
		if broadcasting.Err != nil {
			e.Err = errors.New(broadcasting.Err.Error())
		}
		return e
	}
	return &UnsignedCallError{Err: err}
}

func (e *UnsignedCallError) Error() string {
	msg := ErrUnsignedCall.Error()
	if e.Reason != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *UnsignedCallError) Unwrap() error {
	return e.Err
}

func (e *UnsignedCallError) Is(target error) bool {
	return target == ErrUnsignedCall || target == ErrConfiguration
}

// ConfigurationError signals a caller or data bug, not a runtime condition.
type ConfigurationError struct {
	Message string
	Err     error
}

// NewConfigurationError formats a ConfigurationError.
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", ErrConfiguration, e.Message, e.Err)
	}
	return fmt.Sprintf("%v: %s", ErrConfiguration, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// CodeOf returns the ErrorCode that best describes err.
func CodeOf(err error) ErrorCode {
	var actionErr *ActionError
	switch {
	case errors.As(err, &actionErr):
		return actionErr.Code
	case errors.Is(err, ErrInsufficientFunds):
		return ErrCodeInsufficientFunds
	case errors.Is(err, ErrInsufficientAllowance):
		return ErrCodeInsufficientAllowance
	case errors.Is(err, ErrBroadcastingFailed):
		return ErrCodeBroadcastingFailed
	case errors.Is(err, ErrLedgerSubmission):
		return ErrCodeLedgerSubmission
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotCollectable):
		return ErrCodeConfiguration
	case errors.Is(err, ErrSigningFailed):
		return ErrCodeSigningFailed
	case errors.Is(err, ErrInvalidRequest):
		return ErrCodeInvalidRequest
	default:
		return ""
	}
}
