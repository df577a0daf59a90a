package disperse

import "errors"

var (
	// Input validation failures, reported before any network call.
	ErrInvalidIdentifier = errors.New("identifier is not an address or @username")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrIndexOutOfRange   = errors.New("recipient index out of range")

	// ErrUnresolvable means the identity service had no usable record.
	ErrUnresolvable = errors.New("could not resolve username to address")

	// Precondition failures: no call is attempted.
	ErrNotConnected     = errors.New("wallet is not connected")
	ErrNoAsset          = errors.New("no asset selected")
	ErrNoRecipients     = errors.New("recipient list is empty")
	ErrInFlight         = errors.New("another submission is in flight")
	ErrNotApproved      = errors.New("token disperse requires approval first")
	ErrNativeNoApproval = errors.New("native transfers require no approval")
)

// IsPrecondition reports whether err belongs to the precondition class of
// failures (attempting approval/disperse without connection/asset/recipients).
func IsPrecondition(err error) bool {
	for _, target := range []error{
		ErrNotConnected, ErrNoAsset, ErrNoRecipients,
		ErrInFlight, ErrNotApproved, ErrNativeNoApproval,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsValidation reports whether err is a synchronous input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrIndexOutOfRange)
}
