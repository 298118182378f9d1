// Package booking implements the availability, pricing and
// reservation-lifecycle core of the guest portal.  This file defines
// the error taxonomy shared by the core and translated into HTTP
// responses by the handler layer.
package booking

import (
	"errors"
	"fmt"
)

// ErrRecoveryExpired is returned when a pending intent is requested
// after its TTL elapsed.  Callers treat it as "no intent found" and
// offer a fresh quote; it is not a system fault.
var ErrRecoveryExpired = errors.New("pending intent expired")

// ErrIntentNotFound is returned when a commit references an intent id
// that does not match the caller's stored intent (including an intent
// already consumed by a previous successful commit).
var ErrIntentNotFound = errors.New("intent not found")

// ValidationError marks malformed input: inverted date ranges,
// non-positive guest counts, unknown categories.  Never retried
// automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UnavailableError reports zero remaining capacity at check time.  It
// carries the current unit count so callers can suggest alternatives.
type UnavailableError struct {
	CategoryID     uint64
	AvailableUnits int
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("category %d has no available units", e.CategoryID)
}

// PaymentFailedError reports a declined or errored charge.  No ledger
// mutation has occurred; the caller may retry with different payment
// details.
type PaymentFailedError struct {
	Reason string
}

func (e *PaymentFailedError) Error() string {
	return fmt.Sprintf("payment failed: %s", e.Reason)
}

// CommitConflictError is the severe case: the charge succeeded but a
// concurrent commit consumed the last unit before this commit's atomic
// write.  PaymentRef identifies the charge that now needs the refund /
// compensation path.
type CommitConflictError struct {
	CategoryID     uint64
	PaymentRef     string
	AvailableUnits int
}

func (e *CommitConflictError) Error() string {
	return fmt.Sprintf("commit conflict on category %d: payment %s requires compensation",
		e.CategoryID, e.PaymentRef)
}

// CollaboratorError wraps failures of the catalog, ledger, payment
// gateway or recovery store.  Reads are safe to retry; commits are not
// once the charge has fired.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
