// Package payment defines the boundary to the external payment
// collaborator.  The booking core calls Charge exactly once per commit
// attempt and never retries silently, so a gateway implementation can
// assume no hidden double-charges.
package payment

import "context"

// ChargeRequest describes a single charge attempt.  Method and Details
// are opaque to the core and forwarded to the gateway as-is.
type ChargeRequest struct {
	IntentID    string `json:"intent_id"`
	GuestRef    string `json:"guest_ref"`
	AmountCents uint64 `json:"amount_cents"`
	Currency    string `json:"currency"`
	Method      string `json:"method"`
	Details     string `json:"details"`
}

// ChargeResult is the gateway's verdict.  Reference identifies the
// charge at the gateway and is required for any later compensation.
type ChargeResult struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference"`
	Reason    string `json:"reason,omitempty"`
}

// Gateway is the external payment collaborator.  A non-nil error means
// the gateway could not be reached; a declined charge is a successful
// call with Success=false.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}
