// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a reservation commit
// succeeds.  It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	GuestRef      string `json:"guest_ref"`
	CategoryID    uint64 `json:"category_id"`
	CategoryName  string `json:"category_name"`
	CheckIn       string `json:"check_in"`
	CheckOut      string `json:"check_out"`
	Guests        int    `json:"guests"`
	TotalCents    uint64 `json:"total_cents"`
	PaymentRef    string `json:"payment_ref"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// CommitConflictEvent is published when a charge succeeded but the
// atomic commit lost the race for the last unit.  Every such event is a
// near-miss overbooking with a pending compensation, so consumers
// should alert on it.
type CommitConflictEvent struct {
	IntentID    string `json:"intent_id"`
	GuestRef    string `json:"guest_ref"`
	CategoryID  uint64 `json:"category_id"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	AmountCents uint64 `json:"amount_cents"`
	PaymentRef  string `json:"payment_ref"`
	OccurredAt  string `json:"occurred_at"`
}
