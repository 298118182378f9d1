package model

import "time"

// ReservationIntent is an unpersisted draft of a prospective
// reservation.  It is produced by a quote, optionally parked in the
// pending-intent recovery store while the guest completes payment, and
// destroyed when committed or discarded.  An intent never reaches the
// reservation ledger and never locks inventory.
//
// The JSON shape is the recovery-store persistence contract consumed by
// the UI layer.
type ReservationIntent struct {
	ID         string         `json:"intent_id"`   // correlation id (uuid)
	GuestRef   string         `json:"guest_ref"`   // opaque caller identity
	CategoryID uint64         `json:"category_id"` // room category quoted
	Stay       DateRange      `json:"date_range"`  // requested stay
	Guests     int            `json:"guests"`      // guest count
	Price      PriceBreakdown `json:"price_breakdown"`
	CreatedAt  time.Time      `json:"created_at"`
}
