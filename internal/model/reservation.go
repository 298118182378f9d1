package model

import "time"

// Reservation lifecycle statuses.  HELD and CONFIRMED rows consume
// capacity; CANCELLED and EXPIRED rows do not.  Rows are never deleted,
// only transitioned.
const (
	StatusHeld      = "HELD"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusExpired   = "EXPIRED"
)

// Payment statuses recorded on a reservation.  REFUND_DUE marks the
// compensating-action case where the charge succeeded but the ledger
// write could not.
const (
	PaymentPaid      = "PAID"
	PaymentRefundDue = "REFUND_DUE"
)

// ActiveStatuses are the reservation statuses that count against a
// category's physical unit pool.
var ActiveStatuses = []string{StatusHeld, StatusConfirmed}

// PriceBreakdown is the deterministic result of pricing a stay.  All
// amounts are integer cents; Total is always Subtotal + Tax exactly.
type PriceBreakdown struct {
	Nights        int    `json:"nights"`
	PerNightCents uint32 `json:"per_night_cents"`
	SubtotalCents uint64 `json:"subtotal_cents"`
	TaxCents      uint64 `json:"tax_cents"`
	TotalCents    uint64 `json:"total_cents"`
}

// Reservation is a persisted ledger entry.  It is created only by the
// lifecycle controller after a successful charge, and mutated only
// through status transitions.
//
// Fields:
//  ID            – primary key identifier.
//  GuestRef      – opaque caller identity supplied by the identity layer.
//  CategoryID    – room category being reserved.
//  CheckIn       – first occupied night (midnight UTC).
//  CheckOut      – day of departure; not an occupied night.
//  Guests        – number of guests staying.
//  Price         – price breakdown frozen at quote time.
//  Status        – lifecycle status (see constants above).
//  PaymentStatus – payment outcome recorded at commit.
//  PaymentRef    – external gateway reference (nullable).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
	ID            uint64         // reservations.id
	GuestRef      string         // reservations.guest_ref
	CategoryID    uint64         // reservations.category_id
	CheckIn       time.Time      // reservations.check_in
	CheckOut      time.Time      // reservations.check_out
	Guests        int            // reservations.guests
	Price         PriceBreakdown // reservations.nights .. total_cents
	Status        string         // reservations.status
	PaymentStatus string         // reservations.payment_status
	PaymentRef    *string        // reservations.payment_ref (nullable)
	CreatedAt     time.Time      // reservations.created_at
	UpdatedAt     time.Time      // reservations.updated_at
}

// Range returns the reservation's stay as a DateRange.
func (r *Reservation) Range() DateRange {
	return DateRange{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
}
