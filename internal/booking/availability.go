package booking

import (
	"context"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// Ledger is the read surface of the reservation ledger needed by the
// availability engine: all reservations of a category whose status
// still consumes capacity (HELD or CONFIRMED).
type Ledger interface {
	ActiveByCategory(ctx context.Context, categoryID uint64) ([]model.Reservation, error)
}

// Availability is the result of a capacity check for one category and
// date range.
type Availability struct {
	AvailableUnits   int `json:"available_units"`
	ConflictingCount int `json:"conflicting_count"`
}

// AvailabilityEngine answers "does this category have an unreserved
// unit for this range" against a snapshot of the ledger.  The check is
// side-effect free and carries no atomicity guarantee on its own; the
// lifecycle controller repeats it inside the commit transaction.
type AvailabilityEngine struct {
	ledger Ledger
}

// NewAvailabilityEngine returns an engine reading from the given ledger.
func NewAvailabilityEngine(ledger Ledger) *AvailabilityEngine {
	return &AvailabilityEngine{ledger: ledger}
}

// Check counts active reservations of the category that overlap the
// requested stay and reports the remaining units.  A category with zero
// physical units short-circuits without touching the ledger.
func (e *AvailabilityEngine) Check(ctx context.Context, cat *model.RoomCategory, stay model.DateRange) (Availability, error) {
	if !stay.CheckOut.After(stay.CheckIn) {
		return Availability{}, &ValidationError{Field: "date_range", Reason: "check-out must be after check-in"}
	}
	if cat.TotalUnits == 0 {
		return Availability{AvailableUnits: 0, ConflictingCount: 0}, nil
	}

	records, err := e.ledger.ActiveByCategory(ctx, cat.ID)
	if err != nil {
		return Availability{}, &CollaboratorError{Collaborator: "reservation ledger", Err: err}
	}
	conflicts := CountConflicts(records, stay)
	return Availability{
		AvailableUnits:   int(cat.TotalUnits) - conflicts,
		ConflictingCount: conflicts,
	}, nil
}

// CountConflicts is the pure overlap count over a record snapshot,
// using half-open interval semantics: a check-out day is not a
// conflicting night.
func CountConflicts(records []model.Reservation, stay model.DateRange) int {
	n := 0
	for i := range records {
		if records[i].Range().Overlaps(stay) {
			n++
		}
	}
	return n
}
