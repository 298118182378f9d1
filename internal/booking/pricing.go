package booking

import (
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// DefaultTaxRateBps is the fallback tax rate in basis points (12%).
const DefaultTaxRateBps = 1200

// Pricer computes deterministic price breakdowns for a stay.  It is a
// pure calculator: identical inputs always yield identical output, so a
// quote can be reproduced at commit time without re-reading category
// data.  All arithmetic is integer cents.
type Pricer struct {
	TaxRateBps uint32 // tax rate in basis points (1200 = 12%)
}

// NewPricer returns a Pricer, substituting DefaultTaxRateBps when the
// given rate is zero.
func NewPricer(taxRateBps uint32) *Pricer {
	if taxRateBps == 0 {
		taxRateBps = DefaultTaxRateBps
	}
	return &Pricer{TaxRateBps: taxRateBps}
}

// PerNight returns the nightly rate in cents for the given guest count:
// the base price covers up to BaseOccupancy guests, each additional
// guest up to MaxOccupancy adds ExtraGuestCents.  Guests beyond
// MaxOccupancy are rejected by Quote before this is called.
func (p *Pricer) PerNight(cat *model.RoomCategory, guests int) uint32 {
	rate := cat.BasePriceCents
	if extra := guests - int(cat.BaseOccupancy); extra > 0 {
		rate += uint32(extra) * cat.ExtraGuestCents
	}
	return rate
}

// Quote prices a stay for the given category, guest count and range.
// Guest counts above the category's maximum occupancy fail validation
// rather than being silently priced; the catalog's excess-guest rate is
// reference data for a policy this portal does not offer.
func (p *Pricer) Quote(cat *model.RoomCategory, guests int, stay model.DateRange) (model.PriceBreakdown, error) {
	if guests < 1 {
		return model.PriceBreakdown{}, &ValidationError{Field: "guests", Reason: "must be at least 1"}
	}
	if guests > int(cat.MaxOccupancy) {
		return model.PriceBreakdown{}, &ValidationError{
			Field:  "guests",
			Reason: "exceeds category maximum occupancy",
		}
	}
	nights := stay.Nights()
	if nights < 1 {
		return model.PriceBreakdown{}, &ValidationError{Field: "date_range", Reason: "stay must cover at least one night"}
	}

	perNight := p.PerNight(cat, guests)
	subtotal := uint64(nights) * uint64(perNight)
	tax := subtotal * uint64(p.TaxRateBps) / 10000

	return model.PriceBreakdown{
		Nights:        nights,
		PerNightCents: perNight,
		SubtotalCents: subtotal,
		TaxCents:      tax,
		TotalCents:    subtotal + tax,
	}, nil
}
