package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

func suiteCategory() *model.RoomCategory {
	return &model.RoomCategory{
		ID:               7,
		Name:             "Suite",
		BasePriceCents:   250000,
		BaseOccupancy:    2,
		MaxOccupancy:     4,
		ExtraGuestCents:  30000,
		ExcessGuestCents: 50000,
		TotalUnits:       3,
	}
}

func mustRange(t *testing.T, in, out string) model.DateRange {
	t.Helper()
	dr, err := model.ParseDateRange(in, out)
	require.NoError(t, err)
	return dr
}

func TestQuoteBreakdown(t *testing.T) {
	p := NewPricer(1200)
	cat := suiteCategory()

	t.Run("base occupancy three nights", func(t *testing.T) {
		stay := mustRange(t, "2026-01-10", "2026-01-13")

		price, err := p.Quote(cat, 2, stay)
		require.NoError(t, err)

		assert.Equal(t, 3, price.Nights)
		assert.Equal(t, uint32(250000), price.PerNightCents)
		assert.Equal(t, uint64(750000), price.SubtotalCents)
		assert.Equal(t, uint64(90000), price.TaxCents)
		assert.Equal(t, uint64(840000), price.TotalCents)
	})

	t.Run("extra guests add nightly surcharge", func(t *testing.T) {
		stay := mustRange(t, "2026-01-10", "2026-01-12")

		price, err := p.Quote(cat, 4, stay)
		require.NoError(t, err)

		// 250000 base + 2 extra guests * 30000 each.
		assert.Equal(t, uint32(310000), price.PerNightCents)
		assert.Equal(t, uint64(620000), price.SubtotalCents)
		assert.Equal(t, price.SubtotalCents+price.TaxCents, price.TotalCents)
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		stay := mustRange(t, "2026-03-01", "2026-03-05")

		first, err := p.Quote(cat, 3, stay)
		require.NoError(t, err)
		second, err := p.Quote(cat, 3, stay)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestQuoteValidation(t *testing.T) {
	p := NewPricer(0) // falls back to the default rate
	cat := suiteCategory()
	stay := mustRange(t, "2026-01-10", "2026-01-12")

	t.Run("zero guests rejected", func(t *testing.T) {
		_, err := p.Quote(cat, 0, stay)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "guests", verr.Field)
	})

	t.Run("guests above max occupancy rejected", func(t *testing.T) {
		_, err := p.Quote(cat, 5, stay)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "guests", verr.Field)
	})

	t.Run("default tax rate applied", func(t *testing.T) {
		price, err := p.Quote(cat, 2, stay)
		require.NoError(t, err)
		assert.Equal(t, uint64(500000)*uint64(DefaultTaxRateBps)/10000, price.TaxCents)
	})
}
