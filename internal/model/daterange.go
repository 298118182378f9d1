package model

import (
	"fmt"
	"time"
)

// DateRange is a stay described by a check-in and a check-out calendar
// date.  Only the date component is significant; both ends are
// normalized to midnight UTC.  Ranges are half-open: the check-out day
// is not an occupied night, so a range ending on a given day never
// conflicts with one starting that same day.
type DateRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// NewDateRange builds a normalized DateRange and enforces the
// check-out-after-check-in invariant.
func NewDateRange(checkIn, checkOut time.Time) (DateRange, error) {
	dr := DateRange{CheckIn: truncateToDay(checkIn), CheckOut: truncateToDay(checkOut)}
	if !dr.CheckOut.After(dr.CheckIn) {
		return DateRange{}, fmt.Errorf("check-out %s must be after check-in %s",
			dr.CheckOut.Format(DateLayout), dr.CheckIn.Format(DateLayout))
	}
	return dr, nil
}

// ParseDateRange parses the two dates in DateLayout form and validates
// them via NewDateRange.
func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid check-in date %q", checkIn)
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid check-out date %q", checkOut)
	}
	return NewDateRange(in, out)
}

// Nights returns the number of occupied nights.  For a valid range the
// result is always >= 1.
func (d DateRange) Nights() int {
	return int(d.CheckOut.Sub(d.CheckIn) / (24 * time.Hour))
}

// Overlaps reports whether the two half-open ranges share at least one
// night: [a1,a2) and [b1,b2) overlap iff a1 < b2 && b1 < a2.  Touching
// boundaries (one check-out equal to the other's check-in) do not
// overlap.
func (d DateRange) Overlaps(other DateRange) bool {
	return d.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(d.CheckOut)
}

func truncateToDay(t time.Time) time.Time {
	y, m, day := t.UTC().Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
