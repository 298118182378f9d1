// Package repository implements data access for the inventory catalog,
// the reservation ledger and the pending-intent recovery store.  The
// sentinel values below let higher layers distinguish failure
// scenarios without inspecting driver errors.
package repository

import "errors"

// ErrCategoryNotFound is returned when a room category id does not
// exist in the catalog.  Handlers translate it into an HTTP 404 (or a
// validation failure when it arrives inside a booking request).
var ErrCategoryNotFound = errors.New("room category not found")

// ErrReservationNotFound is returned when a reservation does not exist
// or does not belong to the requesting guest.  Handlers translate it
// into an HTTP 404.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrIntentExpired is returned by intent stores when a pending intent
// outlived its TTL.  The booking layer maps it to its user-facing
// recovery-expired error.
var ErrIntentExpired = errors.New("pending intent expired")
