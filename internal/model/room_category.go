package model

import "time"

// RoomCategory describes a class of interchangeable rooms (e.g.
// "Standard", "Suite") with a fixed number of physical units.  It is
// reference data owned by the inventory catalog: the booking core
// only ever reads it.
//
// Fields:
//  ID               – primary key identifier.
//  Name             – display name of the category.
//  BasePriceCents   – nightly price in cents up to BaseOccupancy guests.
//  BaseOccupancy    – number of guests included in the base price.
//  MaxOccupancy     – hard cap on guests per room.
//  ExtraGuestCents  – per-night surcharge per guest above BaseOccupancy.
//  ExcessGuestCents – catalog rate for guests beyond MaxOccupancy; kept
//                     as reference data, never priced (excess guests are
//                     rejected at validation).
//  TotalUnits       – total physical rooms of this category.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type RoomCategory struct {
	ID               uint64    // room_categories.id
	Name             string    // room_categories.name
	BasePriceCents   uint32    // room_categories.base_price_cents
	BaseOccupancy    uint8     // room_categories.base_occupancy
	MaxOccupancy     uint8     // room_categories.max_occupancy
	ExtraGuestCents  uint32    // room_categories.extra_guest_cents
	ExcessGuestCents uint32    // room_categories.excess_guest_cents
	TotalUnits       uint32    // room_categories.total_units
	CreatedAt        time.Time // room_categories.created_at
	UpdatedAt        time.Time // room_categories.updated_at
}
