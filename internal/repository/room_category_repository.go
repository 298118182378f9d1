package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// RoomCategoryRepo provides read access to the room_categories table.
// Categories are reference data owned by the inventory catalog; this
// service never writes them.
type RoomCategoryRepo struct {
	db *sql.DB
}

// NewRoomCategoryRepo returns a RoomCategoryRepo bound to the given database.
func NewRoomCategoryRepo(db *sql.DB) *RoomCategoryRepo { return &RoomCategoryRepo{db: db} }

const categoryColumns = `id, name, base_price_cents, base_occupancy, max_occupancy,
       extra_guest_cents, excess_guest_cents, total_units, created_at, updated_at`

// GetByID loads a single category.  It returns ErrCategoryNotFound when
// no row matches.
func (r *RoomCategoryRepo) GetByID(ctx context.Context, id uint64) (*model.RoomCategory, error) {
	const q = `SELECT ` + categoryColumns + ` FROM room_categories WHERE id = ?`
	var cat model.RoomCategory
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&cat.ID, &cat.Name, &cat.BasePriceCents, &cat.BaseOccupancy, &cat.MaxOccupancy,
		&cat.ExtraGuestCents, &cat.ExcessGuestCents, &cat.TotalUnits, &cat.CreatedAt, &cat.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &cat, nil
}

// List returns all room categories ordered by name.  An empty catalog
// yields an empty slice.
func (r *RoomCategoryRepo) List(ctx context.Context) ([]model.RoomCategory, error) {
	const q = `SELECT ` + categoryColumns + ` FROM room_categories ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cats := make([]model.RoomCategory, 0)
	for rows.Next() {
		var cat model.RoomCategory
		if err := rows.Scan(
			&cat.ID, &cat.Name, &cat.BasePriceCents, &cat.BaseOccupancy, &cat.MaxOccupancy,
			&cat.ExtraGuestCents, &cat.ExcessGuestCents, &cat.TotalUnits, &cat.CreatedAt, &cat.UpdatedAt,
		); err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cats, nil
}
