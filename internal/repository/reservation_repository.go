package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ReservationRepo provides access to the reservations table, the
// persistent ledger of guest stays.  Rows are inserted once by the
// lifecycle controller and afterwards only status-transitioned, never
// deleted.  All timestamps are stored in UTC; check_in/check_out are
// DATE columns.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// that span the availability re-check and the insert.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, guest_ref, category_id, check_in, check_out, guests,
       nights, per_night_cents, subtotal_cents, tax_cents, total_cents,
       status, payment_status, payment_ref, created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (*model.Reservation, error) {
	var res model.Reservation
	var payRef sql.NullString
	err := row.Scan(
		&res.ID, &res.GuestRef, &res.CategoryID, &res.CheckIn, &res.CheckOut, &res.Guests,
		&res.Price.Nights, &res.Price.PerNightCents, &res.Price.SubtotalCents,
		&res.Price.TaxCents, &res.Price.TotalCents,
		&res.Status, &res.PaymentStatus, &payRef, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if payRef.Valid {
		ref := payRef.String
		res.PaymentRef = &ref
	}
	return &res, nil
}

// ActiveByCategory returns every reservation of the category whose
// status still consumes capacity (HELD or CONFIRMED).  The availability
// engine counts overlaps over this snapshot.
func (r *ReservationRepo) ActiveByCategory(ctx context.Context, categoryID uint64) ([]model.Reservation, error) {
	placeholders := strings.Repeat(",?", len(model.ActiveStatuses))[1:]
	q := `SELECT ` + reservationColumns + ` FROM reservations
         WHERE category_id = ? AND status IN (` + placeholders + `)`
	args := make([]interface{}, 0, 1+len(model.ActiveStatuses))
	args = append(args, categoryID)
	for _, s := range model.ActiveStatuses {
		args = append(args, s)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LockCategoryUnitsTx reads the category's total unit count with a row
// lock, serializing concurrent commits for the same category.  The
// lock is held until the caller's transaction ends.
func (r *ReservationRepo) LockCategoryUnitsTx(ctx context.Context, tx *sql.Tx, categoryID uint64) (uint32, error) {
	const q = `SELECT total_units FROM room_categories WHERE id = ? FOR UPDATE`
	var units uint32
	if err := tx.QueryRowContext(ctx, q, categoryID).Scan(&units); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrCategoryNotFound
		}
		return 0, err
	}
	return units, nil
}

// CountOverlappingActiveTx counts active reservations of the category
// overlapping the stay, inside the caller's transaction.  The half-open
// comparison (check_in < checkout AND checkin < check_out) matches the
// pure overlap predicate on model.DateRange.
func (r *ReservationRepo) CountOverlappingActiveTx(ctx context.Context, tx *sql.Tx, categoryID uint64, stay model.DateRange) (int, error) {
	placeholders := strings.Repeat(",?", len(model.ActiveStatuses))[1:]
	q := `SELECT COUNT(*) FROM reservations
         WHERE category_id = ? AND status IN (` + placeholders + `)
           AND check_in < ? AND ? < check_out FOR UPDATE`
	args := make([]interface{}, 0, 3+len(model.ActiveStatuses))
	args = append(args, categoryID)
	for _, s := range model.ActiveStatuses {
		args = append(args, s)
	}
	args = append(args, stay.CheckOut, stay.CheckIn)
	var n int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateTx inserts a new reservation within an existing transaction and
// populates the generated id plus DB-defaulted timestamps on the given
// record.  The caller must commit or roll back.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
        (guest_ref, category_id, check_in, check_out, guests,
         nights, per_night_cents, subtotal_cents, tax_cents, total_cents,
         status, payment_status, payment_ref)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var payRef interface{}
	if res.PaymentRef != nil {
		payRef = *res.PaymentRef
	}
	result, err := tx.ExecContext(ctx, q,
		res.GuestRef, res.CategoryID, res.CheckIn, res.CheckOut, res.Guests,
		res.Price.Nights, res.Price.PerNightCents, res.Price.SubtotalCents,
		res.Price.TaxCents, res.Price.TotalCents,
		res.Status, res.PaymentStatus, payRef,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// GetByIDForGuest returns a single reservation owned by the guest.
// Ownership is enforced in the query, so a foreign reservation looks
// identical to a missing one.
func (r *ReservationRepo) GetByIDForGuest(ctx context.Context, id uint64, guestRef string) (*model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? AND guest_ref = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id, guestRef))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// ListByGuest returns the guest's reservations, newest first.
func (r *ReservationRepo) ListByGuest(ctx context.Context, guestRef string) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations
         WHERE guest_ref = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, guestRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus transitions a reservation's lifecycle and payment status.
// It returns ErrReservationNotFound when no row was affected.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status, paymentStatus string) error {
	const q = `UPDATE reservations SET status = ?, payment_status = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, status, paymentStatus, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrReservationNotFound
	}
	return nil
}
