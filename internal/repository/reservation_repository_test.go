package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

func testDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateLayout, s)
	require.NoError(t, err)
	return d
}

func reservationRows(t *testing.T, ids ...uint64) *sqlmock.Rows {
	t.Helper()
	rows := sqlmock.NewRows([]string{
		"id", "guest_ref", "category_id", "check_in", "check_out", "guests",
		"nights", "per_night_cents", "subtotal_cents", "tax_cents", "total_cents",
		"status", "payment_status", "payment_ref", "created_at", "updated_at",
	})
	now := time.Now().UTC()
	for _, id := range ids {
		rows.AddRow(
			id, "guest-1", 7, testDay(t, "2026-01-10"), testDay(t, "2026-01-13"), 2,
			3, 250000, 750000, 90000, 840000,
			model.StatusConfirmed, model.PaymentPaid, "pay-001", now, now,
		)
	}
	return rows
}

func TestActiveByCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)

	t.Run("returns active rows", func(t *testing.T) {
		mock.ExpectQuery(`FROM reservations`).
			WithArgs(uint64(7), model.StatusHeld, model.StatusConfirmed).
			WillReturnRows(reservationRows(t, 41, 42))

		out, err := repo.ActiveByCategory(context.Background(), 7)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, uint64(41), out[0].ID)
		assert.Equal(t, uint64(840000), out[0].Price.TotalCents)
		require.NotNil(t, out[0].PaymentRef)
		assert.Equal(t, "pay-001", *out[0].PaymentRef)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty category yields empty slice", func(t *testing.T) {
		mock.ExpectQuery(`FROM reservations`).
			WithArgs(uint64(7), model.StatusHeld, model.StatusConfirmed).
			WillReturnRows(reservationRows(t))

		out, err := repo.ActiveByCategory(context.Background(), 7)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestLockCategoryUnitsTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)

	t.Run("returns locked unit count", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT total_units FROM room_categories`).
			WithArgs(uint64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"total_units"}).AddRow(3))
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)
		defer tx.Rollback()

		units, err := repo.LockCategoryUnitsTx(context.Background(), tx, 7)
		require.NoError(t, err)
		assert.Equal(t, uint32(3), units)
	})

	t.Run("unknown category", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT total_units FROM room_categories`).
			WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"total_units"}))
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)
		defer tx.Rollback()

		_, err = repo.LockCategoryUnitsTx(context.Background(), tx, 99)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestCountOverlappingActiveTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	stay, err := model.ParseDateRange("2026-01-10", "2026-01-13")
	require.NoError(t, err)

	mock.ExpectBegin()
	// Half-open comparison: check_in < requested check-out and
	// requested check-in < check_out.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM reservations`).
		WithArgs(uint64(7), model.StatusHeld, model.StatusConfirmed, stay.CheckOut, stay.CheckIn).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	n, err := repo.CountOverlappingActiveTx(context.Background(), tx, 7, stay)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)
	ref := "pay-001"
	res := &model.Reservation{
		GuestRef:   "guest-1",
		CategoryID: 7,
		CheckIn:    testDay(t, "2026-01-10"),
		CheckOut:   testDay(t, "2026-01-13"),
		Guests:     2,
		Price: model.PriceBreakdown{
			Nights: 3, PerNightCents: 250000,
			SubtotalCents: 750000, TaxCents: 90000, TotalCents: 840000,
		},
		Status:        model.StatusConfirmed,
		PaymentStatus: model.PaymentPaid,
		PaymentRef:    &ref,
	}

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO reservations`).
		WithArgs(
			"guest-1", uint64(7), res.CheckIn, res.CheckOut, 2,
			3, uint32(250000), uint64(750000), uint64(90000), uint64(840000),
			model.StatusConfirmed, model.PaymentPaid, "pay-001",
		).
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectQuery(`SELECT created_at, updated_at FROM reservations`).
		WithArgs(uint64(41)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	require.NoError(t, repo.CreateTx(context.Background(), tx, res))
	require.NoError(t, tx.Commit())

	assert.Equal(t, uint64(41), res.ID)
	assert.Equal(t, now, res.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDForGuest(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)

	t.Run("owned reservation is returned", func(t *testing.T) {
		mock.ExpectQuery(`FROM reservations`).
			WithArgs(uint64(41), "guest-1").
			WillReturnRows(reservationRows(t, 41))

		res, err := repo.GetByIDForGuest(context.Background(), 41, "guest-1")
		require.NoError(t, err)
		assert.Equal(t, uint64(41), res.ID)
	})

	t.Run("foreign reservation looks missing", func(t *testing.T) {
		mock.ExpectQuery(`FROM reservations`).
			WithArgs(uint64(41), "guest-2").
			WillReturnRows(reservationRows(t))

		_, err := repo.GetByIDForGuest(context.Background(), 41, "guest-2")
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewReservationRepo(db)

	t.Run("transitions the row", func(t *testing.T) {
		mock.ExpectExec(`UPDATE reservations SET`).
			WithArgs(model.StatusCancelled, model.PaymentRefundDue, uint64(41)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), 41, model.StatusCancelled, model.PaymentRefundDue)
		assert.NoError(t, err)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec(`UPDATE reservations SET`).
			WithArgs(model.StatusCancelled, model.PaymentRefundDue, uint64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), 99, model.StatusCancelled, model.PaymentRefundDue)
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}
