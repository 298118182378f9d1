package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/payment"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

type stubCatalog struct{ cat *model.RoomCategory }

func (s *stubCatalog) GetByID(context.Context, uint64) (*model.RoomCategory, error) {
	return s.cat, nil
}

type stubLedger struct {
	db         *sql.DB
	active     []model.Reservation
	totalUnits uint32
	conflicts  int
}

func (s *stubLedger) ActiveByCategory(context.Context, uint64) ([]model.Reservation, error) {
	return s.active, nil
}
func (s *stubLedger) DB() *sql.DB { return s.db }
func (s *stubLedger) LockCategoryUnitsTx(context.Context, *sql.Tx, uint64) (uint32, error) {
	return s.totalUnits, nil
}
func (s *stubLedger) CountOverlappingActiveTx(context.Context, *sql.Tx, uint64, model.DateRange) (int, error) {
	return s.conflicts, nil
}
func (s *stubLedger) CreateTx(_ context.Context, _ *sql.Tx, res *model.Reservation) error {
	res.ID = 41
	return nil
}
func (s *stubLedger) GetByIDForGuest(context.Context, uint64, string) (*model.Reservation, error) {
	return nil, repository.ErrReservationNotFound
}
func (s *stubLedger) ListByGuest(context.Context, string) ([]model.Reservation, error) {
	return nil, nil
}
func (s *stubLedger) UpdateStatus(context.Context, uint64, string, string) error { return nil }

type stubGateway struct {
	result payment.ChargeResult
}

func (s *stubGateway) Charge(context.Context, payment.ChargeRequest) (payment.ChargeResult, error) {
	return s.result, nil
}

type nopSink struct{}

func (nopSink) ReservationConfirmed(context.Context, queue.ReservationConfirmedEvent) error {
	return nil
}
func (nopSink) CommitConflict(context.Context, queue.CommitConflictEvent) error { return nil }

type env struct {
	handler *BookingHandler
	ledger  *stubLedger
	gateway *stubGateway
	mock    sqlmock.Sqlmock
	srv     *echo.Echo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ledger := &stubLedger{db: db, totalUnits: 3}
	gateway := &stubGateway{result: payment.ChargeResult{Success: true, Reference: "pay-001"}}
	ctrl := booking.NewController(
		&stubCatalog{cat: &model.RoomCategory{
			ID: 7, Name: "Suite", BasePriceCents: 250000,
			BaseOccupancy: 2, MaxOccupancy: 4, ExtraGuestCents: 30000, TotalUnits: 3,
		}},
		ledger,
		repository.NewMemoryIntentStore(30*time.Minute),
		gateway,
		booking.NewPricer(1200),
		nopSink{},
		booking.Config{IntentTTL: 30 * time.Minute, Currency: "USD"},
		logger,
	)
	return &env{
		handler: NewBookingHandler(ctrl),
		ledger:  ledger,
		gateway: gateway,
		mock:    mock,
		srv:     echo.New(),
	}
}

func (e *env) request(t *testing.T, method, target, body, guestRef string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.srv.NewContext(req, rec)
	if guestRef != "" {
		c.Set("guest_ref", guestRef)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const quoteBody = `{"category_id":7,"check_in":"2026-01-10","check_out":"2026-01-13","guests":2}`

func (e *env) holdIntent(t *testing.T, guestRef string) string {
	t.Helper()
	c, rec := e.request(t, http.MethodPost, "/v1/quotes", quoteBody, guestRef)
	require.NoError(t, e.handler.Quote(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	intent := decodeBody(t, rec)["intent"].(map[string]interface{})
	return intent["intent_id"].(string)
}

func TestQuoteEndpoint(t *testing.T) {
	t.Run("prices and holds the stay", func(t *testing.T) {
		e := newEnv(t)
		c, rec := e.request(t, http.MethodPost, "/v1/quotes", quoteBody, "guest-1")

		require.NoError(t, e.handler.Quote(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		intent := decodeBody(t, rec)["intent"].(map[string]interface{})
		assert.NotEmpty(t, intent["intent_id"])
		price := intent["price_breakdown"].(map[string]interface{})
		assert.Equal(t, float64(840000), price["total_cents"])
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		e := newEnv(t)
		c, rec := e.request(t, http.MethodPost, "/v1/quotes", quoteBody, "")

		require.NoError(t, e.handler.Quote(c))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("inverted dates are a bad request", func(t *testing.T) {
		e := newEnv(t)
		body := `{"category_id":7,"check_in":"2026-01-13","check_out":"2026-01-10","guests":2}`
		c, rec := e.request(t, http.MethodPost, "/v1/quotes", body, "guest-1")

		require.NoError(t, e.handler.Quote(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("full category conflicts", func(t *testing.T) {
		e := newEnv(t)
		stay, err := model.ParseDateRange("2026-01-10", "2026-01-13")
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			e.ledger.active = append(e.ledger.active, model.Reservation{
				CheckIn: stay.CheckIn, CheckOut: stay.CheckOut, Status: model.StatusConfirmed,
			})
		}
		c, rec := e.request(t, http.MethodPost, "/v1/quotes", quoteBody, "guest-1")

		require.NoError(t, e.handler.Quote(c))
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "unavailable", decodeBody(t, rec)["code"])
	})
}

func TestPendingIntentEndpoint(t *testing.T) {
	t.Run("returns the held intent", func(t *testing.T) {
		e := newEnv(t)
		id := e.holdIntent(t, "guest-1")

		c, rec := e.request(t, http.MethodGet, "/v1/quotes/pending", "", "guest-1")
		require.NoError(t, e.handler.PendingIntent(c))
		require.Equal(t, http.StatusOK, rec.Code)
		intent := decodeBody(t, rec)["intent"].(map[string]interface{})
		assert.Equal(t, id, intent["intent_id"])
	})

	t.Run("nothing held is not found", func(t *testing.T) {
		e := newEnv(t)
		c, rec := e.request(t, http.MethodGet, "/v1/quotes/pending", "", "guest-1")

		require.NoError(t, e.handler.PendingIntent(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("discard then fetch is not found", func(t *testing.T) {
		e := newEnv(t)
		e.holdIntent(t, "guest-1")

		c, rec := e.request(t, http.MethodDelete, "/v1/quotes/pending", "", "guest-1")
		require.NoError(t, e.handler.DiscardIntent(c))
		require.Equal(t, http.StatusNoContent, rec.Code)

		c, rec = e.request(t, http.MethodGet, "/v1/quotes/pending", "", "guest-1")
		require.NoError(t, e.handler.PendingIntent(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCommitEndpoint(t *testing.T) {
	commitBody := func(id string) string {
		return `{"intent_id":"` + id + `","payment":{"method":"card","details":"tok_visa"}}`
	}

	t.Run("confirms the reservation", func(t *testing.T) {
		e := newEnv(t)
		id := e.holdIntent(t, "guest-1")
		e.mock.ExpectBegin()
		e.mock.ExpectCommit()

		c, rec := e.request(t, http.MethodPost, "/v1/reservations", commitBody(id), "guest-1")
		require.NoError(t, e.handler.Commit(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		res := decodeBody(t, rec)["reservation"].(map[string]interface{})
		assert.Equal(t, "CONFIRMED", res["Status"])
		assert.NoError(t, e.mock.ExpectationsWereMet())
	})

	t.Run("declined payment", func(t *testing.T) {
		e := newEnv(t)
		id := e.holdIntent(t, "guest-1")
		e.gateway.result = payment.ChargeResult{Success: false, Reason: "card declined"}

		c, rec := e.request(t, http.MethodPost, "/v1/reservations", commitBody(id), "guest-1")
		require.NoError(t, e.handler.Commit(c))
		require.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Equal(t, "payment_failed", decodeBody(t, rec)["code"])
	})

	t.Run("lost race surfaces the payment reference", func(t *testing.T) {
		e := newEnv(t)
		id := e.holdIntent(t, "guest-1")
		e.ledger.totalUnits = 1
		e.ledger.conflicts = 1
		e.mock.ExpectBegin()
		e.mock.ExpectRollback()

		c, rec := e.request(t, http.MethodPost, "/v1/reservations", commitBody(id), "guest-1")
		require.NoError(t, e.handler.Commit(c))
		require.Equal(t, http.StatusConflict, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "commit_conflict", body["code"])
		assert.Equal(t, "pay-001", body["payment_ref"])
	})

	t.Run("unknown intent id", func(t *testing.T) {
		e := newEnv(t)
		e.holdIntent(t, "guest-1")

		c, rec := e.request(t, http.MethodPost, "/v1/reservations", commitBody("bogus"), "guest-1")
		require.NoError(t, e.handler.Commit(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty intent id is a bad request", func(t *testing.T) {
		e := newEnv(t)
		c, rec := e.request(t, http.MethodPost, "/v1/reservations", commitBody(""), "guest-1")

		require.NoError(t, e.handler.Commit(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCancelEndpoint(t *testing.T) {
	t.Run("unknown reservation is not found", func(t *testing.T) {
		e := newEnv(t)
		c, rec := e.request(t, http.MethodPost, "/v1/reservations/41/cancel", "", "guest-1")
		c.SetParamNames("id")
		c.SetParamValues("41")

		require.NoError(t, e.handler.Cancel(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is a bad request", func(t *testing.T) {
		e := newEnv(t)
		c, rec := e.request(t, http.MethodPost, "/v1/reservations/abc/cancel", "", "guest-1")
		c.SetParamNames("id")
		c.SetParamValues("abc")

		require.NoError(t, e.handler.Cancel(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
