package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// BookingHandler exposes the reservation lifecycle over HTTP: quote +
// hold, recovery of a pending intent, commit, listing and cancellation.
// JWT middleware has already placed the caller's opaque guest reference
// in the context.
type BookingHandler struct {
	Controller *booking.Controller
}

// NewBookingHandler constructs a BookingHandler.  The controller must
// be non-nil.
func NewBookingHandler(ctrl *booking.Controller) *BookingHandler {
	if ctrl == nil {
		panic("nil controller passed to NewBookingHandler")
	}
	return &BookingHandler{Controller: ctrl}
}

type quoteRequest struct {
	CategoryID uint64 `json:"category_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Guests     int    `json:"guests"`
}

type commitRequest struct {
	IntentID string `json:"intent_id"`
	Payment  struct {
		Method  string `json:"method"`
		Details string `json:"details"`
	} `json:"payment"`
}

// Quote handles POST /v1/quotes.  It prices the requested stay,
// verifies that at least one unit is free, and parks the resulting
// intent in the recovery store so the guest can leave the payment step
// and resume later.  Quoting never reserves inventory.
func (h *BookingHandler) Quote(c echo.Context) error {
	guestRef, err := getGuestRef(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body quoteRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	stay, err := model.ParseDateRange(body.CheckIn, body.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	intent, err := h.Controller.Quote(ctx, guestRef, body.CategoryID, stay, body.Guests)
	if err != nil {
		return respondBookingError(c, err)
	}
	if _, err := h.Controller.Hold(ctx, intent); err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"intent": intent})
}

// PendingIntent handles GET /v1/quotes/pending.  It returns the
// guest's unexpired pending intent, or 404 when none exists or the
// entry expired (both look the same to the guest: start over).
func (h *BookingHandler) PendingIntent(c echo.Context) error {
	guestRef, err := getGuestRef(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	intent, err := h.Controller.Resume(c.Request().Context(), guestRef)
	if err != nil {
		if errors.Is(err, booking.ErrRecoveryExpired) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no pending intent"})
		}
		return respondBookingError(c, err)
	}
	if intent == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no pending intent"})
	}
	return c.JSON(http.StatusOK, echo.Map{"intent": intent})
}

// DiscardIntent handles DELETE /v1/quotes/pending.  Discarding has no
// inventory effect because holding never reserved inventory.
func (h *BookingHandler) DiscardIntent(c echo.Context) error {
	guestRef, err := getGuestRef(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Controller.Discard(c.Request().Context(), guestRef); err != nil {
		return respondBookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Commit handles POST /v1/reservations.  It charges the payment
// gateway once and finalizes the reservation atomically.  The two
// failure modes after validation differ completely for the caller:
// payment_failed means no money moved and a retry is safe;
// commit_conflict means the charge succeeded but capacity was lost, so
// the response carries the payment reference for the refund path.
func (h *BookingHandler) Commit(c echo.Context) error {
	guestRef, err := getGuestRef(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body commitRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.IntentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "intent_id is required"})
	}
	record, err := h.Controller.Commit(c.Request().Context(), guestRef, body.IntentID, body.Payment.Method, body.Payment.Details)
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"reservation": record})
}

// ListReservations handles GET /v1/reservations for the current guest.
func (h *BookingHandler) ListReservations(c echo.Context) error {
	guestRef, err := getGuestRef(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Controller.ListReservations(c.Request().Context(), guestRef)
	if err != nil {
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetReservation handles GET /v1/reservations/:id.
func (h *BookingHandler) GetReservation(c echo.Context) error {
	guestRef, err := getGuestRef(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Controller.GetReservation(c.Request().Context(), guestRef, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": res})
}

// Cancel handles POST /v1/reservations/:id/cancel.  Cancellation is a
// status transition, never a delete; the freed capacity becomes
// available to subsequent checks immediately.
func (h *BookingHandler) Cancel(c echo.Context) error {
	guestRef, err := getGuestRef(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Controller.Cancel(c.Request().Context(), guestRef, id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return respondBookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": model.StatusCancelled})
}

// respondBookingError translates the booking error taxonomy into HTTP
// responses.  Validation and unavailability are expected outcomes;
// commit conflicts get a distinct code plus the payment reference the
// caller needs for compensation.
func respondBookingError(c echo.Context, err error) error {
	var (
		vErr    *booking.ValidationError
		uErr    *booking.UnavailableError
		pErr    *booking.PaymentFailedError
		ccErr   *booking.CommitConflictError
		collErr *booking.CollaboratorError
	)
	switch {
	case errors.As(err, &vErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": vErr.Error()})
	case errors.As(err, &uErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":           "no availability",
			"code":            "unavailable",
			"available_units": uErr.AvailableUnits,
		})
	case errors.As(err, &pErr):
		return c.JSON(http.StatusPaymentRequired, echo.Map{
			"error": pErr.Error(),
			"code":  "payment_failed",
		})
	case errors.As(err, &ccErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":       "reservation lost to a concurrent booking; refund required",
			"code":        "commit_conflict",
			"payment_ref": ccErr.PaymentRef,
		})
	case errors.Is(err, booking.ErrIntentNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "intent not found"})
	case errors.Is(err, booking.ErrRecoveryExpired):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no pending intent"})
	case errors.As(err, &collErr):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": collErr.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
