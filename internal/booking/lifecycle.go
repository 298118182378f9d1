package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/payment"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// Catalog is the read-only inventory catalog collaborator.
type Catalog interface {
	GetByID(ctx context.Context, id uint64) (*model.RoomCategory, error)
}

// CommitLedger extends the read surface with the transactional write
// operations the controller needs.  The *Tx methods run inside a
// caller-owned transaction; the caller commits or rolls back.
type CommitLedger interface {
	Ledger
	DB() *sql.DB
	LockCategoryUnitsTx(ctx context.Context, tx *sql.Tx, categoryID uint64) (uint32, error)
	CountOverlappingActiveTx(ctx context.Context, tx *sql.Tx, categoryID uint64, stay model.DateRange) (int, error)
	CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	GetByIDForGuest(ctx context.Context, id uint64, guestRef string) (*model.Reservation, error)
	ListByGuest(ctx context.Context, guestRef string) ([]model.Reservation, error)
	UpdateStatus(ctx context.Context, id uint64, status, paymentStatus string) error
}

// IntentStore is the pending-intent recovery store: one unexpired entry
// per guest, last write wins.  Load returns (nil, nil) when no entry
// exists and repository.ErrIntentExpired when an entry existed but
// outlived its TTL.  Saving an intent is NOT an inventory hold.
type IntentStore interface {
	Save(ctx context.Context, intent *model.ReservationIntent) error
	Load(ctx context.Context, guestRef string) (*model.ReservationIntent, error)
	Clear(ctx context.Context, guestRef string) error
}

// EventSink receives domain events emitted by the controller.  Publish
// failures are logged and otherwise ignored; events are best-effort.
type EventSink interface {
	ReservationConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error
	CommitConflict(ctx context.Context, ev queue.CommitConflictEvent) error
}

// Config carries the controller's tunables.
type Config struct {
	IntentTTL time.Duration // recovery-store TTL for held intents
	Currency  string        // ISO currency code passed to the gateway
}

// Controller owns the quote → hold → commit state machine and is the
// only component that writes confirmed reservations into the ledger.
type Controller struct {
	catalog      Catalog
	ledger       CommitLedger
	intents      IntentStore
	gateway      payment.Gateway
	pricer       *Pricer
	availability *AvailabilityEngine
	events       EventSink
	cfg          Config
	log          *logrus.Logger
}

// NewController wires a Controller.  events may be nil when no broker
// is configured; everything else must be non-nil.
func NewController(catalog Catalog, ledger CommitLedger, intents IntentStore, gateway payment.Gateway, pricer *Pricer, events EventSink, cfg Config, log *logrus.Logger) *Controller {
	if catalog == nil || ledger == nil || intents == nil || gateway == nil || pricer == nil || log == nil {
		panic("nil dependency passed to NewController")
	}
	if cfg.IntentTTL <= 0 {
		cfg.IntentTTL = 30 * time.Minute
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}
	return &Controller{
		catalog:      catalog,
		ledger:       ledger,
		intents:      intents,
		gateway:      gateway,
		pricer:       pricer,
		availability: NewAvailabilityEngine(ledger),
		events:       events,
		cfg:          cfg,
		log:          log,
	}
}

// CheckAvailability answers a capacity query for a category and range.
// Unknown categories fail validation.
func (c *Controller) CheckAvailability(ctx context.Context, categoryID uint64, stay model.DateRange) (Availability, error) {
	cat, err := c.loadCategory(ctx, categoryID)
	if err != nil {
		return Availability{}, err
	}
	return c.availability.Check(ctx, cat, stay)
}

// Quote prices a prospective stay and returns an intent when at least
// one unit is free.  Nothing is written anywhere: quoting does not
// reserve inventory.
func (c *Controller) Quote(ctx context.Context, guestRef string, categoryID uint64, stay model.DateRange, guests int) (*model.ReservationIntent, error) {
	cat, err := c.loadCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	avail, err := c.availability.Check(ctx, cat, stay)
	if err != nil {
		return nil, err
	}
	if avail.AvailableUnits <= 0 {
		return nil, &UnavailableError{CategoryID: categoryID, AvailableUnits: avail.AvailableUnits}
	}
	price, err := c.pricer.Quote(cat, guests, stay)
	if err != nil {
		return nil, err
	}
	return &model.ReservationIntent{
		ID:         uuid.NewString(),
		GuestRef:   guestRef,
		CategoryID: categoryID,
		Stay:       stay,
		Guests:     guests,
		Price:      price,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Hold parks the intent in the recovery store so the guest can leave
// the payment step and return.  A newer hold for the same guest
// replaces any earlier one.  Returns the intent id for correlation.
func (c *Controller) Hold(ctx context.Context, intent *model.ReservationIntent) (string, error) {
	if intent == nil || intent.ID == "" {
		return "", &ValidationError{Field: "intent", Reason: "missing"}
	}
	if err := c.intents.Save(ctx, intent); err != nil {
		return "", &CollaboratorError{Collaborator: "recovery store", Err: err}
	}
	return intent.ID, nil
}

// Resume returns the guest's unexpired pending intent, or (nil, nil)
// when none is stored.  Expired entries surface as ErrRecoveryExpired.
func (c *Controller) Resume(ctx context.Context, guestRef string) (*model.ReservationIntent, error) {
	intent, err := c.intents.Load(ctx, guestRef)
	if err != nil {
		if errors.Is(err, repository.ErrIntentExpired) {
			return nil, ErrRecoveryExpired
		}
		return nil, &CollaboratorError{Collaborator: "recovery store", Err: err}
	}
	return intent, nil
}

// Discard drops the guest's pending intent.  Abandoning an intent has
// no inventory effect, so there is nothing to roll back.
func (c *Controller) Discard(ctx context.Context, guestRef string) error {
	if err := c.intents.Clear(ctx, guestRef); err != nil {
		return &CollaboratorError{Collaborator: "recovery store", Err: err}
	}
	return nil
}

// Commit turns a held intent into a confirmed reservation.  The charge
// is attempted exactly once; the availability re-check and the ledger
// insert then run in a single transaction serialized per category, so
// two commits racing for the last unit cannot both succeed.  When that
// race is lost after a successful charge, the result is a
// CommitConflictError carrying the payment reference the caller must
// route into the refund path.
func (c *Controller) Commit(ctx context.Context, guestRef, intentID, method, details string) (*model.Reservation, error) {
	intent, err := c.intents.Load(ctx, guestRef)
	if err != nil {
		if errors.Is(err, repository.ErrIntentExpired) {
			return nil, ErrRecoveryExpired
		}
		return nil, &CollaboratorError{Collaborator: "recovery store", Err: err}
	}
	if intent == nil || intent.ID != intentID {
		return nil, ErrIntentNotFound
	}

	cat, err := c.loadCategory(ctx, intent.CategoryID)
	if err != nil {
		return nil, err
	}

	// Cheap pre-check before money moves: a clearly full category must
	// not reach the gateway at all.
	avail, err := c.availability.Check(ctx, cat, intent.Stay)
	if err != nil {
		return nil, err
	}
	if avail.AvailableUnits <= 0 {
		return nil, &UnavailableError{CategoryID: cat.ID, AvailableUnits: avail.AvailableUnits}
	}

	charge, err := c.gateway.Charge(ctx, payment.ChargeRequest{
		IntentID:    intent.ID,
		GuestRef:    guestRef,
		AmountCents: intent.Price.TotalCents,
		Currency:    c.cfg.Currency,
		Method:      method,
		Details:     details,
	})
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "payment gateway", Err: err}
	}
	if !charge.Success {
		return nil, &PaymentFailedError{Reason: charge.Reason}
	}

	record, err := c.commitPaid(ctx, cat, intent, charge.Reference)
	if err != nil {
		return nil, err
	}

	if clearErr := c.intents.Clear(ctx, guestRef); clearErr != nil {
		c.log.WithError(clearErr).WithField("intent_id", intent.ID).
			Warn("failed to clear committed intent from recovery store")
	}
	c.publishConfirmed(ctx, cat, record)
	return record, nil
}

// commitPaid performs the atomic re-check + insert.  The SELECT ... FOR
// UPDATE on the category row is the serialization point between
// concurrent commits for the same category.
func (c *Controller) commitPaid(ctx context.Context, cat *model.RoomCategory, intent *model.ReservationIntent, paymentRef string) (*model.Reservation, error) {
	tx, err := c.ledger.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "reservation ledger", Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	totalUnits, err := c.ledger.LockCategoryUnitsTx(ctx, tx, cat.ID)
	if err != nil {
		return nil, c.conflictOrCollaborator(ctx, cat, intent, paymentRef, err)
	}
	conflicts, err := c.ledger.CountOverlappingActiveTx(ctx, tx, cat.ID, intent.Stay)
	if err != nil {
		return nil, c.conflictOrCollaborator(ctx, cat, intent, paymentRef, err)
	}
	if conflicts >= int(totalUnits) {
		c.log.WithFields(logrus.Fields{
			"intent_id":   intent.ID,
			"category_id": cat.ID,
			"payment_ref": paymentRef,
			"conflicts":   conflicts,
			"total_units": totalUnits,
		}).Error("commit conflict after successful charge; compensation required")
		c.publishConflict(ctx, intent, paymentRef)
		return nil, &CommitConflictError{
			CategoryID:     cat.ID,
			PaymentRef:     paymentRef,
			AvailableUnits: int(totalUnits) - conflicts,
		}
	}

	ref := paymentRef
	record := &model.Reservation{
		GuestRef:      intent.GuestRef,
		CategoryID:    cat.ID,
		CheckIn:       intent.Stay.CheckIn,
		CheckOut:      intent.Stay.CheckOut,
		Guests:        intent.Guests,
		Price:         intent.Price,
		Status:        model.StatusConfirmed,
		PaymentStatus: model.PaymentPaid,
		PaymentRef:    &ref,
	}
	if err := c.ledger.CreateTx(ctx, tx, record); err != nil {
		return nil, c.conflictOrCollaborator(ctx, cat, intent, paymentRef, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, c.conflictOrCollaborator(ctx, cat, intent, paymentRef, err)
	}
	committed = true
	return record, nil
}

// conflictOrCollaborator handles ledger failures that happen after the
// charge already succeeded.  The money has moved, so these are
// surfaced as commit conflicts (compensation required), not as
// retryable collaborator errors.
func (c *Controller) conflictOrCollaborator(ctx context.Context, cat *model.RoomCategory, intent *model.ReservationIntent, paymentRef string, err error) error {
	c.log.WithError(err).WithFields(logrus.Fields{
		"intent_id":   intent.ID,
		"category_id": cat.ID,
		"payment_ref": paymentRef,
	}).Error("ledger write failed after successful charge; compensation required")
	c.publishConflict(ctx, intent, paymentRef)
	return &CommitConflictError{CategoryID: cat.ID, PaymentRef: paymentRef}
}

// Cancel transitions a guest's reservation to CANCELLED, freeing the
// capacity it consumed.  Only future stays can be cancelled; a paid
// reservation is flagged REFUND_DUE for the external refund flow.
func (c *Controller) Cancel(ctx context.Context, guestRef string, reservationID uint64) error {
	res, err := c.ledger.GetByIDForGuest(ctx, reservationID, guestRef)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return repository.ErrReservationNotFound
		}
		return &CollaboratorError{Collaborator: "reservation ledger", Err: err}
	}
	switch res.Status {
	case model.StatusCancelled, model.StatusExpired:
		return &ValidationError{Field: "reservation", Reason: "already inactive"}
	}
	if !res.CheckIn.After(time.Now().UTC()) {
		return &ValidationError{Field: "reservation", Reason: "stay already started"}
	}
	paymentStatus := res.PaymentStatus
	if paymentStatus == model.PaymentPaid {
		paymentStatus = model.PaymentRefundDue
	}
	if err := c.ledger.UpdateStatus(ctx, reservationID, model.StatusCancelled, paymentStatus); err != nil {
		return &CollaboratorError{Collaborator: "reservation ledger", Err: err}
	}
	return nil
}

// GetReservation returns one of the guest's reservations.  Ownership is
// enforced by the ledger query.
func (c *Controller) GetReservation(ctx context.Context, guestRef string, id uint64) (*model.Reservation, error) {
	res, err := c.ledger.GetByIDForGuest(ctx, id, guestRef)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return nil, repository.ErrReservationNotFound
		}
		return nil, &CollaboratorError{Collaborator: "reservation ledger", Err: err}
	}
	return res, nil
}

// ListReservations returns the guest's reservations, newest first.
func (c *Controller) ListReservations(ctx context.Context, guestRef string) ([]model.Reservation, error) {
	items, err := c.ledger.ListByGuest(ctx, guestRef)
	if err != nil {
		return nil, &CollaboratorError{Collaborator: "reservation ledger", Err: err}
	}
	return items, nil
}

func (c *Controller) loadCategory(ctx context.Context, id uint64) (*model.RoomCategory, error) {
	cat, err := c.catalog.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, &ValidationError{Field: "category", Reason: "unknown category"}
		}
		return nil, &CollaboratorError{Collaborator: "inventory catalog", Err: err}
	}
	return cat, nil
}

func (c *Controller) publishConfirmed(ctx context.Context, cat *model.RoomCategory, res *model.Reservation) {
	if c.events == nil {
		return
	}
	ref := ""
	if res.PaymentRef != nil {
		ref = *res.PaymentRef
	}
	ev := queue.ReservationConfirmedEvent{
		ReservationID: res.ID,
		GuestRef:      res.GuestRef,
		CategoryID:    cat.ID,
		CategoryName:  cat.Name,
		CheckIn:       res.CheckIn.Format(model.DateLayout),
		CheckOut:      res.CheckOut.Format(model.DateLayout),
		Guests:        res.Guests,
		TotalCents:    res.Price.TotalCents,
		PaymentRef:    ref,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := c.events.ReservationConfirmed(ctx, ev); err != nil {
		c.log.WithError(err).WithField("reservation_id", res.ID).
			Warn("failed to publish reservation.confirmed event")
	}
}

func (c *Controller) publishConflict(ctx context.Context, intent *model.ReservationIntent, paymentRef string) {
	if c.events == nil {
		return
	}
	ev := queue.CommitConflictEvent{
		IntentID:    intent.ID,
		GuestRef:    intent.GuestRef,
		CategoryID:  intent.CategoryID,
		CheckIn:     intent.Stay.CheckIn.Format(model.DateLayout),
		CheckOut:    intent.Stay.CheckOut.Format(model.DateLayout),
		AmountCents: intent.Price.TotalCents,
		PaymentRef:  paymentRef,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := c.events.CommitConflict(ctx, ev); err != nil {
		c.log.WithError(err).WithField("intent_id", intent.ID).
			Warn("failed to publish reservation.conflict event")
	}
}
