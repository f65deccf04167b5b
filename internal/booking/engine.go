// Package booking turns seat requests into committed orders. A request moves
// through validation, seat claiming, pricing and commit; any failure before the
// commit leaves nothing persisted and no claim behind.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

const (
	DefaultMaxSeats      = 8
	DefaultPaymentMethod = "cash"

	defaultCommitTimeout = 10 * time.Second
	orderCodeAttempts    = 3
)

type CreateOrderRequest struct {
	ShowtimeID    int
	SeatLabels    []string
	Combos        []domain.ComboRequest
	UserID        string
	PaymentMethod string
}

type Deps struct {
	Showtimes domain.ShowtimeRepository
	Rooms     domain.RoomRepository
	Orders    domain.OrderRepository
	Ledger    domain.SeatLedger
	Pricer    *domain.Pricer
	Publisher domain.EventPublisher
	Logger    *slog.Logger
}

type Config struct {
	MaxSeats      int
	CommitTimeout time.Duration
	Now           func() time.Time
}

type Engine struct {
	showtimes domain.ShowtimeRepository
	rooms     domain.RoomRepository
	orders    domain.OrderRepository
	ledger    domain.SeatLedger
	pricer    *domain.Pricer
	publisher domain.EventPublisher
	logger    *slog.Logger
	metrics   *engineMetrics

	maxSeats      int
	commitTimeout time.Duration
	now           func() time.Time
	newOrderCode  func() (string, error)
}

func NewEngine(deps Deps, cfg Config) *Engine {
	if cfg.MaxSeats <= 0 {
		cfg.MaxSeats = DefaultMaxSeats
	}
	if cfg.CommitTimeout <= 0 {
		cfg.CommitTimeout = defaultCommitTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Publisher == nil {
		deps.Publisher = noopPublisher{}
	}

	return &Engine{
		showtimes:     deps.Showtimes,
		rooms:         deps.Rooms,
		orders:        deps.Orders,
		ledger:        deps.Ledger,
		pricer:        deps.Pricer,
		publisher:     deps.Publisher,
		logger:        deps.Logger,
		metrics:       newEngineMetrics(),
		maxSeats:      cfg.MaxSeats,
		commitTimeout: cfg.CommitTimeout,
		now:           cfg.Now,
		newOrderCode:  domain.GenerateOrderCode,
	}
}

func (e *Engine) MaxSeats() int {
	return e.maxSeats
}

// CreateOrder is the only way an order comes into existence. It either returns
// the committed order or a rejection, and in both cases no seat claim is left
// held by the attempt.
func (e *Engine) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	order, err := e.createOrder(ctx, req)
	if err != nil {
		e.metrics.orderRejected(ctx, rejectionReason(err))
		return nil, err
	}

	e.metrics.orderCommitted(ctx, len(order.Tickets))

	return order, nil
}

func (e *Engine) createOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	logger := e.logger.With("showtime_id", req.ShowtimeID, "user_id", req.UserID)

	// Validating
	labels, err := e.normalizeLabels(req.SeatLabels)
	if err != nil {
		return nil, err
	}

	showtime, err := e.showtimes.GetById(ctx, req.ShowtimeID)
	if err != nil {
		return nil, err
	}

	if !showtime.AcceptsBookingsAt(e.now()) {
		logger.Warn("booking attempted after showtime start", "start_time", showtime.StartTime)
		return nil, domain.ErrWindowClosed
	}

	if _, ok := showtime.Price(); !ok {
		logger.Error("data integrity alert: showtime has no usable base price")
		return nil, domain.ErrMisconfiguredShowtime
	}

	seats, err := e.resolveSeats(ctx, showtime, labels)
	if err != nil {
		return nil, err
	}

	// Claiming
	orderID := uuid.New()
	owner := orderID.String()

	err = e.ledger.Claim(ctx, showtime.ID, labels, owner)
	if err != nil {
		var conflict *domain.SeatConflictError
		if errors.As(err, &conflict) {
			logger.Warn("seat claim lost", "conflicting_seats", conflict.Labels)
			return nil, err
		}

		return nil, fmt.Errorf("failed to claim seats: %w", err)
	}

	// Whatever happens from here on, the claim is dropped once this call
	// returns. A committed order is protected by its tickets instead.
	defer e.releaseClaim(ctx, logger, showtime.ID, labels, owner)

	// Pricing
	quote, skipped, err := e.pricer.Price(ctx, showtime, seats, req.Combos)
	if err != nil {
		if errors.Is(err, domain.ErrMisconfiguredShowtime) {
			logger.Error("data integrity alert: showtime has no usable base price")
		}
		return nil, err
	}

	if len(skipped) > 0 {
		logger.Warn("dropping unknown combo items from order", "combo_item_ids", skipped)
	}

	// Committing
	order := e.buildOrder(orderID, showtime, req, quote)

	err = e.commit(ctx, order)
	if err != nil {
		var conflict *domain.SeatConflictError
		if errors.As(err, &conflict) {
			logger.Warn("seats booked by a concurrent order", "conflicting_seats", conflict.Labels)
			return nil, err
		}

		logger.Error("order commit failed, releasing seat claim", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrCommitFailure, err)
	}

	logger.Info("order committed",
		"order_id", order.ID,
		"order_code", order.Code,
		"seats", order.SeatLabels,
		"total_price", order.TotalPrice.String())

	e.publish(ctx, logger, order, e.publisher.OrderCommitted)

	return order, nil
}

// normalizeLabels deduplicates and sorts the labels so that every request
// claims its seats in the same order.
func (e *Engine) normalizeLabels(requested []string) ([]string, error) {
	seen := make(map[string]bool, len(requested))
	labels := make([]string, 0, len(requested))

	for _, label := range requested {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}

	if len(labels) == 0 {
		return nil, domain.ErrNoSeatsRequested
	}

	if len(labels) > e.maxSeats {
		return nil, fmt.Errorf("%w: at most %d seats per order", domain.ErrTooManySeats, e.maxSeats)
	}

	sort.Strings(labels)

	return labels, nil
}

// resolveSeats maps labels onto the room layout. Labels missing from the
// layout are not found. Seats under maintenance are reported as unavailable.
func (e *Engine) resolveSeats(ctx context.Context, showtime *domain.Showtime, labels []string) ([]domain.Seat, error) {
	room, err := e.rooms.GetById(ctx, showtime.RoomID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			e.logger.Error("data integrity alert: showtime references a missing room",
				"showtime_id", showtime.ID,
				"room_id", showtime.RoomID)
			return nil, domain.ErrMisconfiguredShowtime
		}
		return nil, err
	}

	layout := room.SeatsByLabel()
	seats := make([]domain.Seat, 0, len(labels))

	var unknown, unavailable []string

	for _, label := range labels {
		seat, ok := layout[label]
		switch {
		case !ok:
			unknown = append(unknown, label)
		case seat.Status != domain.SeatStatusActive:
			unavailable = append(unavailable, label)
		default:
			seats = append(seats, seat)
		}
	}

	if len(unknown) > 0 {
		return nil, &domain.UnknownSeatsError{Labels: unknown}
	}

	if len(unavailable) > 0 {
		return nil, &domain.SeatConflictError{Labels: unavailable}
	}

	return seats, nil
}

func (e *Engine) buildOrder(id uuid.UUID, showtime *domain.Showtime, req CreateOrderRequest, quote *domain.Quote) *domain.Order {
	method := req.PaymentMethod
	if method == "" {
		method = DefaultPaymentMethod
	}

	order := &domain.Order{
		ID:         id,
		UserID:     req.UserID,
		ShowtimeID: showtime.ID,
		SeatLabels: make([]string, len(quote.SeatPrices)),
		ComboLines: quote.ComboLines,
		TotalPrice: quote.Total,
		Payment:    domain.NewPendingPayment(method),
		Tickets:    make([]domain.Ticket, len(quote.SeatPrices)),
		CreatedAt:  e.now(),
	}

	for i, sp := range quote.SeatPrices {
		order.SeatLabels[i] = sp.Label
		order.Tickets[i] = domain.Ticket{
			ShowtimeID: showtime.ID,
			OrderID:    id,
			SeatLabel:  sp.Label,
			Price:      sp.Price,
			Status:     domain.TicketStatusBooked,
		}
	}

	return order
}

// commit persists the order detached from the caller's cancellation so that
// an aborted request still ends either committed or fully rolled back.
func (e *Engine) commit(ctx context.Context, order *domain.Order) error {
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.commitTimeout)
	defer cancel()

	var err error

	for attempt := 0; attempt < orderCodeAttempts; attempt++ {
		order.Code, err = e.newOrderCode()
		if err != nil {
			return fmt.Errorf("failed to generate order code: %w", err)
		}

		err = e.orders.Create(commitCtx, order)
		if !errors.Is(err, domain.ErrDuplicateOrderCode) {
			return err
		}

		e.logger.Warn("order code collision, regenerating", "order_code", order.Code)
	}

	return err
}

func (e *Engine) releaseClaim(ctx context.Context, logger *slog.Logger, showtimeID int, labels []string, owner string) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.commitTimeout)
	defer cancel()

	err := e.ledger.Release(releaseCtx, showtimeID, labels, owner)
	if err != nil {
		// the claim expires on its own once the grace window passes
		logger.Error("failed to release seat claim", "owner", owner, "seats", labels, "error", err)
	}
}

// ReleaseOrder cancels an order owned by userID and returns its seats to the
// pool. Orders for screenings that already started cannot be released.
func (e *Engine) ReleaseOrder(ctx context.Context, orderID uuid.UUID, userID string) error {
	logger := e.logger.With("order_id", orderID, "user_id", userID)

	order, err := e.GetOrder(ctx, orderID, userID)
	if err != nil {
		return err
	}

	showtime, err := e.showtimes.GetById(ctx, order.ShowtimeID)
	if err != nil {
		return err
	}

	if !showtime.AcceptsBookingsAt(e.now()) {
		logger.Warn("release attempted after showtime start", "showtime_id", showtime.ID)
		return domain.ErrWindowClosed
	}

	err = e.orders.Delete(ctx, orderID)
	if err != nil {
		return err
	}

	e.metrics.seatsReleased(ctx, len(order.SeatLabels))

	logger.Info("order released", "showtime_id", order.ShowtimeID, "seats", order.SeatLabels)

	e.publish(ctx, logger, order, e.publisher.OrderReleased)

	return nil
}

// GetOrder returns the order only to the user who placed it.
func (e *Engine) GetOrder(ctx context.Context, orderID uuid.UUID, userID string) (*domain.Order, error) {
	order, err := e.orders.GetById(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.OwnedBy(userID) {
		e.logger.Warn("order access by non-owner", "order_id", orderID, "user_id", userID)
		return nil, domain.ErrForbidden
	}

	return order, nil
}

// ListTakenSeats reports the labels held by booked tickets of the showtime,
// sorted.
func (e *Engine) ListTakenSeats(ctx context.Context, showtimeID int) ([]string, error) {
	if _, err := e.showtimes.GetById(ctx, showtimeID); err != nil {
		return nil, err
	}

	taken, err := e.orders.GetTakenSeatLabels(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	sort.Strings(taken)

	return taken, nil
}

func (e *Engine) publish(
	ctx context.Context,
	logger *slog.Logger,
	order *domain.Order,
	fn func(context.Context, *domain.Order) error) {

	err := fn(context.WithoutCancel(ctx), order)
	if err != nil {
		logger.Error("failed to publish order event", "order_id", order.ID, "error", err)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoSeatsRequested), errors.Is(err, domain.ErrTooManySeats):
		return "invalid_request"
	case errors.Is(err, domain.ErrSeatNotFound):
		return "seat_not_found"
	case errors.Is(err, domain.ErrRecordNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrWindowClosed):
		return "window_closed"
	case errors.Is(err, domain.ErrMisconfiguredShowtime):
		return "misconfigured_showtime"
	case errors.Is(err, domain.ErrSeatConflict):
		return "seat_conflict"
	case errors.Is(err, domain.ErrCommitFailure):
		return "commit_failure"
	default:
		return "internal"
	}
}

type noopPublisher struct{}

func (noopPublisher) OrderCommitted(context.Context, *domain.Order) error { return nil }
func (noopPublisher) OrderReleased(context.Context, *domain.Order) error  { return nil }
