package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketStatusBooked    TicketStatus = "booked"
	TicketStatusCancelled TicketStatus = "cancelled"
)

type Order struct {
	ID         uuid.UUID
	Code       string
	UserID     string
	ShowtimeID int
	SeatLabels []string
	ComboLines []ComboLine
	TotalPrice decimal.Decimal
	Payment    Payment
	Tickets    []Ticket
	CreatedAt  time.Time
}

// ComboLine captures a concession item with the unit price it had when the
// order was placed. Later catalog changes never affect it.
type ComboLine struct {
	ItemID    int
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

func (l ComboLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Ticket struct {
	ID         int64
	ShowtimeID int
	OrderID    uuid.UUID
	SeatLabel  string
	Price      decimal.Decimal
	Status     TicketStatus
}

// OwnedBy reports whether the caller placed the order.
func (o *Order) OwnedBy(userID string) bool {
	return o.UserID != "" && o.UserID == userID
}

type OrderRepository interface {
	// Create persists the order together with its tickets as one unit. A
	// ticket colliding with an already booked seat yields *SeatConflictError
	// and nothing is written.
	Create(ctx context.Context, order *Order) error
	GetById(ctx context.Context, id uuid.UUID) (*Order, error)
	// Delete removes the order; its tickets are removed by cascade.
	Delete(ctx context.Context, id uuid.UUID) error
	GetTakenSeatLabels(ctx context.Context, showtimeID int) ([]string, error)
}
