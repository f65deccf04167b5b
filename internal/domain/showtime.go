package domain

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type Showtime struct {
	ID         int
	MovieID    int
	CinemaID   int
	RoomID     int
	MovieTitle string
	CinemaName string
	RoomName   string
	StartTime  time.Time
	EndTime    *time.Time
	BasePrice  pgtype.Numeric
}

// Price returns the configured base price. ok is false when the showtime has
// no price, which is a data-integrity fault rather than a user error.
func (s *Showtime) Price() (price decimal.Decimal, ok bool) {
	return DecimalFromNumeric(s.BasePrice)
}

// AcceptsBookingsAt reports whether the booking window is still open at now.
// The window closes at the start time of the screening.
func (s *Showtime) AcceptsBookingsAt(now time.Time) bool {
	return now.Before(s.StartTime)
}

type ShowtimeRepository interface {
	GetById(ctx context.Context, id int) (*Showtime, error)
}

// DecimalFromNumeric converts a finite, non-null numeric. Infinity and NaN
// are reported as not ok.
func DecimalFromNumeric(n pgtype.Numeric) (decimal.Decimal, bool) {
	if !n.Valid || n.Int == nil || n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Zero, false
	}

	return decimal.NewFromBigInt(n.Int, n.Exp), true
}

func NumericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{
		Int:   d.Coefficient(),
		Exp:   d.Exponent(),
		Valid: true,
	}
}
