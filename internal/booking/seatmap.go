package booking

import (
	"context"

	"github.com/metinatakli/cinema-booking/internal/domain"
)

type SeatState string

const (
	SeatStateAvailable   SeatState = "available"
	SeatStateHeld        SeatState = "held"
	SeatStateTaken       SeatState = "taken"
	SeatStateMaintenance SeatState = "maintenance"
)

type SeatMapSeat struct {
	domain.Seat
	State SeatState
}

type SeatMapRow struct {
	Row   string
	Seats []SeatMapSeat
}

type SeatMap struct {
	Showtime *domain.Showtime
	Room     *domain.Room
	Rows     []SeatMapRow
}

// SeatMap renders the room layout of a showtime with the state of every seat.
// Booked tickets win over live claims.
func (e *Engine) SeatMap(ctx context.Context, showtimeID int) (*SeatMap, error) {
	showtime, err := e.showtimes.GetById(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	room, err := e.rooms.GetById(ctx, showtime.RoomID)
	if err != nil {
		return nil, err
	}

	taken, err := e.orders.GetTakenSeatLabels(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	held, err := e.ledger.Held(ctx, showtimeID)
	if err != nil {
		// the map is still accurate for committed seats
		e.logger.Warn("failed to read live seat claims", "showtime_id", showtimeID, "error", err)
	}

	states := make(map[string]SeatState, len(taken)+len(held))
	for _, label := range held {
		states[label] = SeatStateHeld
	}
	for _, label := range taken {
		states[label] = SeatStateTaken
	}

	return &SeatMap{
		Showtime: showtime,
		Room:     room,
		Rows:     toSeatRows(room.Seats, states),
	}, nil
}

func toSeatRows(seats []domain.Seat, states map[string]SeatState) []SeatMapRow {
	// Seats are stored row-major, so rows can be cut in a single pass.
	var rows []SeatMapRow

	for i, seat := range seats {
		if i == 0 || seat.Row != seats[i-1].Row {
			rows = append(rows, SeatMapRow{Row: domain.RowLetter(seat.Row)})
		}

		state, ok := states[seat.Label]
		switch {
		case ok:
		case seat.Status == domain.SeatStatusMaintenance:
			state = SeatStateMaintenance
		default:
			state = SeatStateAvailable
		}

		current := &rows[len(rows)-1]
		current.Seats = append(current.Seats, SeatMapSeat{Seat: seat, State: state})
	}

	return rows
}
