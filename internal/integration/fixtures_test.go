package integration_test

import (
	"context"
	"encoding/json"
	"time"

	"github.com/metinatakli/cinema-booking/internal/domain"
)

type showtimeFixture struct {
	startTime time.Time
	basePrice *string
	rows      int
	cols      int
	vipRows   []domain.RowRef
}

// insertShowtime creates a movie, a cinema, a room with a generated layout
// and one showtime in that room. It returns the showtime and room ids.
func (s *BaseSuite) insertShowtime(f showtimeFixture) (int, int) {
	ctx := context.Background()

	var movieID, cinemaID, roomID, showtimeID int

	err := s.db.QueryRow(ctx,
		`INSERT INTO movies (title, duration_minutes) VALUES ('Dune: Part Two', 166) RETURNING id`,
	).Scan(&movieID)
	s.Require().NoError(err)

	err = s.db.QueryRow(ctx,
		`INSERT INTO cinemas (name, city) VALUES ('Downtown', 'Istanbul') RETURNING id`,
	).Scan(&cinemaID)
	s.Require().NoError(err)

	seats := domain.GenerateSeatLayout(f.rows, f.cols, f.vipRows)
	layout, err := json.Marshal(seats)
	s.Require().NoError(err)

	err = s.db.QueryRow(ctx, `
		INSERT INTO rooms (cinema_id, name, seat_rows, seat_cols, seat_count, seats)
		VALUES ($1, 'Room 1', $2, $3, $4, $5::jsonb)
		RETURNING id
	`, cinemaID, f.rows, f.cols, len(seats), string(layout)).Scan(&roomID)
	s.Require().NoError(err)

	err = s.db.QueryRow(ctx, `
		INSERT INTO showtimes (movie_id, room_id, start_time, base_price)
		VALUES ($1, $2, $3, $4::numeric)
		RETURNING id
	`, movieID, roomID, f.startTime, f.basePrice).Scan(&showtimeID)
	s.Require().NoError(err)

	return showtimeID, roomID
}

// insertEmptyRoom creates a room without any seat layout.
func (s *BaseSuite) insertEmptyRoom() int {
	ctx := context.Background()

	var cinemaID, roomID int

	err := s.db.QueryRow(ctx,
		`INSERT INTO cinemas (name, city) VALUES ('Uptown', 'Ankara') RETURNING id`,
	).Scan(&cinemaID)
	s.Require().NoError(err)

	err = s.db.QueryRow(ctx,
		`INSERT INTO rooms (cinema_id, name) VALUES ($1, 'Room 9') RETURNING id`,
		cinemaID,
	).Scan(&roomID)
	s.Require().NoError(err)

	return roomID
}

func (s *BaseSuite) insertCombo(name, price string, active bool) int {
	var id int

	err := s.db.QueryRow(context.Background(),
		`INSERT INTO combo_items (name, price, active) VALUES ($1, $2::numeric, $3) RETURNING id`,
		name, price, active,
	).Scan(&id)
	s.Require().NoError(err)

	return id
}

// cancelTicket flips the booked ticket of a seat to cancelled, leaving the
// row and its order in place.
func (s *BaseSuite) cancelTicket(showtimeID int, label string) {
	tag, err := s.db.Exec(context.Background(),
		`UPDATE tickets SET status = 'cancelled' WHERE showtime_id = $1 AND seat_label = $2 AND status = 'booked'`,
		showtimeID, label,
	)
	s.Require().NoError(err)
	s.Require().EqualValues(1, tag.RowsAffected())
}

func (s *BaseSuite) countTickets(showtimeID int) int {
	var n int

	err := s.db.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM tickets WHERE showtime_id = $1 AND status = 'booked'`,
		showtimeID,
	).Scan(&n)
	s.Require().NoError(err)

	return n
}

func futureShowtime(price string) showtimeFixture {
	return showtimeFixture{
		startTime: time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second),
		basePrice: &price,
		rows:      3,
		cols:      4,
		vipRows:   []domain.RowRef{2},
	}
}
