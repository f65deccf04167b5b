package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

func (s *EngineTestSuite) TestSeatMapMarksSeatStates() {
	room := &domain.Room{ID: testRoomID}
	room.EnsureLayout(2, 3, []domain.RowRef{1})
	room.Seats[2].Status = domain.SeatStatusMaintenance

	s.showtimes.On("GetById", mock.Anything, testShowtimeID).
		Return(newTestShowtime(testNow.Add(time.Hour), "75000"), nil)
	s.rooms.On("GetById", mock.Anything, testRoomID).Return(room, nil)
	s.orders.On("GetTakenSeatLabels", mock.Anything, testShowtimeID).Return([]string{"A1", "B2"}, nil)
	s.ledger.On("Held", mock.Anything, testShowtimeID).Return([]string{"A2", "B2"}, nil)

	seatMap, err := s.engine.SeatMap(context.Background(), testShowtimeID)
	s.Require().NoError(err)

	got := make(map[string][]SeatState)
	var rows []string
	for _, row := range seatMap.Rows {
		rows = append(rows, row.Row)
		for _, seat := range row.Seats {
			got[row.Row] = append(got[row.Row], seat.State)
		}
	}

	want := map[string][]SeatState{
		"A": {SeatStateTaken, SeatStateHeld, SeatStateMaintenance},
		"B": {SeatStateAvailable, SeatStateTaken, SeatStateAvailable},
	}

	s.Equal([]string{"A", "B"}, rows)
	if diff := cmp.Diff(want, got); diff != "" {
		s.T().Errorf("seat states mismatch (-want +got):\n%s", diff)
	}
	s.Equal(domain.SeatTypeVIP, seatMap.Rows[1].Seats[0].Type)
}

func (s *EngineTestSuite) TestSeatMapToleratesLedgerOutage() {
	room := &domain.Room{ID: testRoomID}
	room.EnsureLayout(1, 2, nil)

	s.showtimes.On("GetById", mock.Anything, testShowtimeID).
		Return(newTestShowtime(testNow.Add(time.Hour), "75000"), nil)
	s.rooms.On("GetById", mock.Anything, testRoomID).Return(room, nil)
	s.orders.On("GetTakenSeatLabels", mock.Anything, testShowtimeID).Return([]string{"A2"}, nil)
	s.ledger.On("Held", mock.Anything, testShowtimeID).Return(nil, errors.New("redis down"))

	seatMap, err := s.engine.SeatMap(context.Background(), testShowtimeID)
	s.Require().NoError(err)
	s.Require().Len(seatMap.Rows, 1)
	s.Equal(SeatStateAvailable, seatMap.Rows[0].Seats[0].State)
	s.Equal(SeatStateTaken, seatMap.Rows[0].Seats[1].State)
}

func (s *EngineTestSuite) TestProvisionRoomGeneratesLayoutOnce() {
	room := &domain.Room{ID: testRoomID}
	s.rooms.On("Provision", mock.Anything, testRoomID, mock.Anything).Return(room, nil)

	req := ProvisionRoomRequest{RoomID: testRoomID, Rows: 3, Cols: 2, VIPRows: []domain.RowRef{1}}

	got, generated, err := s.engine.ProvisionRoom(context.Background(), req)
	s.Require().NoError(err)
	s.True(generated)
	s.Equal(6, got.SeatCount)

	before := append([]domain.Seat(nil), got.Seats...)

	req.Rows, req.Cols = 10, 10
	got, generated, err = s.engine.ProvisionRoom(context.Background(), req)
	s.Require().NoError(err)
	s.False(generated)
	s.Equal(before, got.Seats)
	s.Equal(6, got.SeatCount)
}

func (s *EngineTestSuite) TestProvisionUnknownRoom() {
	s.rooms.On("Provision", mock.Anything, 99, mock.Anything).Return(nil, domain.ErrRecordNotFound)

	_, _, err := s.engine.ProvisionRoom(context.Background(), ProvisionRoomRequest{RoomID: 99, Rows: 1, Cols: 1})
	s.ErrorIs(err, domain.ErrRecordNotFound)
}

func TestSweeperRunsUntilCancelled(t *testing.T) {
	ledger := &countingLedger{swept: make(chan struct{}, 10)}
	sweeper := NewSweeper(ledger, 5*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-ledger.swept:
		case <-time.After(time.Second):
			t.Fatal("sweeper did not run")
		}
	}

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancellation")
	}
}
