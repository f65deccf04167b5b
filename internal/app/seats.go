package app

import (
	"net/http"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/booking"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

func (app *application) GetTakenSeats(w http.ResponseWriter, r *http.Request, showtimeID api.ShowtimeId) {
	taken, err := app.engine.ListTakenSeats(r.Context(), showtimeID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	if taken == nil {
		taken = []string{}
	}

	resp := api.TakenSeatsResponse{
		ShowtimeId: showtimeID,
		SeatLabels: taken,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetSeatMap(w http.ResponseWriter, r *http.Request, showtimeID api.ShowtimeId) {
	seatMap, err := app.engine.SeatMap(r.Context(), showtimeID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toSeatMapResponse(seatMap), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatMapResponse(seatMap *booking.SeatMap) api.SeatMapResponse {
	rows := make([]api.SeatRow, len(seatMap.Rows))

	for i, row := range seatMap.Rows {
		seats := make([]api.SeatMapSeat, len(row.Seats))
		for j, seat := range row.Seats {
			seats[j] = api.SeatMapSeat{
				Label:             seat.Label,
				Row:               row.Row,
				Column:            seat.Col + 1,
				SeatType:          api.SeatType(seat.Type),
				OperationalStatus: api.SeatStatus(seat.Status),
				State:             api.SeatState(seat.State),
			}
		}

		rows[i] = api.SeatRow{Row: row.Row, Seats: seats}
	}

	return api.SeatMapResponse{
		ShowtimeId: seatMap.Showtime.ID,
		MovieTitle: seatMap.Showtime.MovieTitle,
		CinemaName: seatMap.Showtime.CinemaName,
		RoomId:     seatMap.Room.ID,
		RoomName:   seatMap.Room.Name,
		StartTime:  seatMap.Showtime.StartTime,
		SeatRows:   rows,
	}
}

func toApiSeats(seats []domain.Seat) []api.Seat {
	result := make([]api.Seat, len(seats))

	for i, seat := range seats {
		result[i] = api.Seat{
			Label:             seat.Label,
			Row:               domain.RowLetter(seat.Row),
			Column:            seat.Col + 1,
			SeatType:          api.SeatType(seat.Type),
			OperationalStatus: api.SeatStatus(seat.Status),
		}
	}

	return result
}
