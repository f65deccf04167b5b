package app

import (
	"net/http"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/booking"
)

// ProvisionRoomLayout generates the seat layout of a room. Rooms that already
// have seats keep them; only the seat count is refreshed.
func (app *application) ProvisionRoomLayout(w http.ResponseWriter, r *http.Request, roomID api.RoomId) {
	caller := app.contextMustGetIdentity(r)
	if !caller.isAdmin() {
		app.contextGetLogger(r).Warn("non-admin attempted room provisioning", "user_id", caller.UserID, "room_id", roomID)
		app.forbiddenResponse(w, r)
		return
	}

	var input api.RoomLayoutRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	req := booking.ProvisionRoomRequest{
		RoomID: roomID,
		Rows:   input.Rows,
		Cols:   input.Cols,
	}

	if input.VipRows != nil {
		req.VIPRows = *input.VipRows
	}

	room, generated, err := app.engine.ProvisionRoom(r.Context(), req)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.RoomLayoutResponse{
		RoomId:    room.ID,
		Rows:      room.Rows,
		Cols:      room.Cols,
		SeatCount: room.SeatCount,
		Generated: generated,
		Seats:     toApiSeats(room.Seats),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
