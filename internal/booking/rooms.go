package booking

import (
	"context"

	"github.com/metinatakli/cinema-booking/internal/domain"
)

type ProvisionRoomRequest struct {
	RoomID  int
	Rows    int
	Cols    int
	VIPRows []domain.RowRef
}

// ProvisionRoom generates the room layout if the room has none yet. Calling
// it again on a provisioned room only refreshes the seat count.
func (e *Engine) ProvisionRoom(ctx context.Context, req ProvisionRoomRequest) (*domain.Room, bool, error) {
	var generated bool

	room, err := e.rooms.Provision(ctx, req.RoomID, func(r *domain.Room) error {
		generated = r.EnsureLayout(req.Rows, req.Cols, req.VIPRows)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	e.logger.Info("room provisioned",
		"room_id", room.ID,
		"generated", generated,
		"seat_count", room.SeatCount)

	return room, generated, nil
}
