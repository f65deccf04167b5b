package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

type PostgresRoomRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRoomRepository(db *pgxpool.Pool) *PostgresRoomRepository {
	return &PostgresRoomRepository{
		db: db,
	}
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getRoom(ctx context.Context, q rowQuerier, id int, forUpdate bool) (*domain.Room, error) {
	query := `
		SELECT id, cinema_id, name, seat_rows, seat_cols, seat_count, seats
		FROM rooms
		WHERE id = $1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var room domain.Room

	err := q.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.CinemaID,
		&room.Name,
		&room.Rows,
		&room.Cols,
		&room.SeatCount,
		&room.Seats,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &room, nil
}

func (p *PostgresRoomRepository) GetById(ctx context.Context, id int) (*domain.Room, error) {
	return getRoom(ctx, p.db, id, false)
}

// Provision locks the room row, lets fn mutate the room and writes the layout
// back in the same transaction. Concurrent provisioning of one room is
// serialized by the row lock.
func (p *PostgresRoomRepository) Provision(ctx context.Context, id int, fn func(*domain.Room) error) (*domain.Room, error) {
	var room *domain.Room

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		var err error

		room, err = getRoom(ctx, tx, id, true)
		if err != nil {
			return err
		}

		err = fn(room)
		if err != nil {
			return err
		}

		query := `
			UPDATE rooms
			SET seat_rows = $2, seat_cols = $3, seat_count = $4, seats = $5, updated_at = NOW()
			WHERE id = $1
		`

		_, err = tx.Exec(ctx, query, room.ID, room.Rows, room.Cols, room.SeatCount, room.Seats)

		return err
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}
