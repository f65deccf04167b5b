package repository

import (
	"context"
	"errors"
	"regexp"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	bookedSeatIndex     = "tickets_showtime_seat_booked_idx"
	orderCodeConstraint = "orders_code_key"
)

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

// uniqueViolation reports whether err is a unique violation of the named
// constraint or index.
func uniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		pgErr.ConstraintName == constraint
}

// Key (showtime_id, seat_label)=(7, A2) already exists.
var seatKeyDetail = regexp.MustCompile(`=\(\d+, ([^)]+)\) already exists`)

// violatedSeatLabel extracts the seat label from the detail of a violation of
// the booked seat index. It returns "" when the detail has another shape.
func violatedSeatLabel(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}

	m := seatKeyDetail.FindStringSubmatch(pgErr.Detail)
	if m == nil {
		return ""
	}

	return m[1]
}
