package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

type PostgresOrderRepository struct {
	db *pgxpool.Pool
}

func NewPostgresOrderRepository(db *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db: db,
	}
}

// Create writes the order, its combo lines and its tickets in one transaction.
// The partial unique index on booked tickets is the final guard against
// double booking.
func (p *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO orders (id, code, user_id, showtime_id, total_price, payment_status, payment_method, currency, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			order.ID,
			order.Code,
			order.UserID,
			order.ShowtimeID,
			domain.NumericFromDecimal(order.TotalPrice),
			order.Payment.Status,
			order.Payment.Method,
			order.Payment.Currency,
			order.CreatedAt).Scan(&order.CreatedAt)
		if err != nil {
			return err
		}

		if len(order.ComboLines) > 0 {
			rows := make([][]any, 0, len(order.ComboLines))
			for i, line := range order.ComboLines {
				rows = append(rows, []any{
					order.ID,
					i + 1,
					line.ItemID,
					line.Name,
					domain.NumericFromDecimal(line.UnitPrice),
					line.Quantity,
				})
			}

			_, err = tx.CopyFrom(
				ctx,
				pgx.Identifier{"order_combo_lines"},
				[]string{"order_id", "line_no", "item_id", "name", "unit_price", "quantity"},
				pgx.CopyFromRows(rows),
			)
			if err != nil {
				return err
			}
		}

		labels := make([]string, len(order.Tickets))
		prices := make([]pgtype.Numeric, len(order.Tickets))
		for i, t := range order.Tickets {
			labels[i] = t.SeatLabel
			prices[i] = domain.NumericFromDecimal(t.Price)
		}

		query = `
			INSERT INTO tickets (showtime_id, order_id, seat_label, price, status)
			SELECT $1, $2, t.seat_label, t.price, $5
			FROM unnest($3::text[], $4::numeric[]) AS t(seat_label, price)
			RETURNING id, seat_label
		`

		rows, err := tx.Query(ctx, query, order.ShowtimeID, order.ID, labels, prices, domain.TicketStatusBooked)
		if err != nil {
			return err
		}
		defer rows.Close()

		ids := make(map[string]int64, len(order.Tickets))
		for rows.Next() {
			var (
				id    int64
				label string
			)
			if err := rows.Scan(&id, &label); err != nil {
				return err
			}
			ids[label] = id
		}

		if err := rows.Err(); err != nil {
			return err
		}

		for i := range order.Tickets {
			order.Tickets[i].ID = ids[order.Tickets[i].SeatLabel]
		}

		return nil
	})

	switch {
	case err == nil:
		return nil
	case uniqueViolation(err, orderCodeConstraint):
		return domain.ErrDuplicateOrderCode
	case uniqueViolation(err, bookedSeatIndex):
		return p.seatConflict(ctx, order, violatedSeatLabel(err))
	default:
		return err
	}
}

// seatConflict names the requested seats that are booked by someone else.
// violated is the seat reported by the unique violation, which stays in the
// result even if its order was released before the follow-up read.
func (p *PostgresOrderRepository) seatConflict(ctx context.Context, order *domain.Order, violated string) error {
	taken, err := p.GetTakenSeatLabels(ctx, order.ShowtimeID)
	if err != nil {
		if violated != "" {
			return &domain.SeatConflictError{Labels: []string{violated}}
		}
		return fmt.Errorf("%w: %w", domain.ErrSeatConflict, err)
	}

	conflicts := conflictingLabels(order.SeatLabels, taken, violated)
	if len(conflicts) == 0 {
		// unreadable violation detail and the other order is already gone
		conflicts = append(conflicts, order.SeatLabels...)
	}

	return &domain.SeatConflictError{Labels: conflicts}
}

// conflictingLabels keeps the requested labels that are taken or that the
// violation named, in request order.
func conflictingLabels(requested, taken []string, violated string) []string {
	takenSet := make(map[string]bool, len(taken)+1)
	for _, label := range taken {
		takenSet[label] = true
	}
	if violated != "" {
		takenSet[violated] = true
	}

	var conflicts []string
	for _, label := range requested {
		if takenSet[label] {
			conflicts = append(conflicts, label)
		}
	}

	return conflicts
}

func (p *PostgresOrderRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, code, user_id, showtime_id, total_price, payment_status, payment_method, currency, created_at
		FROM orders
		WHERE id = $1
	`

	var (
		order domain.Order
		total pgtype.Numeric
	)

	err := p.db.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.Code,
		&order.UserID,
		&order.ShowtimeID,
		&total,
		&order.Payment.Status,
		&order.Payment.Method,
		&order.Payment.Currency,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	order.TotalPrice, _ = domain.DecimalFromNumeric(total)

	order.ComboLines, err = p.getComboLines(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Tickets, err = p.getTickets(ctx, id)
	if err != nil {
		return nil, err
	}

	order.SeatLabels = make([]string, len(order.Tickets))
	for i, t := range order.Tickets {
		order.SeatLabels[i] = t.SeatLabel
	}

	return &order, nil
}

func (p *PostgresOrderRepository) getComboLines(ctx context.Context, orderID uuid.UUID) ([]domain.ComboLine, error) {
	query := `
		SELECT item_id, name, unit_price, quantity
		FROM order_combo_lines
		WHERE order_id = $1
		ORDER BY line_no
	`

	rows, err := p.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]domain.ComboLine, 0)

	for rows.Next() {
		var (
			line      domain.ComboLine
			unitPrice pgtype.Numeric
		)

		err = rows.Scan(&line.ItemID, &line.Name, &unitPrice, &line.Quantity)
		if err != nil {
			return nil, err
		}

		line.UnitPrice, _ = domain.DecimalFromNumeric(unitPrice)
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

func (p *PostgresOrderRepository) getTickets(ctx context.Context, orderID uuid.UUID) ([]domain.Ticket, error) {
	query := `
		SELECT id, showtime_id, order_id, seat_label, price, status
		FROM tickets
		WHERE order_id = $1
		ORDER BY seat_label
	`

	rows, err := p.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)

	for rows.Next() {
		var (
			ticket domain.Ticket
			price  pgtype.Numeric
		)

		err = rows.Scan(&ticket.ID, &ticket.ShowtimeID, &ticket.OrderID, &ticket.SeatLabel, &price, &ticket.Status)
		if err != nil {
			return nil, err
		}

		ticket.Price, _ = domain.DecimalFromNumeric(price)
		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

// Delete removes the order. Its tickets and combo lines go with it through
// ON DELETE CASCADE, which frees the seats.
func (p *PostgresOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresOrderRepository) GetTakenSeatLabels(ctx context.Context, showtimeID int) ([]string, error) {
	query := `
		SELECT seat_label
		FROM tickets
		WHERE showtime_id = $1 AND status = 'booked'
		ORDER BY seat_label
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	return labels, nil
}
