package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

type PostgresComboRepository struct {
	db *pgxpool.Pool
}

func NewPostgresComboRepository(db *pgxpool.Pool) *PostgresComboRepository {
	return &PostgresComboRepository{
		db: db,
	}
}

// GetByIds resolves active catalog items in a single statement so every
// price comes from the same snapshot.
func (p *PostgresComboRepository) GetByIds(ctx context.Context, ids []int) (map[int]domain.ComboItem, error) {
	items := make(map[int]domain.ComboItem, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	query := `
		SELECT id, name, price
		FROM combo_items
		WHERE id = ANY($1) AND active
	`

	rows, err := p.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			item  domain.ComboItem
			price pgtype.Numeric
		)

		err = rows.Scan(&item.ID, &item.Name, &price)
		if err != nil {
			return nil, err
		}

		var ok bool
		item.Price, ok = domain.DecimalFromNumeric(price)
		if !ok {
			continue
		}

		items[item.ID] = item
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
