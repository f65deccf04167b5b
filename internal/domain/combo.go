package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ComboItem is a concession catalog entry as seen at the moment of pricing.
type ComboItem struct {
	ID    int
	Name  string
	Price decimal.Decimal
}

type ComboRequest struct {
	ItemID   int
	Quantity int
}

type ComboRepository interface {
	// GetByIds resolves the given ids in one consistent read. Unknown ids are
	// simply absent from the result.
	GetByIds(ctx context.Context, ids []int) (map[int]ComboItem, error)
}
