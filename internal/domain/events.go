package domain

import "context"

type EventPublisher interface {
	OrderCommitted(ctx context.Context, order *Order) error
	OrderReleased(ctx context.Context, order *Order) error
}
