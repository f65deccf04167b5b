// Package events publishes order lifecycle events to RabbitMQ so that
// notification and reporting services can react to bookings.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-booking/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const (
	Exchange = "booking.events"

	RoutingKeyOrderCommitted = "order.committed"
	RoutingKeyOrderReleased  = "order.released"
)

type OrderEvent struct {
	Type       string          `json:"type"`
	OrderID    uuid.UUID       `json:"orderId"`
	OrderCode  string          `json:"orderCode"`
	UserID     string          `json:"userId"`
	ShowtimeID int             `json:"showtimeId"`
	SeatLabels []string        `json:"seatLabels"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Currency   string          `json:"currency"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// Channel is the subset of *amqp.Channel used for publishing.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel Channel
	logger  *slog.Logger
	now     func() time.Time
}

// DialRabbitPublisher connects to the broker and declares the durable topic
// exchange events are published to.
func DialRabbitPublisher(url string, logger *slog.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}

	err = ch.ExchangeDeclare(
		Exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("rabbitmq: exchange declare failed: %w", err)
	}

	p := NewRabbitPublisher(ch, logger)
	p.conn = conn

	return p, nil
}

func NewRabbitPublisher(ch Channel, logger *slog.Logger) *RabbitPublisher {
	return &RabbitPublisher{
		channel: ch,
		logger:  logger,
		now:     time.Now,
	}
}

func (p *RabbitPublisher) OrderCommitted(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, RoutingKeyOrderCommitted, order)
}

func (p *RabbitPublisher) OrderReleased(ctx context.Context, order *domain.Order) error {
	return p.publish(ctx, RoutingKeyOrderReleased, order)
}

func (p *RabbitPublisher) publish(ctx context.Context, key string, order *domain.Order) error {
	event := OrderEvent{
		Type:       key,
		OrderID:    order.ID,
		OrderCode:  order.Code,
		UserID:     order.UserID,
		ShowtimeID: order.ShowtimeID,
		SeatLabels: order.SeatLabels,
		TotalPrice: order.TotalPrice,
		Currency:   order.Payment.Currency,
		OccurredAt: p.now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    fmt.Sprintf("%s:%s", key, order.ID),
		Timestamp:    event.OccurredAt,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, Exchange, key, false, false, msg)
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s failed: %w", key, err)
	}

	p.logger.Debug("order event published", "routing_key", key, "order_id", order.ID)

	return nil
}

func (p *RabbitPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.channel.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}

	return err
}

// LogPublisher only logs events. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) OrderCommitted(ctx context.Context, order *domain.Order) error {
	p.logger.InfoContext(ctx, "order committed event", "order_id", order.ID, "order_code", order.Code)
	return nil
}

func (p *LogPublisher) OrderReleased(ctx context.Context, order *domain.Order) error {
	p.logger.InfoContext(ctx, "order released event", "order_id", order.ID, "order_code", order.Code)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
