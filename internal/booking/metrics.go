package booking

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/metinatakli/cinema-booking/internal/booking"

type engineMetrics struct {
	committed metric.Int64Counter
	rejected  metric.Int64Counter
	released  metric.Int64Counter
}

// newEngineMetrics registers the booking counters on the global meter
// provider. Instrument errors fall back to no-op counters.
func newEngineMetrics() *engineMetrics {
	meter := otel.Meter(meterName)

	committed, _ := meter.Int64Counter("booking.orders.committed",
		metric.WithDescription("Orders committed with their tickets"))
	rejected, _ := meter.Int64Counter("booking.orders.rejected",
		metric.WithDescription("Booking attempts rejected before commit"))
	released, _ := meter.Int64Counter("booking.seats.released",
		metric.WithDescription("Seats returned to the availability pool"))

	return &engineMetrics{
		committed: committed,
		rejected:  rejected,
		released:  released,
	}
}

func (m *engineMetrics) orderCommitted(ctx context.Context, seats int) {
	if m.committed != nil {
		m.committed.Add(ctx, 1, metric.WithAttributes(attribute.Int("seats", seats)))
	}
}

func (m *engineMetrics) orderRejected(ctx context.Context, reason string) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}

func (m *engineMetrics) seatsReleased(ctx context.Context, n int) {
	if m.released != nil && n > 0 {
		m.released.Add(ctx, int64(n))
	}
}
