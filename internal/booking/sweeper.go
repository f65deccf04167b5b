package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/metinatakli/cinema-booking/internal/domain"
)

// Sweeper periodically discards bookkeeping of claims that were never
// committed, e.g. after a crash between claim and commit.
type Sweeper struct {
	ledger   domain.SeatLedger
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(ledger domain.SeatLedger, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		ledger:   ledger,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("claim sweeper disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	swept, err := s.ledger.Sweep(ctx)
	if err != nil {
		s.logger.Error("failed to sweep stale seat claims", "error", err)
		return
	}

	if swept > 0 {
		s.logger.Info("swept stale seat claims", "count", swept)
	}
}
