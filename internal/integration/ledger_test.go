package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/metinatakli/cinema-booking/internal/seatlock"
	"github.com/stretchr/testify/suite"
)

type LedgerTestSuite struct {
	BaseSuite
}

func TestLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) TestClaimIsAllOrNothing() {
	ctx := context.Background()

	s.Require().NoError(s.ledger.Claim(ctx, 1, []string{"A1", "A2"}, "order-1"))

	err := s.ledger.Claim(ctx, 1, []string{"A2", "A3"}, "order-2")

	var conflict *domain.SeatConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Equal([]string{"A2"}, conflict.Labels)

	held, err := s.ledger.Held(ctx, 1)
	s.Require().NoError(err)
	s.Equal([]string{"A1", "A2"}, held, "a failed claim must not leave A3 behind")

	// claims are scoped per showtime
	s.NoError(s.ledger.Claim(ctx, 2, []string{"A2"}, "order-2"))
}

func (s *LedgerTestSuite) TestReleaseOnlyDropsOwnClaims() {
	ctx := context.Background()

	s.Require().NoError(s.ledger.Claim(ctx, 1, []string{"B1", "B2"}, "order-1"))

	s.Require().NoError(s.ledger.Release(ctx, 1, []string{"B1", "B2"}, "order-2"))

	held, err := s.ledger.Held(ctx, 1)
	s.Require().NoError(err)
	s.Equal([]string{"B1", "B2"}, held)

	s.Require().NoError(s.ledger.Release(ctx, 1, []string{"B1", "B2"}, "order-1"))

	held, err = s.ledger.Held(ctx, 1)
	s.Require().NoError(err)
	s.Empty(held)
}

func (s *LedgerTestSuite) TestExpiredClaimsAreSwept() {
	ctx := context.Background()
	ledger := seatlock.NewRedisLedger(s.redis, time.Second, s.logger)

	s.Require().NoError(ledger.Claim(ctx, 3, []string{"C1", "C2"}, "abandoned"))
	s.Require().NoError(ledger.Claim(ctx, 4, []string{"D1"}, "abandoned"))

	s.Eventually(func() bool {
		n, err := s.redis.Exists(ctx, "seat_lock:3:C1", "seat_lock:3:C2", "seat_lock:4:D1").Result()
		return err == nil && n == 0
	}, 5*time.Second, 100*time.Millisecond)

	swept, err := ledger.Sweep(ctx)
	s.Require().NoError(err)
	s.Equal(3, swept)

	held, err := ledger.Held(ctx, 3)
	s.Require().NoError(err)
	s.Empty(held)

	s.NoError(ledger.Claim(ctx, 3, []string{"C1"}, "next"), "expired seats must be claimable again")
}
