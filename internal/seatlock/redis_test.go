package seatlock

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisLedgerTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *redis.Client
	ledger *RedisLedger
}

func TestRedisLedgerSuite(t *testing.T) {
	suite.Run(t, new(RedisLedgerTestSuite))
}

func (s *RedisLedgerTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.ledger = NewRedisLedger(s.client, 10*time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *RedisLedgerTestSuite) TearDownTest() {
	s.client.Close()
}

func (s *RedisLedgerTestSuite) TestClaimSetsLockKeysWithTTL() {
	ctx := context.Background()

	err := s.ledger.Claim(ctx, 7, []string{"C6", "C5"}, "order-1")
	s.Require().NoError(err)

	for _, label := range []string{"C5", "C6"} {
		owner, err := s.mr.Get(seatLockKey(7, label))
		s.Require().NoError(err)
		s.Equal("order-1", owner)
		s.Equal(10*time.Minute, s.mr.TTL(seatLockKey(7, label)))
	}

	members, err := s.mr.SMembers(seatSetKey(7))
	s.Require().NoError(err)
	s.ElementsMatch([]string{"C5", "C6"}, members)
	s.True(s.mr.Exists(showtimeIndexKey))
}

func (s *RedisLedgerTestSuite) TestClaimIsAllOrNothing() {
	ctx := context.Background()

	s.Require().NoError(s.ledger.Claim(ctx, 7, []string{"A2"}, "order-1"))

	err := s.ledger.Claim(ctx, 7, []string{"A1", "A2", "A3"}, "order-2")

	var conflict *domain.SeatConflictError
	s.Require().True(errors.As(err, &conflict))
	s.Equal([]string{"A2"}, conflict.Labels)

	s.False(s.mr.Exists(seatLockKey(7, "A1")))
	s.False(s.mr.Exists(seatLockKey(7, "A3")))

	owner, _ := s.mr.Get(seatLockKey(7, "A2"))
	s.Equal("order-1", owner)
}

func (s *RedisLedgerTestSuite) TestClaimIsScopedToShowtime() {
	ctx := context.Background()

	s.Require().NoError(s.ledger.Claim(ctx, 1, []string{"A1"}, "order-1"))
	s.NoError(s.ledger.Claim(ctx, 2, []string{"A1"}, "order-2"))
}

func (s *RedisLedgerTestSuite) TestReleaseOnlyDropsOwnedLocks() {
	ctx := context.Background()

	s.Require().NoError(s.ledger.Claim(ctx, 7, []string{"A1"}, "order-1"))
	s.Require().NoError(s.ledger.Claim(ctx, 7, []string{"A2"}, "order-2"))

	s.Require().NoError(s.ledger.Release(ctx, 7, []string{"A1", "A2"}, "order-1"))

	s.False(s.mr.Exists(seatLockKey(7, "A1")))
	s.True(s.mr.Exists(seatLockKey(7, "A2")))

	held, err := s.ledger.Held(ctx, 7)
	s.Require().NoError(err)
	s.Equal([]string{"A2"}, held)

	s.NoError(s.ledger.Claim(ctx, 7, []string{"A1"}, "order-3"))
}

func (s *RedisLedgerTestSuite) TestExpiredClaimsFreeSeatsAndAreSwept() {
	ctx := context.Background()

	s.Require().NoError(s.ledger.Claim(ctx, 7, []string{"B1", "B2"}, "order-1"))
	s.Require().NoError(s.ledger.Claim(ctx, 8, []string{"A1"}, "order-2"))

	s.mr.FastForward(11 * time.Minute)

	s.NoError(s.ledger.Claim(ctx, 7, []string{"B2"}, "order-3"))

	swept, err := s.ledger.Sweep(ctx)
	s.Require().NoError(err)
	s.Equal(2, swept)

	members, err := s.mr.SMembers(seatSetKey(7))
	s.Require().NoError(err)
	s.Equal([]string{"B2"}, members)

	isMember, err := s.mr.SIsMember(showtimeIndexKey, "8")
	s.Require().NoError(err)
	s.False(isMember)
}

func (s *RedisLedgerTestSuite) TestHeldOnEmptyShowtime() {
	held, err := s.ledger.Held(context.Background(), 99)
	s.Require().NoError(err)
	s.Empty(held)
}

func (s *RedisLedgerTestSuite) TestClaimFailsWhenRedisIsDown() {
	s.mr.Close()

	err := s.ledger.Claim(context.Background(), 7, []string{"A1"}, "order-1")
	s.Error(err)
	s.False(errors.Is(err, domain.ErrSeatConflict))
}
