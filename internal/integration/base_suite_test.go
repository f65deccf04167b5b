package integration_test

import (
	"context"
	"io"
	"log"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/booking"
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/metinatakli/cinema-booking/internal/repository"
	"github.com/metinatakli/cinema-booking/internal/seatlock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

const (
	dbName         = "cinema_booking"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"

	claimTTL = 2 * time.Minute
)

// BaseSuite runs against real Postgres and Redis containers. Every test
// starts from empty tables and an empty Redis.
type BaseSuite struct {
	suite.Suite
	dbContainer    *PostgresContainer
	cacheContainer *RedisContainer

	db     *pgxpool.Pool
	redis  *redis.Client
	logger *slog.Logger

	showtimes *repository.PostgresShowtimeRepository
	rooms     *repository.PostgresRoomRepository
	orders    *repository.PostgresOrderRepository
	combos    *repository.PostgresComboRepository
	ledger    *seatlock.RedisLedger
	engine    *booking.Engine
}

func (s *BaseSuite) SetupSuite() {
	ctx := context.Background()

	postgresContainer, err := getDbContainer(ctx)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		s.T().FailNow()
	}
	s.dbContainer = postgresContainer

	redisContainer, err := getCacheContainer(ctx)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		s.T().FailNow()
	}
	s.cacheContainer = redisContainer

	s.db, err = pgxpool.New(ctx, postgresContainer.ConnectionString)
	s.Require().NoError(err)

	s.redis = redis.NewClient(&redis.Options{Addr: redisContainer.ConnectionString})
	s.Require().NoError(s.redis.Ping(ctx).Err())

	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	s.showtimes = repository.NewPostgresShowtimeRepository(s.db)
	s.rooms = repository.NewPostgresRoomRepository(s.db)
	s.orders = repository.NewPostgresOrderRepository(s.db)
	s.combos = repository.NewPostgresComboRepository(s.db)
	s.ledger = seatlock.NewRedisLedger(s.redis, claimTTL, s.logger)

	s.engine = booking.NewEngine(booking.Deps{
		Showtimes: s.showtimes,
		Rooms:     s.rooms,
		Orders:    s.orders,
		Ledger:    s.ledger,
		Pricer:    domain.NewPricer(s.combos, nil),
		Logger:    s.logger,
	}, booking.Config{})
}

func (s *BaseSuite) SetupTest() {
	ctx := context.Background()

	_, err := s.db.Exec(ctx, `
		TRUNCATE tickets, order_combo_lines, orders, showtimes, combo_items, rooms, cinemas, movies
		RESTART IDENTITY CASCADE
	`)
	s.Require().NoError(err)

	s.Require().NoError(s.redis.FlushAll(ctx).Err())
}

func (s *BaseSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}
