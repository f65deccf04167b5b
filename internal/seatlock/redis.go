package seatlock

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

const showtimeIndexKey = "seat_lock_showtimes"

// Redis Lua script that claims every seat lock key or none of them.
// It returns the labels that are already locked, or an empty list on success.
var claimSeatsScript = redis.NewScript(`
	-- KEYS = [seat set key, showtime index key, seat lock keys...]
	-- ARGV = [owner, ttl, showtimeId, labels...]

	local conflicts = {}
	for i=3, #KEYS do
		if redis.call("EXISTS", KEYS[i]) == 1 then
			table.insert(conflicts, ARGV[i+1])
		end
	end

	if #conflicts > 0 then
		return conflicts
	end

	for i=3, #KEYS do
		redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
		redis.call("SADD", KEYS[1], ARGV[i+1])
	end
	redis.call("SADD", KEYS[2], ARGV[3])

	return {}
`)

// Redis Lua script that deletes only the seat locks still held by the owner.
var releaseSeatsScript = redis.NewScript(`
	-- KEYS = [seat set key, seat lock keys...]
	-- ARGV = [owner, labels...]

	local released = 0
	for i=2, #KEYS do
		if redis.call("GET", KEYS[i]) == ARGV[1] then
			redis.call("DEL", KEYS[i])
			redis.call("SREM", KEYS[1], ARGV[i])
			released = released + 1
		end
	end

	return released
`)

// Redis Lua script to clean up expired seat locks and return currently valid locked labels.
var filterValidSeatLocks = redis.NewScript(`
	local setKey = KEYS[1]
	local showtimeId = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredSeats = {}
	local validSeats = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local labels = result[2]

		for _, label in ipairs(labels) do
			local lockKey = "seat_lock:" .. showtimeId .. ":" .. label
			if redis.call("EXISTS", lockKey) == 0 then
				table.insert(expiredSeats, label)
			else
				table.insert(validSeats, label)
			end
		end
	until cursor == "0"

	if #expiredSeats > 0 then
		redis.call("SREM", setKey, unpack(expiredSeats))
	end

	if redis.call("SCARD", setKey) == 0 then
		redis.call("SREM", KEYS[2], showtimeId)
	end

	return {#expiredSeats, validSeats}
`)

// RedisLedger keeps seat claims as expiring Redis keys. A claim that is never
// committed or released expires on its own once the TTL elapses.
type RedisLedger struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisLedger(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *RedisLedger {
	return &RedisLedger{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (l *RedisLedger) Claim(ctx context.Context, showtimeID int, labels []string, owner string) error {
	if len(labels) == 0 {
		return nil
	}

	sorted := sortedCopy(labels)

	keys := make([]string, 0, len(sorted)+2)
	keys = append(keys, seatSetKey(showtimeID), showtimeIndexKey)

	args := make([]interface{}, 0, len(sorted)+3)
	args = append(args, owner, ttlSeconds(l.ttl), showtimeID)

	for _, label := range sorted {
		keys = append(keys, seatLockKey(showtimeID, label))
		args = append(args, label)
	}

	conflicts, err := claimSeatsScript.Run(ctx, l.client, keys, args...).StringSlice()
	if err != nil {
		return fmt.Errorf("failed to run claimSeats script: %w", err)
	}

	if len(conflicts) > 0 {
		return &domain.SeatConflictError{Labels: conflicts}
	}

	return nil
}

func (l *RedisLedger) Release(ctx context.Context, showtimeID int, labels []string, owner string) error {
	if len(labels) == 0 {
		return nil
	}

	keys := make([]string, 0, len(labels)+1)
	keys = append(keys, seatSetKey(showtimeID))

	args := make([]interface{}, 0, len(labels)+1)
	args = append(args, owner)

	for _, label := range labels {
		keys = append(keys, seatLockKey(showtimeID, label))
		args = append(args, label)
	}

	released, err := releaseSeatsScript.Run(ctx, l.client, keys, args...).Int()
	if err != nil {
		return fmt.Errorf("failed to run releaseSeats script: %w", err)
	}

	if released != len(labels) {
		l.logger.Warn("some seat locks were not held by the owner",
			"showtime_id", showtimeID,
			"owner", owner,
			"requested", len(labels),
			"released", released)
	}

	return nil
}

func (l *RedisLedger) Held(ctx context.Context, showtimeID int) ([]string, error) {
	_, valid, err := l.filter(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	sort.Strings(valid)

	return valid, nil
}

func (l *RedisLedger) Sweep(ctx context.Context) (int, error) {
	members, err := l.client.SMembers(ctx, showtimeIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list showtimes with seat locks: %w", err)
	}

	total := 0

	for _, member := range members {
		showtimeID, err := strconv.Atoi(member)
		if err != nil {
			l.logger.Warn("dropping malformed showtime entry from seat lock index", "member", member)
			l.client.SRem(ctx, showtimeIndexKey, member)
			continue
		}

		expired, _, err := l.filter(ctx, showtimeID)
		if err != nil {
			return total, err
		}

		total += expired
	}

	return total, nil
}

func (l *RedisLedger) filter(ctx context.Context, showtimeID int) (int, []string, error) {
	keys := []string{seatSetKey(showtimeID), showtimeIndexKey}

	res, err := filterValidSeatLocks.Run(ctx, l.client, keys, showtimeID).Slice()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to run filterValidSeatLocks script: %w", err)
	}

	if len(res) != 2 {
		return 0, nil, fmt.Errorf("unexpected filterValidSeatLocks reply of length %d", len(res))
	}

	expired, ok := res[0].(int64)
	if !ok {
		return 0, nil, fmt.Errorf("unexpected expired count type %T", res[0])
	}

	rawValid, _ := res[1].([]interface{})

	valid := make([]string, 0, len(rawValid))
	for _, v := range rawValid {
		if label, ok := v.(string); ok {
			valid = append(valid, label)
		}
	}

	return int(expired), valid, nil
}

func seatLockKey(showtimeID int, label string) string {
	return fmt.Sprintf("seat_lock:%d:%s", showtimeID, label)
}

func seatSetKey(showtimeID int) string {
	return fmt.Sprintf("seat_locks:%d", showtimeID)
}

func ttlSeconds(ttl time.Duration) int {
	secs := int(ttl.Seconds())
	if secs < 1 {
		return 1
	}

	return secs
}

func sortedCopy(labels []string) []string {
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)

	return sorted
}
