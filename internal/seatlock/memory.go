package seatlock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/metinatakli/cinema-booking/internal/domain"
)

type claim struct {
	owner     string
	claimedAt time.Time
}

// MemoryLedger is a single process SeatLedger. Claims older than the grace
// window are treated as free and are dropped by Sweep.
type MemoryLedger struct {
	mu     sync.Mutex
	claims map[int]map[string]claim
	grace  time.Duration
	now    func() time.Time
}

func NewMemoryLedger(grace time.Duration) *MemoryLedger {
	return &MemoryLedger{
		claims: make(map[int]map[string]claim),
		grace:  grace,
		now:    time.Now,
	}
}

// WithClock replaces the ledger's time source.
func (l *MemoryLedger) WithClock(now func() time.Time) *MemoryLedger {
	l.now = now
	return l
}

func (l *MemoryLedger) Claim(_ context.Context, showtimeID int, labels []string, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	seats := l.claims[showtimeID]

	var conflicts []string
	for _, label := range sortedCopy(labels) {
		if c, ok := seats[label]; ok && !l.expired(c, now) {
			conflicts = append(conflicts, label)
		}
	}

	if len(conflicts) > 0 {
		return &domain.SeatConflictError{Labels: conflicts}
	}

	if seats == nil {
		seats = make(map[string]claim, len(labels))
		l.claims[showtimeID] = seats
	}

	for _, label := range labels {
		seats[label] = claim{owner: owner, claimedAt: now}
	}

	return nil
}

func (l *MemoryLedger) Release(_ context.Context, showtimeID int, labels []string, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seats := l.claims[showtimeID]

	for _, label := range labels {
		if c, ok := seats[label]; ok && c.owner == owner {
			delete(seats, label)
		}
	}

	if len(seats) == 0 {
		delete(l.claims, showtimeID)
	}

	return nil
}

func (l *MemoryLedger) Held(_ context.Context, showtimeID int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	held := make([]string, 0, len(l.claims[showtimeID]))

	for label, c := range l.claims[showtimeID] {
		if !l.expired(c, now) {
			held = append(held, label)
		}
	}

	sort.Strings(held)

	return held, nil
}

func (l *MemoryLedger) Sweep(_ context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	swept := 0

	for showtimeID, seats := range l.claims {
		for label, c := range seats {
			if l.expired(c, now) {
				delete(seats, label)
				swept++
			}
		}

		if len(seats) == 0 {
			delete(l.claims, showtimeID)
		}
	}

	return swept, nil
}

func (l *MemoryLedger) expired(c claim, now time.Time) bool {
	return l.grace > 0 && now.Sub(c.claimedAt) >= l.grace
}
