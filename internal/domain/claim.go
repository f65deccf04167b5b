package domain

import "context"

// SeatLedger records provisional claims on (showtime, seat label) pairs. It is
// the only shared mutable resource of the booking flow and is never mutated
// outside of Claim and Release.
type SeatLedger interface {
	// Claim atomically claims every label for owner. If any label is already
	// claimed the whole attempt fails with *SeatConflictError naming exactly
	// the contested labels, and nothing is claimed.
	Claim(ctx context.Context, showtimeID int, labels []string, owner string) error
	// Release drops the claims held by owner. Claims held by someone else are
	// left untouched.
	Release(ctx context.Context, showtimeID int, labels []string, owner string) error
	// Held lists the labels of the showtime that are currently claimed but not
	// necessarily committed.
	Held(ctx context.Context, showtimeID int) ([]string, error)
	// Sweep discards bookkeeping for claims that outlived the grace window and
	// returns how many were discarded.
	Sweep(ctx context.Context) (int, error)
}
