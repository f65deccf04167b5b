package mocks

import (
	"context"

	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatLedger struct {
	mock.Mock
	domain.SeatLedger
}

func (m *MockSeatLedger) Claim(ctx context.Context, showtimeID int, labels []string, owner string) error {
	args := m.Called(ctx, showtimeID, labels, owner)
	return args.Error(0)
}

func (m *MockSeatLedger) Release(ctx context.Context, showtimeID int, labels []string, owner string) error {
	args := m.Called(ctx, showtimeID, labels, owner)
	return args.Error(0)
}

func (m *MockSeatLedger) Held(ctx context.Context, showtimeID int) ([]string, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSeatLedger) Sweep(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
