package mocks

import (
	"context"

	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockRoomRepo struct {
	mock.Mock
	domain.RoomRepository
}

func (m *MockRoomRepo) GetById(ctx context.Context, id int) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

// Provision runs fn against the room returned by the expectation, mimicking
// the locked read-modify-write of the real repository.
func (m *MockRoomRepo) Provision(ctx context.Context, id int, fn func(*domain.Room) error) (*domain.Room, error) {
	args := m.Called(ctx, id, fn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	room := args.Get(0).(*domain.Room)
	if err := fn(room); err != nil {
		return nil, err
	}

	return room, args.Error(1)
}
