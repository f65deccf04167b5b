package mocks

import (
	"context"

	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockComboRepo struct {
	mock.Mock
	domain.ComboRepository
}

func (m *MockComboRepo) GetByIds(ctx context.Context, ids []int) (map[int]domain.ComboItem, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]domain.ComboItem), args.Error(1)
}
