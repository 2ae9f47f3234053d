package mocks

import (
	"context"
	"time"

	"pastebin/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPasteRepository struct {
	mock.Mock
}

func (m *MockPasteRepository) Insert(ctx context.Context, p *model.Paste) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPasteRepository) FindByID(ctx context.Context, id string) (*model.Paste, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Paste), args.Error(1)
}

func (m *MockPasteRepository) IncrementViewCount(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockPasteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPasteRepository) ListExpiredBefore(ctx context.Context, now time.Time, limit int) ([]model.Paste, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Paste), args.Error(1)
}
