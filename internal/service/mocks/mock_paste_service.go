package mocks

import (
	"context"

	"pastebin/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockPasteService struct {
	mock.Mock
}

func (m *MockPasteService) Create(ctx context.Context, in model.CreatePasteInput, ipHash string) (string, error) {
	args := m.Called(ctx, in, ipHash)
	return args.String(0), args.Error(1)
}

func (m *MockPasteService) Retrieve(ctx context.Context, pasteID string) (*model.PasteView, error) {
	args := m.Called(ctx, pasteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasteView), args.Error(1)
}

func (m *MockPasteService) RetrieveMetadata(ctx context.Context, pasteID string) (*model.PasteMetadata, error) {
	args := m.Called(ctx, pasteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasteMetadata), args.Error(1)
}

func (m *MockPasteService) RetrieveRaw(ctx context.Context, pasteID string) (string, error) {
	args := m.Called(ctx, pasteID)
	return args.String(0), args.Error(1)
}

func (m *MockPasteService) SweepExpired(ctx context.Context, batchSize int) (int, error) {
	args := m.Called(ctx, batchSize)
	return args.Int(0), args.Error(1)
}
