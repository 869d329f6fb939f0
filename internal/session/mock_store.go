package session

import (
	"context"

	"github.com/stretchr/testify/mock"

	"llm-pages/internal/index"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, id string) (*index.Index, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*index.Index), args.Error(1)
}

func (m *MockStore) Set(ctx context.Context, id string, idx *index.Index) error {
	args := m.Called(ctx, id, idx)
	return args.Error(0)
}

func (m *MockStore) Clear(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
