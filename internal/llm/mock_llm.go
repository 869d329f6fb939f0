package llm

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of Completer and Answerer using testify/mock.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.ChatCompletion), args.Error(1)
}

func (m *MockClient) Answer(ctx context.Context, question, contextText string) (string, error) {
	args := m.Called(ctx, question, contextText)
	return args.String(0), args.Error(1)
}
