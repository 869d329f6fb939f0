package llm

import (
	"context"

	"github.com/openai/openai-go/v3"
)

// Completer issues exactly one chat completion call and returns the provider's
// response untouched.
type Completer interface {
	Complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// Answerer synthesises an answer to a question from retrieved context.
type Answerer interface {
	Answer(ctx context.Context, question, contextText string) (string, error)
}

// Client is everything the services need from a chat model.
type Client interface {
	Completer
	Answerer
}
