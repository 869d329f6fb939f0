// Package chat forwards a single message to a chat model with no history.
package chat

import (
	"context"

	"github.com/openai/openai-go/v3"

	"llm-pages/internal/llm"
)

const SystemPrompt = "You are a helpful assistant."

type Echo struct {
	llm   llm.Completer
	model openai.ChatModel
}

func NewEcho(completer llm.Completer, model openai.ChatModel) *Echo {
	return &Echo{llm: completer, model: model}
}

// Chat returns the provider's completion exactly as received.
func (e *Echo) Chat(ctx context.Context, message string) (*openai.ChatCompletion, error) {
	return e.llm.Complete(ctx, openai.ChatCompletionNewParams{
		Model:    e.model,
		Messages: llm.BuildMessages(SystemPrompt, message),
	})
}
