package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIClient calls the OpenAI Chat Completions API.
type OpenAIClient struct {
	model       openai.ChatModel
	temperature float64
	client      *openai.Client
}

const defaultChatTimeout = 60 * time.Second

const answerSystemPrompt = "You are an expert Q&A system. Always answer the query using the provided context information, and not prior knowledge."

const answerTemplate = `Context information is below.
---------------------
%s
---------------------
Given the context information and not prior knowledge, answer the query.
Query: %s
Answer: `

// ClientOptions returns the request options shared by every OpenAI-backed
// component. Retries are disabled so each call reaches the API exactly once.
func ClientOptions(apiKey, baseURL string) []option.RequestOption {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return opts
}

// NewOpenAIClient builds a client with defaults against api.openai.com.
// Extra options are applied after the API key, so tests can point it elsewhere.
func NewOpenAIClient(apiKey string, model openai.ChatModel, temperature float64, opts ...option.RequestOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.ChatModelGPT3_5Turbo
	}
	cli := openai.NewClient(append(ClientOptions(apiKey, ""), opts...)...)
	return &OpenAIClient{
		model:       model,
		temperature: temperature,
		client:      &cli,
	}, nil
}

// Model reports the chat model used when a request leaves it unset.
func (c *OpenAIClient) Model() openai.ChatModel {
	return c.model
}

func (c *OpenAIClient) Complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("nil openai client")
	}
	if params.Model == "" {
		params.Model = c.model
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultChatTimeout)
	defer cancel()
	return c.client.Chat.Completions.New(reqCtx, params)
}

func (c *OpenAIClient) Answer(ctx context.Context, question, contextText string) (string, error) {
	resp, err := c.Complete(ctx, openai.ChatCompletionNewParams{
		Messages:    BuildMessages(answerSystemPrompt, fmt.Sprintf(answerTemplate, contextText, question)),
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// BuildMessages returns a system instruction followed by a single user turn.
func BuildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}
