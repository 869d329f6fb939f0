package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"llm-pages/internal/llm"
)

// OpenAIEmbedder calls OpenAI's embeddings API.
type OpenAIEmbedder struct {
	model     openai.EmbeddingModel
	batchSize int
	client    *openai.Client
}

const (
	defaultEmbeddingTimeout = 60 * time.Second
	// DefaultBatchSize keeps each request well under the API's per-request
	// input and token caps.
	DefaultBatchSize = 10
	// MaxBatchSize is the API's hard limit on inputs per request.
	MaxBatchSize = 2048
)

// NewOpenAIEmbedder creates a new OpenAI embedder. batchSize <= 0 means
// DefaultBatchSize.
func NewOpenAIEmbedder(apiKey string, model openai.EmbeddingModel, batchSize int, opts ...option.RequestOption) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.EmbeddingModelTextEmbeddingAda002
	}
	switch {
	case batchSize <= 0:
		batchSize = DefaultBatchSize
	case batchSize > MaxBatchSize:
		batchSize = MaxBatchSize
	}
	cli := openai.NewClient(append(llm.ClientOptions(apiKey, ""), opts...)...)
	return &OpenAIEmbedder{
		model:     model,
		batchSize: batchSize,
		client:    &cli,
	}, nil
}

// Model reports the embedding model name stored alongside built indexes.
func (e *OpenAIEmbedder) Model() string {
	return string(e.model)
}

// Embed sends texts in batches of batchSize, one request at a time, and
// returns one vector per text in input order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([]Vector, error) {
	if e == nil || e.client == nil {
		return nil, fmt.Errorf("nil openai embedder")
	}
	if len(texts) == 0 {
		return nil, nil
	}
	vectors := make([]Vector, len(texts))
	for offset := 0; offset < len(texts); offset += e.batchSize {
		end := min(offset+e.batchSize, len(texts))
		if err := e.embedBatch(ctx, texts[offset:end], vectors[offset:end]); err != nil {
			return nil, fmt.Errorf("embed batch %d-%d: %w", offset, end-1, err)
		}
	}
	return vectors, nil
}

// embedBatch fills out[i] with the embedding of batch[i].
func (e *OpenAIEmbedder) embedBatch(ctx context.Context, batch []string, out []Vector) error {
	reqCtx, cancel := context.WithTimeout(ctx, defaultEmbeddingTimeout)
	defer cancel()

	resp, err := e.client.Embeddings.New(reqCtx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: batch,
		},
		Model: e.model,
	})
	if err != nil {
		return err
	}
	if len(resp.Data) != len(batch) {
		return fmt.Errorf("openai: expected %d embeddings, got %d", len(batch), len(resp.Data))
	}
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return fmt.Errorf("openai: embedding index %d out of range", d.Index)
		}
		vec := make(Vector, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		out[d.Index] = vec
	}
	return nil
}
