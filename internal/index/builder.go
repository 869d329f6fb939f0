package index

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"llm-pages/internal/chunker"
	"llm-pages/internal/document"
	"llm-pages/internal/embeddings"
)

// VectorBuilder chunks every page and embeds all chunks in one batch.
type VectorBuilder struct {
	embedder embeddings.Embedder
	model    string
	chunking chunker.Options
	now      func() time.Time
}

func NewVectorBuilder(embedder embeddings.Embedder, model string, chunking chunker.Options) *VectorBuilder {
	return &VectorBuilder{
		embedder: embedder,
		model:    model,
		chunking: chunking,
		now:      time.Now,
	}
}

func (b *VectorBuilder) Build(ctx context.Context, docs []document.Document) (*Index, error) {
	idx := &Index{EmbeddingModel: b.model, CreatedAt: b.now()}
	var texts []string
	for _, doc := range docs {
		fileName := doc.Metadata[document.MetaFileName]
		if idx.FileName == "" {
			idx.FileName = fileName
		}
		for _, c := range chunker.ChunkText(doc.Text, b.chunking) {
			idx.Nodes = append(idx.Nodes, Node{
				ID:       uuid.NewString(),
				Text:     c.Text,
				Page:     doc.Page,
				FileName: fileName,
			})
			texts = append(texts, c.Text)
		}
	}
	if len(idx.Nodes) == 0 {
		return nil, ErrEmptyIndex
	}

	vectors, err := b.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed %d nodes: %w", len(texts), err)
	}
	idx.Vectors = vectors
	if err := idx.Validate(); err != nil {
		return nil, err
	}
	return idx, nil
}
