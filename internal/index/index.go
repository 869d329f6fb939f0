package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"llm-pages/internal/document"
	"llm-pages/internal/embeddings"
)

var (
	ErrEmptyIndex = errors.New("index has no nodes")
	ErrCorrupt    = errors.New("index nodes and vectors are out of step")
)

// Node is one chunk of a document page.
type Node struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Page     int    `json:"page"`
	FileName string `json:"file_name"`
}

// Index is an in-memory vector index. Vectors[i] is the embedding of Nodes[i].
// It holds only data so it can be stored in any session backend.
type Index struct {
	FileName       string              `json:"file_name"`
	EmbeddingModel string              `json:"embedding_model"`
	Nodes          []Node              `json:"nodes"`
	Vectors        []embeddings.Vector `json:"vectors"`
	CreatedAt      time.Time           `json:"created_at"`
}

// Validate checks the parallel-slice invariant.
func (i *Index) Validate() error {
	if i == nil || len(i.Nodes) == 0 {
		return ErrEmptyIndex
	}
	if len(i.Nodes) != len(i.Vectors) {
		return fmt.Errorf("%w: %d nodes, %d vectors", ErrCorrupt, len(i.Nodes), len(i.Vectors))
	}
	return nil
}

// Pages reports how many distinct pages contributed nodes.
func (i *Index) Pages() int {
	seen := make(map[int]struct{})
	for _, n := range i.Nodes {
		seen[n.Page] = struct{}{}
	}
	return len(seen)
}

// SourceNode is a retrieved node with its similarity to the question.
type SourceNode struct {
	Node
	Score float32 `json:"score"`
}

// Answer is the generated response plus the nodes it was grounded on.
type Answer struct {
	Response    string       `json:"response"`
	SourceNodes []SourceNode `json:"source_nodes"`
}

// Builder constructs an index from extracted documents.
type Builder interface {
	Build(ctx context.Context, docs []document.Document) (*Index, error)
}

// Querier answers a question against an index.
type Querier interface {
	Query(ctx context.Context, idx *Index, question string) (Answer, error)
}
