package index

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"llm-pages/internal/embeddings"
	"llm-pages/internal/llm"
)

const defaultTopK = 2

// VectorQuerier retrieves the top-k nodes by cosine similarity and asks the
// language model to answer from them.
type VectorQuerier struct {
	embedder embeddings.Embedder
	answerer llm.Answerer
	topK     int
}

func NewVectorQuerier(embedder embeddings.Embedder, answerer llm.Answerer, topK int) *VectorQuerier {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &VectorQuerier{embedder: embedder, answerer: answerer, topK: topK}
}

func (q *VectorQuerier) Query(ctx context.Context, idx *Index, question string) (Answer, error) {
	if err := idx.Validate(); err != nil {
		return Answer{}, err
	}
	vecs, err := q.embedder.Embed(ctx, []string{question})
	if err != nil {
		return Answer{}, fmt.Errorf("embed question: %w", err)
	}
	if len(vecs) != 1 {
		return Answer{}, fmt.Errorf("embed question: expected 1 vector, got %d", len(vecs))
	}

	sources := Retrieve(idx, vecs[0], q.topK)
	response, err := q.answerer.Answer(ctx, question, buildContext(sources))
	if err != nil {
		return Answer{}, fmt.Errorf("synthesize answer: %w", err)
	}
	return Answer{Response: response, SourceNodes: sources}, nil
}

// Retrieve scores every node against vec and returns the best k, highest
// first. Ties keep index order.
func Retrieve(idx *Index, vec embeddings.Vector, k int) []SourceNode {
	scored := make([]SourceNode, len(idx.Nodes))
	for i, n := range idx.Nodes {
		scored[i] = SourceNode{Node: n, Score: embeddings.CosineSimilarity(vec, idx.Vectors[i])}
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if k < len(scored) {
		scored = scored[:k]
	}
	return scored
}

// buildContext renders each node with its page metadata, separated by blank lines.
func buildContext(sources []SourceNode) string {
	var builder strings.Builder
	for i, s := range sources {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString("page_label: ")
		builder.WriteString(strconv.Itoa(s.Page))
		builder.WriteString("\nfile_name: ")
		builder.WriteString(s.FileName)
		builder.WriteString("\n\n")
		builder.WriteString(s.Text)
	}
	return builder.String()
}
