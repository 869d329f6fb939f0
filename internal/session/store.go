package session

import (
	"context"
	"errors"

	"llm-pages/internal/index"
)

var ErrNoSession = errors.New("session id required")

// Store maps a session id to at most one retrieval index.
type Store interface {
	// Get returns the session's index, or nil when none is set.
	Get(ctx context.Context, id string) (*index.Index, error)

	// Set replaces the session's index.
	Set(ctx context.Context, id string, idx *index.Index) error

	// Clear drops the session's index. Clearing an absent index succeeds.
	Clear(ctx context.Context, id string) error

	// Close releases backend connections.
	Close() error
}
