// Package qa owns the session-scoped retrieval index behind the document
// question-answering page.
package qa

import (
	"context"
	"fmt"
	"log/slog"

	"llm-pages/internal/document"
	"llm-pages/internal/index"
	"llm-pages/internal/session"
)

// Manager keeps at most one index per session. A session is either absent
// (no index) or present; every new upload goes through Invalidate first.
type Manager struct {
	sessions session.Store
	reader   document.Reader
	builder  index.Builder
	querier  index.Querier
	log      *slog.Logger
}

func NewManager(sessions session.Store, reader document.Reader, builder index.Builder, querier index.Querier, log *slog.Logger) *Manager {
	return &Manager{
		sessions: sessions,
		reader:   reader,
		builder:  builder,
		querier:  querier,
		log:      log,
	}
}

// Invalidate clears the session's index. Safe to call when none exists.
func (m *Manager) Invalidate(ctx context.Context, sessionID string) error {
	if err := m.sessions.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session index: %w", err)
	}
	return nil
}

// Build reads the uploaded PDF, indexes it and stores the index in the session.
func (m *Manager) Build(ctx context.Context, sessionID, filename string, data []byte) (*index.Index, error) {
	docs, err := m.reader.Read(ctx, filename, data)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	idx, err := m.builder.Build(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if err := m.sessions.Set(ctx, sessionID, idx); err != nil {
		return nil, fmt.Errorf("store session index: %w", err)
	}
	m.log.Info("index built",
		"session_id", sessionID,
		"file_name", filename,
		"pages", len(docs),
		"nodes", len(idx.Nodes),
	)
	return idx, nil
}

// Upload handles a changed upload: the old index is dropped before the new one
// is built, so a failed build leaves the session without an index.
func (m *Manager) Upload(ctx context.Context, sessionID, filename string, data []byte) (*index.Index, error) {
	if err := m.Invalidate(ctx, sessionID); err != nil {
		return nil, err
	}
	return m.Build(ctx, sessionID, filename, data)
}

// Current returns the session's index or nil.
func (m *Manager) Current(ctx context.Context, sessionID string) (*index.Index, error) {
	idx, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session index: %w", err)
	}
	return idx, nil
}

// Query answers question from idx. Backend failures are returned as-is.
func (m *Manager) Query(ctx context.Context, idx *index.Index, question string) (index.Answer, error) {
	return m.querier.Query(ctx, idx, question)
}
