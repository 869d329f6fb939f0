package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"llm-pages/internal/app"
	"llm-pages/internal/chunker"
	"llm-pages/internal/document"
	"llm-pages/internal/httputil"
	"llm-pages/internal/index"
	"llm-pages/internal/qa"
)

type queryRequest struct {
	Question string `json:"question" validate:"max=4000"`
}

type sourceResponse struct {
	NodeID string  `json:"node_id"`
	Page   int     `json:"page"`
	Score  float32 `json:"score"`
	Text   string  `json:"text"`
}

func main() {
	deps, err := app.Build("qa")
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	if err := httputil.Serve(ctx, deps.Log, addr, newRouter(deps, newManager(deps))); err != nil {
		deps.Log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// modelNamer is implemented by embedders that know their resolved model.
type modelNamer interface {
	Model() string
}

func newManager(deps app.Deps) *qa.Manager {
	model := deps.Config.EmbeddingModel
	if named, ok := deps.Embedder.(modelNamer); ok {
		model = named.Model()
	}
	builder := index.NewVectorBuilder(deps.Embedder, model, chunker.Options{
		ChunkSize: deps.Config.ChunkSize,
		Overlap:   deps.Config.ChunkOverlap,
	})
	querier := index.NewVectorQuerier(deps.Embedder, deps.LLM, deps.Config.SimilarityTopK)
	return qa.NewManager(deps.Sessions, document.NewPDFReader(), builder, querier, deps.Log)
}

func newRouter(deps app.Deps, m *qa.Manager) http.Handler {
	r := httputil.NewRouter(deps.Log, time.Duration(deps.Config.RequestTimeout)*time.Second)

	r.Post("/api/document", uploadHandler(deps, m))
	r.Delete("/api/document", deleteHandler(deps, m))
	r.Post("/api/query", queryHandler(deps, m))
	r.Get("/healthz", httputil.HealthHandler("qa"))

	return r
}

func uploadHandler(deps app.Deps, m *qa.Manager) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sessionID := httputil.SessionID(ctx)
		log := deps.Log.With("session_id", sessionID)

		if r.ContentLength > maxFileSize {
			httputil.Fail(log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+1<<20)

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}
		if !isPDF(header.Filename, header.Header.Get("Content-Type")) {
			httputil.Fail(log, w, "unsupported file type (only PDF allowed)", nil, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}

		idx, err := m.Upload(ctx, sessionID, header.Filename, content)
		switch {
		case errors.Is(err, document.ErrUnreadable), errors.Is(err, document.ErrNoText):
			httputil.Fail(log, w, "could not extract text from pdf", err, http.StatusUnprocessableEntity)
			return
		case err != nil:
			httputil.BackendFail(log, w, "failed to index document", err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"file_name": idx.FileName,
			"pages":     idx.Pages(),
			"nodes":     len(idx.Nodes),
		})
	}
}

// isPDF accepts a PDF content type, falling back to the extension when the
// client sent none or a generic one.
func isPDF(filename, contentType string) bool {
	if contentType != "" && contentType != "application/octet-stream" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		return err == nil && mediaType == "application/pdf"
	}
	return strings.EqualFold(filepath.Ext(filename), ".pdf")
}

func deleteHandler(deps app.Deps, m *qa.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.Invalidate(r.Context(), httputil.SessionID(r.Context())); err != nil {
			httputil.Fail(deps.Log, w, "failed to clear document", err, http.StatusInternalServerError)
			return
		}
		httputil.NoContent(w)
	}
}

func queryHandler(deps app.Deps, m *qa.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := deps.Log.With("session_id", httputil.SessionID(ctx))

		var req queryRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.ValidationError(log, w, err)
			return
		}
		question := strings.TrimSpace(req.Question)
		if question == "" {
			httputil.NoContent(w)
			return
		}

		idx, err := m.Current(ctx, httputil.SessionID(ctx))
		if err != nil {
			httputil.Fail(log, w, "failed to load document index", err, http.StatusInternalServerError)
			return
		}
		if idx == nil {
			httputil.NoContent(w)
			return
		}

		answer, err := m.Query(ctx, idx, question)
		if err != nil {
			httputil.BackendFail(log, w, "failed to answer question", err)
			return
		}

		sources := make([]sourceResponse, 0, len(answer.SourceNodes))
		for _, n := range answer.SourceNodes {
			sources = append(sources, sourceResponse{
				NodeID: n.ID,
				Page:   n.Page,
				Score:  n.Score,
				Text:   n.Text,
			})
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"answer":  answer.Response,
			"sources": sources,
		})
	}
}
