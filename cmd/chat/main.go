package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/openai/openai-go/v3"

	"llm-pages/internal/app"
	"llm-pages/internal/chat"
	"llm-pages/internal/httputil"
)

type chatRequest struct {
	Message string `json:"message" validate:"max=8000"`
}

func main() {
	deps, err := app.Build("chat")
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	if err := httputil.Serve(ctx, deps.Log, addr, newRouter(deps)); err != nil {
		deps.Log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log, time.Duration(deps.Config.RequestTimeout)*time.Second)
	echo := chat.NewEcho(deps.LLM, openai.ChatModel(deps.Config.LLMModel))

	r.Post("/api/chat", chatHandler(deps, echo))
	r.Get("/healthz", httputil.HealthHandler("chat"))

	return r
}

func chatHandler(deps app.Deps, echo *chat.Echo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			httputil.NoContent(w)
			return
		}

		completion, err := echo.Chat(r.Context(), req.Message)
		if err != nil {
			httputil.BackendFail(deps.Log, w, "chat completion failed", err)
			return
		}

		// The provider's payload is returned as received.
		if raw := completion.RawJSON(); raw != "" {
			httputil.WriteRawJSON(w, http.StatusOK, []byte(raw))
			return
		}
		body, err := json.Marshal(completion)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to encode completion", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteRawJSON(w, http.StatusOK, body)
	}
}
