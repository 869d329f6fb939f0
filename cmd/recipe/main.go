package main

import (
	"context"
	"encoding/base64"
	"errors"
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
	"llm-pages/internal/httputil"
	"llm-pages/internal/imagegen"
	"llm-pages/internal/recipe"
)

// FilteredWarning replaces the illustration when the image was filtered.
const FilteredWarning = "画像の生成に失敗しました"

type recipeRequest struct {
	Dish string `json:"dish" validate:"max=200"`
}

type imageResponse struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Seed     int64  `json:"seed"`
}

type recipeResponse struct {
	Ingredients          []recipe.Ingredient `json:"ingredients"`
	IngredientsTable     string              `json:"ingredients_table"`
	Instructions         []string            `json:"instructions"`
	InstructionsMarkdown string              `json:"instructions_markdown"`
	InEnglish            string              `json:"in_english"`
	Image                *imageResponse      `json:"image,omitempty"`
	Warning              string              `json:"warning,omitempty"`
}

func main() {
	deps, err := app.Build("recipe")
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
	requester := recipe.NewRequester(deps.LLM, deps.Images, openai.ChatModel(deps.Config.LLMModel))

	r.Post("/api/recipe", recipeHandler(deps, requester))
	r.Get("/healthz", httputil.HealthHandler("recipe"))

	return r
}

func recipeHandler(deps app.Deps, requester *recipe.Requester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req recipeRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		dish := strings.TrimSpace(req.Dish)
		if dish == "" {
			httputil.NoContent(w)
			return
		}
		log := deps.Log.With("dish", dish)

		rec, err := requester.RequestRecipe(ctx, dish)
		if err != nil {
			httputil.BackendFail(log, w, "failed to generate recipe", err)
			return
		}

		resp := render(rec)
		img, err := requester.RequestIllustration(ctx, rec.InEnglish)
		switch {
		case errors.Is(err, imagegen.ErrFiltered):
			log.Warn("illustration filtered", "in_english", rec.InEnglish)
			resp.Warning = FilteredWarning
		case err != nil:
			httputil.BackendFail(log, w, "failed to generate illustration", err)
			return
		default:
			resp.Image = &imageResponse{
				MIMEType: img.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
				Width:    img.Width,
				Height:   img.Height,
				Seed:     img.Seed,
			}
		}

		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}

func render(rec recipe.Recipe) recipeResponse {
	return recipeResponse{
		Ingredients:          rec.Ingredients,
		IngredientsTable:     recipe.IngredientsHeading + "\n" + recipe.IngredientTableMarkdown(rec.Ingredients),
		Instructions:         rec.Instructions,
		InstructionsMarkdown: recipe.InstructionsHeading + "\n" + recipe.InstructionsMarkdown(rec.Instructions),
		InEnglish:            rec.InEnglish,
	}
}
