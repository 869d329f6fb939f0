package recipe

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"

	"llm-pages/internal/imagegen"
	"llm-pages/internal/llm"
)

const promptTemplate = "料理のレシピを教えてください。\n\n料理名: %s\n"

// Illustrations are always one 512×512 sample.
const (
	ImageWidth   = 512
	ImageHeight  = 512
	ImageSamples = 1
)

// Requester issues the recipe and illustration calls. Neither call is retried.
type Requester struct {
	llm    llm.Completer
	images imagegen.Generator
	model  openai.ChatModel
}

func NewRequester(completer llm.Completer, images imagegen.Generator, model openai.ChatModel) *Requester {
	return &Requester{llm: completer, images: images, model: model}
}

// RequestRecipe forces a single output_recipe call for dish.
func (r *Requester) RequestRecipe(ctx context.Context, dish string) (Recipe, error) {
	resp, err := r.llm.Complete(ctx, r.recipeParams(dish))
	if err != nil {
		return Recipe{}, fmt.Errorf("request recipe: %w", err)
	}
	return ExtractRecipe(resp)
}

// RequestIllustration returns imagegen.ErrFiltered when the provider filtered
// the artifact; callers should warn and carry on without an image.
func (r *Requester) RequestIllustration(ctx context.Context, englishName string) (*imagegen.Image, error) {
	artifacts, err := r.images.Generate(ctx, imagegen.Request{
		Prompt:  englishName,
		Width:   ImageWidth,
		Height:  ImageHeight,
		Samples: ImageSamples,
	})
	if err != nil {
		return nil, fmt.Errorf("request illustration: %w", err)
	}
	return imagegen.FirstImage(artifacts)
}

func (r *Requester) recipeParams(dish string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: r.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(promptTemplate, dish)),
		},
		Tools: []openai.ChatCompletionToolUnionParam{
			openai.ChatCompletionFunctionTool(OutputRecipeFunction),
		},
		ToolChoice: openai.ToolChoiceOptionFunctionToolChoice(openai.ChatCompletionNamedToolChoiceFunctionParam{
			Name: FunctionName,
		}),
	}
}
