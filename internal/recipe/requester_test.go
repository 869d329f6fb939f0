package recipe

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"llm-pages/internal/imagegen"
	"llm-pages/internal/imagegen/imagegentest"
	"llm-pages/internal/llm"
	"llm-pages/internal/llm/llmtest"
)

func forcedRecipeCall(dish string) func(openai.ChatCompletionNewParams) bool {
	return func(p openai.ChatCompletionNewParams) bool {
		if p.Model != openai.ChatModelGPT3_5Turbo || len(p.Messages) != 1 || p.Messages[0].OfUser == nil {
			return false
		}
		if p.Messages[0].OfUser.Content.OfString.Value != "料理のレシピを教えてください。\n\n料理名: "+dish+"\n" {
			return false
		}
		if len(p.Tools) != 1 || p.Tools[0].OfFunction == nil || p.Tools[0].OfFunction.Function.Name != FunctionName {
			return false
		}
		return p.ToolChoice.OfFunctionToolChoice != nil &&
			p.ToolChoice.OfFunctionToolChoice.Function.Name == FunctionName
	}
}

func TestRequestRecipe(t *testing.T) {
	l := new(llm.MockClient)
	l.On("Complete", mock.Anything, mock.MatchedBy(forcedRecipeCall("curry rice"))).
		Return(llmtest.ToolCall(FunctionName, curryArgs), nil).Once()

	r := NewRequester(l, new(imagegen.MockGenerator), openai.ChatModelGPT3_5Turbo)
	got, err := r.RequestRecipe(context.Background(), "curry rice")
	require.NoError(t, err)

	assert.Equal(t, Recipe{
		Ingredients:  []Ingredient{{Ingredient: "chicken", Quantity: "300g"}},
		Instructions: []string{"cut", "fry"},
		InEnglish:    "curry rice",
	}, got)
	l.AssertExpectations(t)
}

func TestRequestRecipeFailures(t *testing.T) {
	t.Run("backend error propagates", func(t *testing.T) {
		boom := errors.New("429 rate limited")
		l := new(llm.MockClient)
		l.On("Complete", mock.Anything, mock.Anything).Return(nil, boom).Once()

		_, err := NewRequester(l, nil, "").RequestRecipe(context.Background(), "x")
		require.ErrorIs(t, err, boom)
		l.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("missing function call", func(t *testing.T) {
		l := new(llm.MockClient)
		l.On("Complete", mock.Anything, mock.Anything).Return(llmtest.Text("no tools today"), nil).Once()

		_, err := NewRequester(l, nil, "").RequestRecipe(context.Background(), "x")
		require.ErrorIs(t, err, ErrMissingFunctionCall)
	})

	t.Run("malformed arguments", func(t *testing.T) {
		l := new(llm.MockClient)
		l.On("Complete", mock.Anything, mock.Anything).Return(llmtest.ToolCall(FunctionName, `{"ingredients": `), nil).Once()

		_, err := NewRequester(l, nil, "").RequestRecipe(context.Background(), "x")
		require.ErrorIs(t, err, ErrMalformedArguments)
	})
}

func TestRequestIllustration(t *testing.T) {
	fixedRequest := imagegen.Request{Prompt: "curry rice", Width: 512, Height: 512, Samples: 1}

	t.Run("success returns decodable image", func(t *testing.T) {
		g := new(imagegen.MockGenerator)
		g.On("Generate", mock.Anything, fixedRequest).Return([]imagegen.Artifact{{
			Base64:       imagegentest.PNGBase64(8, 8),
			FinishReason: imagegen.FinishSuccess,
		}}, nil).Once()

		img, err := NewRequester(nil, g, "").RequestIllustration(context.Background(), "curry rice")
		require.NoError(t, err)
		_, format, err := image.Decode(bytes.NewReader(img.Data))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		g.AssertExpectations(t)
	})

	t.Run("filtered returns warning and no image", func(t *testing.T) {
		g := new(imagegen.MockGenerator)
		g.On("Generate", mock.Anything, fixedRequest).Return([]imagegen.Artifact{{
			FinishReason: imagegen.FinishFiltered,
		}}, nil).Once()

		img, err := NewRequester(nil, g, "").RequestIllustration(context.Background(), "curry rice")
		require.ErrorIs(t, err, imagegen.ErrFiltered)
		assert.Nil(t, img)
	})

	t.Run("transport error propagates", func(t *testing.T) {
		g := new(imagegen.MockGenerator)
		g.On("Generate", mock.Anything, fixedRequest).Return(nil, imagegen.ErrMissingKey).Once()

		_, err := NewRequester(nil, g, "").RequestIllustration(context.Background(), "curry rice")
		require.ErrorIs(t, err, imagegen.ErrMissingKey)
		assert.NotErrorIs(t, err, imagegen.ErrFiltered)
	})
}
