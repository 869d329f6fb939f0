// Package recipe asks a chat model for a structured recipe through a forced
// function call and illustrates it with an image-generation backend.
package recipe

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/openai/openai-go/v3"
)

// FunctionName is the only function the model is allowed to call.
const FunctionName = "output_recipe"

var (
	ErrMissingFunctionCall = errors.New("response has no " + FunctionName + " function call")
	ErrMalformedArguments  = errors.New("malformed " + FunctionName + " arguments")
)

// Ingredient is one row of the ingredient table.
type Ingredient struct {
	Ingredient string `json:"ingredient"`
	Quantity   string `json:"quantity"`
}

// Recipe is the structured output of one request. InEnglish is only used as
// the image prompt.
type Recipe struct {
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	InEnglish    string       `json:"in_english"`
}

// Arguments are decoded through pointers so that a missing key or null fails
// `required` while an empty string, which the schema allows, passes.
type argIngredient struct {
	Ingredient *string `json:"ingredient" validate:"required"`
	Quantity   *string `json:"quantity" validate:"required"`
}

type arguments struct {
	Ingredients  []argIngredient `json:"ingredients" validate:"required,dive"`
	Instructions []*string       `json:"instructions" validate:"required,dive,required"`
	InEnglish    *string         `json:"in_english" validate:"required"`
}

func (a arguments) recipe() Recipe {
	r := Recipe{
		Ingredients:  make([]Ingredient, len(a.Ingredients)),
		Instructions: make([]string, len(a.Instructions)),
		InEnglish:    *a.InEnglish,
	}
	for i, ing := range a.Ingredients {
		r.Ingredients[i] = Ingredient{Ingredient: *ing.Ingredient, Quantity: *ing.Quantity}
	}
	for i, step := range a.Instructions {
		r.Instructions[i] = *step
	}
	return r
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// OutputRecipeFunction declares the output schema to the model.
var OutputRecipeFunction = openai.FunctionDefinitionParam{
	Name:        FunctionName,
	Description: openai.String("レシピを出力する"),
	Parameters: openai.FunctionParameters{
		"title": "Recipe",
		"type":  "object",
		"properties": map[string]any{
			"ingredients": map[string]any{
				"title": "Ingredients",
				"type":  "array",
				"items": map[string]any{
					"title": "Ingredient",
					"type":  "object",
					"properties": map[string]any{
						"ingredient": map[string]any{
							"title":       "Ingredient",
							"description": "材料",
							"examples":    []string{"鶏もも肉"},
							"type":        "string",
						},
						"quantity": map[string]any{
							"title":       "Quantity",
							"description": "分量",
							"examples":    []string{"300g"},
							"type":        "string",
						},
					},
					"required": []string{"ingredient", "quantity"},
				},
			},
			"instructions": map[string]any{
				"title":       "Instructions",
				"description": "手順",
				"examples":    []string{"材料を切ります。", "材料を炒めます。"},
				"type":        "array",
				"items":       map[string]any{"type": "string"},
			},
			"in_english": map[string]any{
				"title":       "In English",
				"description": "英語の料理名",
				"examples":    []string{"curry rice"},
				"type":        "string",
			},
		},
		"required": []string{"ingredients", "instructions", "in_english"},
	},
}

// ParseArguments decodes and validates raw function-call arguments.
func ParseArguments(raw string) (Recipe, error) {
	var args arguments
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return Recipe{}, fmt.Errorf("%w: %v", ErrMalformedArguments, err)
	}
	if err := validate.Struct(&args); err != nil {
		return Recipe{}, fmt.Errorf("%w: %v", ErrMalformedArguments, err)
	}
	return args.recipe(), nil
}

// ExtractRecipe finds the output_recipe call in a completion, either as a tool
// call or in the legacy function_call field, and parses its arguments.
func ExtractRecipe(completion *openai.ChatCompletion) (Recipe, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return Recipe{}, ErrMissingFunctionCall
	}
	msg := completion.Choices[0].Message
	for _, call := range msg.ToolCalls {
		if call.Type == "function" && call.Function.Name == FunctionName {
			return ParseArguments(call.Function.Arguments)
		}
	}
	if msg.FunctionCall.Name == FunctionName {
		return ParseArguments(msg.FunctionCall.Arguments)
	}
	return Recipe{}, ErrMissingFunctionCall
}
