package recipe

import (
	"fmt"
	"strings"
)

const (
	IngredientsHeading  = "## 材料"
	InstructionsHeading = "## 手順"
)

// IngredientRows returns (ingredient, quantity) pairs in model order.
func (r Recipe) IngredientRows() [][2]string {
	rows := make([][2]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		rows[i] = [2]string{ing.Ingredient, ing.Quantity}
	}
	return rows
}

// IngredientTableMarkdown renders the ingredients as a markdown table.
func IngredientTableMarkdown(ingredients []Ingredient) string {
	var b strings.Builder
	b.WriteString("| ingredient | quantity |\n")
	b.WriteString("| --- | --- |\n")
	for _, ing := range ingredients {
		fmt.Fprintf(&b, "| %s | %s |\n", cell(ing.Ingredient), cell(ing.Quantity))
	}
	return b.String()
}

// InstructionsMarkdown renders steps as a numbered list, e.g. "1. cut\n2. fry\n".
func InstructionsMarkdown(instructions []string) string {
	var b strings.Builder
	for i, step := range instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
