// Package extract pulls named nutrition fields out of unstructured detail
// text. Every field carries an ordered chain of fallback patterns that
// encodes real-world format variance: the site renders "Calories123"
// (glued) far more often than "Calories 123", and serving sizes sometimes
// carry a parenthetical gram equivalent. More specific patterns are tried
// first so a looser one never wins with a truncated partial match.
package extract

import (
	"regexp"
	"strings"
)

// FieldSpec maps one output field to its fallback pattern chain. The
// first pattern with a match wins; no match yields the empty string.
type FieldSpec struct {
	Field    string
	Patterns []*regexp.Regexp
}

// NutritionFields is the declarative extraction table for the nutrition
// detail overlay, in output column order.
var NutritionFields = []FieldSpec{
	{
		Field: "serving_size",
		Patterns: []*regexp.Regexp{
			// with parenthetical gram equivalent, e.g. "1 cup (240g)"
			regexp.MustCompile(`(?i)serving size[:\s]*([0-9][\w ./+-]*?\([^)\n]{1,30}\))`),
			// bare quantity + unit, e.g. "8 oz"
			regexp.MustCompile(`(?i)serving size[:\s]*([0-9][\w ./+-]*?(?:oz|g|ml|cup|piece|portion|slice|each|item|serving)s?)\b`),
			regexp.MustCompile(`(?i)serving size[:\s]*([^\n]+)`),
		},
	},
	{
		Field: "calories",
		Patterns: []*regexp.Regexp{
			// glued form first: "Calories123"
			regexp.MustCompile(`(?i)calories(\d+)`),
			regexp.MustCompile(`(?i)calories\s+(\d+)`),
			regexp.MustCompile(`(?i)calories:?\s*(\d+)`),
			regexp.MustCompile(`(?i)(\d+)\s*calories`),
		},
	},
	{
		Field: "total_fat_g",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)total fat\s*([\d.]+)\s*g\b`),
			regexp.MustCompile(`(?i)total fat\s*(NA)\b`),
			regexp.MustCompile(`(?i)total fat[:\s]*([\d.]+)`),
		},
	},
	{
		Field: "saturated_fat_g",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)saturated fat\s*([\d.]+)\s*g\b`),
			regexp.MustCompile(`(?i)saturated fat\s*(NA)\b`),
			regexp.MustCompile(`(?i)saturated fat[:\s]*([\d.]+)`),
		},
	},
	{
		Field: "trans_fat_g",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)trans fat\s*([\d.]+)\s*g\b`),
			regexp.MustCompile(`(?i)trans fat\s*(NA)\b`),
			regexp.MustCompile(`(?i)trans fat[:\s]*([\d.]+)`),
		},
	},
	{
		Field: "cholesterol_mg",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)cholesterol\s*([\d.]+)\s*mg\b`),
			regexp.MustCompile(`(?i)cholesterol\s*(NA)\b`),
			regexp.MustCompile(`(?i)cholesterol[:\s]*([\d.]+)`),
		},
	},
	{
		Field: "sodium_mg",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)sodium\s*([\d.]+)\s*mg\b`),
			regexp.MustCompile(`(?i)sodium\s*(NA)\b`),
			regexp.MustCompile(`(?i)sodium[:\s]*([\d.]+)`),
		},
	},
	{
		Field: "total_carbs_g",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)total carbohydrates?\s*([\d.]+)\s*g\b`),
			regexp.MustCompile(`(?i)total carbohydrates?\s*(NA)\b`),
			regexp.MustCompile(`(?i)total carbs?\.?[:\s]*([\d.]+)`),
		},
	},
	{
		Field: "fiber_g",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)dietary fiber\s*([\d.]+)\s*g\b`),
			regexp.MustCompile(`(?i)dietary fiber\s*(NA)\b`),
			regexp.MustCompile(`(?i)fiber[:\s]*([\d.]+)`),
		},
	},
	{
		Field: "sugars_g",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)total sugars?\s*([\d.]+)\s*g\b`),
			regexp.MustCompile(`(?i)sugars?\s*([\d.]+)\s*g\b`),
			regexp.MustCompile(`(?i)sugars?\s*(NA)\b`),
			regexp.MustCompile(`(?i)sugars?[:\s]*([\d.]+)`),
		},
	},
	{
		Field: "protein_g",
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)protein\s*([\d.]+)\s*g\b`),
			regexp.MustCompile(`(?i)protein\s*(NA)\b`),
			regexp.MustCompile(`(?i)protein[:\s]*([\d.]+)`),
		},
	},
}

// Extract resolves every field of the given table against the raw text.
// It is a pure function: same input, same output, no side effects. A
// field whose whole chain misses maps to "", never to an error.
func Extract(text string, specs []FieldSpec) map[string]string {
	out := make(map[string]string, len(specs))
	for _, spec := range specs {
		out[spec.Field] = ""
		for _, re := range spec.Patterns {
			if m := re.FindStringSubmatch(text); m != nil {
				out[spec.Field] = strings.TrimSpace(m[1])
				break
			}
		}
	}
	return out
}

// maxIngredientsLen is the silent cutoff applied to ingredient text.
const maxIngredientsLen = 2000

// ingredientsRe captures everything after an "Ingredients:" label up to
// the next section delimiter: an asterisk, a Contains/allergen/Nutrition
// label, or end of text.
var ingredientsRe = regexp.MustCompile(`(?is)ingredients:\s*(.*?)\s*(?:\*|\bcontains\b|\ballergens?\b|\bnutrition\b|$)`)

// Ingredients extracts the ingredient list from detail text, collapses
// internal whitespace and truncates to maxIngredientsLen characters. The
// truncation is silent.
func Ingredients(text string) string {
	m := ingredientsRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	collapsed := strings.Join(strings.Fields(m[1]), " ")
	runes := []rune(collapsed)
	if len(runes) > maxIngredientsLen {
		runes = runes[:maxIngredientsLen]
	}
	return string(runes)
}
