package extract

import (
	"regexp"
	"strings"

	"dinescrape/internal/page"
)

// imageKeywords maps substrings of icon alt/title text to canonical
// dietary labels.
var imageKeywords = []struct {
	keyword string
	label   string
}{
	{"vegan", "Vegan"},
	{"vegetarian", "Vegetarian"},
	{"gluten", "Gluten Free"},
	{"dairy", "Dairy Free"},
	{"halal", "Halal"},
	{"kosher", "Kosher"},
}

// rowLabelRe is the secondary whole-row-text pass. Its keyword coverage
// is narrower than the image pass (no Dairy Free, no Kosher); the two
// sets are kept distinct on purpose.
var rowLabelRe = regexp.MustCompile(`\b(Vegan|Vegetarian|Gluten Free|Halal)\b`)

// DietaryLabels collects an item row's dietary labels from two
// independent sources: icon alt/title text, then the row's own text.
// Results are deduplicated in discovery order (image pass first) and
// joined with "; ". Must be called before any navigation happens on the
// row, while its handles are still valid.
func DietaryLabels(row page.Element) string {
	var labels []string
	seen := make(map[string]bool)

	add := func(label string) {
		if !seen[label] {
			seen[label] = true
			labels = append(labels, label)
		}
	}

	for _, img := range row.Find("img") {
		desc := strings.ToLower(img.Attr("alt") + " " + img.Attr("title"))
		for _, kw := range imageKeywords {
			if strings.Contains(desc, kw.keyword) {
				add(kw.label)
			}
		}
	}

	for _, m := range rowLabelRe.FindAllString(row.Text(), -1) {
		add(m)
	}

	return strings.Join(labels, "; ")
}

// rowServingRe matches a quantity-plus-unit cell, e.g. "8 oz" or "2 slices".
var rowServingRe = regexp.MustCompile(`(?i)\b\d+(?:[./]\d+)?\s*(?:oz|g|ml|cup|piece|portion|slice|each|item|serving)s?\b`)

// RowServingSize captures the serving size shown in the item row itself.
// It runs before the row is clicked, because opening the detail can alter
// or hide the row. A serving size found later in the detail overlay takes
// precedence over this value.
func RowServingSize(row page.Element) string {
	for _, cell := range row.Find("td") {
		if m := rowServingRe.FindString(cell.Text()); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}
