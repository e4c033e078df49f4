// Package detect classifies the current page shape. The dining site has
// no single template across restaurants, so detection is purely textual
// and structural, never positional, and fails soft: a page that matches
// nothing yields empty results rather than an error.
package detect

import (
	"sort"
	"strings"
	"unicode/utf8"

	"dinescrape/internal/page"
)

// SyntheticPeriod is the meal-period name assigned when a restaurant page
// carries no meal-period grouping at all.
const SyntheticPeriod = "All Day"

// maxLabelLen guards against a vocabulary word accidentally matching
// inside a long unrelated block of text.
const maxLabelLen = 100

// clickableSelector covers every control a restaurant page uses to switch
// meal periods or open items.
const clickableSelector = "a, button, [role='button'], input[type='button'], input[type='submit']"

// MealPeriod is one discovered meal-period tab. The anchor is only valid
// while the restaurant page it was found on stays open.
type MealPeriod struct {
	Name   string
	Anchor page.Element
}

// MealPeriods scans all visible clickable elements for text matching the
// vocabulary, first by exact match, then by containment. Results are
// deduplicated by label, in vocabulary-discovery order. An empty result
// means the restaurant's menu is one flat list under SyntheticPeriod.
func MealPeriods(p page.Page, vocab []string) []MealPeriod {
	var periods []MealPeriod
	seen := make(map[string]bool)

	// The containment pass tries longer labels first, so text carrying
	// both "Lunch/Dinner" and "Lunch" records the more specific label.
	byLength := make([]string, len(vocab))
	copy(byLength, vocab)
	sort.SliceStable(byLength, func(i, j int) bool {
		return len(byLength[i]) > len(byLength[j])
	})

	add := func(label string, el page.Element) {
		if !seen[label] {
			seen[label] = true
			periods = append(periods, MealPeriod{Name: label, Anchor: el})
		}
	}

	for _, el := range p.Find(clickableSelector) {
		if !el.Visible() {
			continue
		}
		text := collapse(el.Text())
		if text == "" || len(text) > maxLabelLen {
			continue
		}
		matched := false
		for _, label := range vocab {
			if strings.EqualFold(text, label) {
				add(label, el)
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		for _, label := range byLength {
			if containsFold(text, label) {
				add(label, el)
				break
			}
		}
	}
	return periods
}

// ItemRow is one menu item's table row. Link is the control that opens
// the item's nutrition detail; both handles die with the current page.
type ItemRow struct {
	Row  page.Element
	Link page.Element
	Name string
}

// ItemRows scans every table on the page for plausible menu-item rows:
// no header cells, at least one data cell, and a link that looks like an
// item name rather than a navigation control.
func ItemRows(p page.Page) []ItemRow {
	var rows []ItemRow
	for _, table := range p.Find("table") {
		for _, tr := range table.Find("tr") {
			if len(tr.Find("th")) > 0 {
				continue
			}
			if len(tr.Find("td")) == 0 {
				continue
			}
			link, name := itemLink(tr)
			if link == nil {
				continue
			}
			rows = append(rows, ItemRow{Row: tr, Link: link, Name: name})
		}
	}
	return rows
}

// itemLink picks the first link in the row that plausibly names an item.
func itemLink(tr page.Element) (page.Element, string) {
	for _, a := range tr.Find("a") {
		name := collapse(a.Text())
		if utf8.RuneCountInString(name) <= 1 {
			continue
		}
		if isNavControl(name) {
			continue
		}
		return a, name
	}
	return nil, ""
}

func isNavControl(text string) bool {
	lower := strings.ToLower(text)
	return lower == "back" || strings.Contains(lower, "compare items")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
