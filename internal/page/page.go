// Package page defines the narrow capability surface the scraper needs
// from a rendered document: find elements, read them, click them, wait.
// The live implementation drives a rod browser page; the snapshot
// implementation replays saved HTML documents so the detector, navigator
// and orchestrator can run without a browser.
package page

import (
	"context"
	"time"
)

// Element is one node of the current document. Handles are only valid
// while the page they were found on is still displayed; after any
// navigation they must be discarded and re-queried.
type Element interface {
	// Text returns the element's rendered text, trimmed. Missing or
	// unreadable elements yield "".
	Text() string
	// HTML returns the element's inner HTML, or "" when unavailable.
	HTML() string
	// Attr returns the value of the named attribute, or "" when absent.
	Attr(name string) string
	// Visible reports whether the element is currently displayed.
	Visible() bool
	// Click activates the element.
	Click() error
	// Find returns descendant elements matching the CSS selector.
	Find(selector string) []Element
}

// Page is the single shared session resource. Only the navigator mutates
// it; the structure detector and text extractor read it without side
// effects.
type Page interface {
	// Navigate loads the given URL (or, for snapshots, the named document).
	Navigate(url string) error
	// Find returns all elements matching the CSS selector, in document
	// order. An unmatched selector yields an empty slice, never an error.
	Find(selector string) []Element
	// Escape dispatches a cancel/escape signal to the page, the last
	// resort for dismissing an overlay with no close control.
	Escape() error
	// Wait suspends for the given settle duration or until ctx is done.
	Wait(ctx context.Context, d time.Duration) error
}

// FirstVisible returns the first visible element matching any of the
// selectors, tried in order.
func FirstVisible(p Page, selectors ...string) Element {
	for _, sel := range selectors {
		for _, el := range p.Find(sel) {
			if el.Visible() {
				return el
			}
		}
	}
	return nil
}
