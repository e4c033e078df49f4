// Package navigate performs the primitive browser actions that move the
// session through the menu hierarchy: open a restaurant, open a meal
// period, expand collapsed categories, open and close an item's
// nutrition detail. Every action is click-then-settle: the site exposes
// no reliable "page ready" signal, so each click is followed by a
// bounded, cancellable delay and correctness is inferred downstream by
// what the structure detector finds (or fails to find).
package navigate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dinescrape/internal/config"
	"dinescrape/internal/detect"
	"dinescrape/internal/menu"
	"dinescrape/internal/page"
)

var (
	// ErrRestaurantNotFound means no clickable on the landing page matched
	// the configured restaurant by name or unit id.
	ErrRestaurantNotFound = errors.New("restaurant link not found")
	// ErrDetailNotFound means no nutrition overlay appeared after an item
	// link was clicked.
	ErrDetailNotFound = errors.New("nutrition detail not found")
)

// detailSelectors locate the nutrition overlay, most specific first. The
// overlay is not rendered with one consistent container across
// restaurants.
var detailSelectors = []string{
	"#nutritionLabel",
	".nutrition-label",
	"[role='dialog']",
	".modal-dialog .modal-content",
	".modal",
}

// closeSelectors locate the overlay's close control, most specific
// first. When none is visible the navigator falls back to an escape
// dispatch.
var closeSelectors = []string{
	"#btn_nn_nutrition_close",
	"[aria-label='Close']",
	".modal-header .close",
	"button.close",
	".close-button",
}

// expandSelectors find native collapsed expand/collapse controls.
var expandSelectors = []string{
	"[aria-expanded='false']",
	"details:not([open]) > summary",
}

// collapsedGlyphs are the disclosure markers a collapsed custom control
// shows in its visible text.
var collapsedGlyphs = []string{"►", "▶", "▸", "▹", "❯"}

// Navigator owns all mutations of the shared page session.
type Navigator struct {
	page   page.Page
	delays config.DelayConfig
}

// New builds a navigator over the given page with the given settle delays.
func New(p page.Page, delays config.DelayConfig) *Navigator {
	return &Navigator{page: p, delays: delays}
}

// OpenHome loads the landing page listing all restaurants.
func (n *Navigator) OpenHome(ctx context.Context, baseURL string) error {
	if err := n.page.Navigate(baseURL); err != nil {
		return fmt.Errorf("failed to open landing page: %w", err)
	}
	return n.page.Wait(ctx, n.delays.AfterRestaurant)
}

// OpenRestaurant clicks the restaurant's link on the landing page,
// matching by name first (exact, then containment) and falling back to a
// control whose click target carries the unit id.
func (n *Navigator) OpenRestaurant(ctx context.Context, r menu.Restaurant) error {
	el := n.findRestaurantLink(r)
	if el == nil {
		return fmt.Errorf("%w: %s", ErrRestaurantNotFound, r.Name)
	}
	if err := el.Click(); err != nil {
		return fmt.Errorf("failed to open restaurant %s: %w", r.Name, err)
	}
	return n.page.Wait(ctx, n.delays.AfterRestaurant)
}

func (n *Navigator) findRestaurantLink(r menu.Restaurant) page.Element {
	var contains page.Element
	for _, el := range n.page.Find("a, [role='button']") {
		if !el.Visible() {
			continue
		}
		text := strings.Join(strings.Fields(el.Text()), " ")
		if strings.EqualFold(text, r.Name) {
			return el
		}
		if contains == nil && text != "" &&
			strings.Contains(strings.ToLower(text), strings.ToLower(r.Name)) {
			contains = el
		}
	}
	if contains != nil {
		return contains
	}
	// Unit-id fallback: the site encodes the location id in the click
	// handler, e.g. onclick="...selectUnit(7)".
	idFrag := fmt.Sprintf("(%d)", r.ExternalID)
	return page.FirstVisible(n.page,
		fmt.Sprintf("a[onclick*='%s']", idFrag),
		fmt.Sprintf("[data-unit-id='%d']", r.ExternalID),
	)
}

// OpenMealPeriod clicks a meal-period tab discovered by the detector.
func (n *Navigator) OpenMealPeriod(ctx context.Context, mp detect.MealPeriod) error {
	if err := mp.Anchor.Click(); err != nil {
		return fmt.Errorf("failed to open meal period %s: %w", mp.Name, err)
	}
	return n.page.Wait(ctx, n.delays.BetweenClicks)
}

// ExpandCategories clicks every collapsed expandable element so nested
// or lazily rendered rows become present before row detection. Returns
// the number of controls expanded.
func (n *Navigator) ExpandCategories(ctx context.Context) (int, error) {
	expanded := 0
	for _, sel := range expandSelectors {
		for _, el := range n.page.Find(sel) {
			if !el.Visible() {
				continue
			}
			if err := el.Click(); err != nil {
				slog.Warn("failed to expand category", "selector", sel, "err", err)
				continue
			}
			expanded++
			if err := n.page.Wait(ctx, n.delays.AfterExpand); err != nil {
				return expanded, err
			}
		}
	}
	for _, el := range n.page.Find("a, button, [role='button']") {
		if !el.Visible() {
			continue
		}
		text := el.Text()
		if !hasCollapsedGlyph(text) {
			continue
		}
		if err := el.Click(); err != nil {
			slog.Warn("failed to expand category", "text", text, "err", err)
			continue
		}
		expanded++
		if err := n.page.Wait(ctx, n.delays.AfterExpand); err != nil {
			return expanded, err
		}
	}
	return expanded, nil
}

func hasCollapsedGlyph(text string) bool {
	for _, g := range collapsedGlyphs {
		if strings.Contains(text, g) {
			return true
		}
	}
	return false
}

// OpenItemDetail clicks an item link and locates the nutrition overlay
// that should appear.
func (n *Navigator) OpenItemDetail(ctx context.Context, row detect.ItemRow) (page.Element, error) {
	if err := row.Link.Click(); err != nil {
		return nil, fmt.Errorf("failed to click item %s: %w", row.Name, err)
	}
	if err := n.page.Wait(ctx, n.delays.BetweenClicks); err != nil {
		return nil, err
	}
	if el := page.FirstVisible(n.page, detailSelectors...); el != nil {
		return el, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrDetailNotFound, row.Name)
}

// CloseDetail dismisses the nutrition overlay: first visible close
// control wins, an escape dispatch is the fallback. Overlays are not
// rendered with a single consistent close affordance across restaurants.
func (n *Navigator) CloseDetail(ctx context.Context) error {
	if el := page.FirstVisible(n.page, closeSelectors...); el != nil {
		if err := el.Click(); err == nil {
			return n.page.Wait(ctx, n.delays.AfterClose)
		}
	}
	if err := n.page.Escape(); err != nil {
		return fmt.Errorf("failed to dismiss detail: %w", err)
	}
	return n.page.Wait(ctx, n.delays.AfterClose)
}
