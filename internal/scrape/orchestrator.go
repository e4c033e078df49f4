// Package scrape walks the restaurant × meal-period × item tree and
// accumulates nutrition records. Everything runs on one logical thread:
// restaurants, periods and items are processed strictly sequentially
// because they share a single mutable page session.
//
// Failure isolation is the central contract here: an error (or panic)
// while processing one item is contained at the item boundary, one
// restaurant at the restaurant boundary, and traversal continues. Only
// context cancellation propagates out, and the caller still exports
// whatever was accumulated.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dinescrape/internal/config"
	"dinescrape/internal/detect"
	"dinescrape/internal/extract"
	"dinescrape/internal/menu"
	"dinescrape/internal/navigate"
	"dinescrape/internal/page"
)

// progressNameLen bounds item names in progress output.
const progressNameLen = 45

// Stats summarizes one run.
type Stats struct {
	Restaurants        int
	Records            int
	RestaurantFailures int
	ItemFailures       int
}

// RunContext carries all state for one scrape run. It is the sole owner
// of the dataset; the export writer only reads it after the run ends.
type RunContext struct {
	cfg   *config.Config
	page  page.Page
	nav   *navigate.Navigator
	data  *menu.Dataset
	stats Stats
}

// NewRunContext wires a run over the given page session.
func NewRunContext(cfg *config.Config, p page.Page) *RunContext {
	return &RunContext{
		cfg:  cfg,
		page: p,
		nav:  navigate.New(p, cfg.Delays),
		data: &menu.Dataset{},
	}
}

// Dataset returns the accumulated records. Valid at any point, including
// after a cancelled or failed run; partial results are never discarded.
func (rc *RunContext) Dataset() *menu.Dataset {
	return rc.data
}

// Stats returns counters for the run so far.
func (rc *RunContext) Stats() Stats {
	return rc.stats
}

// Run visits every configured restaurant in list order. Per-restaurant
// errors are logged and skipped; only context cancellation aborts the
// traversal.
func (rc *RunContext) Run(ctx context.Context) error {
	for _, rest := range rc.cfg.Restaurants {
		if err := ctx.Err(); err != nil {
			return err
		}
		slog.Info("restaurant", "name", rest.Name, "id", rest.ExternalID)
		if err := rc.scrapeRestaurant(ctx, rest); err != nil {
			if isCancel(err) {
				return err
			}
			rc.stats.RestaurantFailures++
			slog.Warn("restaurant failed, continuing", "restaurant", rest.Name, "err", err)
			continue
		}
		rc.stats.Restaurants++
	}
	slog.Info("run complete",
		"restaurants", rc.stats.Restaurants,
		"records", rc.data.Len(),
		"restaurant_failures", rc.stats.RestaurantFailures,
		"item_failures", rc.stats.ItemFailures,
	)
	return nil
}

func (rc *RunContext) scrapeRestaurant(ctx context.Context, rest menu.Restaurant) (err error) {
	defer recoverInto(&err)

	if err := rc.nav.OpenHome(ctx, rc.cfg.Scrape.BaseURL); err != nil {
		return err
	}
	if err := rc.nav.OpenRestaurant(ctx, rest); err != nil {
		return err
	}

	periods := detect.MealPeriods(rc.page, rc.cfg.Scrape.MealPeriods)
	if len(periods) == 0 {
		// Flat menu with no period grouping: one synthetic period so
		// every record still carries a non-empty meal_period.
		periods = []detect.MealPeriod{{Name: detect.SyntheticPeriod}}
	}

	for _, mp := range periods {
		if err := ctx.Err(); err != nil {
			return err
		}
		slog.Info("meal period", "restaurant", rest.Name, "period", mp.Name)
		if err := rc.scrapePeriod(ctx, rest, mp); err != nil {
			return err
		}
	}
	return nil
}

func (rc *RunContext) scrapePeriod(ctx context.Context, rest menu.Restaurant, mp detect.MealPeriod) error {
	if mp.Anchor != nil {
		if err := rc.nav.OpenMealPeriod(ctx, mp); err != nil {
			return err
		}
	}

	if _, err := rc.nav.ExpandCategories(ctx); err != nil {
		return err
	}

	rows := detect.ItemRows(rc.page)
	if len(rows) == 0 {
		// Soft failure: navigation does not validate success, so an empty
		// page after a click is a skipped branch, not a crash.
		slog.Warn("no item rows found", "restaurant", rest.Name, "period", mp.Name)
		return nil
	}
	if limit := rc.cfg.Scrape.MaxItemsPerPage; limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := rc.scrapeItem(ctx, rest.Name, mp.Name, row); err != nil {
			if isCancel(err) {
				return err
			}
			rc.stats.ItemFailures++
			slog.Warn("item failed, continuing",
				"restaurant", rest.Name, "period", mp.Name,
				"index", i, "item", truncate(row.Name, progressNameLen), "err", err)
		}
	}
	return nil
}

func (rc *RunContext) scrapeItem(ctx context.Context, restaurant, period string, row detect.ItemRow) (err error) {
	defer recoverInto(&err)

	slog.Info("item", "name", truncate(row.Name, progressNameLen))

	// Row-level fields must be read before the click: opening the detail
	// can alter or hide the row.
	rowServing := extract.RowServingSize(row.Row)
	labels := extract.DietaryLabels(row.Row)

	detail, err := rc.nav.OpenItemDetail(ctx, row)
	if err != nil {
		if errors.Is(err, navigate.ErrDetailNotFound) {
			// The overlay never appeared; there is nothing to extract and
			// nothing to close.
			slog.Warn("detail overlay not found, skipping item",
				"item", truncate(row.Name, progressNameLen))
			return nil
		}
		return err
	}

	text := extract.Flatten(detail.HTML())
	fields := extract.Extract(text, extract.NutritionFields)
	ingredients := extract.Ingredients(text)

	if err := rc.nav.CloseDetail(ctx); err != nil {
		return err
	}

	serving := fields["serving_size"]
	if serving == "" {
		serving = rowServing
	}

	rc.data.Append(menu.NutritionRecord{
		Restaurant:    restaurant,
		MealPeriod:    period,
		ItemName:      row.Name,
		ServingSize:   serving,
		DietaryLabels: labels,
		Calories:      fields["calories"],
		TotalFat:      fields["total_fat_g"],
		SaturatedFat:  fields["saturated_fat_g"],
		TransFat:      fields["trans_fat_g"],
		Cholesterol:   fields["cholesterol_mg"],
		Sodium:        fields["sodium_mg"],
		TotalCarbs:    fields["total_carbs_g"],
		Fiber:         fields["fiber_g"],
		Sugars:        fields["sugars_g"],
		Protein:       fields["protein_g"],
		Ingredients:   ingredients,
	})
	rc.stats.Records++
	return nil
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
}

func isCancel(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
