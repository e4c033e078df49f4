package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinescrape/internal/menu"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dinescrape.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://netnutrition.cbord.com/nn-prod/Duke", cfg.Scrape.BaseURL)
	assert.Equal(t, DefaultMealPeriods, cfg.Scrape.MealPeriods)
	assert.Zero(t, cfg.Scrape.MaxItemsPerPage)

	assert.Equal(t, 700*time.Millisecond, cfg.Delays.BetweenClicks)
	assert.Equal(t, 400*time.Millisecond, cfg.Delays.AfterExpand)
	assert.Equal(t, 1500*time.Millisecond, cfg.Delays.AfterRestaurant)
	assert.Equal(t, 300*time.Millisecond, cfg.Delays.AfterClose)

	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Equal(t, DefaultRestaurants, cfg.Restaurants)
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
scrape:
  base_url: http://localhost:9999/menu
  max_items_per_page: 3
delays:
  between_clicks: 50ms
output:
  format: json
restaurants:
  - name: Sprout
    id: 7
  - name: The Skillet
    id: 6
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/menu", cfg.Scrape.BaseURL)
	assert.Equal(t, 3, cfg.Scrape.MaxItemsPerPage)
	assert.Equal(t, 50*time.Millisecond, cfg.Delays.BetweenClicks)
	assert.Equal(t, 400*time.Millisecond, cfg.Delays.AfterExpand, "unset keys keep defaults")
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, []menu.Restaurant{
		{Name: "Sprout", ExternalID: 7},
		{Name: "The Skillet", ExternalID: 6},
	}, cfg.Restaurants)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFileInSearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dinescrape.yaml"), []byte("scrape: [unclosed"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// A broken config found by the default search must fail loudly, not
	// degrade into a defaults-only run.
	_, err = Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadMalformedExplicitFile(t *testing.T) {
	path := writeConfig(t, "scrape: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := writeConfig(t, `
restaurants:
  - name: Sprout
    id: 7
  - name: Copy of Sprout
    id: 7
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share id 7")
}

func TestLoadRejectsUnnamedRestaurant(t *testing.T) {
	path := writeConfig(t, `
restaurants:
  - id: 42
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no name")
}

func TestLoadRejectsNonPositiveDelay(t *testing.T) {
	path := writeConfig(t, `
delays:
  after_close: 0s
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after_close")
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := writeConfig(t, `
output:
  format: parquet
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parquet")
}

func TestFilterRestaurants(t *testing.T) {
	base := []menu.Restaurant{
		{Name: "Sprout", ExternalID: 7},
		{Name: "The Skillet", ExternalID: 6},
		{Name: "Il Forno", ExternalID: 3},
	}

	t.Run("empty filter keeps everything", func(t *testing.T) {
		cfg := &Config{Restaurants: base}
		require.NoError(t, cfg.FilterRestaurants(nil))
		assert.Equal(t, base, cfg.Restaurants)
	})

	t.Run("case-insensitive, request order", func(t *testing.T) {
		cfg := &Config{Restaurants: base}
		require.NoError(t, cfg.FilterRestaurants([]string{"il forno", "SPROUT"}))
		assert.Equal(t, []menu.Restaurant{
			{Name: "Il Forno", ExternalID: 3},
			{Name: "Sprout", ExternalID: 7},
		}, cfg.Restaurants)
	})

	t.Run("unknown name is an error", func(t *testing.T) {
		cfg := &Config{Restaurants: base}
		err := cfg.FilterRestaurants([]string{"Sprout", "Waffle Palace"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Waffle Palace")
	})
}

func TestDefaultRestaurantsAreValid(t *testing.T) {
	seen := make(map[int]bool)
	for _, r := range DefaultRestaurants {
		assert.NotEmpty(t, r.Name)
		assert.False(t, seen[r.ExternalID], "duplicate id %d", r.ExternalID)
		seen[r.ExternalID] = true
	}
}
