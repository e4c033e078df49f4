package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"dinescrape/internal/menu"
)

// Config holds all configuration for a scrape run.
type Config struct {
	Scrape      ScrapeConfig      `mapstructure:"scrape"`
	Delays      DelayConfig       `mapstructure:"delays"`
	Output      OutputConfig      `mapstructure:"output"`
	Restaurants []menu.Restaurant `mapstructure:"restaurants"`
}

// ScrapeConfig holds traversal-related settings.
type ScrapeConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// MealPeriods is the closed vocabulary of meal-period labels the
	// structure detector recognizes on a restaurant page.
	MealPeriods []string `mapstructure:"meal_periods"`
	// MaxItemsPerPage caps items processed per page for validation runs.
	// Zero means no cap.
	MaxItemsPerPage int `mapstructure:"max_items_per_page"`
}

// DelayConfig holds the settle delays applied after navigation actions.
// The menu site gives no "render finished" signal, so each action waits a
// fixed duration before the page is inspected again.
type DelayConfig struct {
	BetweenClicks   time.Duration `mapstructure:"between_clicks"`
	AfterExpand     time.Duration `mapstructure:"after_expand"`
	AfterRestaurant time.Duration `mapstructure:"after_restaurant"`
	AfterClose      time.Duration `mapstructure:"after_close"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"` // csv, json or markdown
}

// Load loads configuration from an optional config file and environment
// variables. An empty path searches the usual locations for
// dinescrape.yaml; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dinescrape")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("DINESCRAPE")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A file that simply isn't there is fine; a file that exists but
		// cannot be read or parsed must never degrade into a silent
		// defaults-only run.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scrape.base_url", "https://netnutrition.cbord.com/nn-prod/Duke")
	v.SetDefault("scrape.meal_periods", DefaultMealPeriods)
	v.SetDefault("scrape.max_items_per_page", 0)

	v.SetDefault("delays.between_clicks", "700ms")
	v.SetDefault("delays.after_expand", "400ms")
	v.SetDefault("delays.after_restaurant", "1500ms")
	v.SetDefault("delays.after_close", "300ms")

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", "csv")

	rests := make([]map[string]any, len(DefaultRestaurants))
	for i, r := range DefaultRestaurants {
		rests[i] = map[string]any{"name": r.Name, "id": r.ExternalID}
	}
	v.SetDefault("restaurants", rests)
}

func validate(cfg *Config) error {
	if len(cfg.Restaurants) == 0 {
		return fmt.Errorf("restaurant list is empty")
	}
	seen := make(map[int]string, len(cfg.Restaurants))
	for _, r := range cfg.Restaurants {
		if r.Name == "" {
			return fmt.Errorf("restaurant with id %d has no name", r.ExternalID)
		}
		if prev, ok := seen[r.ExternalID]; ok {
			return fmt.Errorf("restaurants %q and %q share id %d", prev, r.Name, r.ExternalID)
		}
		seen[r.ExternalID] = r.Name
	}

	for name, d := range map[string]time.Duration{
		"delays.between_clicks":   cfg.Delays.BetweenClicks,
		"delays.after_expand":     cfg.Delays.AfterExpand,
		"delays.after_restaurant": cfg.Delays.AfterRestaurant,
		"delays.after_close":      cfg.Delays.AfterClose,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, d)
		}
	}

	switch cfg.Output.Format {
	case "csv", "json", "markdown":
	default:
		return fmt.Errorf("output format must be csv, json or markdown, got: %s", cfg.Output.Format)
	}

	return nil
}

// FilterRestaurants narrows the configured list to the given names
// (case-insensitive). Unknown names are reported so a typo does not
// silently scrape nothing.
func (c *Config) FilterRestaurants(names []string) error {
	if len(names) == 0 {
		return nil
	}
	byName := make(map[string]menu.Restaurant, len(c.Restaurants))
	for _, r := range c.Restaurants {
		byName[normalizeName(r.Name)] = r
	}
	var filtered []menu.Restaurant
	for _, n := range names {
		r, ok := byName[normalizeName(n)]
		if !ok {
			return fmt.Errorf("unknown restaurant: %q", n)
		}
		filtered = append(filtered, r)
	}
	c.Restaurants = filtered
	return nil
}
