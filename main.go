package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"dinescrape/internal/browser"
	"dinescrape/internal/config"
	"dinescrape/internal/export"
	"dinescrape/internal/page"
	"dinescrape/internal/scrape"
)

var version = "dev"

var (
	configPath   string
	outputFile   string
	outputFormat string
	outputDir    string
	showUI       bool
	proxyURL     string
	testMode     int
	restaurants  []string
	snapshotDir  string
	timeout      time.Duration
	verbose      bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "dinescrape",
		Short:   "Scrape Duke dining nutrition data into a CSV",
		Version: version,
		Long: `dinescrape drives a headless browser through the Duke dining menu
site, walks every configured restaurant, meal period and menu item,
extracts the nutrition facts from each item's detail overlay and writes
one flat CSV (or JSON/Markdown) artifact per run.`,
		Example: `  # Full run with defaults, CSV written to the current directory
  dinescrape

  # Validation run: at most 3 items per page, only two restaurants
  dinescrape --test-mode 3 --restaurant Sprout --restaurant "Il Forno"

  # Watch the browser work and write JSON
  dinescrape --showui -f json

  # Replay a run against saved HTML snapshots, no browser needed
  dinescrape --snapshot-dir ./snapshots -o out.csv`,
		Args:         cobra.NoArgs,
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: ./dinescrape.yaml if present)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (overrides the timestamped name)")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format (csv, json, markdown)")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the timestamped artifact")
	rootCmd.Flags().BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", os.Getenv("DINESCRAPE_PROXY"), "Proxy URL, defaults to DINESCRAPE_PROXY env var")
	rootCmd.Flags().IntVar(&testMode, "test-mode", 0, "Cap items processed per page (0 = no cap)")
	rootCmd.Flags().StringArrayVar(&restaurants, "restaurant", nil, "Restrict the run to the named restaurants (repeatable)")
	rootCmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "Replay saved HTML snapshots instead of driving a browser")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "Per-navigation timeout")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	})))

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if testMode > 0 {
		cfg.Scrape.MaxItemsPerPage = testMode
	}
	if err := cfg.FilterRestaurants(restaurants); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var session page.Page
	if snapshotDir != "" {
		snap, err := page.LoadDir(snapshotDir)
		if err != nil {
			return err
		}
		session = snap
	} else {
		b, err := browser.New(browser.Config{
			ProxyURL: proxyURL,
			Headless: !showUI,
		})
		if err != nil {
			return fmt.Errorf("failed to create browser: %w", err)
		}
		defer b.Close()

		p, err := b.NewPage()
		if err != nil {
			return fmt.Errorf("failed to create page: %w", err)
		}
		session = page.NewLive(p, timeout)
	}

	rc := scrape.NewRunContext(cfg, session)
	runErr := rc.Run(ctx)
	if runErr != nil {
		slog.Error("run aborted", "err", runErr)
	}

	// Export whatever was accumulated, even after a fatal error; partial
	// results are never discarded.
	ds := rc.Dataset()
	if ds.Len() == 0 {
		if runErr != nil {
			return fmt.Errorf("run failed with no records: %w", runErr)
		}
		return export.ErrNoRecords
	}

	var path string
	if outputFile != "" {
		path = outputFile
		err = export.WriteFile(ds, cfg.Output.Format, outputFile)
	} else {
		path, err = export.Write(ds, cfg.Output.Format, cfg.Output.Dir, time.Now())
	}
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Output written to: %s\n", path)

	return runErr
}
