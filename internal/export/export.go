// Package export serializes the accumulated dataset. CSV is the primary
// artifact; JSON and Markdown renditions exist for downstream tooling
// that prefers them.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dinescrape/internal/menu"
)

// ErrNoRecords is returned when an export is attempted with an empty
// dataset. An empty run is an error, never a zero-row file.
var ErrNoRecords = errors.New("no records to export")

// filenamePrefix and the timestamp layout give artifacts names like
// duke_dining_complete_2026-08-23T14-03-05Z.csv.
const (
	filenamePrefix  = "duke_dining_complete_"
	timestampLayout = "2006-01-02T15-04-05Z"
)

// Content renders the dataset in the supported output formats.
type Content struct {
	ds *menu.Dataset
}

// NewContent wraps a dataset for rendering. The dataset is read, never
// modified.
func NewContent(ds *menu.Dataset) *Content {
	return &Content{ds: ds}
}

// ToCSV renders a header row plus one row per record. Every value is
// double-quote-enclosed with internal quotes doubled, so empty fields
// appear as "" and values containing commas or quotes survive a
// round-trip through any standard CSV parser.
func (c *Content) ToCSV() (string, error) {
	if c.ds.Len() == 0 {
		return "", ErrNoRecords
	}
	var sb strings.Builder
	writeRow(&sb, menu.Fields)
	for _, r := range c.ds.Records() {
		writeRow(&sb, r.Values())
	}
	return sb.String(), nil
}

func writeRow(sb *strings.Builder, values []string) {
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(v, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
}

// ToJSON renders the records as an indented JSON array.
func (c *Content) ToJSON() ([]byte, error) {
	if c.ds.Len() == 0 {
		return nil, ErrNoRecords
	}
	return json.MarshalIndent(c.ds.Records(), "", "  ")
}

// ToMarkdown renders one table with the same columns as the CSV.
func (c *Content) ToMarkdown() (string, error) {
	if c.ds.Len() == 0 {
		return "", ErrNoRecords
	}
	var sb strings.Builder
	sb.WriteString("|")
	for _, f := range menu.Fields {
		sb.WriteString(" " + f + " |")
	}
	sb.WriteString("\n|")
	for range menu.Fields {
		sb.WriteString("---|")
	}
	sb.WriteString("\n")
	for _, r := range c.ds.Records() {
		sb.WriteString("|")
		for _, v := range r.Values() {
			sb.WriteString(" " + strings.ReplaceAll(v, "|", "\\|") + " |")
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// ToText renders plain text (delegates to ToMarkdown).
func (c *Content) ToText() (string, error) {
	return c.ToMarkdown()
}

// Filename builds the timestamped artifact name for the given format.
// The timestamp is UTC at seconds precision with ":" and "." replaced by
// "-" so the name is safe on every filesystem.
func Filename(now time.Time, format string) string {
	ext := map[string]string{"csv": ".csv", "json": ".json", "markdown": ".md"}[format]
	if ext == "" {
		ext = ".csv"
	}
	return filenamePrefix + now.UTC().Format(timestampLayout) + ext
}

func render(ds *menu.Dataset, format string) (string, error) {
	content := NewContent(ds)
	switch format {
	case "csv":
		return content.ToCSV()
	case "json":
		b, err := content.ToJSON()
		return string(b), err
	case "markdown":
		return content.ToMarkdown()
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// Write renders the dataset in the given format and writes it to dir
// under the timestamped name, returning the full path. An empty dataset
// writes nothing and returns ErrNoRecords.
func Write(ds *menu.Dataset, format, dir string, now time.Time) (string, error) {
	out, err := render(ds, format)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename(now, format))
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteFile renders the dataset and writes it to an explicit path,
// bypassing the timestamped naming.
func WriteFile(ds *menu.Dataset, format, path string) error {
	out, err := render(ds, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
