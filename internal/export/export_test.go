package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinescrape/internal/menu"
)

func sampleDataset() *menu.Dataset {
	ds := &menu.Dataset{}
	ds.Append(menu.NutritionRecord{
		Restaurant:    "Sprout",
		MealPeriod:    "Lunch",
		ItemName:      `Chicken "Parm" Sandwich`,
		ServingSize:   "1 each",
		DietaryLabels: "",
		Calories:      "540",
		TotalFat:      "21",
		Ingredients:   "Chicken, marinara, mozzarella, basil",
	})
	ds.Append(menu.NutritionRecord{
		Restaurant: "The Skillet",
		MealPeriod: "All Day",
		ItemName:   "Home Fries",
		Calories:   "310",
		TransFat:   "NA",
	})
	return ds
}

func TestToCSVQuotesEveryValue(t *testing.T) {
	out, err := NewContent(sampleDataset()).ToCSV()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], `"restaurant","meal_period"`))
	// empty fields still render as a quoted empty string
	assert.Contains(t, lines[1], `,"",`)
	// internal quotes are doubled
	assert.Contains(t, lines[1], `"Chicken ""Parm"" Sandwich"`)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, `"`))
		assert.True(t, strings.HasSuffix(line, `"`))
	}
}

func TestToCSVRoundTrips(t *testing.T) {
	out, err := NewContent(sampleDataset()).ToCSV()
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, menu.Fields, rows[0])
	assert.Equal(t, `Chicken "Parm" Sandwich`, rows[1][2])
	assert.Equal(t, "NA", rows[2][8])
	for _, row := range rows {
		assert.Len(t, row, len(menu.Fields))
	}
}

func TestToJSON(t *testing.T) {
	out, err := NewContent(sampleDataset()).ToJSON()
	require.NoError(t, err)

	var records []menu.NutritionRecord
	require.NoError(t, json.Unmarshal(out, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Home Fries", records[1].ItemName)
	assert.Equal(t, "NA", records[1].TransFat)
}

func TestToMarkdown(t *testing.T) {
	ds := &menu.Dataset{}
	ds.Append(menu.NutritionRecord{
		Restaurant: "Sprout",
		ItemName:   "Rice | Beans",
	})

	out, err := NewContent(ds).ToMarkdown()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "| restaurant |")
	assert.Contains(t, lines[2], `Rice \| Beans`)
}

func TestEmptyDataset(t *testing.T) {
	empty := NewContent(&menu.Dataset{})

	_, err := empty.ToCSV()
	assert.ErrorIs(t, err, ErrNoRecords)
	_, err = empty.ToJSON()
	assert.ErrorIs(t, err, ErrNoRecords)
	_, err = empty.ToMarkdown()
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "duke_dining_complete_2026-03-14T09-26-53Z.csv", Filename(now, "csv"))
	assert.Equal(t, "duke_dining_complete_2026-03-14T09-26-53Z.json", Filename(now, "json"))
	assert.Equal(t, "duke_dining_complete_2026-03-14T09-26-53Z.md", Filename(now, "markdown"))

	est := time.FixedZone("EST", -5*3600)
	local := time.Date(2026, 3, 14, 4, 26, 53, 0, est)
	assert.Equal(t, Filename(now, "csv"), Filename(local, "csv"), "timestamps normalize to UTC")
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	path, err := Write(sampleDataset(), "csv", dir, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "duke_dining_complete_2026-03-14T09-26-53Z.csv"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"Home Fries"`)
}

func TestWriteEmptyDatasetWritesNothing(t *testing.T) {
	dir := t.TempDir()

	_, err := Write(&menu.Dataset{}, "csv", dir, time.Now())
	assert.ErrorIs(t, err, ErrNoRecords)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteUnsupportedFormat(t *testing.T) {
	_, err := Write(sampleDataset(), "xml", t.TempDir(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestWriteFileExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.json")
	require.NoError(t, WriteFile(sampleDataset(), "json", path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(b))
}
