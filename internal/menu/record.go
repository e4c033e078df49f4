package menu

// Restaurant is one entry of the static dining-location list. ExternalID is
// the identifier the menu site uses for the location; it must be unique
// across the configured list.
type Restaurant struct {
	Name       string `mapstructure:"name" json:"name"`
	ExternalID int    `mapstructure:"id" json:"id"`
}

// Fields is the column order of every exported record. The CSV header and
// every row follow this order exactly.
var Fields = []string{
	"restaurant",
	"meal_period",
	"item_name",
	"serving_size",
	"dietary_labels",
	"calories",
	"total_fat_g",
	"saturated_fat_g",
	"trans_fat_g",
	"cholesterol_mg",
	"sodium_mg",
	"total_carbs_g",
	"fiber_g",
	"sugars_g",
	"protein_g",
	"ingredients",
}

// NutritionRecord is one scraped menu item, flattened for export. Numeric
// fields keep the raw extracted text (possibly empty, possibly "NA",
// possibly carrying a unit suffix); nothing here coerces or validates them.
type NutritionRecord struct {
	Restaurant    string `json:"restaurant"`
	MealPeriod    string `json:"meal_period"`
	ItemName      string `json:"item_name"`
	ServingSize   string `json:"serving_size"`
	DietaryLabels string `json:"dietary_labels"`
	Calories      string `json:"calories"`
	TotalFat      string `json:"total_fat_g"`
	SaturatedFat  string `json:"saturated_fat_g"`
	TransFat      string `json:"trans_fat_g"`
	Cholesterol   string `json:"cholesterol_mg"`
	Sodium        string `json:"sodium_mg"`
	TotalCarbs    string `json:"total_carbs_g"`
	Fiber         string `json:"fiber_g"`
	Sugars        string `json:"sugars_g"`
	Protein       string `json:"protein_g"`
	Ingredients   string `json:"ingredients"`
}

// Values returns the record's field values in Fields order.
func (r NutritionRecord) Values() []string {
	return []string{
		r.Restaurant,
		r.MealPeriod,
		r.ItemName,
		r.ServingSize,
		r.DietaryLabels,
		r.Calories,
		r.TotalFat,
		r.SaturatedFat,
		r.TransFat,
		r.Cholesterol,
		r.Sodium,
		r.TotalCarbs,
		r.Fiber,
		r.Sugars,
		r.Protein,
		r.Ingredients,
	}
}

// Dataset accumulates records in discovery order for the lifetime of one
// run. It only ever grows; records are never rewritten or deduplicated.
type Dataset struct {
	records []NutritionRecord
}

// Append adds one record to the end of the dataset.
func (d *Dataset) Append(r NutritionRecord) {
	d.records = append(d.records, r)
}

// Len reports the number of accumulated records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns the accumulated records in insertion order.
func (d *Dataset) Records() []NutritionRecord {
	return d.records
}
