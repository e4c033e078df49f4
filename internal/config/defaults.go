package config

import (
	"strings"

	"dinescrape/internal/menu"
)

// DefaultMealPeriods is the closed vocabulary of meal-period labels seen
// across the dining site. Matching is exact or by containment; labels on
// the page longer than 100 characters are never considered.
var DefaultMealPeriods = []string{
	"Breakfast",
	"Lunch",
	"Dinner",
	"Brunch",
	"All Day",
	"Specialty Drinks",
	"Combo Meal Menu",
	"Smoothies",
	"Lunch/Dinner",
	"Lunch and Dinner",
	"Lunch & Dinner",
	"Late Night",
	"All Day Service",
}

// DefaultRestaurants is the static allow-list of dining locations with the
// unit ids the menu site assigns them.
var DefaultRestaurants = []menu.Restaurant{
	{Name: "Marketplace", ExternalID: 1},
	{Name: "Il Forno", ExternalID: 3},
	{Name: "Sazon", ExternalID: 4},
	{Name: "Tandoor Indian Cuisine", ExternalID: 5},
	{Name: "The Skillet", ExternalID: 6},
	{Name: "Sprout", ExternalID: 7},
	{Name: "Ginger + Soy", ExternalID: 8},
	{Name: "Gyotaku", ExternalID: 9},
	{Name: "JB's Roast & Chops", ExternalID: 10},
	{Name: "The Devils Krafthouse", ExternalID: 11},
	{Name: "Farmstead", ExternalID: 12},
	{Name: "Cafe", ExternalID: 14},
	{Name: "Beyu Blue Coffee", ExternalID: 15},
	{Name: "Bseisu Coffee Bar", ExternalID: 16},
	{Name: "Red Mango", ExternalID: 17},
	{Name: "The Loop Pizza Grill", ExternalID: 18},
	{Name: "McDonald's", ExternalID: 19},
	{Name: "Panera Bread Company", ExternalID: 20},
	{Name: "Saladelia Cafe at Perkins", ExternalID: 21},
	{Name: "Trinity Cafe", ExternalID: 23},
	{Name: "Twinnie's", ExternalID: 24},
	{Name: "Zweli's Cafe at Duke Divinity", ExternalID: 25},
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
