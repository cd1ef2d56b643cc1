package domain

import (
	"maps"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Recipe is the amount of water and coffee one drink consumes.
type Recipe struct {
	WaterML int `json:"water_ml" yaml:"water_ml"`
	CoffeeG int `json:"coffee_g" yaml:"coffee_g"`
}

// Drink names in catalog order.
const (
	Espresso       = "espresso"
	DoubleEspresso = "double_espresso"
	Ristretto      = "ristretto"
	Americano      = "americano"
)

// drinkNames fixes the order drinks are listed in messages.
var drinkNames = []string{Espresso, DoubleEspresso, Ristretto, Americano}

var recipes = map[string]Recipe{
	Espresso:       {WaterML: 24, CoffeeG: 8},
	DoubleEspresso: {WaterML: 48, CoffeeG: 16},
	Ristretto:      {WaterML: 16, CoffeeG: 8},
	Americano:      {WaterML: 148, CoffeeG: 16},
}

// maxSuggestionDistance bounds how far a misspelt drink may be from a
// catalog name before no suggestion is offered.
const maxSuggestionDistance = 2

// Recipes returns a copy of the catalog.
func Recipes() map[string]Recipe { return maps.Clone(recipes) }

// DrinkNames returns the catalog's drink names in catalog order.
func DrinkNames() []string { return append([]string(nil), drinkNames...) }

// LookupRecipe returns the recipe for drink.
func LookupRecipe(drink string) (Recipe, bool) {
	r, ok := recipes[drink]
	return r, ok
}

// Label renders a drink name for people: "double_espresso" becomes
// "Double Espresso".
func Label(drink string) string {
	return cases.Title(language.English).String(DisplayName(drink))
}

// DisplayName replaces underscores with spaces: "double espresso".
func DisplayName(drink string) string {
	return strings.ReplaceAll(drink, "_", " ")
}

// suggestDrink returns the catalog name closest to drink when it is within
// maxSuggestionDistance edits.
func suggestDrink(drink string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(drink))
	if needle == "" {
		return "", false
	}

	best, bestDist := "", maxSuggestionDistance+1
	for _, name := range drinkNames {
		if d := levenshtein.ComputeDistance(needle, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best, best != ""
}
