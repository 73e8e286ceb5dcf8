package parsing

import "strings"

// unitSynonyms maps raw unit spellings to the canonical unit vocabulary.
// The lowercase "l" entry keeps normalization idempotent for liters.
var unitSynonyms = map[string]string{
	"lb":           "kg",
	"lbs":          "kg",
	"pound":        "kg",
	"pounds":       "kg",
	"oz":           "g",
	"ounce":        "g",
	"ounces":       "g",
	"gal":          "L",
	"gallon":       "L",
	"gallons":      "L",
	"qt":           "L",
	"quart":        "L",
	"quarts":       "L",
	"l":            "L",
	"pt":           "ml",
	"pint":         "ml",
	"pints":        "ml",
	"fl oz":        "ml",
	"fluid ounce":  "ml",
	"fluid ounces": "ml",
	"piece":        "ea",
	"pieces":       "ea",
	"each":         "ea",
	"item":         "ea",
	"items":        "ea",
	"box":          "box",
	"boxes":        "box",
	"case":         "case",
	"cases":        "case",
	"bag":          "bag",
	"bags":         "bag",
	"bottle":       "bottle",
	"bottles":      "bottle",
	"can":          "can",
	"cans":         "can",
	"jar":          "jar",
	"jars":         "jar",
}

// NormalizeUnit maps a raw unit token to the canonical unit vocabulary.
// Unknown units pass through lower-cased, unchanged.
func NormalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := unitSynonyms[u]; ok {
		return canonical
	}
	return u
}
