// Package swap maps active hazard flags to a short, deterministic list of
// alternative-product suggestions.
package swap

import (
	"strings"

	"shelfsafe/pkg/models"
)

// maxSuggestions caps the returned list, baseline included.
const maxSuggestions = 4

type swapRule struct {
	match func(flagID string) bool
	entry models.SwapSuggestion
}

// Priority table: evaluated top to bottom against the fired flag ids, so
// the output order is flag-driven and stable.
var swapTable = []swapRule{
	{
		match: func(id string) bool { return id == "contains_bleach" },
		entry: models.SwapSuggestion{
			Title: "Oxygen-based whitener (sodium percarbonate)",
			Why:   "Brightens and disinfects laundry and surfaces without chlorine fumes.",
			Type:  "bleach_alternative",
		},
	},
	{
		match: func(id string) bool { return id == "contains_fragrance" },
		entry: models.SwapSuggestion{
			Title: "Fragrance-free version of the same product type",
			Why:   "Same cleaning power without added scent chemicals.",
			Type:  "fragrance_free",
		},
	},
	{
		match: func(id string) bool { return id == "aerosol_product" },
		entry: models.SwapSuggestion{
			Title: "Pump-spray or wipe format",
			Why:   "Avoids inhalable aerosol mist and propellants.",
			Type:  "non_aerosol",
		},
	},
	{
		match: func(id string) bool { return id == "contains_quats" },
		entry: models.SwapSuggestion{
			Title: "Hydrogen peroxide based disinfectant",
			Why:   "Disinfects without quaternary ammonium compounds.",
			Type:  "quat_free",
		},
	},
	{
		match: func(id string) bool {
			return strings.HasPrefix(id, "strong_") || strings.Contains(id, "corrosive")
		},
		entry: models.SwapSuggestion{
			Title: "Diluted vinegar or citric acid cleaner",
			Why:   "Handles most household mineral deposits without burn-hazard chemistry.",
			Type:  "mild_alternative",
		},
	},
}

// baseline is always present; it closes the list before truncation.
var baseline = models.SwapSuggestion{
	Title: "Microfiber cloth with warm water",
	Why:   "Covers everyday dust and grime with no chemical exposure at all.",
	Type:  "baseline",
}

// Suggest returns up to maxSuggestions entries for the fired flags. The
// baseline entry is always appended; duplicates per table row are not
// possible because each row fires at most once.
func Suggest(flags []models.Flag, prefs models.Preferences) []models.SwapSuggestion {
	out := make([]models.SwapSuggestion, 0, maxSuggestions)

	for _, rule := range swapTable {
		for _, f := range flags {
			if rule.match(f.ID) {
				out = append(out, rule.entry)
				break
			}
		}
	}

	out = append(out, baseline)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
