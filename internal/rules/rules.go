// Package rules scores a product's text against fixed hazard term sets.
// Matching is plain substring containment on a lowercased haystack: cheap,
// auditable, and biased toward recall, which is the right bias for a
// safety tool.
package rules

import (
	"strings"

	"shelfsafe/pkg/models"
)

// rule is one table entry. Gate nil means the rule always runs. Tips are
// appended in table order whenever the rule fires; sensitiveTips only when
// the sensitive-mode preference is on. Overlapping advice across rules is
// left as-is.
type rule struct {
	id            string
	title         string
	reason        string
	level         string
	gate          func(models.Preferences) bool
	terms         []string
	tips          []string
	sensitiveTips []string
}

// Table order is part of the contract: it fixes the order of flags and of
// accumulated handling tips.
var ruleTable = []rule{
	{
		id:     "contains_fragrance",
		title:  "Contains fragrance",
		reason: "Added fragrance can trigger headaches and skin or airway irritation.",
		level:  models.FlagInfo,
		gate:   func(p models.Preferences) bool { return p.FragranceFree },
		terms:  []string{"fragrance", "parfum", "perfume", "fragrant oil"},
	},
	{
		id:     "contains_bleach",
		title:  "Contains bleach",
		reason: "Chlorine bleach is a strong oxidizer and respiratory irritant.",
		level:  models.FlagCaution,
		gate:   func(p models.Preferences) bool { return p.BleachFree },
		terms:  []string{"bleach", "sodium hypochlorite", "hypochlorite", "chlorine"},
		tips:   []string{"Never mix bleach products with acids or ammonia: the combination releases toxic gas."},
	},
	{
		id:     "contains_ammonia",
		title:  "Contains ammonia",
		reason: "Ammonia fumes irritate eyes and airways, especially in small rooms.",
		level:  models.FlagCaution,
		gate:   func(p models.Preferences) bool { return p.AmmoniaFree },
		terms:  []string{"ammonia", "ammonium hydroxide"},
		tips:   []string{"Never mix ammonia products with bleach: the combination releases chloramine gas."},
	},
	{
		id:     "contains_quats",
		title:  "Contains quaternary ammonium compounds",
		reason: "Quats are linked to skin sensitization and asthma with repeated exposure.",
		level:  models.FlagInfo,
		gate:   func(p models.Preferences) bool { return p.AvoidQuats },
		terms: []string{
			"quaternary ammonium", "benzalkonium chloride", "didecyldimethylammonium",
			"alkyl dimethyl benzyl ammonium",
		},
	},
	{
		id:     "corrosive_warning",
		title:  "Corrosive warning",
		reason: "The label carries burn or corrosion warnings.",
		level:  models.FlagCaution,
		terms:  []string{"corrosive", "causes burns", "causes severe burns", "may cause burns"},
		tips:   []string{"Wear gloves and eye protection when handling this product."},
	},
	{
		id:     "strong_alkali",
		title:  "Strong alkali",
		reason: "Strong alkalis destroy skin tissue on contact.",
		level:  models.FlagCaution,
		terms:  []string{"sodium hydroxide", "potassium hydroxide", "caustic soda", "lye"},
		tips:   []string{"Keep away from skin and aluminum surfaces; rinse splashes with plenty of water."},
	},
	{
		id:     "strong_acid",
		title:  "Strong acid",
		reason: "Strong acids burn skin and give off harsh fumes.",
		level:  models.FlagCaution,
		terms:  []string{"hydrochloric acid", "muriatic acid", "sulfuric acid", "phosphoric acid"},
		tips:   []string{"Use only with good ventilation and never in a closed bathroom."},
	},
	{
		id:     "contains_solvents",
		title:  "Contains solvents",
		reason: "Solvent vapors can cause dizziness and irritate airways.",
		level:  models.FlagInfo,
		terms: []string{
			"acetone", "isopropyl alcohol", "ethanol", "2-butoxyethanol",
			"glycol ether", "toluene", "xylene", "mineral spirits",
		},
		sensitiveTips: []string{"Open a window while using solvent-based products and take breaks in fresh air."},
	},
	{
		id:     "aerosol_product",
		title:  "Aerosol product",
		reason: "Aerosols spread fine droplets that are easy to inhale.",
		level:  models.FlagInfo,
		terms:  []string{"aerosol", "propellant", "pressurized container", "do not puncture"},
	},
}

// Escalation policy constants. The threshold is a heuristic carried over
// from field use, not a weighted score; tune here if it proves too eager.
const swapFlagThreshold = 3

// Score evaluates the rule table against the product in fixed order.
// Total: it never fails, and an empty product yields no flags.
func Score(product models.Product, prefs models.Preferences) models.ScoreResult {
	haystack := buildHaystack(product)

	result := models.ScoreResult{
		Flags:        []models.Flag{},
		HandlingTips: []string{},
		Overall:      models.OverallKeep,
	}

	for _, r := range ruleTable {
		if r.gate != nil && !r.gate(prefs) {
			continue
		}
		if !matchesAny(haystack, r.terms) {
			continue
		}
		result.Flags = append(result.Flags, models.Flag{
			ID:     r.id,
			Title:  r.title,
			Reason: r.reason,
			Level:  r.level,
		})
		result.HandlingTips = append(result.HandlingTips, r.tips...)
		if prefs.SensitiveMode {
			result.HandlingTips = append(result.HandlingTips, r.sensitiveTips...)
		}
	}

	result.Overall = overallBucket(result.Flags)
	return result
}

func buildHaystack(product models.Product) string {
	parts := make([]string, 0, 2+len(product.Ingredients)+len(product.Warnings))
	parts = append(parts, product.Name, product.RawText)
	parts = append(parts, product.Ingredients...)
	parts = append(parts, product.Warnings...)
	return strings.ToLower(strings.Join(parts, " "))
}

func matchesAny(haystack string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

// overallBucket: keep by default; use_with_care once any caution-level
// flag fired; consider_swap when at least swapFlagThreshold flags fired
// and one of them is a corrosive or strong_* finding.
func overallBucket(flags []models.Flag) string {
	anyCaution := false
	severe := false
	for _, f := range flags {
		if f.Level == models.FlagCaution {
			anyCaution = true
		}
		if strings.Contains(f.ID, "corrosive") || strings.HasPrefix(f.ID, "strong_") {
			severe = true
		}
	}

	if len(flags) >= swapFlagThreshold && severe {
		return models.OverallConsiderSwap
	}
	if anyCaution {
		return models.OverallUseWithCare
	}
	return models.OverallKeep
}
