// Package normalize holds the pure canonicalization helpers the whole
// pipeline keys on: name → slug, arbitrary risk labels → the fixed
// three-level scale, and slug-based deduplication.
package normalize

import (
	"strings"

	"shelfsafe/pkg/models"
)

// Slugify converts a display name to its canonical id: lowercase, any run
// of non [a-z0-9] characters becomes a single hyphen, leading/trailing
// hyphens trimmed. Empty input yields an empty slug; callers drop those.
func Slugify(raw string) string {
	s := strings.ToLower(raw)
	var b strings.Builder
	b.Grow(len(s))

	prevHyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		if !prevHyphen {
			b.WriteByte('-')
			prevHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// Dedupe keeps the first occurrence per slug, preserving that occurrence's
// original casing. Names that slugify to nothing are dropped.
func Dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		slug := Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		out = append(out, name)
	}
	return out
}

// Risk maps an arbitrary risk label onto the closed scale. Total: anything
// unrecognized lands on safe, except the high-severity synonyms.
func Risk(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "avoid", "high", "severe", "very high":
		return models.RiskAvoid
	case "caution", "moderate", "medium", "unknown":
		return models.RiskCaution
	default:
		return models.RiskSafe
	}
}

var riskSeverity = map[string]int{
	models.RiskSafe:    1,
	models.RiskCaution: 2,
	models.RiskAvoid:   3,
}

// OverallRisk returns the maximum severity across the set, "safe" when
// the set is empty.
func OverallRisk(ingredients []models.Ingredient) string {
	overall := models.RiskSafe
	max := riskSeverity[overall]
	for _, ing := range ingredients {
		if sev := riskSeverity[Risk(ing.Risk)]; sev > max {
			max = sev
			overall = Risk(ing.Risk)
		}
	}
	return overall
}
