package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shelfsafe/pkg/models"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sodium Hypochlorite", "sodium-hypochlorite"},
		{"  Citric   Acid!! ", "citric-acid"},
		{"2-Butoxyethanol", "2-butoxyethanol"},
		{"---", ""},
		{"", ""},
		{"Água Sanitária", "gua-sanit-ria"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Sodium Hypochlorite", "  mixed CASE  ", "a!!b??c", ""}
	for _, in := range inputs {
		once := Slugify(in)
		assert.Equal(t, once, Slugify(once), "input %q", in)
	}
}

func TestDedupeKeepsFirstCasing(t *testing.T) {
	got := Dedupe([]string{"Bleach", "BLEACH", "Vinegar"})
	assert.Equal(t, []string{"Bleach", "Vinegar"}, got)
}

func TestDedupeDropsEmptySlugs(t *testing.T) {
	got := Dedupe([]string{"", "  ", "!!!", "Soap"})
	assert.Equal(t, []string{"Soap"}, got)
}

func TestRisk(t *testing.T) {
	cases := map[string]string{
		"HIGH":      models.RiskAvoid,
		"avoid":     models.RiskAvoid,
		"severe":    models.RiskAvoid,
		"Very High": models.RiskAvoid,
		"Unknown":   models.RiskCaution,
		"moderate":  models.RiskCaution,
		"medium":    models.RiskCaution,
		" caution ": models.RiskCaution,
		"":          models.RiskSafe,
		"safe":      models.RiskSafe,
		"gibberish": models.RiskSafe,
	}
	for in, want := range cases {
		assert.Equal(t, want, Risk(in), "input %q", in)
	}
}

func TestOverallRisk(t *testing.T) {
	ings := []models.Ingredient{
		{Risk: "safe"},
		{Risk: "avoid"},
		{Risk: "caution"},
	}
	assert.Equal(t, models.RiskAvoid, OverallRisk(ings))
	assert.Equal(t, models.RiskSafe, OverallRisk(nil))
	assert.Equal(t, models.RiskCaution, OverallRisk([]models.Ingredient{{Risk: "caution"}}))
}
