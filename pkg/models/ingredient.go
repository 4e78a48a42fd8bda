package models

// Risk levels. Every ingredient carries exactly one of these; anything
// else coming from the model or the store is normalized first.
const (
	RiskSafe    = "safe"
	RiskCaution = "caution"
	RiskAvoid   = "avoid"
)

// Source points at where a classification or note came from.
type Source struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Ingredient is one resolved entry in a scan result. It is built per
// request by the aggregator and never persisted.
type Ingredient struct {
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Risk            string   `json:"risk"`
	Notes           string   `json:"notes,omitempty"`
	RegulatoryNotes string   `json:"regulatoryNotes,omitempty"`
	Sources         []Source `json:"sources,omitempty"`
	HealthFlags     []string `json:"healthFlags,omitempty"`
	Category        string   `json:"category,omitempty"`
	Aliases         []string `json:"aliases,omitempty"`
}

// IngredientRecord is the authoritative overlay row for one slug.
// Records are written by the seeding process only; the scan pipeline
// reads them and, when present, they override AI-derived fields.
type IngredientRecord struct {
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Risk            string   `json:"risk"`
	Notes           string   `json:"notes,omitempty"`
	RegulatoryNotes string   `json:"regulatoryNotes,omitempty"`
	Category        string   `json:"category,omitempty"`
	Sources         []Source `json:"sources,omitempty"`
	Aliases         []string `json:"aliases,omitempty"`
	HealthFlags     []string `json:"healthFlags,omitempty"`
}

// ScanResult is the response shape for one scan.
type ScanResult struct {
	ScanID      string       `json:"scan_id,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	OverallRisk string       `json:"overallRisk"`
	Summary     string       `json:"summary"`
}
