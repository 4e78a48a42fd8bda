package models

// Product is the rule-engine view of one scanned product: whatever text
// we have about it, however it was obtained.
type Product struct {
	Name        string   `json:"name,omitempty"`
	RawText     string   `json:"raw_text,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Preferences gate the optional hazard rules. Each field switches exactly
// one rule category; rules without a gate always run.
type Preferences struct {
	FragranceFree bool `json:"fragranceFree"`
	BleachFree    bool `json:"bleachFree"`
	AmmoniaFree   bool `json:"ammoniaFree"`
	AvoidQuats    bool `json:"avoidQuats"`
	SensitiveMode bool `json:"sensitiveMode"`
}

// DefaultPreferences returns the defaults applied when a request omits
// preferences or individual keys.
func DefaultPreferences() Preferences {
	return Preferences{FragranceFree: true}
}

// Flag severity levels.
const (
	FlagInfo    = "info"
	FlagCaution = "caution"
)

// Flag is one rule-engine finding for a product.
type Flag struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
	Level  string `json:"level"`
}

// Overall score buckets, least to most severe.
const (
	OverallKeep         = "keep"
	OverallUseWithCare  = "use_with_care"
	OverallConsiderSwap = "consider_swap"
)

// ScoreResult is what the rule engine produces for one product.
type ScoreResult struct {
	Flags        []Flag   `json:"flags"`
	HandlingTips []string `json:"handlingTips"`
	Overall      string   `json:"overall"`
}

// SwapSuggestion is one alternative-product recommendation derived from
// the active flags.
type SwapSuggestion struct {
	Title string `json:"title"`
	Why   string `json:"why"`
	Type  string `json:"type"`
}
