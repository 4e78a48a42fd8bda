package extract

import (
	"encoding/json"
	"strings"
)

// rawExtraction is the loose intermediate shape we accept from the model
// before hardening. Missing fields are fine; they get defaulted later.
type rawExtraction struct {
	Ingredients []rawIngredient `json:"ingredients"`
	Summary     string          `json:"summary"`
}

type rawIngredient struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Risk  string `json:"risk"`
	Notes string `json:"notes"`
}

// parseModelJSON recovers a rawExtraction from model output in three tiers:
//  1. strip markdown fences and parse directly
//  2. slice between the first '{' and the last '}' and reparse
//  3. give up with a malformed-output error
func parseModelJSON(text string) (*rawExtraction, error) {
	stripped := stripFences(text)

	var out rawExtraction
	if err := json.Unmarshal([]byte(stripped), &out); err == nil {
		return &out, nil
	}

	if sliced, ok := braceSlice(stripped); ok {
		if err := json.Unmarshal([]byte(sliced), &out); err == nil {
			return &out, nil
		}
	}

	return nil, serviceErr(KindMalformed, "malformed model output")
}

// stripFences removes leading/trailing markdown code fences, with or
// without a language tag.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		// drop a language tag like "json" on the opening fence
		if idx := strings.Index(s, "\n"); idx >= 0 {
			first := strings.TrimSpace(s[:idx])
			if len(first) > 0 && len(first) <= 10 && !strings.ContainsAny(first, "{}") {
				s = s[idx+1:]
			}
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// braceSlice returns the substring from the first '{' to the last '}'.
func braceSlice(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
