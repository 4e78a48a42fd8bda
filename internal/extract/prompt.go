package extract

import (
	"fmt"
	"strings"
)

const extractionSchema = `{
  "ingredients": [{"name": "string", "slug": "string", "risk": "safe|caution|avoid", "notes": "string"}],
  "summary": "string"
}`

// freeTextPrompt asks the model to pull ingredients out of raw label text.
func freeTextPrompt(text string) string {
	return fmt.Sprintf(`You are an assistant that extracts cleaning-product ingredients from label text.

Return ONLY a JSON object matching this schema, with no markdown and no commentary:
%s

Rules:
- List each distinct ingredient once.
- risk must be exactly one of "safe", "caution", "avoid" based on typical household-use hazard.
- notes is a short plain-language hazard note, or "" if none.
- summary is one or two sentences for a non-expert.

Label text:
%s`, extractionSchema, text)
}

// classifyNamesPrompt asks the model to risk-classify an already known
// ingredient list.
func classifyNamesPrompt(names []string) string {
	return fmt.Sprintf(`You are an assistant that classifies cleaning-product ingredients by household-use hazard.

Return ONLY a JSON object matching this schema, with no markdown and no commentary:
%s

Rules:
- Include every listed ingredient exactly once, keeping the given name.
- risk must be exactly one of "safe", "caution", "avoid".
- notes is a short plain-language hazard note, or "" if none.
- summary is one or two sentences for a non-expert.

Ingredients:
%s`, extractionSchema, strings.Join(names, "\n"))
}

// imagePrompt accompanies one photographed label face.
func imagePrompt() string {
	return fmt.Sprintf(`You are an assistant that reads a photographed cleaning-product label.

Read all visible text, then return ONLY a JSON object matching this schema, with no markdown and no commentary:
%s

Rules:
- List each distinct ingredient you can read once.
- risk must be exactly one of "safe", "caution", "avoid".
- notes is a short plain-language hazard note, or "" if none.
- summary is one or two sentences for a non-expert.
- If no ingredients are legible, return an empty ingredients array.`, extractionSchema)
}
