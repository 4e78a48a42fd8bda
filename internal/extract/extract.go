// Package extract turns free-form label signals into a structured,
// risk-classified ingredient list by calling a generative model under a
// fixed JSON schema. It hardens whatever comes back and fails loudly with
// classified errors; degradation is the caller's job.
package extract

import (
	"context"
	"strings"

	"shelfsafe/internal/normalize"
)

// Image is one photographed label face, already base64-encoded by the
// capture layer.
type Image struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Input selects exactly one extraction mode: free text, an explicit name
// list, or a label image. Checked in that order.
type Input struct {
	FreeText        string
	IngredientNames []string
	Image           *Image
}

// Ingredient is one extracted entry, already normalized: risk on the fixed
// scale, slug recomputed from the name.
type Ingredient struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Risk  string `json:"risk"`
	Notes string `json:"notes,omitempty"`
}

// Extraction is the validated output of one model call.
type Extraction struct {
	Ingredients []Ingredient `json:"ingredients"`
	Summary     string       `json:"summary"`
}

// Extract runs one structured extraction call. It returns either a fully
// hardened Extraction or a classified error, never a partial result.
func (c *Client) Extract(ctx context.Context, input Input) (*Extraction, error) {
	parts, err := buildParts(input)
	if err != nil {
		return nil, err
	}

	text, err := c.generate(ctx, parts)
	if err != nil {
		return nil, err
	}

	raw, err := parseModelJSON(text)
	if err != nil {
		return nil, err
	}
	return harden(raw), nil
}

// Answer runs a plain-text call (used by the Q&A surface). Same transport
// and retry policy as Extract, no JSON contract.
func (c *Client) Answer(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, []geminiPart{{Text: prompt}})
}

func buildParts(input Input) ([]geminiPart, error) {
	switch {
	case strings.TrimSpace(input.FreeText) != "":
		return []geminiPart{{Text: freeTextPrompt(input.FreeText)}}, nil
	case len(input.IngredientNames) > 0:
		return []geminiPart{{Text: classifyNamesPrompt(input.IngredientNames)}}, nil
	case input.Image != nil && input.Image.Data != "":
		return []geminiPart{
			{Text: imagePrompt()},
			{InlineData: &geminiInlineData{MIMEType: input.Image.MIMEType, Data: input.Image.Data}},
		}, nil
	default:
		return nil, serviceErr(KindUpstream, "extraction input is empty")
	}
}

// harden turns a loose model payload into a trusted structure: nil arrays
// become empty, risks pass through the normalizer, slugs are recomputed,
// and entries without a usable name are dropped.
func harden(raw *rawExtraction) *Extraction {
	out := &Extraction{
		Ingredients: make([]Ingredient, 0, len(raw.Ingredients)),
		Summary:     strings.TrimSpace(raw.Summary),
	}
	for _, ri := range raw.Ingredients {
		name := strings.TrimSpace(ri.Name)
		slug := normalize.Slugify(name)
		if slug == "" {
			continue
		}
		out.Ingredients = append(out.Ingredients, Ingredient{
			Name:  name,
			Slug:  slug,
			Risk:  normalize.Risk(ri.Risk),
			Notes: strings.TrimSpace(ri.Notes),
		})
	}
	return out
}
