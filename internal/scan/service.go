// Package scan assembles one consistent, risk-classified result from
// three sources of different trust: model extraction, the authoritative
// overlay store, and local defaults. Any single source may fail; the scan
// still answers.
package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shelfsafe/internal/extract"
	"shelfsafe/internal/normalize"
	"shelfsafe/pkg/logger"
	"shelfsafe/pkg/models"
)

// Extractor is the slice of the AI adapter the aggregator needs.
type Extractor interface {
	Extract(ctx context.Context, input extract.Input) (*extract.Extraction, error)
	Answer(ctx context.Context, prompt string) (string, error)
}

// OverlayStore is the read contract of the authoritative record store.
type OverlayStore interface {
	Lookup(ctx context.Context, slug string) (*models.IngredientRecord, error)
}

// ErrNoInput is the only hard failure the aggregator produces: a request
// with neither text nor an ingredient list.
var ErrNoInput = errors.New("scan input requires text or an ingredient list")

type Service struct {
	extractor Extractor
	overlay   OverlayStore
	log       logger.Logger
}

func NewService(extractor Extractor, store OverlayStore, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{extractor: extractor, overlay: store, log: log}
}

// Input carries one scan request. Precomputed short-circuits the AI call
// (the image pipeline supplies it after its own extraction pass).
type Input struct {
	Text            string
	IngredientNames []string
	Precomputed     *extract.Extraction
}

// CreateScanResult runs the full resolution pipeline. Decision policy, in
// order: precomputed extraction, free text through the extractor (with
// local fallback on failure), explicit names through the extractor (with
// empty-extraction fallback). Overlay records override AI-derived values
// per slug; everything else defaults to caution.
func (s *Service) CreateScanResult(ctx context.Context, input Input) (*models.ScanResult, error) {
	text := strings.TrimSpace(input.Text)
	names := cleanNames(input.IngredientNames)

	if input.Precomputed == nil && text == "" && len(names) == 0 {
		return nil, ErrNoInput
	}

	extraction := input.Precomputed
	fallbackUsed := false

	switch {
	case extraction != nil:
		// image pipeline or caller already extracted

	case text != "":
		ex, err := s.extractor.Extract(ctx, extract.Input{FreeText: text})
		if err != nil {
			s.log.Warnf("extraction failed, using fallback parser: %v", err)
			extraction = fallbackExtraction(text)
			fallbackUsed = true
		} else {
			extraction = ex
		}

	default:
		ex, err := s.extractor.Extract(ctx, extract.Input{IngredientNames: names})
		if err != nil {
			s.log.Warnf("name classification failed, relying on overlay only: %v", err)
			extraction = &extract.Extraction{Ingredients: []extract.Ingredient{}}
		} else {
			extraction = ex
		}
	}

	sourceNames := namesFromExtraction(extraction)
	if len(sourceNames) == 0 {
		sourceNames = names
	}
	sourceNames = normalize.Dedupe(sourceNames)

	bySlug := make(map[string]extract.Ingredient, len(extraction.Ingredients))
	for _, ing := range extraction.Ingredients {
		if _, ok := bySlug[ing.Slug]; !ok {
			bySlug[ing.Slug] = ing
		}
	}

	ingredients := make([]models.Ingredient, 0, len(sourceNames))
	for _, name := range sourceNames {
		slug := normalize.Slugify(name)
		ingredients = append(ingredients, s.resolveIngredient(ctx, name, slug, bySlug))
	}

	summary := extraction.Summary
	if summary == "" {
		summary = synthesizeSummary(ingredients)
	}
	if fallbackUsed {
		summary = fallbackNotice + " " + summary
	}

	return &models.ScanResult{
		Ingredients: ingredients,
		OverallRisk: normalize.OverallRisk(ingredients),
		Summary:     summary,
	}, nil
}

// resolveIngredient applies the trust order for one slug: overlay record,
// then the AI-derived record, then a caution default.
func (s *Service) resolveIngredient(ctx context.Context, name, slug string, aiBySlug map[string]extract.Ingredient) models.Ingredient {
	if s.overlay != nil {
		rec, err := s.overlay.Lookup(ctx, slug)
		if err != nil {
			// best-effort: a broken store must not abort the scan
			s.log.Warnf("overlay lookup failed for %q: %v", slug, err)
		} else if rec != nil {
			return models.Ingredient{
				Name:            name,
				Slug:            slug,
				Risk:            normalize.Risk(rec.Risk),
				Notes:           rec.Notes,
				RegulatoryNotes: rec.RegulatoryNotes,
				Sources:         rec.Sources,
				HealthFlags:     rec.HealthFlags,
				Category:        rec.Category,
				Aliases:         rec.Aliases,
			}
		}
	}

	if ai, ok := aiBySlug[slug]; ok {
		return models.Ingredient{
			Name:  name,
			Slug:  slug,
			Risk:  ai.Risk,
			Notes: ai.Notes,
		}
	}

	return models.Ingredient{Name: name, Slug: slug, Risk: models.RiskCaution}
}

const fallbackNotice = "Automatic extraction was unavailable; this is a basic split of the provided text."

// fallbackExtraction is the degraded, non-AI parser: split the text on
// list separators and mark everything caution.
func fallbackExtraction(text string) *extract.Extraction {
	splitter := func(r rune) bool { return r == ',' || r == ';' || r == '\n' }
	parts := strings.FieldsFunc(text, splitter)

	out := &extract.Extraction{Ingredients: make([]extract.Ingredient, 0, len(parts))}
	for _, p := range parts {
		name := strings.TrimSpace(p)
		slug := normalize.Slugify(name)
		if slug == "" {
			continue
		}
		out.Ingredients = append(out.Ingredients, extract.Ingredient{
			Name: name,
			Slug: slug,
			Risk: models.RiskCaution,
		})
	}
	return out
}

func namesFromExtraction(ex *extract.Extraction) []string {
	names := make([]string, 0, len(ex.Ingredients))
	for _, ing := range ex.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			out = append(out, strings.TrimSpace(n))
		}
	}
	return out
}

func synthesizeSummary(ingredients []models.Ingredient) string {
	if len(ingredients) == 0 {
		return "No ingredients could be identified from the provided input."
	}
	var avoid, caution, safe int
	for _, ing := range ingredients {
		switch ing.Risk {
		case models.RiskAvoid:
			avoid++
		case models.RiskCaution:
			caution++
		default:
			safe++
		}
	}
	return fmt.Sprintf("Detected %d ingredient(s): %d avoid, %d caution, %d safe.",
		len(ingredients), avoid, caution, safe)
}
