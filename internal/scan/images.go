package scan

import (
	"context"
	"strings"
	"sync"

	"shelfsafe/internal/extract"
	"shelfsafe/internal/normalize"
	"shelfsafe/pkg/models"
)

// AnalyzeImages runs extraction over the front and back label faces
// concurrently, waits on both, and proceeds on partial success: one broken
// side must not discard usable text from the other. Only when both sides
// fail does the scan fail.
func (s *Service) AnalyzeImages(ctx context.Context, front, back *extract.Image) (*models.ScanResult, error) {
	type faceResult struct {
		extraction *extract.Extraction
		err        error
	}

	faces := make([]*extract.Image, 0, 2)
	if front != nil && front.Data != "" {
		faces = append(faces, front)
	}
	if back != nil && back.Data != "" {
		faces = append(faces, back)
	}
	if len(faces) == 0 {
		return nil, ErrNoInput
	}

	results := make([]faceResult, len(faces))
	var wg sync.WaitGroup
	for i, img := range faces {
		wg.Add(1)
		go func(i int, img *extract.Image) {
			defer wg.Done()
			ex, err := s.extractor.Extract(ctx, extract.Input{Image: img})
			results[i] = faceResult{extraction: ex, err: err}
		}(i, img)
	}
	wg.Wait()

	extractions := make([]*extract.Extraction, 0, len(results))
	var lastErr error
	for i, r := range results {
		if r.err != nil {
			s.log.Warnf("image face %d extraction failed: %v", i, r.err)
			lastErr = r.err
			continue
		}
		extractions = append(extractions, r.extraction)
	}
	if len(extractions) == 0 {
		return nil, lastErr
	}

	merged := mergeExtractions(extractions)
	return s.CreateScanResult(ctx, Input{Precomputed: merged})
}

// mergeExtractions combines per-face extractions: ingredients deduped by
// slug in first-seen order, summaries joined.
func mergeExtractions(extractions []*extract.Extraction) *extract.Extraction {
	out := &extract.Extraction{Ingredients: []extract.Ingredient{}}
	seen := make(map[string]bool)
	var summaries []string

	for _, ex := range extractions {
		for _, ing := range ex.Ingredients {
			if ing.Slug == "" {
				ing.Slug = normalize.Slugify(ing.Name)
			}
			if ing.Slug == "" || seen[ing.Slug] {
				continue
			}
			seen[ing.Slug] = true
			out.Ingredients = append(out.Ingredients, ing)
		}
		if s := strings.TrimSpace(ex.Summary); s != "" {
			summaries = append(summaries, s)
		}
	}

	out.Summary = strings.Join(summaries, " ")
	return out
}
