package scan

import (
	"context"
	"fmt"
	"strings"

	"shelfsafe/pkg/models"
)

// QAResult is a question answered strictly against one scan result.
// Sources are restricted to titles already present in the scan's own
// ingredient source lists; the model cannot introduce citations.
type QAResult struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// AnswerQuestion asks the model the user's question with the scan result
// as the only context. Unlike scans there is no degradation path: without
// the model there is no answer, so the classified error propagates.
func (s *Service) AnswerQuestion(ctx context.Context, question string, result *models.ScanResult) (*QAResult, error) {
	prompt := qaPrompt(question, result)

	answer, err := s.extractor.Answer(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &QAResult{
		Answer:  strings.TrimSpace(answer),
		Sources: sourceTitles(result),
	}, nil
}

func qaPrompt(question string, result *models.ScanResult) string {
	var b strings.Builder
	b.WriteString("You are a household-chemical safety assistant. Answer the question using ONLY the scan context below. ")
	b.WriteString("If the context does not cover the question, say so plainly. Keep the answer short and practical. ")
	b.WriteString("Do not invent sources or citations.\n\nScan context:\n")
	fmt.Fprintf(&b, "Overall risk: %s\nSummary: %s\nIngredients:\n", result.OverallRisk, result.Summary)
	for _, ing := range result.Ingredients {
		fmt.Fprintf(&b, "- %s (risk: %s)", ing.Name, ing.Risk)
		if ing.Notes != "" {
			fmt.Fprintf(&b, ", notes: %s", ing.Notes)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nQuestion: %s\n", question)
	return b.String()
}

// sourceTitles collects the distinct source titles across the scan's
// ingredients, in ingredient order.
func sourceTitles(result *models.ScanResult) []string {
	seen := make(map[string]bool)
	titles := []string{}
	for _, ing := range result.Ingredients {
		for _, src := range ing.Sources {
			title := strings.TrimSpace(src.Title)
			if title == "" || seen[title] {
				continue
			}
			seen[title] = true
			titles = append(titles, title)
		}
	}
	return titles
}
