package services

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/skinsight/diagnosis/backend/internal/domain/catalog"
	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
)

// SymptomScorer ranks catalog conditions against free-text symptoms by
// counting keyword containment.
type SymptomScorer struct {
	catalog *catalog.Catalog
}

// NewSymptomScorer creates a scorer over cat.
func NewSymptomScorer(cat *catalog.Catalog) *SymptomScorer {
	return &SymptomScorer{catalog: cat}
}

// Score returns one candidate per catalog condition, highest score first.
// A keyword counts once when it occurs anywhere in the text, including
// inside a longer word. Equal scores keep catalog order.
func (s *SymptomScorer) Score(symptoms string) []entities.ScoredCandidate {
	text := normalizeSymptoms(symptoms)

	entries := s.catalog.Entries()
	candidates := make([]entities.ScoredCandidate, 0, len(entries))
	for _, entry := range entries {
		score := 0
		for _, keyword := range entry.Keywords {
			if strings.Contains(text, keyword) {
				score++
			}
		}
		candidates = append(candidates, entities.ScoredCandidate{
			ConditionName: entry.Name,
			Score:         score,
		})
	}

	slices.SortStableFunc(candidates, func(a, b entities.ScoredCandidate) int {
		return b.Score - a.Score
	})
	return candidates
}

func normalizeSymptoms(symptoms string) string {
	// cases.Caser is stateful, so build one per call.
	return cases.Lower(language.Und).String(symptoms)
}
