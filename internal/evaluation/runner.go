package evaluation

import (
	"context"
	"slices"

	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
)

// DefaultK is the ranking depth used when none is configured.
const DefaultK = 3

// Ranker ranks catalog conditions against symptom text.
type Ranker interface {
	Score(symptoms string) []entities.ScoredCandidate
}

// Runner runs evaluation across a set of golden cases.
type Runner struct {
	ranker Ranker
	k      int
}

// NewRunner creates a runner that ranks with ranker and scores the top k.
// A non-positive k selects DefaultK.
func NewRunner(ranker Ranker, k int) *Runner {
	if k <= 0 {
		k = DefaultK
	}
	return &Runner{ranker: ranker, k: k}
}

// Run scores every case. Only conditions with at least one keyword hit count
// as retrieved; ties keep catalog order.
func (r *Runner) Run(ctx context.Context, cases []GoldenCase) (*EvalSummary, error) {
	summary := &EvalSummary{
		K:            r.k,
		TotalCases:   len(cases),
		ByDifficulty: make(map[Difficulty]*DifficultySummary),
		Results:      make([]EvalResult, 0, len(cases)),
	}

	for _, gc := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ranked := r.ranker.Score(gc.Symptoms)
		matched := make([]string, 0, len(ranked))
		for _, c := range ranked {
			if c.Score > 0 {
				matched = append(matched, c.ConditionName)
			}
		}

		result := EvalResult{
			CaseID:     gc.ID,
			Difficulty: gc.Difficulty,
			Matched:    matched,
			RecallAtK:  RecallAtK(gc.ExpectedConditions, matched, r.k),
			MRRAtK:     MRRAtK(gc.ExpectedConditions, matched, r.k),
		}
		if len(ranked) > 0 {
			result.TopCondition = ranked[0].ConditionName
			result.TopScore = ranked[0].Score
		}
		result.Top1Correct = result.TopScore > 0 && slices.Contains(gc.ExpectedConditions, result.TopCondition)

		r.updateSummary(summary, result)
	}

	r.finalizeSummary(summary)
	return summary, nil
}

func (r *Runner) updateSummary(s *EvalSummary, res EvalResult) {
	s.Results = append(s.Results, res)
	s.AvgRecallAtK += res.RecallAtK
	s.AvgMRRAtK += res.MRRAtK
	if res.Top1Correct {
		s.Top1Accuracy++
	}
	if len(res.Matched) > 0 {
		s.CasesWithMatches++
	}

	ds, ok := s.ByDifficulty[res.Difficulty]
	if !ok {
		ds = &DifficultySummary{}
		s.ByDifficulty[res.Difficulty] = ds
	}
	ds.Count++
	ds.AvgRecallAtK += res.RecallAtK
	ds.AvgMRRAtK += res.MRRAtK
	if res.Top1Correct {
		ds.Top1Accuracy++
	}
}

func (r *Runner) finalizeSummary(s *EvalSummary) {
	if s.TotalCases > 0 {
		n := float64(s.TotalCases)
		s.Top1Accuracy /= n
		s.AvgRecallAtK /= n
		s.AvgMRRAtK /= n
	}

	for _, ds := range s.ByDifficulty {
		if ds.Count > 0 {
			n := float64(ds.Count)
			ds.Top1Accuracy /= n
			ds.AvgRecallAtK /= n
			ds.AvgMRRAtK /= n
		}
	}
}
