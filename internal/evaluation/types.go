package evaluation

// Difficulty grades how much signal a golden case gives the scorer.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"   // several distinctive keywords
	DifficultyMedium Difficulty = "medium" // one distinctive keyword
	DifficultyHard   Difficulty = "hard"   // overlapping or indirect wording
)

// IsValid checks if the difficulty value is one of the defined constants.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// GoldenCase is a labeled symptom description with the conditions a
// clinician would accept as a correct answer.
type GoldenCase struct {
	ID                 string     `json:"id"`
	Symptoms           string     `json:"symptoms"`
	ExpectedConditions []string   `json:"expected_conditions"`
	Difficulty         Difficulty `json:"difficulty"`
}

// EvalResult holds the evaluation outcome for a single case.
type EvalResult struct {
	CaseID       string     `json:"case_id"`
	Difficulty   Difficulty `json:"difficulty"`
	TopCondition string     `json:"top_condition"`
	TopScore     int        `json:"top_score"`
	Matched      []string   `json:"matched"`
	Top1Correct  bool       `json:"top1_correct"`
	RecallAtK    float64    `json:"recall_at_k"`
	MRRAtK       float64    `json:"mrr_at_k"`
}

// EvalSummary holds aggregate metrics across all golden cases.
type EvalSummary struct {
	K                int                               `json:"k"`
	TotalCases       int                               `json:"total_cases"`
	Top1Accuracy     float64                           `json:"top1_accuracy"`
	AvgRecallAtK     float64                           `json:"avg_recall_at_k"`
	AvgMRRAtK        float64                           `json:"avg_mrr_at_k"`
	CasesWithMatches int                               `json:"cases_with_matches"` // at least one keyword hit
	ByDifficulty     map[Difficulty]*DifficultySummary `json:"by_difficulty"`
	Results          []EvalResult                      `json:"results"`
}

// DifficultySummary holds metrics grouped by difficulty.
type DifficultySummary struct {
	Count        int     `json:"count"`
	Top1Accuracy float64 `json:"top1_accuracy"`
	AvgRecallAtK float64 `json:"avg_recall_at_k"`
	AvgMRRAtK    float64 `json:"avg_mrr_at_k"`
}
