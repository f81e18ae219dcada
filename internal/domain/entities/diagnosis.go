package entities

import "time"

// DiagnosisSource records which channel picked the condition.
type DiagnosisSource string

const (
	DiagnosisSourceSymptoms DiagnosisSource = "symptoms"
	DiagnosisSourceImage    DiagnosisSource = "image"
)

// ScoredCandidate is a catalog condition ranked against symptom text.
type ScoredCandidate struct {
	ConditionName string `json:"condition_name"`
	Score         int    `json:"score"`
}

// DiagnosisResult is the outcome of a single diagnosis request.
type DiagnosisResult struct {
	Disease         string          `json:"disease"`
	Confidence      int             `json:"confidence"`
	Description     string          `json:"description"`
	Recommendations []string        `json:"recommendations"`
	Source          DiagnosisSource `json:"source"`
}

// DiagnosisRecord is a persisted diagnosis, scoped to a client session.
type DiagnosisRecord struct {
	ID         string    `json:"id" db:"id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	Symptoms   string    `json:"symptoms" db:"symptoms"`
	Disease    string    `json:"disease" db:"disease"`
	Confidence int       `json:"confidence" db:"confidence"`
	SessionID  string    `json:"session_id" db:"session_id"`
	ImageURL   *string   `json:"image_url,omitempty" db:"image_url"`
}
