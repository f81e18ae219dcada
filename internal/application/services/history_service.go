package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
	"github.com/skinsight/diagnosis/backend/internal/domain/repositories"
	apperrors "github.com/skinsight/diagnosis/backend/pkg/errors"
)

// MaxHistoryLimit caps how many records a single history query returns.
const MaxHistoryLimit = 50

// HistoryService records diagnoses and lists them per session.
type HistoryService struct {
	repo         repositories.DiagnosisHistoryRepository
	defaultLimit int
	now          func() time.Time
}

// NewHistoryService creates a new history service.
func NewHistoryService(repo repositories.DiagnosisHistoryRepository, defaultLimit int) *HistoryService {
	if defaultLimit <= 0 || defaultLimit > MaxHistoryLimit {
		defaultLimit = 10
	}
	return &HistoryService{
		repo:         repo,
		defaultLimit: defaultLimit,
		now:          time.Now,
	}
}

// Record stores result for sessionID.
func (s *HistoryService) Record(ctx context.Context, sessionID, symptoms string, result *entities.DiagnosisResult) (*entities.DiagnosisRecord, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperrors.NewValidationError("session id is required")
	}
	if result == nil {
		return nil, apperrors.NewValidationError("diagnosis result is required")
	}

	record := &entities.DiagnosisRecord{
		ID:         uuid.New().String(),
		CreatedAt:  s.now().UTC(),
		Symptoms:   symptoms,
		Disease:    result.Disease,
		Confidence: result.Confidence,
		SessionID:  sessionID,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Recent returns the newest records for sessionID. A non-positive limit
// selects the default; larger limits are capped at MaxHistoryLimit.
func (s *HistoryService) Recent(ctx context.Context, sessionID string, limit int) ([]*entities.DiagnosisRecord, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperrors.NewValidationError("session id is required")
	}

	switch {
	case limit <= 0:
		limit = s.defaultLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	records, err := s.repo.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*entities.DiagnosisRecord{}
	}
	return records, nil
}
