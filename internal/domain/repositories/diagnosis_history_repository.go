package repositories

import (
	"context"

	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
)

// DiagnosisHistoryRepository defines the interface for diagnosis history persistence.
type DiagnosisHistoryRepository interface {
	// Create appends a record.
	Create(ctx context.Context, record *entities.DiagnosisRecord) error

	// ListBySession returns at most limit records for sessionID, newest first.
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*entities.DiagnosisRecord, error)
}
