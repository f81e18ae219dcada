package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skinsight/diagnosis/backend/internal/application/services"
	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
	apperrors "github.com/skinsight/diagnosis/backend/pkg/errors"
)

type MockDiagnosisHistoryRepository struct {
	mock.Mock
}

func (m *MockDiagnosisHistoryRepository) Create(ctx context.Context, record *entities.DiagnosisRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockDiagnosisHistoryRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]*entities.DiagnosisRecord, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.DiagnosisRecord), args.Error(1)
}

func TestHistoryService_Record(t *testing.T) {
	result := &entities.DiagnosisResult{
		Disease:    "Psoriasis",
		Confidence: 72,
		Source:     entities.DiagnosisSourceSymptoms,
	}

	t.Run("stores a record with id and timestamp", func(t *testing.T) {
		repo := new(MockDiagnosisHistoryRepository)
		service := services.NewHistoryService(repo, 10)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(r *entities.DiagnosisRecord) bool {
			return r.ID != "" &&
				!r.CreatedAt.IsZero() &&
				r.SessionID == "session-1" &&
				r.Disease == "Psoriasis" &&
				r.Confidence == 72 &&
				r.Symptoms == "thick silvery plaque" &&
				r.ImageURL == nil
		})).Return(nil)

		record, err := service.Record(context.Background(), " session-1 ", "thick silvery plaque", result)

		require.NoError(t, err)
		assert.Equal(t, "session-1", record.SessionID)
		repo.AssertExpectations(t)
	})

	t.Run("requires a session id", func(t *testing.T) {
		repo := new(MockDiagnosisHistoryRepository)
		service := services.NewHistoryService(repo, 10)

		_, err := service.Record(context.Background(), "  ", "itch", result)

		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("requires a result", func(t *testing.T) {
		repo := new(MockDiagnosisHistoryRepository)
		service := services.NewHistoryService(repo, 10)

		_, err := service.Record(context.Background(), "s", "itch", nil)

		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		repo := new(MockDiagnosisHistoryRepository)
		service := services.NewHistoryService(repo, 10)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

		_, err := service.Record(context.Background(), "s", "itch", result)

		assert.EqualError(t, err, "db down")
	})
}

func TestHistoryService_Recent(t *testing.T) {
	records := []*entities.DiagnosisRecord{{ID: "b"}, {ID: "a"}}

	tests := []struct {
		name          string
		limit         int
		expectedLimit int
	}{
		{name: "default limit", limit: 0, expectedLimit: 10},
		{name: "negative limit", limit: -3, expectedLimit: 10},
		{name: "explicit limit", limit: 5, expectedLimit: 5},
		{name: "capped limit", limit: 500, expectedLimit: services.MaxHistoryLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockDiagnosisHistoryRepository)
			service := services.NewHistoryService(repo, 10)
			repo.On("ListBySession", mock.Anything, "session-1", tt.expectedLimit).Return(records, nil)

			got, err := service.Recent(context.Background(), "session-1", tt.limit)

			require.NoError(t, err)
			assert.Equal(t, records, got)
			repo.AssertExpectations(t)
		})
	}

	t.Run("nil from repository becomes empty slice", func(t *testing.T) {
		repo := new(MockDiagnosisHistoryRepository)
		service := services.NewHistoryService(repo, 10)
		repo.On("ListBySession", mock.Anything, "s", 10).Return(nil, nil)

		got, err := service.Recent(context.Background(), "s", 0)

		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("requires a session id", func(t *testing.T) {
		service := services.NewHistoryService(new(MockDiagnosisHistoryRepository), 10)

		_, err := service.Recent(context.Background(), "", 5)

		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("invalid default limit falls back to ten", func(t *testing.T) {
		repo := new(MockDiagnosisHistoryRepository)
		service := services.NewHistoryService(repo, 0)
		repo.On("ListBySession", mock.Anything, "s", 10).Return(records, nil)

		_, err := service.Recent(context.Background(), "s", 0)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
