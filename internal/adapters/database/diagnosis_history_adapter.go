package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
	"github.com/skinsight/diagnosis/backend/internal/domain/repositories"
	"github.com/skinsight/diagnosis/backend/internal/infrastructure/clients/postgres"
	"github.com/skinsight/diagnosis/backend/internal/infrastructure/observability"
	apperrors "github.com/skinsight/diagnosis/backend/pkg/errors"
)

const diagnosisHistoryTable = "diagnosis_history"

// DiagnosisHistoryAdapter implements diagnosis history persistence in Postgres.
type DiagnosisHistoryAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewDiagnosisHistoryAdapter creates a new diagnosis history adapter.
// metrics may be nil.
func NewDiagnosisHistoryAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.DiagnosisHistoryRepository {
	return &DiagnosisHistoryAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

// Create inserts a diagnosis record.
func (a *DiagnosisHistoryAdapter) Create(ctx context.Context, record *entities.DiagnosisRecord) error {
	if record == nil {
		return apperrors.NewInternalError("diagnosis record is nil", fmt.Errorf("diagnosis record is nil"))
	}

	row := goqu.Record{
		"id":         record.ID,
		"created_at": record.CreatedAt,
		"symptoms":   record.Symptoms,
		"disease":    record.Disease,
		"confidence": record.Confidence,
		"session_id": record.SessionID,
	}
	if record.ImageURL != nil {
		row["image_url"] = *record.ImageURL
	}

	query, args, err := a.db.Insert(diagnosisHistoryTable).Prepared(true).Rows(row).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build diagnosis insert query", err)
	}

	start := time.Now()
	_, err = a.client.DB().ExecContext(ctx, query, args...)
	observability.RecordDBMetric(ctx, a.metrics, "diagnosis_history.insert", time.Since(start))
	if err != nil {
		return apperrors.NewInternalError("failed to create diagnosis record", err)
	}

	return nil
}

// ListBySession retrieves the newest records for a session.
func (a *DiagnosisHistoryAdapter) ListBySession(ctx context.Context, sessionID string, limit int) ([]*entities.DiagnosisRecord, error) {
	ds := a.db.Select(
		"id", "created_at", "symptoms", "disease", "confidence", "session_id", "image_url",
	).From(diagnosisHistoryTable).
		Where(goqu.Ex{"session_id": sessionID}).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Prepared(true)

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build history query", err)
	}

	start := time.Now()
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	observability.RecordDBMetric(ctx, a.metrics, "diagnosis_history.select", time.Since(start))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list diagnosis history", err)
	}
	defer rows.Close()

	records := make([]*entities.DiagnosisRecord, 0)
	for rows.Next() {
		record := &entities.DiagnosisRecord{}
		var imageURL sql.NullString

		if err := rows.Scan(
			&record.ID,
			&record.CreatedAt,
			&record.Symptoms,
			&record.Disease,
			&record.Confidence,
			&record.SessionID,
			&imageURL,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan diagnosis record", err)
		}

		if imageURL.Valid {
			record.ImageURL = &imageURL.String
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate diagnosis history", err)
	}

	return records, nil
}
