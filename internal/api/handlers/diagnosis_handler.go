package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/skinsight/diagnosis/backend/internal/api/middleware"
	"github.com/skinsight/diagnosis/backend/internal/domain/catalog"
	"github.com/skinsight/diagnosis/backend/internal/domain/entities"
	"github.com/skinsight/diagnosis/backend/internal/infrastructure/observability"
)

const (
	// MaxSymptomsLength bounds the free-text symptom description in runes.
	MaxSymptomsLength = 2000

	// multipartOverhead covers boundaries and the symptoms field on top of
	// the image itself.
	multipartOverhead = 64 << 10
)

// DiagnosisEngine produces a diagnosis from an image and symptom text.
type DiagnosisEngine interface {
	Diagnose(ctx context.Context, image io.Reader, symptoms string) (*entities.DiagnosisResult, error)
}

// DiagnosisHistory stores and lists per-session diagnoses.
type DiagnosisHistory interface {
	Record(ctx context.Context, sessionID, symptoms string, result *entities.DiagnosisResult) (*entities.DiagnosisRecord, error)
	Recent(ctx context.Context, sessionID string, limit int) ([]*entities.DiagnosisRecord, error)
}

// DiagnosisHandler handles diagnosis-related HTTP requests
type DiagnosisHandler struct {
	engine         DiagnosisEngine
	history        DiagnosisHistory
	catalog        *catalog.Catalog
	maxUploadBytes int64
}

type diagnosisResponse struct {
	*entities.DiagnosisResult
	RecordID string `json:"record_id,omitempty"`
}

// NewDiagnosisHandler creates a new diagnosis handler. history may be nil,
// in which case results are not persisted and the history endpoint is empty.
func NewDiagnosisHandler(engine DiagnosisEngine, history DiagnosisHistory, cat *catalog.Catalog, maxUploadBytes int64) *DiagnosisHandler {
	return &DiagnosisHandler{
		engine:         engine,
		history:        history,
		catalog:        cat,
		maxUploadBytes: maxUploadBytes,
	}
}

// CreateDiagnosis handles POST /api/diagnoses
func (h *DiagnosisHandler) CreateDiagnosis(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		respondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	symptoms := strings.TrimSpace(r.FormValue("symptoms"))
	if symptoms == "" {
		respondWithError(w, http.StatusBadRequest, "symptoms are required")
		return
	}
	if utf8.RuneCountInString(symptoms) > MaxSymptomsLength {
		respondWithError(w, http.StatusBadRequest, "symptoms must be at most "+strconv.Itoa(MaxSymptomsLength)+" characters")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		respondWithError(w, http.StatusRequestEntityTooLarge, "image exceeds size limit")
		return
	}
	if !isImageContentType(header.Header.Get("Content-Type")) {
		respondWithError(w, http.StatusUnsupportedMediaType, "image must be an image/* upload")
		return
	}

	ctx := r.Context()
	result, err := h.engine.Diagnose(ctx, file, symptoms)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	resp := diagnosisResponse{DiagnosisResult: result}
	if h.history != nil {
		sessionID := middleware.SessionIDFromContext(ctx)
		record, err := h.history.Record(ctx, sessionID, symptoms, result)
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("session_id", sessionID).
				Msg("Failed to persist diagnosis")
		} else {
			resp.RecordID = record.ID
		}
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// GetHistory handles GET /api/diagnoses/history
func (h *DiagnosisHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	records := []*entities.DiagnosisRecord{}
	if h.history != nil {
		var err error
		records, err = h.history.Recent(r.Context(), middleware.SessionIDFromContext(r.Context()), limit)
		if err != nil {
			respondWithAppError(w, err)
			return
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"history": records,
		"count":   len(records),
	})
}

// ListConditions handles GET /api/conditions
func (h *DiagnosisHandler) ListConditions(w http.ResponseWriter, r *http.Request) {
	conditions := h.catalog.Entries()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"conditions":   conditions,
		"image_labels": h.catalog.ImageLabels(),
		"count":        len(conditions),
	})
}

func isImageContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
