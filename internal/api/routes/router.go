package routes

import (
	"net/http"

	"github.com/skinsight/diagnosis/backend/internal/api/handlers"
	"github.com/skinsight/diagnosis/backend/internal/api/middleware"
	"github.com/skinsight/diagnosis/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	diagnosisHandler *handlers.DiagnosisHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	diagnosisHandler *handlers.DiagnosisHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		diagnosisHandler: diagnosisHandler,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Diagnosis endpoints
	r.mux.HandleFunc("POST /api/diagnoses", r.diagnosisHandler.CreateDiagnosis)
	r.mux.HandleFunc("GET /api/diagnoses/history", r.diagnosisHandler.GetHistory)

	// Catalog endpoints
	r.mux.HandleFunc("GET /api/conditions", r.diagnosisHandler.ListConditions)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.SessionMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	// CORS wraps everything so preflight requests short-circuit early
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
