package routes

import (
	"net/http"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/api/handlers"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/api/middleware"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	reportHandler    *handlers.ReportHandler
	configHandler    *handlers.ConfigHandler
	narrativeHandler *handlers.NarrativeHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	reportHandler *handlers.ReportHandler,
	configHandler *handlers.ConfigHandler,
	narrativeHandler *handlers.NarrativeHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		reportHandler:    reportHandler,
		configHandler:    configHandler,
		narrativeHandler: narrativeHandler,

		metrics: metrics,
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

	// Report endpoints
	r.mux.HandleFunc("POST /api/reports/process", r.reportHandler.ProcessReports)
	r.mux.HandleFunc("POST /api/reports/export", r.reportHandler.ExportReport)
	r.mux.HandleFunc("GET /api/reports/runs", r.reportHandler.ListRuns)

	// Narrative endpoint
	if r.narrativeHandler != nil {
		r.mux.HandleFunc("POST /api/reports/narrative", r.narrativeHandler.GenerateNarrative)
	}

	// Configuration endpoints
	r.mux.HandleFunc("GET /api/config", r.configHandler.GetConfig)
	r.mux.HandleFunc("PUT /api/config", r.configHandler.UpdateConfig)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on preflight requests
	handler = middleware.CORSMiddleware(handler)

	return handler
}
