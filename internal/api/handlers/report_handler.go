package handlers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/thuynguyen-hospital/surgical-review/backend/internal/adapters/spreadsheet"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/application/services"
	"github.com/thuynguyen-hospital/surgical-review/backend/internal/domain/entities"
	apperrors "github.com/thuynguyen-hospital/surgical-review/backend/pkg/errors"
)

const maxUploadSize = 32 << 20

// ReportHandler handles the surgery report processing endpoints
type ReportHandler struct {
	reader     *spreadsheet.Reader
	writer     *spreadsheet.Writer
	processing *services.ProcessingService
	configs    *services.ConfigService
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	reader *spreadsheet.Reader,
	writer *spreadsheet.Writer,
	processing *services.ProcessingService,
	configs *services.ConfigService,
) *ReportHandler {
	return &ReportHandler{
		reader:     reader,
		writer:     writer,
		processing: processing,
		configs:    configs,
	}
}

// ProcessReports handles POST /api/reports/process
func (h *ReportHandler) ProcessReports(w http.ResponseWriter, r *http.Request) {
	result, err := h.runPipeline(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ExportReport handles POST /api/reports/export. It runs the same pipeline as
// ProcessReports but responds with the generated workbook instead of JSON.
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.runPipeline(r)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	data, err := h.writer.Write(result)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to generate workbook")
		return
	}

	filename := fmt.Sprintf("bao_cao_phau_thuat_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		return
	}
}

// ListRuns handles GET /api/reports/runs
func (h *ReportHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	runs, err := h.processing.ListRuns(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}

func (h *ReportHandler) runPipeline(r *http.Request) (*entities.ProcessingResult, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, apperrors.NewValidationError("request must be multipart form data with list and detail files")
	}

	listGrid, err := h.readGridFromForm(r, "list")
	if err != nil {
		return nil, err
	}
	detailGrid, err := h.readGridFromForm(r, "detail")
	if err != nil {
		return nil, err
	}

	cfg, err := h.configs.Get(r.Context())
	if err != nil {
		return nil, err
	}

	return h.processing.Process(r.Context(), listGrid, detailGrid, cfg)
}

func (h *ReportHandler) readGridFromForm(r *http.Request, field string) (entities.Grid, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("missing upload file %q", field))
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	return h.reader.ReadGrid(file)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithAppError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeExternal:
			respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
