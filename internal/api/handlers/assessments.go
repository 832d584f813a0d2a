package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fmrwatch/internal/core"
	"fmrwatch/internal/detection"
	"fmrwatch/internal/types"
)

// allowedImageExtensions mirrors the upload filter of the road-defect intake:
// still frames from handheld or drone cameras, nothing else.
var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AssessmentStore persists completed assessments. Nil disables persistence;
// the classification result is still returned to the caller.
type AssessmentStore interface {
	Create(ctx context.Context, a *types.DefectAssessment) error
}

// AssessmentHandler accepts road surface images and runs them through the
// configured defect detector.
type AssessmentHandler struct {
	detector detection.Detector
	store    AssessmentStore
	maxBytes int64
	logger   *slog.Logger
	now      func() time.Time
}

// NewAssessmentHandler creates an AssessmentHandler.
func NewAssessmentHandler(det detection.Detector, store AssessmentStore, maxBytes int64, logger *slog.Logger) *AssessmentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssessmentHandler{
		detector: det,
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}
}

// RegisterRoutes mounts the assessment endpoints onto the mux.
func (h *AssessmentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/assessments", h.HandleCreate)
}

// assessmentPayload is the response shape for a completed assessment.
type assessmentPayload struct {
	ID            string `json:"id"`
	ProjectID     string `json:"project_id,omitempty"`
	Filename      string `json:"filename"`
	Label         string `json:"label"`
	SeverityScore int    `json:"severity_score"`
	Severe        bool   `json:"severe"`
	DetectorUsed  string `json:"detector_used"`
}

// HandleCreate handles POST /v1/assessments. Multipart form with an "image"
// file part and an optional "project_id" field.
func (h *AssessmentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			core.Error(w, r, types.NewAppError(types.ErrCodeValidationImageTooLarge,
				fmt.Sprintf("image exceeds the %d byte limit", h.maxBytes), err))
			return
		}
		core.Error(w, r, types.NewAppError(types.ErrCodeValidationMissingField,
			"request must be multipart form data with an image part", err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		core.Error(w, r, types.NewAppError(types.ErrCodeValidationMissingField,
			"image file part is required", err))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		core.Error(w, r, types.NewAppErrorWithDetails(types.ErrCodeValidationImageType,
			"image must be a jpg, jpeg, or png file", nil,
			map[string]any{"filename": header.Filename}))
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		core.Error(w, r, types.NewAppError(types.ErrCodeInternalUnexpected,
			"failed to read uploaded image", err))
		return
	}

	result, err := h.detector.Detect(r.Context(), image, contentTypeForExt(ext))
	if err != nil {
		core.Error(w, r, err)
		return
	}

	assessment := &types.DefectAssessment{
		ID:            "asm_" + uuid.New().String(),
		ProjectID:     r.FormValue("project_id"),
		Filename:      header.Filename,
		Label:         result.Label,
		SeverityScore: result.Score,
		Severe:        result.Severe(),
		DetectorUsed:  h.detector.Name(),
		CreatedAt:     h.now().UTC(),
	}

	if h.store != nil {
		if err := h.store.Create(r.Context(), assessment); err != nil {
			core.Error(w, r, err)
			return
		}
	}

	h.logger.InfoContext(r.Context(), "assessment completed",
		"assessment_id", assessment.ID,
		"label", assessment.Label,
		"score", assessment.SeverityScore,
		"detector", assessment.DetectorUsed,
	)

	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: assessmentPayload{
		ID:            assessment.ID,
		ProjectID:     assessment.ProjectID,
		Filename:      assessment.Filename,
		Label:         assessment.Label,
		SeverityScore: assessment.SeverityScore,
		Severe:        assessment.Severe,
		DetectorUsed:  assessment.DetectorUsed,
	}})
}

func contentTypeForExt(ext string) string {
	if ext == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}
