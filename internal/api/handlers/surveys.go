package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fmrwatch/internal/core"
	"fmrwatch/internal/survey"
	"fmrwatch/internal/types"
)

// SurveyService defines the survey intake contract for the handler.
type SurveyService interface {
	Submit(ctx context.Context, req survey.SubmitRequest) (*types.SurveySubmission, error)
}

// SurveyHandler accepts SUS and TAM questionnaire submissions.
type SurveyHandler struct {
	service   SurveyService
	validator *core.Validator
	logger    *slog.Logger
}

// NewSurveyHandler creates a SurveyHandler.
func NewSurveyHandler(svc SurveyService, val *core.Validator, logger *slog.Logger) *SurveyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SurveyHandler{service: svc, validator: val, logger: logger}
}

// RegisterRoutes mounts the survey endpoints onto the mux.
func (h *SurveyHandler) RegisterRoutes(r chi.Router) {
	r.Post("/surveys", h.HandleSubmit)
}

// HandleSubmit handles POST /v1/surveys.
func (h *SurveyHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req survey.SubmitRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		core.Error(w, r, err)
		return
	}

	submission, err := h.service.Submit(r.Context(), req)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: submission})
}
