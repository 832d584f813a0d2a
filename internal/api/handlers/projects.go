// Package handlers contains the HTTP handler implementations for the
// fmrwatch API: the project dashboard views, defect assessment uploads, and
// survey intake.
package handlers

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"fmrwatch/internal/core"
	"fmrwatch/internal/dashboard"
	"fmrwatch/internal/types"
)

// DashboardService defines the service contract for the project handler.
// Matches dashboard.Service but is defined locally to avoid tight coupling
// per the handler injection pattern.
type DashboardService interface {
	Classified(ctx context.Context, evaluationDate time.Time) ([]types.ClassifiedProject, error)
	BuildSnapshot(ctx context.Context, evaluationDate time.Time) (*dashboard.Snapshot, error)
}

// ProjectWriter ingests new project records. Nil when the service runs over
// the read-only seed source.
type ProjectWriter interface {
	Create(ctx context.Context, rec *types.ProjectRecord) error
}

// ProjectHandler maps HTTP requests onto the dashboard service.
type ProjectHandler struct {
	service   DashboardService
	writer    ProjectWriter
	validator *core.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewProjectHandler creates a ProjectHandler with the provided dependencies.
func NewProjectHandler(svc DashboardService, writer ProjectWriter, val *core.Validator, logger *slog.Logger) *ProjectHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectHandler{
		service:   svc,
		writer:    writer,
		validator: val,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterRoutes mounts the project endpoints onto the mux.
func (h *ProjectHandler) RegisterRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/map", h.HandleMap)
		r.Get("/table", h.HandleTable)
		r.Get("/export", h.HandleExport)
	})
	r.Get("/dashboard", h.HandleDashboard)
}

// evaluationDate resolves the as_of query parameter, defaulting to the
// current UTC date. The evaluation date is always explicit input to the
// classifier, never ambient state.
func (h *ProjectHandler) evaluationDate(r *http.Request) (time.Time, error) {
	asOf := r.URL.Query().Get("as_of")
	if asOf == "" {
		return h.now().UTC(), nil
	}
	return types.ParseTargetDate(asOf)
}

// HandleList handles GET /v1/projects: the classified project list.
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	evalDate, err := h.evaluationDate(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	projects, err := h.service.Classified(r.Context(), evalDate)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: projects})
}

// HandleDashboard handles GET /v1/dashboard: the complete snapshot backing
// one render pass (markers, rows, counts, view state).
func (h *ProjectHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	evalDate, err := h.evaluationDate(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	snap, err := h.service.BuildSnapshot(r.Context(), evalDate)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: snap})
}

// mapPayload is the response shape for the map widget.
type mapPayload struct {
	ViewState types.MapViewState `json:"view_state"`
	Markers   []types.MapMarker  `json:"markers"`
}

// HandleMap handles GET /v1/projects/map: scatter-layer markers plus the
// initial camera.
func (h *ProjectHandler) HandleMap(w http.ResponseWriter, r *http.Request) {
	evalDate, err := h.evaluationDate(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	projects, err := h.service.Classified(r.Context(), evalDate)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: mapPayload{
		ViewState: dashboard.DefaultViewState,
		Markers:   dashboard.MapMarkers(projects),
	}})
}

// HandleTable handles GET /v1/projects/table: directory rows in feed order.
func (h *ProjectHandler) HandleTable(w http.ResponseWriter, r *http.Request) {
	evalDate, err := h.evaluationDate(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	projects, err := h.service.Classified(r.Context(), evalDate)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: dashboard.TableRows(projects)})
}

// HandleExport handles GET /v1/projects/export: the classified table as CSV,
// gzip-compressed when the client accepts it.
func (h *ProjectHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	evalDate, err := h.evaluationDate(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	projects, err := h.service.Classified(r.Context(), evalDate)
	if err != nil {
		core.Error(w, r, err)
		return
	}
	rows := dashboard.TableRows(projects)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="fmr_projects.csv"`)

	var out io.Writer = w
	if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		defer gz.Close()
		out = gz
	}

	cw := csv.NewWriter(out)
	_ = cw.Write([]string{"name", "status", "progress_pct", "target_date", "lat", "lon"})
	for _, row := range rows {
		_ = cw.Write([]string{
			row.Name,
			string(row.Status),
			strconv.Itoa(row.ProgressPercent),
			row.TargetDate,
			strconv.FormatFloat(row.Lat, 'f', -1, 64),
			strconv.FormatFloat(row.Lon, 'f', -1, 64),
		})
	}
	cw.Flush()
}

// CreateProjectRequest is the inbound payload for project ingestion.
type CreateProjectRequest struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	TargetDate      string  `json:"target_date" validate:"required"`
	ProgressPercent int     `json:"progress_pct"`
}

// HandleCreate handles POST /v1/projects.
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if h.writer == nil {
		core.Error(w, r, types.NewAppError(types.ErrCodeInternalUnexpected,
			"project ingestion is not configured", nil))
		return
	}

	var req CreateProjectRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := types.ValidateLocation(types.Location{Lat: req.Lat, Lon: req.Lon}); err != nil {
		core.Error(w, r, err)
		return
	}
	if _, err := types.ParseTargetDate(req.TargetDate); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := types.ValidateProgress(req.ProgressPercent); err != nil {
		core.Error(w, r, err)
		return
	}

	rec := &types.ProjectRecord{
		ID:              "fmr_" + uuid.New().String(),
		Name:            req.Name,
		Location:        types.Location{Lat: req.Lat, Lon: req.Lon},
		TargetDate:      req.TargetDate,
		ProgressPercent: req.ProgressPercent,
	}

	if err := h.writer.Create(r.Context(), rec); err != nil {
		core.Error(w, r, err)
		return
	}

	core.JSON(w, r, http.StatusCreated, core.APIResponse{Data: rec})
}
