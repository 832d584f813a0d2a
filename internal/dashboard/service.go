package dashboard

import (
	"context"
	"log/slog"
	"time"

	"fmrwatch/internal/classify"
	"fmrwatch/internal/types"
)

// ProjectSource supplies the ordered project record set for an evaluation
// pass. Implementations include the Postgres repository and the static seed
// source used in local mode.
type ProjectSource interface {
	ListProjects(ctx context.Context) ([]types.ProjectRecord, error)
}

// Snapshot is one full evaluation of the project set for a given date. It is
// rebuilt from raw records on every call; nothing here is cached between
// requests.
type Snapshot struct {
	EvaluatedAt string                    `json:"evaluated_at"` // YYYY-MM-DD
	ViewState   types.MapViewState        `json:"view_state"`
	Projects    []types.ClassifiedProject `json:"projects"`
	Markers     []types.MapMarker         `json:"markers"`
	Rows        []types.TableRow          `json:"rows"`
	Counts      []types.StatusCount       `json:"counts"`
}

// Service classifies the current project set against a caller-supplied
// evaluation date and feeds the two read-only views.
type Service struct {
	source ProjectSource
	logger *slog.Logger
}

// NewService creates a dashboard Service over the given project source.
func NewService(source ProjectSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, logger: logger}
}

// Classified fetches and classifies the project set for the evaluation date.
func (s *Service) Classified(ctx context.Context, evaluationDate time.Time) ([]types.ClassifiedProject, error) {
	recs, err := s.source.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return classify.Records(recs, evaluationDate)
}

// BuildSnapshot produces the complete dashboard payload for the evaluation
// date: classified records, map markers, table rows, and the status summary.
func (s *Service) BuildSnapshot(ctx context.Context, evaluationDate time.Time) (*Snapshot, error) {
	projects, err := s.Classified(ctx, evaluationDate)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		EvaluatedAt: evaluationDate.UTC().Format(types.TargetDateLayout),
		ViewState:   DefaultViewState,
		Projects:    projects,
		Markers:     MapMarkers(projects),
		Rows:        TableRows(projects),
		Counts:      StatusCounts(projects),
	}

	s.logger.DebugContext(ctx, "dashboard snapshot built",
		"as_of", snap.EvaluatedAt,
		"projects", len(projects),
	)
	return snap, nil
}
