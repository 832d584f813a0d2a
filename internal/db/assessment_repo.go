package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"fmrwatch/internal/types"
)

// AssessmentRepository stores defect assessments so severity scores are
// available to downstream prioritization consumers.
type AssessmentRepository struct {
	db DBTX
}

// NewAssessmentRepository creates an AssessmentRepository backed by the given
// database connection.
func NewAssessmentRepository(db DBTX) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create inserts a completed defect assessment.
func (r *AssessmentRepository) Create(ctx context.Context, a *types.DefectAssessment) error {
	query := `INSERT INTO defect_assessments
		(id, project_id, filename, label, severity_score, severe, detector, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	// project_id is optional until the assessment is linked to a road segment.
	var projectID *string
	if a.ProjectID != "" {
		projectID = &a.ProjectID
	}

	_, err := r.db.Exec(ctx, query,
		a.ID,
		projectID,
		a.Filename,
		a.Label,
		a.SeverityScore,
		a.Severe,
		a.DetectorUsed,
		a.CreatedAt,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to store assessment", err)
	}
	return nil
}

// GetByID fetches a stored assessment.
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*types.DefectAssessment, error) {
	query := `SELECT id, project_id, filename, label, severity_score, severe, detector, created_at
		FROM defect_assessments
		WHERE id = $1`

	var (
		a         types.DefectAssessment
		projectID *string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&projectID,
		&a.Filename,
		&a.Label,
		&a.SeverityScore,
		&a.Severe,
		&a.DetectorUsed,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundAssessment, "assessment not found", err)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to get assessment", err)
	}
	if projectID != nil {
		a.ProjectID = *projectID
	}
	return &a, nil
}

// ListByProject returns assessments for one project, newest first.
func (r *AssessmentRepository) ListByProject(ctx context.Context, projectID string) ([]types.DefectAssessment, error) {
	query := `SELECT id, project_id, filename, label, severity_score, severe, detector, created_at
		FROM defect_assessments
		WHERE project_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list assessments", err)
	}
	defer rows.Close()

	var out []types.DefectAssessment
	for rows.Next() {
		var (
			a         types.DefectAssessment
			projectID *string
		)
		if err := rows.Scan(&a.ID, &projectID, &a.Filename, &a.Label, &a.SeverityScore, &a.Severe, &a.DetectorUsed, &a.CreatedAt); err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan assessment row", err)
		}
		if projectID != nil {
			a.ProjectID = *projectID
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating assessment rows", err)
	}
	return out, nil
}
