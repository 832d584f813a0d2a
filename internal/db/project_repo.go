package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"fmrwatch/internal/types"
)

// ProjectRepository provides data access for the fmr_projects table. In a
// real deployment this table is fed by the LGU project-tracking data source;
// classification state is never written back to it.
type ProjectRepository struct {
	db DBTX
}

// NewProjectRepository creates a ProjectRepository backed by the given
// database connection (pool or transaction).
func NewProjectRepository(db DBTX) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// projectColumns is the standard column set for project queries. target_date
// is stored as its YYYY-MM-DD text form; the classifier owns parsing so a
// malformed value surfaces as a classification error, not a silent default.
const projectColumns = `p.id, p.name, p.location_lat, p.location_lon,
	p.target_date, p.progress_pct, p.created_at, p.updated_at`

func scanProject(rows pgx.Rows) (types.ProjectRecord, error) {
	var rec types.ProjectRecord
	err := rows.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Location.Lat,
		&rec.Location.Lon,
		&rec.TargetDate,
		&rec.ProgressPercent,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

// ListProjects returns all project records in insertion order. This is the
// ordered input feed consumed by the dashboard service.
func (r *ProjectRepository) ListProjects(ctx context.Context) ([]types.ProjectRecord, error) {
	query := `SELECT ` + projectColumns + `
		FROM fmr_projects p
		ORDER BY p.created_at, p.id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to list projects", err)
	}
	defer rows.Close()

	var recs []types.ProjectRecord
	for rows.Next() {
		rec, err := scanProject(rows)
		if err != nil {
			return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to scan project row", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "error iterating project rows", err)
	}

	return recs, nil
}

// GetByID fetches a single project record.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*types.ProjectRecord, error) {
	query := `SELECT ` + projectColumns + `
		FROM fmr_projects p
		WHERE p.id = $1`

	var rec types.ProjectRecord
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.Name,
		&rec.Location.Lat,
		&rec.Location.Lon,
		&rec.TargetDate,
		&rec.ProgressPercent,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.NewAppError(types.ErrCodeNotFoundProject, "project not found", err)
		}
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to get project", err)
	}
	return &rec, nil
}

// Create inserts a new project record. Names are unique within the displayed
// set; a duplicate maps to conflict_project_name_exists.
func (r *ProjectRepository) Create(ctx context.Context, rec *types.ProjectRecord) error {
	query := `INSERT INTO fmr_projects
		(id, name, location_lat, location_lon, target_date, progress_pct, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`

	_, err := r.db.Exec(ctx, query,
		rec.ID,
		rec.Name,
		rec.Location.Lat,
		rec.Location.Lon,
		rec.TargetDate,
		rec.ProgressPercent,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return types.NewAppError(types.ErrCodeConflictProjectName, "a project with this name already exists", err)
		}
		return types.NewAppError(types.ErrCodeInternalDB, "failed to create project", err)
	}
	return nil
}

// UpdateProgress sets the reported progress for a project.
func (r *ProjectRepository) UpdateProgress(ctx context.Context, id string, progressPct int) error {
	query := `UPDATE fmr_projects
		SET progress_pct = $2, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, progressPct)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to update project progress", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewAppError(types.ErrCodeNotFoundProject, "project not found", nil)
	}
	return nil
}
