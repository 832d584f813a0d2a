package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmrwatch/internal/db"
	"fmrwatch/internal/types"
)

// failingSource always errors, standing in for a broken feed.
type failingSource struct{}

func (failingSource) ListProjects(_ context.Context) ([]types.ProjectRecord, error) {
	return nil, types.NewAppError(types.ErrCodeInternalDB, "feed unavailable", errors.New("boom"))
}

func evalDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(types.TargetDateLayout, s)
	require.NoError(t, err)
	return d
}

func TestService_Classified_SeedSet(t *testing.T) {
	svc := NewService(db.NewSeedProjectSource(), nil)

	// Evaluated on 2026-01-15: San Jose (due 2026-03-15, 60%) has 59 days
	// left, Sta. Cruz (due 2026-02-10, 40%) has 26 days left and is under
	// 80%, Mandurriao (100%) is complete regardless of its past target.
	projects, err := svc.Classified(context.Background(), evalDate(t, "2026-01-15"))
	require.NoError(t, err)
	require.Len(t, projects, 3)

	assert.Equal(t, "Brgy. San Jose Road Concreting", projects[0].Name)
	assert.Equal(t, types.StatusOnTrack, projects[0].Status)

	assert.Equal(t, "Sta. Cruz Repair Phase 2", projects[1].Name)
	assert.Equal(t, types.StatusAtRisk, projects[1].Status)

	assert.Equal(t, "Mandurriao-Jaro Link", projects[2].Name)
	assert.Equal(t, types.StatusCompleted, projects[2].Status)
}

func TestService_Classified_SourceError(t *testing.T) {
	svc := NewService(failingSource{}, nil)

	_, err := svc.Classified(context.Background(), evalDate(t, "2026-01-15"))
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeInternalDB, appErr.Code)
}

func TestService_BuildSnapshot(t *testing.T) {
	svc := NewService(db.NewSeedProjectSource(), nil)

	snap, err := svc.BuildSnapshot(context.Background(), evalDate(t, "2026-01-15"))
	require.NoError(t, err)

	assert.Equal(t, "2026-01-15", snap.EvaluatedAt)
	assert.Equal(t, DefaultViewState, snap.ViewState)
	require.Len(t, snap.Projects, 3)
	require.Len(t, snap.Markers, 3)
	require.Len(t, snap.Rows, 3)
	require.Len(t, snap.Counts, len(types.AllStatuses))

	// Every view is a projection of the same classified pass: marker colors
	// and row statuses agree element-wise with the project list.
	for i, p := range snap.Projects {
		assert.Equal(t, p.DisplayColor, snap.Markers[i].FillColor)
		assert.Equal(t, p.Status, snap.Rows[i].Status)
		assert.Equal(t, p.Name, snap.Rows[i].Name)
	}

	total := 0
	for _, c := range snap.Counts {
		total += c.Count
	}
	assert.Equal(t, len(snap.Projects), total)
}

func TestService_BuildSnapshot_EvaluationDateShiftsStatus(t *testing.T) {
	svc := NewService(db.NewSeedProjectSource(), nil)

	// Evaluated well before any deadline pressure, Sta. Cruz is still on
	// track; the at-risk call above depends entirely on the as-of date.
	snap, err := svc.BuildSnapshot(context.Background(), evalDate(t, "2025-06-01"))
	require.NoError(t, err)

	assert.Equal(t, types.StatusOnTrack, snap.Projects[1].Status)
}
