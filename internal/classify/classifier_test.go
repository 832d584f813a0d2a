package classify

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fmrwatch/internal/types"
)

// evalDate is a fixed evaluation date used across the tests.
var evalDate = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func dateStr(t time.Time) string {
	return t.Format(types.TargetDateLayout)
}

func TestClassify_DecisionRules(t *testing.T) {
	tests := []struct {
		name       string
		targetDate string
		progress   int
		want       types.ProjectStatus
	}{
		{"completed at exactly 100", dateStr(evalDate.AddDate(0, 3, 0)), 100, types.StatusCompleted},
		{"completed above 100", dateStr(evalDate.AddDate(0, 3, 0)), 110, types.StatusCompleted},
		{"completed with past target date", dateStr(evalDate.AddDate(0, 0, -45)), 100, types.StatusCompleted},
		{"completed one day past target", dateStr(evalDate.AddDate(0, 0, -1)), 100, types.StatusCompleted},
		{"delayed when past target", dateStr(evalDate.AddDate(0, 0, -1)), 99, types.StatusDelayed},
		{"delayed far past target", dateStr(evalDate.AddDate(-1, 0, 0)), 0, types.StatusDelayed},
		{"at risk inside window low progress", dateStr(evalDate.AddDate(0, 0, 10)), 40, types.StatusAtRisk},
		{"at risk at exactly 30 days", dateStr(evalDate.AddDate(0, 0, 30)), 79, types.StatusAtRisk},
		{"at risk due today", dateStr(evalDate), 50, types.StatusAtRisk},
		{"on track at 30 days with exactly 80", dateStr(evalDate.AddDate(0, 0, 30)), 80, types.StatusOnTrack},
		{"on track inside window high progress", dateStr(evalDate.AddDate(0, 0, 10)), 95, types.StatusOnTrack},
		{"on track outside window low progress", dateStr(evalDate.AddDate(0, 0, 31)), 10, types.StatusOnTrack},
		{"on track far out", dateStr(evalDate.AddDate(1, 0, 0)), 5, types.StatusOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.targetDate, tt.progress, evalDate)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestClassify_ColorFollowsStatus(t *testing.T) {
	cases := map[types.ProjectStatus]types.RGBA{
		types.StatusCompleted: {0, 255, 0, 160},
		types.StatusDelayed:   {255, 0, 0, 160},
		types.StatusAtRisk:    {255, 165, 0, 160},
		types.StatusOnTrack:   {0, 150, 255, 160},
	}
	inputs := map[types.ProjectStatus]struct {
		target   string
		progress int
	}{
		types.StatusCompleted: {dateStr(evalDate.AddDate(0, 1, 0)), 100},
		types.StatusDelayed:   {dateStr(evalDate.AddDate(0, 0, -5)), 50},
		types.StatusAtRisk:    {dateStr(evalDate.AddDate(0, 0, 5)), 50},
		types.StatusOnTrack:   {dateStr(evalDate.AddDate(0, 6, 0)), 50},
	}

	for status, in := range inputs {
		got, err := Classify(in.target, in.progress, evalDate)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
		assert.Equal(t, cases[status], got.DisplayColor, "color for %s", status)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	target := dateStr(evalDate.AddDate(0, 0, 20))

	first, err := Classify(target, 70, evalDate)
	require.NoError(t, err)
	second, err := Classify(target, 70, evalDate)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassify_TimeOfDayIgnored(t *testing.T) {
	// An evaluation instant late in the day must classify the same as
	// midnight of that day.
	lateEval := time.Date(2026, 1, 15, 23, 45, 0, 0, time.UTC)

	target := dateStr(evalDate.AddDate(0, 0, 30))
	atMidnight, err := Classify(target, 79, evalDate)
	require.NoError(t, err)
	atNight, err := Classify(target, 79, lateEval)
	require.NoError(t, err)

	assert.Equal(t, atMidnight.Status, atNight.Status)
	assert.Equal(t, 30, atNight.DaysRemaining)
}

func TestClassify_MalformedDate(t *testing.T) {
	for _, bad := range []string{"", "not-a-date", "2026/03/15", "15-03-2026", "2026-13-40"} {
		_, err := Classify(bad, 50, evalDate)
		require.Error(t, err, "input %q", bad)

		var appErr *types.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, types.ErrCodeValidationMalformedDate, appErr.Code)
	}
}

func TestClassify_NegativeDaysRemaining(t *testing.T) {
	got, err := Classify(dateStr(evalDate.AddDate(0, 0, -3)), 10, evalDate)
	require.NoError(t, err)
	assert.Equal(t, types.StatusDelayed, got.Status)
	assert.Equal(t, -3, got.DaysRemaining)
}

func TestRecords_PreservesOrderAndFailsWhole(t *testing.T) {
	recs := []types.ProjectRecord{
		{Name: "a", TargetDate: dateStr(evalDate.AddDate(0, 2, 0)), ProgressPercent: 60},
		{Name: "b", TargetDate: dateStr(evalDate.AddDate(0, 0, 26)), ProgressPercent: 40},
		{Name: "c", TargetDate: dateStr(evalDate.AddDate(0, -1, 0)), ProgressPercent: 100},
	}

	out, err := Records(recs, evalDate)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Name)
	assert.Equal(t, "b", out[1].Name)
	assert.Equal(t, "c", out[2].Name)
	assert.Equal(t, types.StatusCompleted, out[2].Status)

	// One malformed record poisons the whole pass; no partial output.
	recs[1].TargetDate = "garbage"
	out, err = Records(recs, evalDate)
	require.Error(t, err)
	assert.Nil(t, out)
}
