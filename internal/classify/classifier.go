// Package classify implements the project status classifier: a pure,
// deterministic mapping from (target date, progress percentage, evaluation
// date) to a status label and display color. It performs no I/O and holds no
// state; callers re-run it on every render pass.
package classify

import (
	"time"

	"fmrwatch/internal/types"
)

// Display colors by status. Alpha 160 matches the dashboard's solid marker
// fill.
var (
	colorCompleted = types.RGBA{0, 255, 0, 160}
	colorDelayed   = types.RGBA{255, 0, 0, 160}
	colorAtRisk    = types.RGBA{255, 165, 0, 160}
	colorOnTrack   = types.RGBA{0, 150, 255, 160}
)

// atRiskWindowDays is the inclusive days-remaining bound for the At Risk rule.
const atRiskWindowDays = 30

// atRiskProgressBound is the exclusive progress bound for the At Risk rule.
// A project at exactly this progress is On Track even inside the window.
const atRiskProgressBound = 80

// Classify evaluates the status decision rules in strict order, first match
// wins:
//
//  1. progress >= 100                            -> Completed
//  2. days remaining < 0                         -> Delayed
//  3. days remaining <= 30 and progress < 80     -> At Risk
//  4. otherwise                                  -> On Track
//
// targetDate is a YYYY-MM-DD string; an unparseable value returns a
// validation_malformed_date error and no classification. Progress above 100
// is accepted and treated as completed. Rule 1 short-circuits the date rules,
// so a finished project with a past target date is Completed, not Delayed.
func Classify(targetDate string, progressPercent int, evaluationDate time.Time) (types.Classification, error) {
	target, err := types.ParseTargetDate(targetDate)
	if err != nil {
		return types.Classification{}, err
	}

	days := daysBetween(evaluationDate, target)

	switch {
	case progressPercent >= 100:
		return types.Classification{Status: types.StatusCompleted, DisplayColor: colorCompleted, DaysRemaining: days}, nil
	case days < 0:
		return types.Classification{Status: types.StatusDelayed, DisplayColor: colorDelayed, DaysRemaining: days}, nil
	case days <= atRiskWindowDays && progressPercent < atRiskProgressBound:
		return types.Classification{Status: types.StatusAtRisk, DisplayColor: colorAtRisk, DaysRemaining: days}, nil
	default:
		return types.Classification{Status: types.StatusOnTrack, DisplayColor: colorOnTrack, DaysRemaining: days}, nil
	}
}

// Project classifies a single project record.
func Project(rec types.ProjectRecord, evaluationDate time.Time) (types.ClassifiedProject, error) {
	c, err := Classify(rec.TargetDate, rec.ProgressPercent, evaluationDate)
	if err != nil {
		return types.ClassifiedProject{}, err
	}
	return types.ClassifiedProject{ProjectRecord: rec, Classification: c}, nil
}

// Records classifies an ordered record set, preserving input order. A single
// malformed target date fails the whole pass; partial results would
// misrepresent project health.
func Records(recs []types.ProjectRecord, evaluationDate time.Time) ([]types.ClassifiedProject, error) {
	out := make([]types.ClassifiedProject, 0, len(recs))
	for _, rec := range recs {
		cp, err := Project(rec, evaluationDate)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}

// daysBetween returns the whole calendar days from to target, ignoring the
// time-of-day component of both instants.
func daysBetween(from, target time.Time) int {
	f := truncateToDate(from)
	t := truncateToDate(target)
	return int(t.Sub(f).Hours() / 24)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
