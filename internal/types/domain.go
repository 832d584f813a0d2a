// Package types defines the shared domain model for the fmrwatch service:
// project records, derived classifications, defect assessments, survey
// submissions, and the error/context plumbing used across layers.
package types

import "time"

// TargetDateLayout is the calendar-date format used for project target dates
// throughout the system (API parameters, stored records, seed data).
const TargetDateLayout = "2006-01-02"

// Location is a geographic point in decimal degrees.
type Location struct {
	Lat float64 `json:"lat" db:"location_lat"`
	Lon float64 `json:"lon" db:"location_lon"`
}

// RGBA is a display color tuple. It is determined solely by ProjectStatus and
// carried through to the map layer unchanged.
type RGBA [4]uint8

// ProjectRecord is a single FMR construction project as supplied by the
// tracking data source. Immutable during an evaluation pass.
type ProjectRecord struct {
	ID              string   `json:"id" db:"id"`
	Name            string   `json:"name" db:"name"`
	Location        Location `json:"location"`
	TargetDate      string   `json:"target_date" db:"target_date"` // YYYY-MM-DD
	ProgressPercent int      `json:"progress_pct" db:"progress_pct"`

	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Classification is the output of the status classifier for one project.
type Classification struct {
	Status        ProjectStatus `json:"status"`
	DisplayColor  RGBA          `json:"display_color"`
	DaysRemaining int           `json:"days_remaining"`
}

// ClassifiedProject is a ProjectRecord augmented with its derived
// classification. Recomputed on every evaluation; never persisted.
type ClassifiedProject struct {
	ProjectRecord
	Classification
}

// DefectAssessment is the stored result of running the defect detector over
// an uploaded field image. Severity scores feed the future prioritization
// index consumer.
type DefectAssessment struct {
	ID            string    `json:"id" db:"id"`
	ProjectID     string    `json:"project_id,omitempty" db:"project_id"`
	Filename      string    `json:"filename" db:"filename"`
	Label         string    `json:"label" db:"label"`
	SeverityScore int       `json:"severity_score" db:"severity_score"`
	Severe        bool      `json:"severe" db:"severe"`
	DetectorUsed  string    `json:"detector" db:"detector"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// SurveyResponse is a single Likert-scale answer.
type SurveyResponse struct {
	Question string `json:"question" validate:"required,max=500"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
}

// SurveySubmission is one completed questionnaire. SUSScore is populated only
// for complete 10-item SUS submissions.
type SurveySubmission struct {
	ID          string           `json:"id" db:"id"`
	Instrument  SurveyInstrument `json:"instrument" db:"instrument"`
	Respondent  string           `json:"respondent,omitempty" db:"respondent"`
	Responses   []SurveyResponse `json:"responses"`
	SUSScore    *float64         `json:"sus_score,omitempty" db:"sus_score"`
	SubmittedAt time.Time        `json:"submitted_at" db:"submitted_at"`
}

// MapViewState describes the initial camera for the dashboard map widget.
type MapViewState struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Zoom   int     `json:"zoom"`
	Pitch  int     `json:"pitch"`
	Radius int     `json:"radius_m"`
}

// MapMarker is one scatter-layer point on the dashboard map. Position is
// (lon, lat) to match the renderer's coordinate order.
type MapMarker struct {
	Position  [2]float64 `json:"position"`
	FillColor RGBA       `json:"fill_color"`
	Tooltip   string     `json:"tooltip"`
}

// TableRow is one row of the project directory view. Field order matches the
// rendered column order.
type TableRow struct {
	Name            string        `json:"name"`
	Status          ProjectStatus `json:"status"`
	ProgressPercent int           `json:"progress_pct"`
	TargetDate      string        `json:"target_date"`
	Lat             float64       `json:"lat"`
	Lon             float64       `json:"lon"`
}

// StatusCount pairs a status with the number of projects currently in it.
type StatusCount struct {
	Status ProjectStatus `json:"status"`
	Count  int           `json:"count"`
}
