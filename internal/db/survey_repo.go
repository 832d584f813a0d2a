package db

import (
	"context"
	"encoding/json"

	"fmrwatch/internal/types"
)

// SurveyRepository persists usability survey submissions. Responses are kept
// as a single JSONB document; the submission is opaque beyond the SUS score.
type SurveyRepository struct {
	db DBTX
}

// NewSurveyRepository creates a SurveyRepository backed by the given database
// connection.
func NewSurveyRepository(db DBTX) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// Create inserts a survey submission.
func (r *SurveyRepository) Create(ctx context.Context, sub *types.SurveySubmission) error {
	responses, err := json.Marshal(sub.Responses)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "failed to encode survey responses", err)
	}

	query := `INSERT INTO survey_submissions
		(id, instrument, respondent, responses, sus_score, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	var respondent *string
	if sub.Respondent != "" {
		respondent = &sub.Respondent
	}

	_, err = r.db.Exec(ctx, query,
		sub.ID,
		string(sub.Instrument),
		respondent,
		responses,
		sub.SUSScore,
		sub.SubmittedAt,
	)
	if err != nil {
		return types.NewAppError(types.ErrCodeInternalDB, "failed to store survey submission", err)
	}
	return nil
}

// CountByInstrument returns how many submissions exist per instrument.
func (r *SurveyRepository) CountByInstrument(ctx context.Context, instrument types.SurveyInstrument) (int, error) {
	query := `SELECT count(*) FROM survey_submissions WHERE instrument = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, string(instrument)).Scan(&count); err != nil {
		return 0, types.NewAppError(types.ErrCodeInternalDB, "failed to count survey submissions", err)
	}
	return count, nil
}
