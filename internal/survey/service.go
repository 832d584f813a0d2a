package survey

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fmrwatch/internal/types"
)

// SubmissionStore persists survey submissions. Satisfied by
// db.SurveyRepository; nil disables persistence (submissions still reach the
// sink).
type SubmissionStore interface {
	Create(ctx context.Context, sub *types.SurveySubmission) error
}

// SubmitRequest is the inbound survey payload.
type SubmitRequest struct {
	Instrument string                 `json:"instrument" validate:"required,oneof=sus tam"`
	Respondent string                 `json:"respondent,omitempty" validate:"max=200"`
	Responses  []types.SurveyResponse `json:"responses" validate:"required,min=1,dive"`
}

// Service validates survey submissions, assigns identity, scores complete
// SUS questionnaires, and dispatches the result to storage and the sink.
type Service struct {
	store  SubmissionStore
	sink   EvaluationSink
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a survey Service. store may be nil when no database is
// configured.
func NewService(store SubmissionStore, sink EvaluationSink, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  store,
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

// Submit validates and records one survey submission.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*types.SurveySubmission, error) {
	instrument, err := parseInstrument(req.Instrument)
	if err != nil {
		return nil, err
	}
	if len(req.Responses) == 0 {
		return nil, types.NewAppError(types.ErrCodeValidationMissingField, "at least one response is required", nil)
	}
	for _, r := range req.Responses {
		if err := types.ValidateLikert(r.Rating); err != nil {
			return nil, err
		}
	}

	sub := &types.SurveySubmission{
		ID:          uuid.New().String(),
		Instrument:  instrument,
		Respondent:  req.Respondent,
		Responses:   req.Responses,
		SubmittedAt: s.now().UTC(),
	}
	if instrument == types.InstrumentSUS {
		sub.SUSScore = SUSScore(req.Responses)
	}

	if s.store != nil {
		if err := s.store.Create(ctx, sub); err != nil {
			return nil, err
		}
	}

	if err := s.sink.Publish(ctx, sub); err != nil {
		// The submission is already stored; a sink failure must not lose
		// the respondent's answers.
		s.logger.ErrorContext(ctx, "evaluation sink publish failed",
			"submission_id", sub.ID,
			"error", err,
		)
	}

	return sub, nil
}

func parseInstrument(s string) (types.SurveyInstrument, error) {
	switch types.SurveyInstrument(s) {
	case types.InstrumentSUS:
		return types.InstrumentSUS, nil
	case types.InstrumentTAM:
		return types.InstrumentTAM, nil
	default:
		return "", types.NewAppError(types.ErrCodeValidationInstrument,
			"instrument must be one of: sus, tam", nil)
	}
}
