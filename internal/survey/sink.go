// Package survey handles usability evaluation intake: Likert-scale
// submissions for the SUS and TAM instruments, SUS scoring, and dispatch to
// an evaluation sink. Storage is abstract so the UI layer never hardwires a
// persistence mechanism.
package survey

import (
	"context"
	"log/slog"

	"fmrwatch/internal/types"
)

// EvaluationSink receives completed survey submissions as events. The sink
// is fire-and-forget from the submitter's perspective; downstream analytics
// decide what to do with them.
type EvaluationSink interface {
	Publish(ctx context.Context, sub *types.SurveySubmission) error
}

// LogSink writes submissions to the structured log. Used in local mode and
// whenever no queue is configured.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Publish logs the submission summary. Individual answers stay out of the
// log; only the aggregate shape is recorded.
func (s *LogSink) Publish(ctx context.Context, sub *types.SurveySubmission) error {
	attrs := []any{
		"submission_id", sub.ID,
		"instrument", sub.Instrument,
		"responses", len(sub.Responses),
	}
	if sub.SUSScore != nil {
		attrs = append(attrs, "sus_score", *sub.SUSScore)
	}
	s.logger.InfoContext(ctx, "survey submission received", attrs...)
	return nil
}
