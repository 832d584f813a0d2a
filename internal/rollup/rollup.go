// Package rollup runs the periodic status distribution job. On each tick it
// classifies the current project feed and publishes the per-status counts so
// operators can chart progress drift over time without hitting the API.
package rollup

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"fmrwatch/internal/dashboard"
	"fmrwatch/internal/types"
)

// runTimeout bounds a single rollup pass.
const runTimeout = 30 * time.Second

// StatusSink receives the computed status distribution. Implemented by the
// CloudWatch collector; a nil sink means log-only rollups.
type StatusSink interface {
	RecordStatusCounts(ctx context.Context, counts []types.StatusCount)
}

// Job owns the cron scheduler for the status rollup.
type Job struct {
	service *dashboard.Service
	sink    StatusSink
	logger  *slog.Logger
	cron    *cron.Cron
	now     func() time.Time
}

// NewJob creates a rollup Job. Call Start to schedule it.
func NewJob(svc *dashboard.Service, sink StatusSink, logger *slog.Logger) *Job {
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{
		service: svc,
		sink:    sink,
		logger:  logger,
		cron:    cron.New(),
		now:     time.Now,
	}
}

// Start schedules the rollup on the given cron expression and starts the
// scheduler.
func (j *Job) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.runOnce); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("status rollup scheduled", "schedule", schedule)
	return nil
}

// Stop halts the scheduler and waits for any in-flight run to finish.
func (j *Job) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("status rollup stopped")
}

func (j *Job) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := j.Run(ctx); err != nil {
		j.logger.Error("status rollup failed", "error", err.Error())
	}
}

// Run executes one rollup pass: classify the feed as of now and publish the
// distribution.
func (j *Job) Run(ctx context.Context) error {
	evalDate := j.now().UTC()

	projects, err := j.service.Classified(ctx, evalDate)
	if err != nil {
		return err
	}

	counts := dashboard.StatusCounts(projects)
	attrs := make([]any, 0, len(counts)*2+2)
	attrs = append(attrs, "projects", len(projects))
	for _, sc := range counts {
		attrs = append(attrs, string(sc.Status), sc.Count)
	}
	j.logger.InfoContext(ctx, "status rollup completed", attrs...)

	if j.sink != nil {
		j.sink.RecordStatusCounts(ctx, counts)
	}
	return nil
}
