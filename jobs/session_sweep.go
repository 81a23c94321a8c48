package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/fisioklinik/fisioklinik/internal/jobs"
)

// SessionSweeper deletes expired session rows and reports how many went.
type SessionSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// SessionSweepJob physically removes sessions that lazy expiry already
// treats as dead, keeping the sessions table from growing without bound.
type SessionSweepJob struct {
	Sessions SessionSweeper
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

func NewSessionSweepJob(sessions SessionSweeper, logger *slog.Logger, metrics *jobmetrics.Metrics) *SessionSweepJob {
	return &SessionSweepJob{Sessions: sessions, Logger: logger, Metrics: metrics}
}

// Handle processes TaskSessionSweep tasks.
func (j *SessionSweepJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Sessions == nil {
		return errors.New("session sweep: handler not configured")
	}
	tracker := j.Metrics.Track(TaskSessionSweep)
	removed, err := j.Sessions.SweepExpired(ctx)
	if err != nil {
		j.logger().Error("session sweep", slog.Any("error", err))
		return tracker.End(err)
	}
	j.Metrics.AddSessionsSwept(removed)
	j.logger().Info("session sweep selesai", slog.Int64("removed", removed))
	return tracker.End(nil)
}

func (j *SessionSweepJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
