package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/fisioklinik/fisioklinik/internal/jobs"
	"github.com/fisioklinik/fisioklinik/internal/reports"
)

// ReportWarmupJob pre-populates the report cache so the dashboard does not
// pay the aggregate-query cost on first view.
type ReportWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

func NewReportWarmupJob(reportsSvc *reports.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportWarmupJob {
	return &ReportWarmupJob{Reports: reportsSvc, Logger: logger, Metrics: metrics}
}

// Handle processes TaskReportWarmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	tracker := j.Metrics.Track(TaskReportWarmup)

	warmCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	start := time.Now()
	if _, err := j.Reports.Summary(warmCtx, payload.Dari, payload.Sampai); err != nil {
		j.logger().Error("report warmup", slog.Any("error", err))
		return tracker.End(err)
	}
	j.logger().Info("report warmup selesai", slog.Duration("duration", time.Since(start)))
	return tracker.End(nil)
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
