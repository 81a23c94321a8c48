package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionSweep removes expired session rows.
	TaskSessionSweep = "sessions:sweep"
	// TaskReportWarmup pre-populates the report cache.
	TaskReportWarmup = "reports:warmup"
)

// ReportWarmupPayload scopes a warmup run to one date range. Empty fields
// fall back to the report service defaults.
type ReportWarmupPayload struct {
	Dari   string `json:"dari,omitempty"`
	Sampai string `json:"sampai,omitempty"`
}

// NewSessionSweepTask constructs the sweep task. It carries no payload.
func NewSessionSweepTask() *asynq.Task {
	return asynq.NewTask(TaskSessionSweep, nil)
}

// NewReportWarmupTask constructs a warmup task for the given range.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}
