// Package commit emits the stage's success signal. The binding contract with
// the orchestrator is the process exit status; notifiers make the commit
// observable to other consumers as well.
package commit

import (
	"context"
	"log/slog"
	"time"
)

// Receipt describes one committed stage run.
type Receipt struct {
	JobName         string    `json:"job_name"`
	ExecutionID     string    `json:"execution_id"`
	Stage           string    `json:"stage"`
	PreviousStage   string    `json:"previous_stage"`
	InputRecords    int       `json:"input_records"`
	OutputRecords   int       `json:"output_records"`
	FilteredRecords int       `json:"filtered_records"`
	OutputBucket    string    `json:"output_bucket"`
	OutputKey       string    `json:"output_key"`
	CommittedAt     time.Time `json:"committed_at"`
}

type Notifier interface {
	Publish(ctx context.Context, r Receipt) error
	Close() error
}

// LogNotifier is the default: the commit is visible in the log stream only.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier { return &LogNotifier{log: log} }

func (n *LogNotifier) Publish(ctx context.Context, r Receipt) error {
	n.log.Info("commit receipt",
		"execution_id", r.ExecutionID,
		"stage", r.Stage,
		"output_records", r.OutputRecords,
		"committed_at", r.CommittedAt)
	return nil
}

func (n *LogNotifier) Close() error { return nil }
