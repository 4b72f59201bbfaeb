package transform

import (
	"context"
	"time"

	"etlstage/internal/dataset"
)

// Metadata field names merged into every output record.
const (
	FieldProcessingTimestamp = "processing_timestamp"
	FieldJobName             = "job_name"
	FieldExecutionID         = "execution_id"
	FieldStage               = "stage"
)

// Metadata appends the four processing-metadata fields to every record
// without altering the original field set. One timestamp is taken per run so
// output is reproducible modulo that field.
type Metadata struct{}

func NewMetadata(map[string]any) (Transformer, error) { return &Metadata{}, nil }

func (m *Metadata) Name() string { return "metadata" }

func (m *Metadata) Apply(ctx context.Context, records []dataset.Record, env Env) ([]dataset.Record, error) {
	stamp := env.now().UTC().Format(time.RFC3339Nano)
	out := make([]dataset.Record, len(records))
	for i, rec := range records {
		derived := make(dataset.Record, len(rec)+4)
		for k, v := range rec {
			derived[k] = v
		}
		derived[FieldProcessingTimestamp] = stamp
		derived[FieldJobName] = env.JobName
		derived[FieldExecutionID] = env.ExecutionID
		derived[FieldStage] = env.Stage
		out[i] = derived
	}
	return out, nil
}

func init() { Register("metadata", NewMetadata) }
