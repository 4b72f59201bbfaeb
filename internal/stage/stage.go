// Package stage runs one ETL stage: resolve arguments, read the input
// dataset, apply the transform chain, write the derived dataset, commit.
package stage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"etlstage/internal/commit"
	"etlstage/internal/config"
	"etlstage/internal/dataset"
	"etlstage/internal/logging"
	"etlstage/internal/telemetry"
	"etlstage/internal/transform"
	"etlstage/store"
)

// Stage is the scoped session for one invocation: the object store client,
// the transform chain, the commit notifier and the metrics registry. It is
// acquired once via Bootstrap and released via Close on every exit path.
type Stage struct {
	cfg      config.Config
	log      *slog.Logger
	store    store.Store
	chain    *transform.Chain
	notifier commit.Notifier
	metrics  *telemetry.Metrics

	runID string
	state State
}

// New wires a Stage from explicit collaborators. Bootstrap is the production
// path; tests construct their own store and notifier.
func New(cfg config.Config, st store.Store, chain *transform.Chain, notifier commit.Notifier) *Stage {
	s := &Stage{
		cfg:      cfg,
		log:      logging.L().With("execution_id", cfg.ExecutionID, "stage", cfg.CurrentStage),
		store:    st,
		chain:    chain,
		notifier: notifier,
		metrics:  telemetry.New(),
		runID:    uuid.NewString(),
		state:    StateIdle,
	}
	// Arguments are resolved before a Stage can be constructed.
	s.transition(StateArgsResolved)
	return s
}

// Bootstrap validates the invocation arguments and builds the session.
// Validation happens first: a bad argument set never constructs a client.
func Bootstrap(ctx context.Context, cfg config.Config) (*Stage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfiguration, err)
	}

	st, err := store.New(ctx, cfg.StoreDriver, store.Config{Region: cfg.S3Region, Endpoint: cfg.S3Endpoint})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfiguration, err)
	}

	chain, err := BuildChain(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfiguration, err)
	}

	var notifier commit.Notifier
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		notifier, err = commit.NewKafkaNotifier(brokers, cfg.CommitTopic)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrConfiguration, err)
		}
	} else {
		notifier = commit.NewLogNotifier(logging.L())
	}

	return New(cfg, st, chain, notifier), nil
}

// BuildChain loads the transform chain from the configured YAML, or the
// default metadata-only chain. The metadata step is appended when a custom
// chain omits it: every output record carries the processing metadata.
func BuildChain(cfg config.Config) (*transform.Chain, error) {
	if cfg.ChainFile == "" {
		meta, err := transform.New("metadata", nil)
		if err != nil {
			return nil, err
		}
		return transform.NewChain(meta), nil
	}

	file, err := config.LoadChainSpec(cfg.ChainFile)
	if err != nil {
		return nil, fmt.Errorf("chain file %s: %w", cfg.ChainFile, err)
	}
	chain := transform.NewChain()
	for _, t := range file.Transformers {
		step, err := transform.New(t.Type, t.Params)
		if err != nil {
			return nil, fmt.Errorf("chain step %s: %w", t.Name, err)
		}
		chain.Append(step)
	}
	if !chain.Has("metadata") {
		meta, err := transform.New("metadata", nil)
		if err != nil {
			return nil, err
		}
		chain.Append(meta)
	}
	return chain, nil
}

// Close releases the session. Safe to call after a failed run.
func (s *Stage) Close() error {
	return s.notifier.Close()
}

// State returns the current lifecycle state.
func (s *Stage) State() State { return s.state }

// Run executes the linear pipeline. Any error is logged with its context and
// returned; the caller maps it to a non-zero exit.
func (s *Stage) Run(ctx context.Context) error {
	start := time.Now()
	s.log.Info("stage started",
		"job_name", s.cfg.JobName,
		"previous_stage", s.cfg.PreviousStage,
		"run_id", s.runID,
		"input", store.Path(s.cfg.InputBucket, s.cfg.InputKey),
		"output", store.Path(s.cfg.OutputBucket, s.cfg.OutputKey))

	in, err := s.readInput(ctx)
	if err != nil {
		return s.fail(err)
	}
	s.transition(StateInputRead)

	out, err := s.applyTransforms(ctx, in)
	if err != nil {
		return s.fail(err)
	}
	s.transition(StateTransformed)

	if err := s.writeOutput(ctx, out); err != nil {
		return s.fail(err)
	}
	s.transition(StateOutputWritten)

	if err := s.commit(ctx, in.Len(), out.Len(), time.Since(start)); err != nil {
		return s.fail(err)
	}
	return nil
}

func (s *Stage) readInput(ctx context.Context) (*dataset.Dataset, error) {
	path := store.Path(s.cfg.InputBucket, s.cfg.InputKey)
	s.log.Info("reading input", "path", path)

	body, err := s.store.Get(ctx, s.cfg.InputBucket, s.cfg.InputKey)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrInputRead, path, err)
	}
	records, err := dataset.DecodeJSONL(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrInputRead, path, err)
	}
	ds := dataset.New(records)
	s.log.Info("input loaded", "path", path, "records", ds.Len(), "schema", ds.Schema.String())
	return ds, nil
}

func (s *Stage) applyTransforms(ctx context.Context, in *dataset.Dataset) (*dataset.Dataset, error) {
	env := transform.Env{
		JobName:       s.cfg.JobName,
		ExecutionID:   s.cfg.ExecutionID,
		Stage:         s.cfg.CurrentStage,
		PreviousStage: s.cfg.PreviousStage,
	}
	records, err := s.chain.Apply(ctx, in.Records, env)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransform, err)
	}
	out := dataset.New(records)
	s.log.Info("transform complete",
		"input_records", in.Len(),
		"output_records", out.Len(),
		"filtered_records", in.Len()-out.Len(),
		"schema", out.Schema.String())
	return out, nil
}

func (s *Stage) writeOutput(ctx context.Context, out *dataset.Dataset) error {
	path := store.Path(s.cfg.OutputBucket, s.cfg.OutputKey)

	var body []byte
	switch s.cfg.OutputFormat {
	case config.FormatParquet:
		var err error
		body, err = dataset.EncodeParquet(out.Records, out.Schema)
		if err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrOutputWrite, path, err)
		}
	default:
		var buf bytes.Buffer
		if err := dataset.EncodeJSONL(&buf, out.Records); err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrOutputWrite, path, err)
		}
		body = buf.Bytes()
	}

	if err := s.store.Put(ctx, s.cfg.OutputBucket, s.cfg.OutputKey, body); err != nil {
		return fmt.Errorf("%w: put %s: %w", ErrOutputWrite, path, err)
	}
	s.log.Info("output written", "path", path, "records", out.Len(), "bytes", len(body), "format", s.cfg.OutputFormat)
	return nil
}

func (s *Stage) commit(ctx context.Context, in, out int, elapsed time.Duration) error {
	receipt := commit.Receipt{
		JobName:         s.cfg.JobName,
		ExecutionID:     s.cfg.ExecutionID,
		Stage:           s.cfg.CurrentStage,
		PreviousStage:   s.cfg.PreviousStage,
		InputRecords:    in,
		OutputRecords:   out,
		FilteredRecords: in - out,
		OutputBucket:    s.cfg.OutputBucket,
		OutputKey:       s.cfg.OutputKey,
		CommittedAt:     time.Now().UTC(),
	}
	if err := s.notifier.Publish(ctx, receipt); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.transition(StateCommitted)
	s.log.Info("stage completed",
		"run_id", s.runID,
		"input_records", in,
		"output_records", out,
		"filtered_records", in-out,
		"duration", elapsed)

	s.metrics.ObserveRun(in, out, elapsed)
	if s.cfg.MetricsPushURL != "" {
		groupings := map[string]string{"execution_id": s.cfg.ExecutionID, "stage": s.cfg.CurrentStage}
		if err := s.metrics.Push(s.cfg.MetricsPushURL, s.cfg.JobName, groupings); err != nil {
			// Metrics are best-effort once the stage has committed.
			s.log.Warn("metrics push failed", "error", err)
		}
	}
	return nil
}

func (s *Stage) transition(next State) {
	s.state = next
	s.log.Debug("state transition", "state", next)
}

func (s *Stage) fail(err error) error {
	s.state = StateFailed
	s.log.Error("stage failed", "run_id", s.runID, "error", err)
	return err
}
