// Package transform defines the stage's transform chain. Built-in
// transformers register themselves by type name; a chain YAML picks and
// orders them, and deployments add their own by registering more.
package transform

import (
	"context"
	"fmt"
	"time"

	"etlstage/internal/dataset"
)

// Env is the invocation context every transformer sees.
type Env struct {
	JobName       string
	ExecutionID   string
	Stage         string
	PreviousStage string

	// Now is the clock used for processing timestamps. Tests inject a fixed one.
	Now func() time.Time
}

func (e Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Transformer derives a new record slice from the input. Implementations must
// not mutate the given records; dropping records is allowed and is reported
// by the stage as the filtered count.
type Transformer interface {
	Name() string
	Apply(ctx context.Context, records []dataset.Record, env Env) ([]dataset.Record, error)
}

/*──────── registry ───────*/

type Factory func(params map[string]any) (Transformer, error)

var reg = map[string]Factory{}

func Register(name string, f Factory) { reg[name] = f }

func New(name string, params map[string]any) (Transformer, error) {
	if f, ok := reg[name]; ok {
		return f(params)
	}
	return nil, fmt.Errorf("transform: unknown transformer %q", name)
}
