package transform

import (
	"context"
	"fmt"

	"etlstage/internal/dataset"
)

// Chain applies transformers in order, each consuming the previous output.
type Chain struct {
	steps []Transformer
}

func NewChain(steps ...Transformer) *Chain { return &Chain{steps: steps} }

// Has reports whether a step with the given name is part of the chain.
func (c *Chain) Has(name string) bool {
	for _, s := range c.steps {
		if s.Name() == name {
			return true
		}
	}
	return false
}

// Append adds a step to the end of the chain.
func (c *Chain) Append(t Transformer) { c.steps = append(c.steps, t) }

func (c *Chain) Apply(ctx context.Context, records []dataset.Record, env Env) ([]dataset.Record, error) {
	out := records
	for _, step := range c.steps {
		var err error
		out, err = step.Apply(ctx, out, env)
		if err != nil {
			return nil, fmt.Errorf("transformer %s: %w", step.Name(), err)
		}
	}
	return out, nil
}
