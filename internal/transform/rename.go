package transform

import (
	"context"
	"fmt"

	"etlstage/internal/dataset"
)

// Rename maps field names on every record. Params: fields (old-name to
// new-name mapping). Records without a listed field pass through untouched.
type Rename struct {
	fields map[string]string
}

func NewRename(params map[string]any) (Transformer, error) {
	raw, ok := params["fields"].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("rename: param %q must be a non-empty mapping", "fields")
	}
	fields := make(map[string]string, len(raw))
	for from, to := range raw {
		s, ok := to.(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("rename: target for %q must be a non-empty string", from)
		}
		fields[from] = s
	}
	return &Rename{fields: fields}, nil
}

func (r *Rename) Name() string { return "rename" }

func (r *Rename) Apply(ctx context.Context, records []dataset.Record, env Env) ([]dataset.Record, error) {
	out := make([]dataset.Record, len(records))
	for i, rec := range records {
		derived := make(dataset.Record, len(rec))
		for k, v := range rec {
			if to, ok := r.fields[k]; ok {
				derived[to] = v
			} else {
				derived[k] = v
			}
		}
		out[i] = derived
	}
	return out, nil
}

func init() { Register("rename", NewRename) }
