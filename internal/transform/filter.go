package transform

import (
	"context"
	"encoding/json"
	"fmt"

	"etlstage/internal/dataset"
)

// Filter keeps records whose field compares against a literal value.
// Params: field (string), op (eq|ne|gt|lt), value (scalar). Records missing
// the field are dropped. When the field value and the literal are both
// numeric the comparison is numeric; otherwise both sides are rendered with
// fmt.Sprint and gt/lt compare lexicographically.
type Filter struct {
	field string
	op    string
	value any
}

func NewFilter(params map[string]any) (Transformer, error) {
	field, _ := params["field"].(string)
	if field == "" {
		return nil, fmt.Errorf("filter: param %q is required", "field")
	}
	op, _ := params["op"].(string)
	if op == "" {
		op = "eq"
	}
	switch op {
	case "eq", "ne", "gt", "lt":
	default:
		return nil, fmt.Errorf("filter: unsupported op %q", op)
	}
	value, ok := params["value"]
	if !ok {
		return nil, fmt.Errorf("filter: param %q is required", "value")
	}
	return &Filter{field: field, op: op, value: value}, nil
}

func (f *Filter) Name() string { return "filter" }

func (f *Filter) Apply(ctx context.Context, records []dataset.Record, env Env) ([]dataset.Record, error) {
	out := make([]dataset.Record, 0, len(records))
	for _, rec := range records {
		v, ok := rec[f.field]
		if !ok {
			continue
		}
		keep, err := f.matches(v)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *Filter) matches(v any) (bool, error) {
	if a, aok := toFloat(v); aok {
		if b, bok := toFloat(f.value); bok {
			switch f.op {
			case "eq":
				return a == b, nil
			case "ne":
				return a != b, nil
			case "gt":
				return a > b, nil
			case "lt":
				return a < b, nil
			}
		}
	}
	a, b := fmt.Sprint(v), fmt.Sprint(f.value)
	switch f.op {
	case "eq":
		return a == b, nil
	case "ne":
		return a != b, nil
	case "gt":
		return a > b, nil
	case "lt":
		return a < b, nil
	}
	return false, fmt.Errorf("filter: unsupported op %q", f.op)
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}

func init() { Register("filter", NewFilter) }
