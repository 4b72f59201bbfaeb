package dataset

import (
	"encoding/json"
	"sort"
	"strings"
)

// Kind is the logical type of a field, inferred from decoded JSON values.
type Kind string

const (
	KindBool   Kind = "bool"
	KindLong   Kind = "long"
	KindDouble Kind = "double"
	KindString Kind = "string"
	KindStruct Kind = "struct"
	KindArray  Kind = "array"
	KindNull   Kind = "null"
)

type Field struct {
	Name string
	Kind Kind
}

// Schema is the union of fields seen across all records, sorted by name.
type Schema struct {
	Fields []Field
}

// Infer walks every record and assigns each field the narrowest kind that
// covers all of its non-null values. Mixed-kind fields fall back to string.
func Infer(records []Record) Schema {
	counts := map[string]*tally{}
	for _, rec := range records {
		for name, v := range rec {
			t, ok := counts[name]
			if !ok {
				t = &tally{}
				counts[name] = t
			}
			switch val := v.(type) {
			case nil:
			case bool:
				t.bools++
			case json.Number:
				t.nums++
				if !strings.ContainsAny(val.String(), ".eE") {
					t.ints++
				}
			case float64:
				t.nums++
				if float64(int64(val)) == val {
					t.ints++
				}
			case string:
				t.strs++
			case map[string]any:
				t.structs++
			case []any:
				t.arrays++
			default:
				t.strs++
			}
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	s := Schema{Fields: make([]Field, 0, len(names))}
	for _, name := range names {
		s.Fields = append(s.Fields, Field{Name: name, Kind: counts[name].kind()})
	}
	return s
}

type tally struct {
	bools, nums, ints, strs, structs, arrays int
}

func (t *tally) kind() Kind {
	seen := 0
	for _, n := range []int{t.bools, t.nums, t.strs, t.structs, t.arrays} {
		if n > 0 {
			seen++
		}
	}
	switch {
	case seen == 0:
		return KindNull
	case seen > 1:
		return KindString
	case t.bools > 0:
		return KindBool
	case t.nums > 0:
		if t.ints == t.nums {
			return KindLong
		}
		return KindDouble
	case t.structs > 0:
		return KindStruct
	case t.arrays > 0:
		return KindArray
	default:
		return KindString
	}
}

// String renders the schema as "name:kind, ..." for log output.
func (s Schema) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.Name + ":" + string(f.Kind)
	}
	return strings.Join(parts, ", ")
}

// Kind returns the inferred kind of a field, or KindNull if unknown.
func (s Schema) Kind(name string) Kind {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Kind
		}
	}
	return KindNull
}
