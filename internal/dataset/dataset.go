// Package dataset holds the in-memory model for one stage's data: an ordered
// sequence of JSON records plus a schema inferred from the values observed.
package dataset

// Record is one row of a dataset, as decoded from a JSON Lines object.
type Record = map[string]any

// Dataset is read once, transformed once and written once per stage run. It is
// never mutated in place; transforms produce a derived dataset.
type Dataset struct {
	Records []Record
	Schema  Schema
}

func New(records []Record) *Dataset {
	return &Dataset{Records: records, Schema: Infer(records)}
}

func (d *Dataset) Len() int { return len(d.Records) }
