package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeJSONL reads a JSON Lines stream into records, preserving order.
// Numbers are kept as json.Number so re-encoding reproduces the input bytes.
func DecodeJSONL(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var records []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode json lines record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// EncodeJSONL writes one JSON object per line. encoding/json sorts map keys,
// so output for a given record set is byte-reproducible.
func EncodeJSONL(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode json lines record %d: %w", i+1, err)
		}
	}
	return nil
}
