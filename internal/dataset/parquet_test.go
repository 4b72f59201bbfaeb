package dataset

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func mustNumber(s string) json.Number { return json.Number(s) }

func TestEncodeParquet(t *testing.T) {
	records, err := DecodeJSONL(strings.NewReader(
		`{"id":1,"name":"a","score":0.5,"ok":true,"meta":{"x":1}}` + "\n" +
			`{"id":2,"name":"b","score":1.5,"ok":false,"meta":{"x":2}}` + "\n"))
	if err != nil {
		t.Fatalf("DecodeJSONL: %v", err)
	}

	body, err := EncodeParquet(records, Infer(records))
	if err != nil {
		t.Fatalf("EncodeParquet: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("empty parquet body")
	}
	if !bytes.HasPrefix(body, []byte("PAR1")) {
		t.Fatalf("missing parquet magic, got prefix %q", body[:4])
	}
	if !bytes.HasSuffix(body, []byte("PAR1")) {
		t.Fatal("missing parquet footer magic")
	}
}

func TestParquetSchema_Types(t *testing.T) {
	s := Infer([]Record{{"n": mustNumber("1"), "d": mustNumber("0.5"), "b": true, "s": "x"}})
	schema := parquetSchema(s)
	for _, want := range []string{"type=INT64", "type=DOUBLE", "type=BOOLEAN", "type=UTF8"} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema missing %s: %s", want, schema)
		}
	}
	if strings.Contains(schema, "convertedtype") {
		t.Errorf("schema carries a tag the writer does not parse: %s", schema)
	}
}

func TestEncodeParquet_StringColumns(t *testing.T) {
	records := []Record{
		{"name": "a", "tags": []any{"x", "y"}},
		{"name": "b", "tags": []any{"z"}},
	}
	body, err := EncodeParquet(records, Infer(records))
	if err != nil {
		t.Fatalf("EncodeParquet: %v", err)
	}
	if !bytes.HasPrefix(body, []byte("PAR1")) {
		t.Fatal("missing parquet magic")
	}
}
