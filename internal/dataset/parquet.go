package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// EncodeParquet serializes records into an in-memory Parquet file using the
// JSONWriter and a schema string derived from the inferred dataset schema.
// Nested struct/array values are stored as their JSON text.
func EncodeParquet(records []Record, schema Schema) ([]byte, error) {
	bf := newBufferFile()
	jw, err := writer.NewJSONWriter(parquetSchema(schema), bf, 4)
	if err != nil {
		return nil, fmt.Errorf("parquet writer init: %w", err)
	}
	for i, rec := range records {
		flat, err := flattenForParquet(rec, schema)
		if err != nil {
			return nil, fmt.Errorf("parquet record %d: %w", i+1, err)
		}
		if err := jw.Write(flat); err != nil {
			return nil, fmt.Errorf("parquet write record %d: %w", i+1, err)
		}
	}
	if err := jw.WriteStop(); err != nil {
		return nil, fmt.Errorf("parquet finalize: %w", err)
	}
	return bf.buf.Bytes(), nil
}

func parquetSchema(s Schema) string {
	type field struct {
		Tag string `json:"Tag"`
	}
	type root struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := root{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, f := range s.Fields {
		tag := "name=" + f.Name + ", repetitiontype=OPTIONAL, type="
		switch f.Kind {
		case KindBool:
			tag += "BOOLEAN"
		case KindLong:
			tag += "INT64"
		case KindDouble:
			tag += "DOUBLE"
		default:
			// v1.5.2 spells UTF8 as a type, not a converted type.
			tag += "UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, _ := json.Marshal(sc)
	return string(b)
}

// flattenForParquet renders a record to the JSON string form the JSONWriter
// expects, stringifying values whose column type is UTF8 but whose value is
// not already a string.
func flattenForParquet(rec Record, schema Schema) (string, error) {
	out := make(map[string]any, len(rec))
	for name, v := range rec {
		if v == nil {
			continue
		}
		switch schema.Kind(name) {
		case KindBool, KindLong, KindDouble:
			out[name] = v
		default:
			if s, ok := v.(string); ok {
				out[name] = s
			} else {
				b, err := json.Marshal(v)
				if err != nil {
					return "", err
				}
				out[name] = string(b)
			}
		}
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// bufferFile adapts a bytes.Buffer to source.ParquetFile for write-only use.
type bufferFile struct {
	buf *bytes.Buffer
}

func newBufferFile() *bufferFile { return &bufferFile{buf: &bytes.Buffer{}} }

func (b *bufferFile) Write(p []byte) (int, error) { return b.buf.Write(p) }
func (b *bufferFile) Read(p []byte) (int, error)  { return b.buf.Read(p) }
func (b *bufferFile) Close() error                { return nil }

func (b *bufferFile) Seek(offset int64, whence int) (int64, error) {
	return int64(b.buf.Len()), nil
}

func (b *bufferFile) Open(name string) (source.ParquetFile, error)   { return b, nil }
func (b *bufferFile) Create(name string) (source.ParquetFile, error) { return b, nil }
