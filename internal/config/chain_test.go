package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadChainSpec_OrderedTransformers(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`schema_version: v1
transformers:
  - name: keep-scored
    type: filter
    params:
      field: score
      op: gt
      value: 50
  - name: stamp
    type: metadata
`)
	path := filepath.Join(dir, "chain.yml")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write chain: %v", err)
	}

	cfg, err := LoadChainSpec(path)
	if err != nil {
		t.Fatalf("LoadChainSpec: %v", err)
	}
	if cfg.SchemaVersion != SupportedChainSchema {
		t.Fatalf("want schema %s, got %s", SupportedChainSchema, cfg.SchemaVersion)
	}
	if len(cfg.Transformers) != 2 {
		t.Fatalf("want 2 transformers, got %d", len(cfg.Transformers))
	}
	if cfg.Transformers[0].Type != "filter" || cfg.Transformers[1].Type != "metadata" {
		t.Fatalf("transformer order lost: %+v", cfg.Transformers)
	}
	if cfg.Transformers[0].Params["field"] != "score" {
		t.Fatalf("params lost: %+v", cfg.Transformers[0].Params)
	}
}

func TestLoadChainSpec_InvalidSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chain.yml")
	if err := os.WriteFile(path, []byte("schema_version: v999\n"), 0o644); err != nil {
		t.Fatalf("write chain: %v", err)
	}
	if _, err := LoadChainSpec(path); err == nil {
		t.Fatal("expected error for invalid schema_version")
	}
}

func TestLoadChainSpec_MissingFile(t *testing.T) {
	if _, err := LoadChainSpec(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
