package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func newFlagSet(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return f
}

func requiredArgs() []string {
	return []string{
		"--job-name=enrich-candidates",
		"--execution-id=exec-123",
		"--input-bucket=workflow-data",
		"--input-key=executions/exec-123/extract/output.json",
		"--output-bucket=workflow-data",
		"--output-key=executions/exec-123/enrich/output.json",
		"--current-stage=enrich",
		"--previous-stage=extract",
	}
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load(newFlagSet(t, requiredArgs()...))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ExecutionID != "exec-123" {
		t.Fatalf("want execution id exec-123, got %q", cfg.ExecutionID)
	}
	if cfg.InputKey != "executions/exec-123/extract/output.json" {
		t.Fatalf("unexpected input key %q", cfg.InputKey)
	}
	if cfg.StoreDriver != "s3" || cfg.OutputFormat != FormatJSONL {
		t.Fatalf("defaults not applied: driver=%q format=%q", cfg.StoreDriver, cfg.OutputFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ETLSTAGE_OUTPUT_FORMAT", "parquet")
	t.Setenv("ETLSTAGE_S3_REGION", "eu-west-1")

	cfg, err := Load(newFlagSet(t, requiredArgs()...))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OutputFormat != FormatParquet {
		t.Fatalf("env override not applied, got %q", cfg.OutputFormat)
	}
	if cfg.S3Region != "eu-west-1" {
		t.Fatalf("env override not applied, got %q", cfg.S3Region)
	}
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("ETLSTAGE_CURRENT_STAGE", "from-env")

	cfg, err := Load(newFlagSet(t, requiredArgs()...))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CurrentStage != "enrich" {
		t.Fatalf("flag should win over env, got %q", cfg.CurrentStage)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stage.yml")
	raw := []byte(`job-name: from-file
execution-id: exec-file
input-bucket: b
input-key: executions/exec-file/a/output.json
output-bucket: b
output-key: executions/exec-file/b/output.json
current-stage: b
previous-stage: a
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(newFlagSet(t, "--config="+path))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.JobName != "from-file" || cfg.ExecutionID != "exec-file" {
		t.Fatalf("config file not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidate_MissingArguments(t *testing.T) {
	args := requiredArgs()[:6] // drop current-stage and previous-stage
	cfg, err := Load(newFlagSet(t, args...))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	err = cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing arguments")
	}
	for _, want := range []string{"current-stage", "previous-stage"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error should name %s, got: %v", want, err)
		}
	}
}

func TestValidate_BadOutputFormat(t *testing.T) {
	cfg, err := Load(newFlagSet(t, append(requiredArgs(), "--output-format=csv")...))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported output format")
	}
}

func TestValidate_CommitTopicRequiredWithBrokers(t *testing.T) {
	cfg, err := Load(newFlagSet(t, append(requiredArgs(), "--commit-brokers=localhost:9092")...))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing commit topic")
	}
}

func TestBrokers_SplitsAndTrims(t *testing.T) {
	cfg := Config{CommitBrokers: "a:9092, b:9092,"}
	got := cfg.Brokers()
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("unexpected brokers: %v", got)
	}
}
