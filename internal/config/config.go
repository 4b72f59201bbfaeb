// Package config resolves the stage's invocation arguments into a typed,
// validated structure before any I/O happens.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "ETLSTAGE_"

// Output formats for the derived dataset.
const (
	FormatJSONL   = "jsonl"
	FormatParquet = "parquet"
)

// Config carries everything one stage invocation needs. The first eight
// fields are the required workflow arguments; the rest are optional knobs.
type Config struct {
	JobName       string `koanf:"job-name"`
	ExecutionID   string `koanf:"execution-id"`
	InputBucket   string `koanf:"input-bucket"`
	InputKey      string `koanf:"input-key"`
	OutputBucket  string `koanf:"output-bucket"`
	OutputKey     string `koanf:"output-key"`
	CurrentStage  string `koanf:"current-stage"`
	PreviousStage string `koanf:"previous-stage"`

	StoreDriver  string `koanf:"store-driver"`
	S3Region     string `koanf:"s3-region"`
	S3Endpoint   string `koanf:"s3-endpoint"`
	OutputFormat string `koanf:"output-format"`
	ChainFile    string `koanf:"chain-file"`

	CommitBrokers string `koanf:"commit-brokers"` // comma-separated; empty disables the Kafka notifier
	CommitTopic   string `koanf:"commit-topic"`

	MetricsPushURL string `koanf:"metrics-push-url"`

	LogLevel  string `koanf:"log-level"`
	LogFormat string `koanf:"log-format"`
}

// RegisterFlags declares every argument on the given flag set. Shared between
// the command entrypoint and tests.
func RegisterFlags(f *pflag.FlagSet) {
	f.String("config", "", "optional YAML file with stage arguments")

	f.String("job-name", "", "workflow job name (required)")
	f.String("execution-id", "", "workflow execution id (required)")
	f.String("input-bucket", "", "bucket holding the input dataset (required)")
	f.String("input-key", "", "key of the input dataset (required)")
	f.String("output-bucket", "", "bucket for the output dataset (required)")
	f.String("output-key", "", "key for the output dataset (required)")
	f.String("current-stage", "", "name of this stage (required)")
	f.String("previous-stage", "", "name of the stage that produced the input (required)")

	f.String("store-driver", "s3", "object store driver: s3 or memory")
	f.String("s3-region", "", "AWS region for the s3 driver")
	f.String("s3-endpoint", "", "custom S3 endpoint (path-style, for local stacks)")
	f.String("output-format", FormatJSONL, "output serialization: jsonl or parquet")
	f.String("chain-file", "", "transform chain YAML; default chain is metadata only")

	f.String("commit-brokers", "", "comma-separated Kafka brokers for commit events")
	f.String("commit-topic", "", "Kafka topic for commit events")

	f.String("metrics-push-url", "", "Pushgateway base URL for run metrics")

	f.String("log-level", "info", "log level: debug, info, warn, error")
	f.String("log-format", "text", "log format: text, json or tint")
}

// Load merges an optional YAML file, environment overrides (prefix ETLSTAGE_,
// e.g. ETLSTAGE_EXECUTION_ID) and the parsed flag set, flags winning.
func Load(flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path, _ := flags.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	_ = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "_", "-")
	}), nil)

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(c *Config) {
	if c.StoreDriver == "" {
		c.StoreDriver = "s3"
	}
	if c.OutputFormat == "" {
		c.OutputFormat = FormatJSONL
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Validate checks the eight required workflow arguments and the enum knobs.
// It is called before any client is constructed, so a bad invocation never
// touches the network.
func (c Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"job-name", c.JobName},
		{"execution-id", c.ExecutionID},
		{"input-bucket", c.InputBucket},
		{"input-key", c.InputKey},
		{"output-bucket", c.OutputBucket},
		{"output-key", c.OutputKey},
		{"current-stage", c.CurrentStage},
		{"previous-stage", c.PreviousStage},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required arguments: %s", strings.Join(missing, ", "))
	}
	if c.OutputFormat != FormatJSONL && c.OutputFormat != FormatParquet {
		return fmt.Errorf("output-format %q not supported (want %s or %s)", c.OutputFormat, FormatJSONL, FormatParquet)
	}
	if c.CommitBrokers != "" && c.CommitTopic == "" {
		return fmt.Errorf("commit-topic is required when commit-brokers is set")
	}
	return nil
}

// Brokers splits the comma-separated broker list.
func (c Config) Brokers() []string {
	if c.CommitBrokers == "" {
		return nil
	}
	parts := strings.Split(c.CommitBrokers, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
