package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"etlstage/internal/spec"
)

const SupportedChainSchema = "v1"

// LoadChainSpec parses a transform chain YAML and validates schema_version.
func LoadChainSpec(path string) (spec.File, error) {
	var cfg spec.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedChainSchema
	}
	if cfg.SchemaVersion != SupportedChainSchema {
		return cfg, fmt.Errorf("chain schema_version %q not supported (want %q)", cfg.SchemaVersion, SupportedChainSchema)
	}
	return cfg, nil
}
