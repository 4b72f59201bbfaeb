package spec

// TransformerSpec is one step of the transform chain, in application order.
type TransformerSpec struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"` // registry key: "metadata", "filter", "rename", ...
	Params map[string]any `yaml:"params"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	// Ordered list of transforms applied between input read and output write.
	Transformers []TransformerSpec `yaml:"transformers"`
}
