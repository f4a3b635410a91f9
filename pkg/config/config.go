// Package config provides the run configuration for the merge tool.
package config

import (
	"encoding/json"
	"io/fs"

	"dario.cat/mergo"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is where the run configuration is looked up when no
// explicit path is given.
const DefaultFileName = ".confmerge.yml"

// ErrConfigParse indicates a run configuration file that cannot be parsed
var ErrConfigParse = errors.New("failed to parse run configuration")

// RunConfig controls tool behavior around the merge engine. Every field has
// a working default; a configuration file only overrides what it names.
type RunConfig struct {
	// Minimum level for diagnostic output
	LogLevel string `json:"log_level,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,default=info" yaml:"log_level"`
	// Log line format
	LogFormat string `json:"log_format,omitempty" jsonschema:"enum=text,enum=json,default=text" yaml:"log_format"`
	// Output format for merge reports
	ReportFormat string `json:"report_format,omitempty" jsonschema:"enum=markdown,enum=json,default=markdown" yaml:"report_format"`
	// Write a .bak copy of the target file before overwriting it
	Backup bool `json:"backup,omitempty" jsonschema:"default=false" yaml:"backup"`
	// Skip the interactive confirmation before overwriting files
	AssumeYes bool `json:"assume_yes,omitempty" jsonschema:"default=false" yaml:"assume_yes"`
}

// JSONSchemaExtend adds an example configuration to the RunConfig schema.
func (RunConfig) JSONSchemaExtend(schema *jsonschema.Schema) {
	schema.Examples = []any{
		map[string]any{
			"log_level":     "debug",
			"report_format": "json",
			"backup":        true,
		},
	}
}

// Default returns the configuration used when no file overrides it.
func Default() *RunConfig {
	return &RunConfig{
		LogLevel:     "info",
		LogFormat:    "text",
		ReportFormat: "markdown",
	}
}

// Load reads the configuration file at path from fsys and overlays it onto
// the defaults. A missing file is not an error; the defaults apply
// unchanged.
func Load(fsys fs.FS, path string) (*RunConfig, error) {
	cfg := Default()

	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		return nil, errors.Wrap(err, "reading run configuration")
	}

	loaded, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := mergo.Merge(cfg, *loaded, mergo.WithOverride); err != nil {
		return nil, errors.Wrap(err, "applying run configuration")
	}

	return cfg, nil
}

// Parse parses a run configuration from YAML or JSON.
func Parse(data []byte) (*RunConfig, error) {
	var cfg RunConfig

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		if jsonErr := json.Unmarshal(data, &cfg); jsonErr != nil {
			return nil, errors.Wrapf(ErrConfigParse, "as YAML or JSON: %v", err)
		}
	}

	return &cfg, nil
}
