// Package schema provides JSON Schema generation for the tool's file
// formats.
package schema

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"

	"github.com/smykla-labs/confmerge/internal/report"
	"github.com/smykla-labs/confmerge/pkg/config"
)

// SchemaOutput represents a generated schema with its metadata.
type SchemaOutput struct {
	// Name is the short identifier for this schema (e.g., "run-config")
	Name string
	// Filename is the output filename (e.g., "run-config.schema.json")
	Filename string
	// Content is the generated JSON schema bytes
	Content []byte
}

// SchemaType identifies the type of schema to generate.
type SchemaType string

const (
	// SchemaRunConfig generates the schema for .confmerge.yml
	SchemaRunConfig SchemaType = "run-config"
	// SchemaMergeReport generates the schema for merge report JSON output
	SchemaMergeReport SchemaType = "merge-report"
)

// commentPaths lists the source directories whose Go doc comments become
// JSON Schema descriptions.
var commentPaths = []string{
	"./pkg/config",
	"./pkg/merge",
	"./internal/report",
}

// GenerateSchemaForType generates the JSON Schema for the specified type.
func GenerateSchemaForType(modulePath string, schemaType SchemaType) (*SchemaOutput, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: true,
	}

	for _, path := range commentPaths {
		if err := reflector.AddGoComments(modulePath, path); err != nil {
			return nil, errors.Wrapf(err, "loading Go comments from %s", path)
		}
	}

	var schema *jsonschema.Schema

	var output SchemaOutput

	switch schemaType {
	case SchemaRunConfig:
		schema = reflector.Reflect(&config.RunConfig{})
		schema.ID = "https://raw.githubusercontent.com/smykla-labs/confmerge/main/schemas/run-config.schema.json"
		schema.Title = "Run Configuration"
		schema.Description = "Configuration for the confmerge tool. Place at .confmerge.yml next to the files you merge."

		output.Name = "run-config"
		output.Filename = "run-config.schema.json"

	case SchemaMergeReport:
		schema = reflector.Reflect(&report.MergeReport{})
		schema.ID = "https://raw.githubusercontent.com/smykla-labs/confmerge/main/schemas/merge-report.schema.json"
		schema.Title = "Merge Report"
		schema.Description = "Machine-readable record of one confmerge run, as emitted by --report with the json format."

		output.Name = "merge-report"
		output.Filename = "merge-report.schema.json"

	default:
		return nil, errors.Newf("unknown schema type: %s", schemaType)
	}

	schema.Version = "https://json-schema.org/draft/2020-12/schema"

	content, err := finalizeSchema(schema)
	if err != nil {
		return nil, err
	}

	output.Content = content

	return &output, nil
}

// GenerateAllSchemas generates every available schema.
func GenerateAllSchemas(modulePath string) ([]*SchemaOutput, error) {
	schemaTypes := []SchemaType{SchemaRunConfig, SchemaMergeReport}
	outputs := make([]*SchemaOutput, 0, len(schemaTypes))

	for _, schemaType := range schemaTypes {
		output, err := GenerateSchemaForType(modulePath, schemaType)
		if err != nil {
			return nil, errors.Wrapf(err, "generating %s schema", schemaType)
		}

		outputs = append(outputs, output)
	}

	return outputs, nil
}

// finalizeSchema converts a schema to JSON and applies post-processing.
// Note: Run `jsonschema fmt` on output for canonical key ordering.
func finalizeSchema(schema *jsonschema.Schema) ([]byte, error) {
	// Convert to JSON and back to map for post-processing
	schemaBytes, err := json.Marshal(schema)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling schema to bytes")
	}

	var schemaMap map[string]any
	if err = json.Unmarshal(schemaBytes, &schemaMap); err != nil {
		return nil, errors.Wrap(err, "unmarshaling schema to map")
	}

	applyLintFixes(schemaMap)

	output, err := json.MarshalIndent(schemaMap, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling final schema")
	}

	// Add trailing newline for better git diffs
	output = append(output, '\n')

	return output, nil
}

// applyLintFixes applies all lint-fixing transformations to the schema.
func applyLintFixes(schemaMap map[string]any) {
	normalizeDescriptions(schemaMap)
	removeTypeWithEnum(schemaMap)
}

// normalizeDescriptions recursively replaces newlines in description fields
// with spaces.
func normalizeDescriptions(v any) {
	switch val := v.(type) {
	case map[string]any:
		for key, value := range val {
			if key == "description" {
				if desc, ok := value.(string); ok {
					val[key] = strings.ReplaceAll(desc, "\n", " ")
				}
			} else {
				normalizeDescriptions(value)
			}
		}
	case []any:
		for _, item := range val {
			normalizeDescriptions(item)
		}
	}
}

// removeTypeWithEnum recursively removes "type" when "enum" is present.
// This fixes the enum_with_type lint rule: enum values already imply their
// type.
func removeTypeWithEnum(v any) {
	switch val := v.(type) {
	case map[string]any:
		if _, hasEnum := val["enum"]; hasEnum {
			delete(val, "type")
		}

		for _, value := range val {
			removeTypeWithEnum(value)
		}

	case []any:
		for _, item := range val {
			removeTypeWithEnum(item)
		}
	}
}
