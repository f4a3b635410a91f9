// Package main provides a simple CLI to generate JSON Schema for the tool's
// file formats. This binary is not released; it's used via `go run` in
// workflows.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-labs/confmerge/pkg/schema"
)

const (
	modulePath = "github.com/smykla-labs/confmerge"
	// schemaFileMode is the permission mode for generated schema files.
	// Schemas need to be world-readable for CI verification and external tooling.
	schemaFileMode = 0o644
)

func main() {
	var (
		generateAll bool
		check       bool
		outputDir   string
		schemaType  string
	)

	flag.BoolVar(&generateAll, "all", false, "Generate all schemas (run-config, merge-report)")
	flag.BoolVar(&check, "check", false, "Verify committed schemas instead of writing them (requires --all)")
	flag.StringVar(&outputDir, "output-dir", "", "Output directory for generated schemas (required with --all)")
	flag.StringVar(&schemaType, "type", "run-config", "Schema type to generate: run-config or merge-report")
	flag.Parse()

	if generateAll {
		if outputDir == "" {
			fatalf("--output-dir is required when using --all")
		}

		if check {
			if err := checkAllSchemas(outputDir); err != nil {
				fatalf("checking schemas: %v", err)
			}

			return
		}

		if err := generateAllSchemas(outputDir); err != nil {
			fatalf("generating schemas: %v", err)
		}

		return
	}

	// Single schema generation (outputs to stdout)
	if err := generateSingleSchema(schemaType); err != nil {
		fatalf("%v", err)
	}
}

func generateAllSchemas(outputDir string) error {
	outputs, err := schema.GenerateAllSchemas(modulePath)
	if err != nil {
		return err
	}

	for _, output := range outputs {
		outputPath := filepath.Join(outputDir, output.Filename)

		if err := os.WriteFile(outputPath, output.Content, schemaFileMode); err != nil {
			return errors.Wrapf(err, "writing %s", output.Filename)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	return nil
}

// checkAllSchemas compares freshly generated schemas to the committed files
// and fails when any of them drifted.
func checkAllSchemas(outputDir string) error {
	outputs, err := schema.GenerateAllSchemas(modulePath)
	if err != nil {
		return err
	}

	stale := make([]string, 0, len(outputs))

	for _, output := range outputs {
		outputPath := filepath.Join(outputDir, output.Filename)

		committed, err := os.ReadFile(outputPath) //nolint:gosec // path comes from the command line
		if err != nil {
			return errors.Wrapf(err, "reading %s", outputPath)
		}

		if !bytes.Equal(committed, output.Content) {
			stale = append(stale, output.Filename)
			continue
		}

		fmt.Printf("OK %s\n", outputPath)
	}

	if len(stale) > 0 {
		return errors.Newf("out of date: %s (re-run schemagen --all)", strings.Join(stale, ", "))
	}

	return nil
}

func generateSingleSchema(schemaType string) error {
	st := schema.SchemaType(schemaType)

	// Validate schema type before calling generation function
	if st != schema.SchemaRunConfig && st != schema.SchemaMergeReport {
		return errors.Newf("invalid schema type %q: must be %q or %q",
			schemaType, schema.SchemaRunConfig, schema.SchemaMergeReport)
	}

	output, err := schema.GenerateSchemaForType(modulePath, st)
	if err != nil {
		return err
	}

	fmt.Print(string(output.Content))

	return nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
