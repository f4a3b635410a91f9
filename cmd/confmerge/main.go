package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/smykla-labs/confmerge/pkg/config"
	"github.com/smykla-labs/confmerge/pkg/diff"
	"github.com/smykla-labs/confmerge/pkg/document"
	"github.com/smykla-labs/confmerge/pkg/logger"
)

var version = "dev"

// goDump renders value trees as deterministic Go syntax.
var goDump = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// getStringFlagWithEnvFallback retrieves a string flag value with environment variable fallback.
// Priority: 1) explicit flag value, 2) CONFMERGE_* env var.
func getStringFlagWithEnvFallback(cmd *cobra.Command, flagName string) string {
	// Check explicit flag value
	val, _ := cmd.Flags().GetString(flagName)
	if val != "" {
		return val
	}

	envKey := "CONFMERGE_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))

	return os.Getenv(envKey)
}

// getPersistentStringFlagWithEnvFallback retrieves a persistent flag value with environment variable fallback.
// Priority: 1) explicit flag value, 2) CONFMERGE_* env var.
func getPersistentStringFlagWithEnvFallback(cmd *cobra.Command, flagName string) string {
	// Check explicit flag value
	val, _ := cmd.Root().PersistentFlags().GetString(flagName)
	if val != "" {
		return val
	}

	envKey := "CONFMERGE_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))

	return os.Getenv(envKey)
}

// loadRunConfig resolves the run configuration path and loads the file.
// Priority: 1) --config flag, 2) CONFMERGE_CONFIG env var, 3) the default
// file name in the working directory. A missing file yields the defaults.
func loadRunConfig(cmd *cobra.Command) (*config.RunConfig, error) {
	path := getPersistentStringFlagWithEnvFallback(cmd, "config")
	if path == "" {
		path = config.DefaultFileName
	}

	return config.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// readDocument reads a document file as text.
func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // paths come from the command line
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}

	return string(data), nil
}

// Cobra root command and initialization

var rootCmd = &cobra.Command{
	Use:   "confmerge",
	Short: "Structural merge tool for configuration documents",
	Long: `confmerge merges configuration documents written in a constrained
YAML-like subset. Existing content is preserved, new sections are added,
sequences are combined without duplicates, and every change is recorded
in a changelog.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadRunConfig(cmd)
		if err != nil {
			return err
		}

		// Flags and env vars win over the configuration file
		logLevel := getPersistentStringFlagWithEnvFallback(cmd, "log-level")
		if logLevel == "" {
			logLevel = cfg.LogLevel
		}

		logFormat := getPersistentStringFlagWithEnvFallback(cmd, "log-format")
		if logFormat == "" {
			logFormat = cfg.LogFormat
		}

		// Initialize logger
		log := logger.NewWithFormat(logLevel, logFormat)

		// Inject logger into context
		ctx := logger.WithContext(cmd.Context(), log)
		cmd.SetContext(ctx)

		return nil
	},
}

// Cobra command definitions

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display the current version of confmerge",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Printf("confmerge version %s\n", version)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate documents against the supported subset",
	Long: `Parse each file and report whether it is a valid document. With
--strict every valid document is also decoded as full YAML and differences
between the two readings are reported as warnings.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)

		strict, _ := cmd.Flags().GetBool("strict")

		invalid := 0

		for _, path := range args {
			text, err := readDocument(path)
			if err != nil {
				return err
			}

			verdict := document.Validate(text)
			if !verdict.Valid {
				invalid++

				fmt.Printf("❌ %s: invalid\n", path)

				for _, problem := range verdict.Errors {
					fmt.Printf("   %s\n", problem)
				}

				continue
			}

			fmt.Printf("✅ %s: valid\n", path)

			if strict {
				for _, warning := range strictWarnings(text) {
					fmt.Printf("⚠️ %s: %s\n", path, warning)
				}
			}
		}

		log.Debug("validation finished", "files", len(args), "invalid", invalid)

		if invalid > 0 {
			return errors.Newf("%d of %d file(s) failed validation", invalid, len(args))
		}

		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the parsed form of a document",
	Long:  "Parse a document and print its value tree as normalized JSON or Go syntax",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		text, err := readDocument(args[0])
		if err != nil {
			return err
		}

		value, err := document.Parse(text)
		if err != nil {
			return err
		}

		switch format {
		case "json":
			out, err := document.EncodeJSON(value)
			if err != nil {
				return err
			}

			fmt.Println(string(out))

		case "go":
			fmt.Print(goDump.Sdump(value))

		default:
			return errors.Newf("unknown format %q: must be %q or %q", format, "json", "go")
		}

		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Diff two documents",
	Long: `Print a unified diff of the normalized serializations of two
documents. With --patch an RFC 7396 merge patch from the first document to
the second is printed instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, _ := cmd.Flags().GetBool("patch")

		beforeValue, afterValue, err := parsePair(args[0], args[1])
		if err != nil {
			return err
		}

		if patch {
			out, err := diff.MergePatch(beforeValue, afterValue)
			if err != nil {
				return err
			}

			fmt.Println(string(out))

			return nil
		}

		beforeText, err := document.Serialize(beforeValue, 0)
		if err != nil {
			return err
		}

		afterText, err := document.Serialize(afterValue, 0)
		if err != nil {
			return err
		}

		unified, err := diff.Unified(beforeText, afterText, args[0], args[1])
		if err != nil {
			return err
		}

		if unified == "" {
			fmt.Println("documents are identical after normalization")
			return nil
		}

		fmt.Print(unified)

		return nil
	},
}

// strictWarnings cross-checks a valid document against a full YAML reading
// and reports any divergence.
func strictWarnings(text string) []string {
	parsed, err := document.Parse(text)
	if err != nil {
		return nil
	}

	decoded, err := document.DecodeYAML([]byte(text))
	if err != nil {
		return []string{fmt.Sprintf("full YAML reading failed: %v", err)}
	}

	if !document.Equal(parsed, decoded) {
		return []string{"full YAML reads this document differently; quote ambiguous scalars"}
	}

	return nil
}

// parsePair reads and parses two document files.
func parsePair(pathA, pathB string) (document.Value, document.Value, error) {
	textA, err := readDocument(pathA)
	if err != nil {
		return nil, nil, err
	}

	textB, err := readDocument(pathB)
	if err != nil {
		return nil, nil, err
	}

	valueA, err := document.Parse(textA)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parsing %s", pathA)
	}

	valueB, err := document.Parse(textB)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parsing %s", pathB)
	}

	return valueA, valueB, nil
}

func init() {
	// Add persistent flags (global flags available to all commands)
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")
	rootCmd.PersistentFlags().String("config", "", "Path to the run configuration file")

	// Configure validate command flags
	validateCmd.Flags().Bool("strict", false, "Cross-check valid documents against full YAML")

	// Configure inspect command flags
	inspectCmd.Flags().String("format", "json", "Output format (json|go)")

	// Configure diff command flags
	diffCmd.Flags().Bool("patch", false, "Print an RFC 7396 merge patch instead of a unified diff")

	// Add commands to root
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(diffCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
