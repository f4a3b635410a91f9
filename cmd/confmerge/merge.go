package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/smykla-labs/confmerge/internal/report"
	"github.com/smykla-labs/confmerge/pkg/diff"
	"github.com/smykla-labs/confmerge/pkg/logger"
	"github.com/smykla-labs/confmerge/pkg/merge"
)

// mergedFileMode is the permission mode for written documents and backups.
const mergedFileMode = 0o644

var mergeCmd = &cobra.Command{
	Use:   "merge <file> <overlay>",
	Short: "Merge an overlay document into a file",
	Long: `Merge the overlay document into the target file. New sections are
added, conflicting scalars take the overlay value, sequences are combined
without duplicates, and keys only present in the target are preserved. The
merged document replaces the target file unless --output or --dry-run says
otherwise.`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)

	targetPath, overlayPath := args[0], args[1]

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	reportPath := getStringFlagWithEnvFallback(cmd, "report")

	// Unset flags fall back to the run configuration
	backup, _ := cmd.Flags().GetBool("backup")
	if !cmd.Flags().Changed("backup") {
		backup = cfg.Backup
	}

	assumeYes, _ := cmd.Flags().GetBool("yes")
	if !cmd.Flags().Changed("yes") {
		assumeYes = cfg.AssumeYes
	}

	reportFormat := getStringFlagWithEnvFallback(cmd, "report-format")
	if reportFormat == "" {
		reportFormat = cfg.ReportFormat
	}

	if outputPath == "" {
		outputPath = targetPath
	}

	existingText, err := readDocument(targetPath)
	if err != nil {
		return err
	}

	overlayText, err := readDocument(overlayPath)
	if err != nil {
		return err
	}

	log.Info("merging documents",
		"target", targetPath,
		"overlay", overlayPath,
		"dry_run", dryRun,
	)

	result := merge.MergeDocuments(existingText, overlayText)
	mergedText := result.ToText()

	// The report records failed runs too, so it goes out before the
	// success check
	if reportPath != "" {
		if err := writeMergeReport(log, targetPath, overlayPath, existingText, result, reportFormat, reportPath); err != nil {
			return err
		}
	}

	if !result.Success {
		return errors.Newf("merge failed: %s", strings.Join(result.Errors, "; "))
	}

	if dryRun {
		return printMergePreview(existingText, mergedText, targetPath)
	}

	if !assumeYes && isInteractive() {
		if !confirmMerge(result, outputPath) {
			log.Info("merge aborted")
			return nil
		}
	}

	if backup {
		if err := writeBackup(log, outputPath); err != nil {
			return err
		}
	}

	//nolint:gosec // merged documents are regular configuration files
	if err := os.WriteFile(outputPath, []byte(mergedText), mergedFileMode); err != nil {
		return errors.Wrapf(err, "writing %s", outputPath)
	}

	log.Info("merge completed successfully", "output", outputPath)

	return nil
}

// printMergePreview prints the unified diff a real run would apply.
func printMergePreview(existingText, mergedText, targetPath string) error {
	unified, err := diff.Unified(existingText, mergedText, targetPath, targetPath+" (merged)")
	if err != nil {
		return err
	}

	if unified == "" {
		fmt.Println("no changes")
		return nil
	}

	fmt.Print(unified)

	return nil
}

// confirmMerge shows the changelog summary and asks before writing.
func confirmMerge(result *merge.MergeResult, outputPath string) bool {
	summary := result.Changelog.Summary()

	printSummarySection("added", summary.Added)
	printSummarySection("deduplicated", summary.Deduplicated)
	printSummarySection("merged", summary.Merged)
	printSummarySection("preserved", summary.Preserved)

	return promptYesNo(fmt.Sprintf("Write merged document to %s?", outputPath))
}

func printSummarySection(name string, lines []string) {
	if len(lines) == 0 {
		return
	}

	fmt.Printf("%s:\n", name)

	for _, line := range lines {
		fmt.Printf("  %s\n", line)
	}
}

// writeBackup copies the current content of path to path.bak. A missing
// target means there is nothing to back up yet.
func writeBackup(log *logger.Logger, path string) error {
	current, err := os.ReadFile(path) //nolint:gosec // paths come from the command line
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return errors.Wrapf(err, "reading %s for backup", path)
	}

	backupPath := path + ".bak"

	//nolint:gosec // backups keep the permissions of regular documents
	if err := os.WriteFile(backupPath, current, mergedFileMode); err != nil {
		return errors.Wrapf(err, "writing backup %s", backupPath)
	}

	log.Debug("backup written", "file", backupPath)

	return nil
}

// writeMergeReport renders the merge report and writes it to the requested
// destination ("-" means stdout).
func writeMergeReport(
	log *logger.Logger,
	targetPath string,
	overlayPath string,
	existingText string,
	result *merge.MergeResult,
	formatName string,
	destination string,
) error {
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	content, err := report.Build(targetPath, overlayPath, existingText, result).Render(format)
	if err != nil {
		return err
	}

	if destination == "-" {
		destination = ""
	}

	return report.Write(log, content, destination)
}

func isInteractive() bool {
	//nolint:gosec // G115: Fd() returns uintptr; safe narrowing on all supported platforms
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // G115: same as above
}

func promptYesNo(question string) bool {
	reader := bufio.NewReader(os.Stdin)

	fmt.Printf("%s [y/N] ", question)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.ToLower(strings.TrimSpace(response))

	return response == "y" || response == "yes"
}

func init() {
	// Configure merge command flags
	mergeCmd.Flags().String("output", "", "Write the merged document to this path instead of the target file")
	mergeCmd.Flags().Bool("dry-run", false, "Print a unified diff of the merge without writing anything")
	mergeCmd.Flags().Bool("backup", false, "Write a .bak copy of the output file before overwriting it")
	mergeCmd.Flags().BoolP("yes", "y", false, "Skip the interactive confirmation")
	mergeCmd.Flags().String("report", "", "Write a merge report to this path (\"-\" for stdout)")
	mergeCmd.Flags().String("report-format", "", "Merge report format (markdown|json)")

	rootCmd.AddCommand(mergeCmd)
}
