package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-labs/confmerge/pkg/logger"
)

// Render produces the report in the requested format.
func (r *MergeReport) Render(format Format) (string, error) {
	switch format {
	case FormatMarkdown:
		return r.RenderMarkdown(), nil
	case FormatJSON:
		return r.RenderJSON()
	default:
		return "", errors.Wrapf(ErrReport, "unsupported report format: %s", format)
	}
}

// RenderMarkdown renders the human-readable report.
func (r *MergeReport) RenderMarkdown() string {
	var builder strings.Builder

	builder.WriteString("# Merge Report\n\n")
	fmt.Fprintf(&builder, "- **Run:** `%s`\n", r.RunID)
	fmt.Fprintf(&builder, "- **Generated:** %s\n", r.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&builder, "- **Target:** `%s`\n", r.ExistingPath)
	fmt.Fprintf(&builder, "- **Overlay:** `%s`\n", r.OverlayPath)
	fmt.Fprintf(&builder, "- **Status:** %s\n\n", statusLine(r.Success))

	builder.WriteString("## Summary\n\n")
	fmt.Fprintf(&builder, "- Sections added: %d\n", r.Stats.SectionsAdded)
	fmt.Fprintf(&builder, "- Sections merged: %d\n", r.Stats.SectionsMerged)
	fmt.Fprintf(&builder, "- Duplicates dropped: %d\n", r.Stats.DuplicatesDropped)
	fmt.Fprintf(&builder, "- Keys preserved: %d\n\n", r.Stats.KeysPreserved)

	writeChangeSection(&builder, "Added", r.Summary.Added)
	writeChangeSection(&builder, "Deduplicated", r.Summary.Deduplicated)
	writeChangeSection(&builder, "Merged", r.Summary.Merged)
	writeChangeSection(&builder, "Preserved", r.Summary.Preserved)

	if len(r.Errors) > 0 {
		builder.WriteString("## Errors\n\n")

		for _, message := range r.Errors {
			fmt.Fprintf(&builder, "- ❌ %s\n", message)
		}

		builder.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		builder.WriteString("## Warnings\n\n")

		for _, message := range r.Warnings {
			fmt.Fprintf(&builder, "- ⚠️ %s\n", message)
		}

		builder.WriteString("\n")
	}

	if len(r.Patch) > 0 {
		builder.WriteString("## Merge Patch\n\n")
		fmt.Fprintf(&builder, "```json\n%s\n```\n", r.Patch)
	}

	return builder.String()
}

// RenderJSON renders the machine-readable report.
func (r *MergeReport) RenderJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", errors.Wrap(ErrReport, err.Error())
	}

	return string(data) + "\n", nil
}

// Write sends rendered content to the output file, or to stdout when the
// path is empty.
func Write(log *logger.Logger, content, output string) error {
	if output == "" {
		fmt.Print(content)

		return nil
	}

	//nolint:gosec // reports are meant to be world-readable
	if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
		return errors.Wrap(err, "writing report")
	}

	log.Info("report written", "file", output)

	return nil
}

// writeChangeSection emits one grouped list of change lines, skipping empty
// groups.
func writeChangeSection(builder *strings.Builder, heading string, lines []string) {
	if len(lines) == 0 {
		return
	}

	fmt.Fprintf(builder, "### %s\n\n", heading)

	for _, line := range lines {
		fmt.Fprintf(builder, "- %s\n", line)
	}

	builder.WriteString("\n")
}

// statusLine returns the display form of the run status.
func statusLine(success bool) string {
	if success {
		return "✅ success"
	}

	return "❌ failed"
}
