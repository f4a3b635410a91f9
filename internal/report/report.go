// Package report builds human- and machine-readable records of merge runs.
package report

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/smykla-labs/confmerge/pkg/diff"
	"github.com/smykla-labs/confmerge/pkg/document"
	"github.com/smykla-labs/confmerge/pkg/merge"
)

// ErrReport indicates a failure to render or write a merge report
var ErrReport = errors.New("failed to produce merge report")

// Format selects a report rendering.
type Format string

const (
	// FormatMarkdown renders a human-readable report.
	FormatMarkdown Format = "markdown"
	// FormatJSON renders a machine-readable report.
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatMarkdown, FormatJSON:
		return Format(name), nil
	default:
		return "", errors.Wrapf(ErrReport, "unsupported report format: %s", name)
	}
}

// Stats aggregates the changelog into headline numbers.
type Stats struct {
	// SectionsAdded counts new container sections copied from the update.
	SectionsAdded int `json:"sections_added"`
	// SectionsMerged counts mappings whose keys were combined.
	SectionsMerged int `json:"sections_merged"`
	// DuplicatesDropped counts update items skipped as already present.
	DuplicatesDropped int `json:"duplicates_dropped"`
	// KeysPreserved counts keys kept from the existing document untouched.
	KeysPreserved int `json:"keys_preserved"`
}

// MergeReport is the persisted record of one merge run.
type MergeReport struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`
	// GeneratedAt is when the report was built.
	GeneratedAt time.Time `json:"generated_at"`
	// ExistingPath is the merge target file.
	ExistingPath string `json:"existing_path"`
	// OverlayPath is the update document file.
	OverlayPath string `json:"overlay_path"`
	// Success mirrors the merge result.
	Success bool `json:"success"`
	// Errors lists merge failures, if any.
	Errors []string `json:"errors,omitempty"`
	// Warnings lists non-fatal observations.
	Warnings []string `json:"warnings,omitempty"`
	// Summary holds the changelog display lines.
	Summary merge.ChangelogSummary `json:"summary"`
	// Stats aggregates the changelog.
	Stats Stats `json:"stats"`
	// Patch is the RFC 7396 merge patch from the existing document to the
	// merged one, when both are available.
	Patch json.RawMessage `json:"patch,omitempty"`
}

// Build assembles the report for one merge run. existingText is the target
// document as it was before the merge; the patch section is skipped when
// the merge failed or the before-state does not parse.
func Build(existingPath, overlayPath, existingText string, result *merge.MergeResult) *MergeReport {
	r := &MergeReport{
		RunID:        uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		ExistingPath: existingPath,
		OverlayPath:  overlayPath,
		Success:      result.Success,
		Errors:       append([]string(nil), result.Errors...),
		Warnings:     append([]string(nil), result.Warnings...),
	}

	if result.Changelog != nil {
		r.Summary = result.Changelog.Summary()
		r.Stats = calculateStats(result.Changelog)
	}

	if result.Success {
		if before, err := document.Parse(existingText); err == nil {
			if patch, err := diff.MergePatch(before, result.Data); err == nil {
				r.Patch = json.RawMessage(patch)
			}
		}
	}

	return r
}

// calculateStats aggregates changelog records.
func calculateStats(log *merge.MergeChangelog) Stats {
	s := Stats{
		SectionsAdded:  len(log.Added),
		SectionsMerged: len(log.Merged),
		KeysPreserved:  len(log.Preserved),
	}

	for _, record := range log.Deduplicated {
		s.DuplicatesDropped += record.Count
	}

	return s
}
