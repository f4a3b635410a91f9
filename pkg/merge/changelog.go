package merge

import (
	"fmt"
	"strings"

	"github.com/smykla-labs/confmerge/pkg/document"
)

// AddedRecord reports a new container section copied in from the update
// document.
type AddedRecord struct {
	// Path is the dot-joined location of the new key.
	Path string `json:"path"`
	// Value is the container that was added.
	Value document.Value `json:"value"`
}

// DeduplicatedRecord reports update items dropped because the existing
// sequence already contained them.
type DeduplicatedRecord struct {
	// Path is the dot-joined location of the sequence.
	Path string `json:"path"`
	// Count is how many update items were dropped.
	Count int `json:"count"`
}

// PreservedRecord reports a key kept from the existing document untouched.
type PreservedRecord struct {
	// Path is the dot-joined location of the preserved key.
	Path string `json:"path"`
}

// MergedRecord reports a nested mapping whose keys were combined.
type MergedRecord struct {
	// Path is the dot-joined location of the merged mapping.
	Path string `json:"path"`
	// Keys lists the update-side keys that took part, in ascending order.
	Keys []string `json:"keys"`
}

// MergeChangelog collects the change records of a single merge call, in
// traversal order, together with the errors the call recorded. Each call
// gets a fresh changelog; once the call returns the log is only read.
type MergeChangelog struct {
	Added        []AddedRecord        `json:"added"`
	Deduplicated []DeduplicatedRecord `json:"deduplicated"`
	Preserved    []PreservedRecord    `json:"preserved"`
	Merged       []MergedRecord       `json:"merged"`
	Errors       []string             `json:"errors"`
}

// NewChangelog returns an empty changelog.
func NewChangelog() *MergeChangelog {
	return &MergeChangelog{
		Added:        []AddedRecord{},
		Deduplicated: []DeduplicatedRecord{},
		Preserved:    []PreservedRecord{},
		Merged:       []MergedRecord{},
		Errors:       []string{},
	}
}

func (c *MergeChangelog) recordAdded(path string, value document.Value) {
	c.Added = append(c.Added, AddedRecord{Path: path, Value: value})
}

func (c *MergeChangelog) recordDeduplicated(path string, count int) {
	c.Deduplicated = append(c.Deduplicated, DeduplicatedRecord{Path: path, Count: count})
}

func (c *MergeChangelog) recordPreserved(path string) {
	c.Preserved = append(c.Preserved, PreservedRecord{Path: path})
}

func (c *MergeChangelog) recordMerged(path string, keys []string) {
	c.Merged = append(c.Merged, MergedRecord{Path: path, Keys: keys})
}

func (c *MergeChangelog) recordError(message string) {
	c.Errors = append(c.Errors, message)
}

// ChangelogSummary is the display form of a changelog: one line per record,
// grouped by change kind.
type ChangelogSummary struct {
	Added        []string `json:"added"`
	Deduplicated []string `json:"deduplicated"`
	Preserved    []string `json:"preserved"`
	Merged       []string `json:"merged"`
}

// Summary renders every record as a display line.
func (c *MergeChangelog) Summary() ChangelogSummary {
	summary := ChangelogSummary{
		Added:        make([]string, 0, len(c.Added)),
		Deduplicated: make([]string, 0, len(c.Deduplicated)),
		Preserved:    make([]string, 0, len(c.Preserved)),
		Merged:       make([]string, 0, len(c.Merged)),
	}

	for _, record := range c.Added {
		summary.Added = append(summary.Added,
			fmt.Sprintf("%s: added %s", record.Path, describeValue(record.Value)))
	}

	for _, record := range c.Deduplicated {
		summary.Deduplicated = append(summary.Deduplicated,
			fmt.Sprintf("%s: dropped %d duplicate item(s)", record.Path, record.Count))
	}

	for _, record := range c.Preserved {
		summary.Preserved = append(summary.Preserved, record.Path)
	}

	for _, record := range c.Merged {
		summary.Merged = append(summary.Merged,
			fmt.Sprintf("%s: merged keys %s", record.Path, strings.Join(record.Keys, ", ")))
	}

	return summary
}

// describeValue names what an added section contains.
func describeValue(v document.Value) string {
	switch val := v.(type) {
	case document.Sequence:
		return fmt.Sprintf("%d item(s)", len(val))
	case document.Mapping:
		return fmt.Sprintf("section with %d key(s)", len(val))
	default:
		return document.KindName(v)
	}
}
