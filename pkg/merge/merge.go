// Package merge implements the structural merger for configuration
// documents: ordered sequence union with deduplication, recursive mapping
// merge with existing-key preservation, and the result and changelog model
// that describes what changed.
package merge

import (
	"maps"
	"slices"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/smykla-labs/confmerge/pkg/document"
)

// MergeDocuments parses both texts, merges the update document into the
// existing one, and returns the populated result. Every failure mode comes
// back as data on the result; the call itself never panics or aborts
// part-way.
func MergeDocuments(existingText, updateText string) *MergeResult {
	result := newMergeResult()

	if !utf8.ValidString(existingText) {
		return failed(result, errors.Wrap(ErrInputType, "existing document is not valid text"))
	}

	if !utf8.ValidString(updateText) {
		return failed(result, errors.Wrap(ErrInputType, "update document is not valid text"))
	}

	existingRoot, err := document.Parse(existingText)
	if err != nil {
		return failed(result, errors.Wrap(err, "existing document"))
	}

	updateRoot, err := document.Parse(updateText)
	if err != nil {
		return failed(result, errors.Wrap(err, "update document"))
	}

	existing, err := rootMapping(existingRoot, "existing")
	if err != nil {
		return failed(result, err)
	}

	update, err := rootMapping(updateRoot, "update")
	if err != nil {
		return failed(result, err)
	}

	result.Data = mergeMappings(existing, update, result.Changelog, "")

	if problems := result.Validate(); len(problems) > 0 {
		result.Errors = append(result.Errors, problems...)
		result.Success = false

		for _, problem := range problems {
			result.Changelog.recordError(problem)
		}
	}

	return result
}

// failed records err on the result, mirrors the message onto the changelog
// error list, and hands the result back for an early exit.
func failed(result *MergeResult, err error) *MergeResult {
	result.fail(err)
	result.Changelog.recordError(err.Error())

	return result
}

// MergeMappings merges update into existing and returns a fresh mapping,
// leaving both arguments untouched. Update values win scalar conflicts;
// everything else follows the recursive rules of the merge.
func MergeMappings(existing, update document.Mapping) document.Mapping {
	return mergeMappings(existing, update, NewChangelog(), "")
}

// rootMapping coerces a parsed document root for merging. An absent root
// counts as an empty document; any other non-mapping root cannot be merged.
func rootMapping(root document.Value, side string) (document.Mapping, error) {
	switch val := root.(type) {
	case nil:
		return document.Mapping{}, nil
	case document.Mapping:
		return val, nil
	default:
		return nil, errors.Wrapf(ErrValidation,
			"%s document root is %s, expected a mapping", side, document.KindName(root))
	}
}

// mergeMappings builds a new mapping from both inputs without mutating
// either one. Keys are visited in ascending order so the changelog and the
// merged tree come out the same on every run.
func mergeMappings(existing, update document.Mapping, log *MergeChangelog, path string) document.Mapping {
	merged := make(document.Mapping, len(existing)+len(update))

	for _, key := range sortedMappingKeys(existing) {
		if _, shared := update[key]; shared {
			continue
		}

		merged[key] = document.Clone(existing[key])
		log.recordPreserved(childPath(path, key))
	}

	for _, key := range sortedMappingKeys(update) {
		mergeKey(merged, existing, update, key, log, path)
	}

	return merged
}

// mergeKey resolves one update key against the existing document and places
// the outcome into merged.
func mergeKey(merged, existing, update document.Mapping, key string, log *MergeChangelog, path string) {
	updateValue := update[key]

	existingValue, shared := existing[key]
	if !shared {
		merged[key] = document.Clone(updateValue)

		// Only container additions make the changelog; new scalar keys
		// arrive silently.
		if !document.IsScalar(updateValue) {
			log.recordAdded(childPath(path, key), merged[key])
		}

		return
	}

	switch existingVal := existingValue.(type) {
	case document.Mapping:
		if updateVal, ok := updateValue.(document.Mapping); ok {
			merged[key] = mergeMappings(existingVal, updateVal, log, childPath(path, key))
			log.recordMerged(childPath(path, key), sortedMappingKeys(updateVal))

			return
		}
	case document.Sequence:
		if updateVal, ok := updateValue.(document.Sequence); ok {
			combined, deduped := dedupeSequences(existingVal, updateVal)
			merged[key] = combined

			if deduped > 0 {
				log.recordDeduplicated(childPath(path, key), deduped)
			}

			return
		}
	}

	// Mismatched kinds or two scalars: an equal pair keeps the existing
	// value, an unequal update value wins.
	if document.Equal(existingValue, updateValue) {
		merged[key] = document.Clone(existingValue)

		return
	}

	merged[key] = document.Clone(updateValue)
}

// sortedMappingKeys returns m's keys in ascending order.
func sortedMappingKeys(m document.Mapping) []string {
	return slices.Sorted(maps.Keys(m))
}

// childPath extends a dot-joined traversal path.
func childPath(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}
