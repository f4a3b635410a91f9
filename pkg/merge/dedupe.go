package merge

import "github.com/smykla-labs/confmerge/pkg/document"

// DeduplicateSequences unions update into existing while preserving order:
// every existing item comes first, then each update item that is not
// already present. Non-sequence inputs count as empty sequences. The second
// return value is how many update items were dropped as duplicates.
func DeduplicateSequences(existing, update document.Value) (document.Sequence, int) {
	return dedupeSequences(toSequence(existing), toSequence(update))
}

// toSequence coerces v to a Sequence, defaulting anything else to empty.
func toSequence(v document.Value) document.Sequence {
	if seq, ok := v.(document.Sequence); ok {
		return seq
	}

	return document.Sequence{}
}

// dedupeSequences is the working form. Scalar membership uses a set for
// O(1) lookups; container items fall back to pairwise deep equality.
func dedupeSequences(existing, update document.Sequence) (document.Sequence, int) {
	merged := make(document.Sequence, 0, len(existing)+len(update))
	scalars := make(map[document.Value]bool)

	var containers document.Sequence

	place := func(item document.Value) {
		item = document.Clone(item)
		merged = append(merged, item)

		if document.IsScalar(item) {
			scalars[item] = true
		} else {
			containers = append(containers, item)
		}
	}

	for _, item := range existing {
		place(item)
	}

	deduped := 0

	for _, item := range update {
		if alreadyPlaced(item, scalars, containers) {
			deduped++

			continue
		}

		place(item)
	}

	return merged, deduped
}

// alreadyPlaced reports whether item occurs among the placed values.
func alreadyPlaced(item document.Value, scalars map[document.Value]bool, containers document.Sequence) bool {
	if document.IsScalar(item) {
		return scalars[item]
	}

	for _, candidate := range containers {
		if document.Equal(item, candidate) {
			return true
		}
	}

	return false
}
