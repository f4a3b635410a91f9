package merge

import (
	"github.com/cockroachdb/errors"

	"github.com/smykla-labs/confmerge/pkg/document"
)

// MergeResult is the outcome of one merge call. MergeDocuments populates it
// exactly once; afterwards the result is only read. ToText may still append
// a serialization failure and clear the success flag, but the merged data
// is never rewritten and Success never flips back to true.
type MergeResult struct {
	// Success is true while no failure has been recorded.
	Success bool `json:"success"`
	// Data is the merged value. Every successful merge has a Mapping root.
	Data document.Value `json:"data,omitempty"`
	// Errors lists each failure recorded against this result.
	Errors []string `json:"errors,omitempty"`
	// Warnings lists non-fatal observations.
	Warnings []string `json:"warnings,omitempty"`
	// Changelog records what the merge changed.
	Changelog *MergeChangelog `json:"changelog,omitempty"`
}

// newMergeResult returns a result in its constructed state: successful,
// with empty data and a fresh changelog.
func newMergeResult() *MergeResult {
	return &MergeResult{
		Success:   true,
		Data:      document.Mapping{},
		Changelog: NewChangelog(),
	}
}

// fail records err and clears the success flag.
func (r *MergeResult) fail(err error) {
	r.Errors = append(r.Errors, err.Error())
	r.Success = false
}

// ToText serializes the merged data as document text. A serialization
// failure is captured on the result rather than propagated: the error list
// grows, Success clears, and the returned text is empty.
func (r *MergeResult) ToText() string {
	text, err := document.Serialize(r.Data, 0)
	if err != nil {
		r.fail(err)

		return ""
	}

	return text
}

// Validate re-checks the merged data: the root must be a Mapping and the
// tree must serialize cleanly. The returned list is empty when the data is
// sound, and repeated calls on unchanged data return the same list.
func (r *MergeResult) Validate() []string {
	problems := []string{}

	if _, ok := r.Data.(document.Mapping); !ok {
		problems = append(problems, errors.Wrapf(ErrValidation,
			"merged data root is %s, expected a mapping",
			document.KindName(r.Data)).Error())
	}

	if _, err := document.Serialize(r.Data, 0); err != nil {
		problems = append(problems, errors.Wrap(ErrValidation, err.Error()).Error())
	}

	return problems
}
