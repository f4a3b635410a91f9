package merge

import "github.com/cockroachdb/errors"

var (
	// ErrInputType indicates a merge argument that is not usable text
	ErrInputType = errors.New("merge input is not text")
	// ErrValidation indicates merged data that failed its structural check
	ErrValidation = errors.New("merged document failed validation")
)
