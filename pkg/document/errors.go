package document

import "github.com/cockroachdb/errors"

var (
	// ErrParse indicates document text that the grammar cannot interpret
	ErrParse = errors.New("failed to parse document")
	// ErrSerialize indicates a value tree that cannot be rendered as text
	ErrSerialize = errors.New("failed to serialize document")
	// ErrDecode indicates a YAML document that cannot enter the value model
	ErrDecode = errors.New("failed to decode YAML document")
)
