// Package diff renders the difference between two configuration documents,
// either as a unified text diff or as an RFC 7396 merge patch.
package diff

import (
	"bytes"

	"github.com/cockroachdb/errors"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/tidwall/pretty"

	"github.com/smykla-labs/confmerge/pkg/document"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 3

// ErrDiff indicates a failure to compute a document difference
var ErrDiff = errors.New("failed to diff documents")

// Unified returns a unified text diff between two documents. The labels
// name the from and to sides in the header. Identical inputs produce an
// empty diff.
func Unified(before, after, fromLabel, toLabel string) (string, error) {
	unified := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  contextLines,
	}

	text, err := difflib.GetUnifiedDiffString(unified)
	if err != nil {
		return "", errors.Wrap(ErrDiff, err.Error())
	}

	return text, nil
}

// MergePatch computes the RFC 7396 merge patch that turns before into
// after, over the documents' normalized JSON encodings.
func MergePatch(before, after document.Value) ([]byte, error) {
	beforeJSON, err := document.EncodeJSON(before)
	if err != nil {
		return nil, errors.Wrap(err, "encoding the before document")
	}

	afterJSON, err := document.EncodeJSON(after)
	if err != nil {
		return nil, errors.Wrap(err, "encoding the after document")
	}

	patch, err := jsonpatch.CreateMergePatch(beforeJSON, afterJSON)
	if err != nil {
		return nil, errors.Wrap(ErrDiff, err.Error())
	}

	return prettyJSON(patch), nil
}

// prettyJSON normalizes raw JSON the same way document.EncodeJSON does.
func prettyJSON(raw []byte) []byte {
	opts := &pretty.Options{
		Width:    80,
		Indent:   "  ",
		SortKeys: true,
	}

	return bytes.TrimSuffix(pretty.PrettyOptions(raw, opts), []byte("\n"))
}
