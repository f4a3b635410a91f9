package document_test

import (
	"testing"

	"github.com/smykla-labs/confmerge/pkg/document"
)

// mustParse parses text and fails the test on error.
func mustParse(t *testing.T, text string) document.Value {
	t.Helper()

	value, err := document.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", text, err)
	}

	return value
}

// mustSerialize renders v at the top level and fails the test on error.
func mustSerialize(t *testing.T, v document.Value) string {
	t.Helper()

	text, err := document.Serialize(v, 0)
	if err != nil {
		t.Fatalf("Serialize() unexpected error: %v", err)
	}

	return text
}
