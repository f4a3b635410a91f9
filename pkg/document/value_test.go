package document_test

import (
	"testing"

	"github.com/smykla-labs/confmerge/pkg/document"
)

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	original := document.Mapping{
		"scalars": document.Number(1),
		"nested": document.Mapping{
			"inner": document.String("before"),
		},
		"list": document.Sequence{
			document.Mapping{"id": document.String("a")},
		},
	}

	clone, ok := document.Clone(original).(document.Mapping)
	if !ok {
		t.Fatal("Clone() did not return a Mapping")
	}

	if !document.Equal(original, clone) {
		t.Fatal("clone differs from the original")
	}

	clone["nested"].(document.Mapping)["inner"] = document.String("after")
	clone["list"].(document.Sequence)[0].(document.Mapping)["id"] = document.String("b")
	clone["scalars"] = document.Number(2)

	if got := original["nested"].(document.Mapping)["inner"]; got != document.String("before") {
		t.Errorf("mutating the clone reached the original mapping: %v", got)
	}

	if got := original["list"].(document.Sequence)[0].(document.Mapping)["id"]; got != document.String("a") {
		t.Errorf("mutating the clone reached the original sequence: %v", got)
	}

	if got := original["scalars"]; got != document.Number(1) {
		t.Errorf("mutating the clone reached a scalar: %v", got)
	}
}

func TestIsScalar(t *testing.T) {
	t.Parallel()

	scalars := []document.Value{
		document.Null{},
		document.Bool(true),
		document.Number(0),
		document.String(""),
	}

	for _, v := range scalars {
		if !document.IsScalar(v) {
			t.Errorf("IsScalar(%v) = false, want true", v)
		}
	}

	containers := []document.Value{
		document.Mapping{},
		document.Sequence{},
	}

	for _, v := range containers {
		if document.IsScalar(v) {
			t.Errorf("IsScalar(%v) = true, want false", v)
		}
	}
}

func TestKindName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value document.Value
		want  string
	}{
		{document.Null{}, "null"},
		{document.Bool(false), "bool"},
		{document.Number(1), "number"},
		{document.String("x"), "string"},
		{document.Mapping{}, "mapping"},
		{document.Sequence{}, "sequence"},
		{nil, "unknown"},
	}

	for _, tt := range tests {
		if got := document.KindName(tt.value); got != tt.want {
			t.Errorf("KindName(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
