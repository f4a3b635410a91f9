package document_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/smykla-labs/confmerge/pkg/document"
)

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  document.Value
	}{
		{
			name:  "block mapping",
			input: "agent:\n  name: test\n  retries: 3\n",
			want: document.Mapping{
				"agent": document.Mapping{
					"name":    document.String("test"),
					"retries": document.Number(3),
				},
			},
		},
		{
			name:  "flow style collections",
			input: "tags: [a, b]\nconfig: {debug: true}\n",
			want: document.Mapping{
				"tags": document.Sequence{
					document.String("a"),
					document.String("b"),
				},
				"config": document.Mapping{
					"debug": document.Bool(true),
				},
			},
		},
		{
			name:  "anchors and aliases resolve",
			input: "base: &b\n  level: 1\ncopy: *b\n",
			want: document.Mapping{
				"base": document.Mapping{"level": document.Number(1)},
				"copy": document.Mapping{"level": document.Number(1)},
			},
		},
		{
			name:  "null spellings",
			input: "a: null\nb: ~\n",
			want: document.Mapping{
				"a": document.Null{},
				"b": document.Null{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := document.DecodeYAML([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeYAML() unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("DecodeYAML() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeYAMLRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	_, err := document.DecodeYAML([]byte("a: [unclosed\n"))
	if err == nil {
		t.Fatal("expected a decode error")
	}
}

// The subset grammar and the full YAML parser agree on documents the
// subset can express.
func TestDecodeYAMLAgreesWithParse(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"name: test\n",
		"agent:\n  name: test\n",
		"memories:\n  - id: mem1\n    text: Original memory\n",
		"flags:\n  debug: true\n  verbose: false\n",
	}

	for _, input := range inputs {
		fromSubset := mustParse(t, input)

		fromYAML, err := document.DecodeYAML([]byte(input))
		if err != nil {
			t.Fatalf("DecodeYAML(%q) unexpected error: %v", input, err)
		}

		if !document.Equal(fromSubset, fromYAML) {
			t.Errorf("parsers disagree on %q: subset %v, yaml %v", input, fromSubset, fromYAML)
		}
	}
}
