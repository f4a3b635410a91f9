package document_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/smykla-labs/confmerge/pkg/document"
)

func TestSerialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value document.Value
		want  string
	}{
		{
			name:  "empty mapping",
			value: document.Mapping{},
			want:  "",
		},
		{
			name:  "empty sequence",
			value: document.Sequence{},
			want:  "",
		},
		{
			name: "keys emit in ascending order",
			value: document.Mapping{
				"beta":  document.Number(1),
				"Alpha": document.Number(2),
				"alpha": document.Number(3),
			},
			want: "Alpha: 2\nalpha: 3\nbeta: 1\n",
		},
		{
			name: "scalar kinds",
			value: document.Mapping{
				"nothing": document.Null{},
				"flag":    document.Bool(true),
				"count":   document.Number(3),
				"ratio":   document.Number(2.5),
				"name":    document.String("assistant"),
			},
			want: "count: 3\nflag: true\nname: assistant\nnothing: null\nratio: 2.5\n",
		},
		{
			name: "empty string value",
			value: document.Mapping{
				"key": document.String(""),
			},
			want: "key:\n",
		},
		{
			name: "empty containers stay inline",
			value: document.Mapping{
				"items":  document.Sequence{},
				"config": document.Mapping{},
			},
			want: "config: {}\nitems: []\n",
		},
		{
			name: "strings with special characters are quoted",
			value: document.Mapping{
				"colon": document.String("a: b"),
				"hash":  document.String("x # y"),
				"quote": document.String(`say "hi"`),
				"plain": document.String("no quoting needed"),
			},
			want: "colon: \"a: b\"\nhash: \"x # y\"\nplain: no quoting needed\nquote: \"say \\\"hi\\\"\"\n",
		},
		{
			name: "nested mapping",
			value: document.Mapping{
				"agent": document.Mapping{
					"name": document.String("test"),
				},
			},
			want: "agent:\n  name: test\n",
		},
		{
			name: "sequence of scalars",
			value: document.Mapping{
				"tags": document.Sequence{
					document.String("alpha"),
					document.String("beta"),
				},
			},
			want: "tags:\n  - alpha\n  - beta\n",
		},
		{
			name: "single key mapping item folds inline",
			value: document.Mapping{
				"items": document.Sequence{
					document.Mapping{"a": document.Number(1)},
				},
			},
			want: "items:\n  - a: 1\n",
		},
		{
			name: "multi key mapping item",
			value: document.Mapping{
				"memories": document.Sequence{
					document.Mapping{
						"id":   document.String("mem1"),
						"text": document.String("Original memory"),
					},
				},
			},
			want: "memories:\n  - id: mem1\n    text: Original memory\n",
		},
		{
			name: "container under a sequence item key",
			value: document.Mapping{
				"steps": document.Sequence{
					document.Mapping{
						"run": document.Mapping{
							"cmd": document.String("build"),
						},
					},
				},
			},
			want: "steps:\n  - run:\n      cmd: build\n",
		},
		{
			name: "nested sequence item",
			value: document.Mapping{
				"matrix": document.Sequence{
					document.Sequence{
						document.Number(1),
						document.Number(2),
					},
				},
			},
			want: "matrix:\n  -\n    - 1\n    - 2\n",
		},
		{
			name: "root sequence",
			value: document.Sequence{
				document.String("one"),
				document.Number(2),
			},
			want: "- one\n- 2\n",
		},
		{
			name: "empty containers inside a sequence",
			value: document.Mapping{
				"mixed": document.Sequence{
					document.Mapping{},
					document.Sequence{},
				},
			},
			want: "mixed:\n  - {}\n  - []\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := document.Serialize(tt.value, 0)
			if err != nil {
				t.Fatalf("Serialize() unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerializeStartsAtIndentLevel(t *testing.T) {
	t.Parallel()

	value := document.Mapping{"a": document.Number(1)}

	got, err := document.Serialize(value, 1)
	if err != nil {
		t.Fatalf("Serialize() unexpected error: %v", err)
	}

	if want := "  a: 1\n"; got != want {
		t.Errorf("Serialize(level 1) = %q, want %q", got, want)
	}
}

func TestSerializeRejectsForeignValues(t *testing.T) {
	t.Parallel()

	_, err := document.Serialize(document.Mapping{"bad": nil}, 0)
	if err == nil {
		t.Fatal("expected serialization error for a nil value")
	}

	if !errors.Is(err, document.ErrSerialize) {
		t.Errorf("error = %v, want ErrSerialize", err)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"name: test\n",
		"agent:\n  name: test\n  version: 1.0\n",
		"memories:\n  - id: mem1\n    text: Original memory\n  - id: mem2\n    text: Second memory\n",
		"tags:\n  - alpha\n  - beta\nname: x\n",
		"empty_list: []\nempty_map: {}\nnothing: null\n",
		"steps:\n  - run:\n      cmd: build\n",
		"- one\n- 2\n- true\n",
		"quoted: \"contains: colon\"\n",
	}

	for _, input := range inputs {
		first := mustParse(t, input)
		text := mustSerialize(t, first)
		second := mustParse(t, text)

		if diff := cmp.Diff(first, second, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("round trip of %q changed the value (-first +second):\n%s", input, diff)
		}

		if again := mustSerialize(t, second); again != text {
			t.Errorf("second serialization of %q differs: %q vs %q", input, again, text)
		}
	}
}
