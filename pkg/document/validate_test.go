package document_test

import (
	"strings"
	"testing"

	"github.com/smykla-labs/confmerge/pkg/document"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantValid bool
	}{
		{
			name:      "well formed document",
			input:     "agent:\n  name: test\n",
			wantValid: true,
		},
		{
			name:      "empty input is trivially valid",
			input:     "",
			wantValid: true,
		},
		{
			name:      "non text bytes are trivially valid",
			input:     string([]byte{0xff, 0xfe, 0x01}),
			wantValid: true,
		},
		{
			name:      "comments only",
			input:     "# nothing here\n",
			wantValid: true,
		},
		{
			name:      "line without a colon",
			input:     "definitely not a document\n",
			wantValid: false,
		},
		{
			name:      "sequence item inside a mapping",
			input:     "a: 1\n- b\n",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			report := document.Validate(tt.input)

			if report.Valid != tt.wantValid {
				t.Errorf("Validate(%q).Valid = %v, want %v", tt.input, report.Valid, tt.wantValid)
			}

			if tt.wantValid && len(report.Errors) != 0 {
				t.Errorf("Validate(%q) has errors on valid input: %v", tt.input, report.Errors)
			}

			if !tt.wantValid && len(report.Errors) == 0 {
				t.Errorf("Validate(%q) reported invalid without errors", tt.input)
			}
		})
	}
}

func TestValidateErrorsNameTheLine(t *testing.T) {
	t.Parallel()

	report := document.Validate("ok: 1\nbroken\n")
	if report.Valid {
		t.Fatal("expected an invalid report")
	}

	if !strings.Contains(report.Errors[0], "line 2") {
		t.Errorf("error %q does not name line 2", report.Errors[0])
	}
}
