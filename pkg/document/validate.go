package document

import "unicode/utf8"

// ValidationReport is the outcome of a syntactic document check.
type ValidationReport struct {
	// Valid is true when the text parses under the document grammar.
	Valid bool `json:"valid"`
	// Errors lists what went wrong when Valid is false.
	Errors []string `json:"errors,omitempty"`
}

// Validate checks that text parses under the document grammar. Empty input
// and non-text byte sequences are trivially valid. Nothing beyond
// parseability is checked; schema-level concerns live with the caller.
func Validate(text string) ValidationReport {
	if text == "" || !utf8.ValidString(text) {
		return ValidationReport{Valid: true}
	}

	if _, err := Parse(text); err != nil {
		return ValidationReport{
			Valid:  false,
			Errors: []string{err.Error()},
		}
	}

	return ValidationReport{Valid: true}
}
