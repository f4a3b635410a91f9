package document

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// indentUnit is one level of output indentation.
const indentUnit = "  "

// Serialize renders v as document text starting at the given indentation
// level. Mapping keys emit in ascending order regardless of construction
// order, which keeps repeated merge/serialize cycles byte-stable. Non-empty
// output ends with a newline; an empty root container renders as the empty
// string.
func Serialize(v Value, indentLevel int) (string, error) {
	var b strings.Builder

	if err := writeValue(&b, v, indentLevel); err != nil {
		return "", err
	}

	return b.String(), nil
}

func writeValue(b *strings.Builder, v Value, level int) error {
	switch val := v.(type) {
	case Mapping:
		return writeMapping(b, val, level)
	case Sequence:
		return writeSequence(b, val, level)
	default:
		text, err := scalarText(v)
		if err != nil {
			return err
		}

		b.WriteString(indentFor(level) + text + "\n")

		return nil
	}
}

func writeMapping(b *strings.Builder, m Mapping, level int) error {
	for _, key := range sortedKeys(m) {
		if err := writeEntry(b, indentFor(level), key, m[key], level+1); err != nil {
			return err
		}
	}

	return nil
}

func writeSequence(b *strings.Builder, seq Sequence, level int) error {
	for _, item := range seq {
		if err := writeSequenceItem(b, item, level); err != nil {
			return err
		}
	}

	return nil
}

// writeSequenceItem emits one "- ..." entry. Mapping items fold their first
// key onto the dash line; a nested sequence opens under a bare dash.
func writeSequenceItem(b *strings.Builder, item Value, level int) error {
	switch val := item.(type) {
	case Mapping:
		if len(val) == 0 {
			b.WriteString(indentFor(level) + "- {}\n")

			return nil
		}

		return writeItemMapping(b, val, level)
	case Sequence:
		if len(val) == 0 {
			b.WriteString(indentFor(level) + "- []\n")

			return nil
		}

		b.WriteString(indentFor(level) + "-\n")

		return writeSequence(b, val, level+1)
	default:
		text, err := scalarText(item)
		if err != nil {
			return err
		}

		if text == "" {
			b.WriteString(indentFor(level) + "-\n")

			return nil
		}

		b.WriteString(indentFor(level) + "- " + text + "\n")

		return nil
	}
}

// writeItemMapping renders a mapping sequence item: the first key shares
// the dash line and the rest follow one level deeper. Container values
// under the item's keys sit two levels down, clearing the dash columns.
func writeItemMapping(b *strings.Builder, m Mapping, level int) error {
	for i, key := range sortedKeys(m) {
		prefix := indentFor(level) + "- "
		if i > 0 {
			prefix = indentFor(level + 1)
		}

		if err := writeEntry(b, prefix, key, m[key], level+2); err != nil {
			return err
		}
	}

	return nil
}

// writeEntry emits one "key: value" line with the given prefix, expanding
// container values into blocks at childLevel. Empty containers stay inline
// as {} and [].
func writeEntry(b *strings.Builder, prefix, key string, v Value, childLevel int) error {
	head := prefix + quoteString(key) + ":"

	switch val := v.(type) {
	case Mapping:
		if len(val) == 0 {
			b.WriteString(head + " {}\n")

			return nil
		}

		b.WriteString(head + "\n")

		return writeMapping(b, val, childLevel)
	case Sequence:
		if len(val) == 0 {
			b.WriteString(head + " []\n")

			return nil
		}

		b.WriteString(head + "\n")

		return writeSequence(b, val, childLevel)
	default:
		text, err := scalarText(v)
		if err != nil {
			return err
		}

		if text == "" {
			b.WriteString(head + "\n")

			return nil
		}

		b.WriteString(head + " " + text + "\n")

		return nil
	}
}

// scalarText renders a leaf value as a token the parser will read back.
func scalarText(v Value) (string, error) {
	switch val := v.(type) {
	case Null:
		return "null", nil
	case Bool:
		return strconv.FormatBool(bool(val)), nil
	case Number:
		return strconv.FormatFloat(float64(val), 'f', -1, 64), nil
	case String:
		return quoteString(string(val)), nil
	default:
		return "", errors.Wrapf(ErrSerialize, "unsupported value %T", v)
	}
}

// quoteString wraps s in double quotes when it contains characters the
// parser treats specially, escaping any embedded double quotes.
func quoteString(s string) string {
	if !strings.ContainsAny(s, `:#"`) {
		return s
	}

	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func sortedKeys(m Mapping) []string {
	return slices.Sorted(maps.Keys(m))
}

func indentFor(level int) string {
	return strings.Repeat(indentUnit, level)
}
