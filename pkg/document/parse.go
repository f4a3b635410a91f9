package document

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// versionPattern guards two-part version numbers such as "1.2" from
	// numeric parsing. Longer dotted chains get no such protection and fall
	// through to the plain string rule on their own.
	versionPattern = regexp.MustCompile(`^\d+\.\d+$`)

	// numberPattern matches decimal integers with an optional sign. Dotted,
	// exponent, and other exotic numeric spellings stay strings.
	numberPattern = regexp.MustCompile(`^[+-]?\d+$`)
)

// line is one effective input line. Blank and comment lines are dropped
// before parsing begins and never reach the value model.
type line struct {
	indent  int    // count of leading spaces
	content string // text after the indentation
	number  int    // 1-based position in the original input
}

// parser walks the effective lines of one document exactly once.
type parser struct {
	lines []line
	pos   int
}

// Parse interprets text as a document in the constrained YAML-like subset
// and returns its value tree. Empty input parses to an empty Mapping. A
// document whose top-level lines are all sequence items parses to a root
// Sequence; otherwise the root is a Mapping. Failures come back as errors
// wrapping ErrParse, with no partial value alongside.
func Parse(text string) (Value, error) {
	p := &parser{lines: scanLines(text)}

	return p.parseRoot()
}

// scanLines splits text into effective lines, skipping blanks and comment
// lines. Comments are dropped for good; a later serialization will not
// resurrect them.
func scanLines(text string) []line {
	var out []line

	for i, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indent := 0
		for indent < len(raw) && raw[indent] == ' ' {
			indent++
		}

		out = append(out, line{
			indent:  indent,
			content: strings.TrimRight(raw[indent:], " \t\r"),
			number:  i + 1,
		})
	}

	return out
}

func (p *parser) parseRoot() (Value, error) {
	if len(p.lines) == 0 {
		return Mapping{}, nil
	}

	if isSequenceItem(p.lines[0].content) {
		seq, err := p.parseSequence(0)
		if err != nil {
			return nil, err
		}

		if p.pos < len(p.lines) {
			return nil, errors.Wrapf(ErrParse,
				"line %d: expected a sequence item at the top level",
				p.lines[p.pos].number)
		}

		return seq, nil
	}

	return p.parseMapping(0)
}

// parseMapping consumes key/value lines indented at least minIndent and
// builds a Mapping. The first less-indented line ends the block.
func (p *parser) parseMapping(minIndent int) (Mapping, error) {
	m := Mapping{}

	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if ln.indent < minIndent {
			break
		}

		if isSequenceItem(ln.content) {
			return nil, errors.Wrapf(ErrParse,
				"line %d: sequence item where a key/value pair was expected", ln.number)
		}

		key, rest, ok := splitKeyValue(ln.content)
		if !ok {
			return nil, errors.Wrapf(ErrParse,
				"line %d: expected a key/value pair", ln.number)
		}

		p.pos++

		value, err := p.parseValue(rest, ln.indent)
		if err != nil {
			return nil, err
		}

		m[key] = value
	}

	return m, nil
}

// parseSequence consumes dash lines indented at least minIndent. The first
// less-indented or non-dash line ends the block.
func (p *parser) parseSequence(minIndent int) (Sequence, error) {
	seq := Sequence{}

	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if ln.indent < minIndent || !isSequenceItem(ln.content) {
			break
		}

		p.pos++

		item, err := p.parseSequenceItem(ln)
		if err != nil {
			return nil, err
		}

		seq = append(seq, item)
	}

	return seq, nil
}

// parseSequenceItem interprets the remainder of one dash line. A remainder
// with key/value shape opens a mapping item whose first pair folds in from
// the dash line itself; an empty remainder defers to the following block.
func (p *parser) parseSequenceItem(ln line) (Value, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(ln.content, "-"))

	if rest == "" {
		return p.parseNested(ln.indent)
	}

	if key, value, ok := splitKeyValue(rest); ok {
		return p.parseMappingItem(ln, key, value)
	}

	return parseScalar(rest), nil
}

// parseMappingItem builds the mapping opened by a dash line such as
// "- id: mem1". The folded pair's value may itself be a nested block; the
// item's remaining keys follow on lines indented past the dash.
func (p *parser) parseMappingItem(ln line, key, value string) (Mapping, error) {
	// The folded pair's own line effectively starts two columns after the
	// dash, so its nested block threshold moves with it.
	first, err := p.parseValue(value, ln.indent+2)
	if err != nil {
		return nil, err
	}

	item := Mapping{key: first}

	rest, err := p.parseMapping(ln.indent + 1)
	if err != nil {
		return nil, err
	}

	for k, v := range rest {
		item[k] = v
	}

	return item, nil
}

// parseValue interprets the text after a key's colon. An empty value with a
// more-indented following block opens a nested Mapping or Sequence,
// depending on how the block's first line starts; an empty value without
// one is the empty string. Anything else is a scalar token.
func (p *parser) parseValue(rest string, lineIndent int) (Value, error) {
	if rest == "" {
		return p.parseNested(lineIndent)
	}

	return parseScalar(rest), nil
}

// parseNested parses the block following a bare "key:" or lone dash. The
// block must be indented past lineIndent; without one the value degrades to
// the empty string.
func (p *parser) parseNested(lineIndent int) (Value, error) {
	if p.pos >= len(p.lines) || p.lines[p.pos].indent <= lineIndent {
		return String(""), nil
	}

	if isSequenceItem(p.lines[p.pos].content) {
		return p.parseSequence(lineIndent + 1)
	}

	return p.parseMapping(lineIndent + 1)
}

// parseScalar resolves one value token. Quoting always wins: a quoted token
// is a String no matter what it spells. Bare tokens try the keyword, empty
// container, version guard, and integer rules in that order before settling
// on String.
func parseScalar(token string) Value {
	if isQuoted(token) {
		return String(unquote(token))
	}

	switch token {
	case "null", "~":
		return Null{}
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "[]":
		return Sequence{}
	case "{}":
		return Mapping{}
	}

	if versionPattern.MatchString(token) {
		return String(token)
	}

	if numberPattern.MatchString(token) {
		if n, err := strconv.ParseFloat(token, 64); err == nil {
			return Number(n)
		}
	}

	return String(token)
}

// isSequenceItem reports whether a line's content starts a sequence item.
func isSequenceItem(content string) bool {
	return content == "-" || strings.HasPrefix(content, "- ")
}

// splitKeyValue splits content at the first colon outside quotes. The key
// has surrounding quotes stripped; both halves are trimmed.
func splitKeyValue(content string) (key, value string, ok bool) {
	idx := colonOutsideQuotes(content)
	if idx < 0 {
		return "", "", false
	}

	return unquote(strings.TrimSpace(content[:idx])), strings.TrimSpace(content[idx+1:]), true
}

// colonOutsideQuotes returns the index of the first colon not enclosed in
// single or double quotes, or -1. Backslash-escaped double quotes do not
// toggle the quoting state.
func colonOutsideQuotes(s string) int {
	var inSingle, inDouble bool

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle && (i == 0 || s[i-1] != '\\') {
				inDouble = !inDouble
			}
		case ':':
			if !inSingle && !inDouble {
				return i
			}
		}
	}

	return -1
}

// isQuoted reports whether s is wrapped in matching single or double quotes.
func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}

	return (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')
}

// unquote strips one layer of matching quotes. Double-quoted text also
// unescapes embedded \" sequences; single-quoted text is taken verbatim.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}

	switch {
	case s[0] == '"' && s[len(s)-1] == '"':
		return strings.ReplaceAll(s[1:len(s)-1], `\"`, `"`)
	case s[0] == '\'' && s[len(s)-1] == '\'':
		return s[1 : len(s)-1]
	}

	return s
}
