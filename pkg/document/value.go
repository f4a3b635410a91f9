// Package document implements the constrained YAML-like document model:
// the tagged value union, the indentation-based parser, the normalizing
// serializer, structural equality, and syntactic validation.
package document

// Value is one node of a parsed document. The implementations are exactly
// Null, Bool, Number, String, Mapping, and Sequence; components branch on
// the concrete type rather than probing shapes at call sites.
type Value interface {
	isValue()
}

// Null is the absent value.
type Null struct{}

// Bool is a boolean scalar.
type Bool bool

// Number is a decimal scalar. The model does not distinguish integers from
// floating point.
type Number float64

// String is a text scalar.
type String string

// Mapping associates unique keys with values. Key order carries no semantic
// meaning.
type Mapping map[string]Value

// Sequence is an ordered list of values. Order is significant.
type Sequence []Value

func (Null) isValue()     {}
func (Bool) isValue()     {}
func (Number) isValue()   {}
func (String) isValue()   {}
func (Mapping) isValue()  {}
func (Sequence) isValue() {}

// MarshalJSON renders Null as JSON null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Clone returns a deep copy of v. Containers are copied recursively, so
// mutating the copy never reaches the original tree.
func Clone(v Value) Value {
	switch val := v.(type) {
	case Mapping:
		out := make(Mapping, len(val))
		for key, item := range val {
			out[key] = Clone(item)
		}

		return out
	case Sequence:
		out := make(Sequence, 0, len(val))
		for _, item := range val {
			out = append(out, Clone(item))
		}

		return out
	default:
		return v
	}
}

// IsScalar reports whether v is a leaf value rather than a Mapping or
// Sequence.
func IsScalar(v Value) bool {
	switch v.(type) {
	case Mapping, Sequence:
		return false
	default:
		return true
	}
}

// KindName returns the grammar name of v's kind, for diagnostics.
func KindName(v Value) string {
	switch v.(type) {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	default:
		return "unknown"
	}
}
