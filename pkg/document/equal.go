package document

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Equal reports deep structural equality between two values. Kinds must
// match exactly, scalars compare by value, sequences compare element-wise
// in order, and mappings must agree on their full key set. Nil and empty
// containers count as equal.
func Equal(a, b Value) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}
