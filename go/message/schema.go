// Package message defines the envelope that travels along every fabric
// edge and the SchemaMessage capability that any payload type must
// satisfy: a description of its Arrow field, and conversions to and from
// an Arrow array. Composite types build their field out of a dense
// union of their children's fields; enum-like types encode as a
// lower-cased variant string.
package message

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Allocator is the shared Arrow memory allocator used throughout
// arrowmesh. A single process-wide allocator is sufficient: Arrow's
// allocator only tracks usage and does not need per-node isolation.
var Allocator memory.Allocator = memory.NewGoAllocator()

// SchemaMessage is satisfied by any payload type that can travel over
// the fabric. Field describes the type's Arrow schema contribution
// under the given name; it does not depend on the receiver's value and
// may be called on a zero value. ToArrow and FromArrow convert a single
// value to and from its Arrow array representation.
type SchemaMessage interface {
	Field(name string) arrow.Field
	ToArrow(mem memory.Allocator) (arrow.Array, error)
	FromArrow(data arrow.ArrayData) error
}

// Encode converts v to its Arrow array representation using the shared
// allocator.
func Encode(v SchemaMessage) (arrow.Array, error) {
	return v.ToArrow(Allocator)
}

// Decode populates v (a pointer to a SchemaMessage-implementing value)
// from its Arrow array representation.
func Decode(v SchemaMessage, data arrow.ArrayData) error {
	return v.FromArrow(data)
}
