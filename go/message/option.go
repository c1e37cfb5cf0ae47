package message

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Ptr constrains a type parameter to pointer-to-T where *T implements
// SchemaMessage: FromArrow needs a pointer receiver to mutate the
// decoded value in place, but generic containers need to hold T by
// value (otherwise, e.g., a None Option would have no zero to fall
// back to). Tying the two together this way is the standard pattern
// for generic code whose decode step has to mutate through a pointer.
// Every typed endpoint handle in package node is parameterized the
// same way.
type Ptr[T any] interface {
	*T
	SchemaMessage
}

// Option wraps an optional value: Some(T) or None. Its Arrow field is T's
// field marked nullable; None encodes as a zero-length null array.
type Option[T any, PT Ptr[T]] struct {
	Value T
	Valid bool
}

// Some wraps a present value.
func Some[T any, PT Ptr[T]](v T) Option[T, PT] { return Option[T, PT]{Value: v, Valid: true} }

// None returns an absent value of the given type.
func None[T any, PT Ptr[T]]() Option[T, PT] { return Option[T, PT]{} }

func (o Option[T, PT]) Field(name string) arrow.Field {
	f := PT(&o.Value).Field(name)
	f.Nullable = true
	return f
}

func (o Option[T, PT]) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	if !o.Valid {
		return array.NewNull(0), nil
	}
	return PT(&o.Value).ToArrow(mem)
}

func (o *Option[T, PT]) FromArrow(data arrow.ArrayData) error {
	if data.DataType().ID() == arrow.NULL {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := PT(&o.Value).FromArrow(data); err != nil {
		return err
	}
	o.Valid = true
	return nil
}
