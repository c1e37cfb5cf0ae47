package message

import "fmt"

// SchemaError is returned when a value cannot be converted to or from its
// Arrow representation.
type SchemaError struct {
	Op   string // "to_arrow" or "from_arrow"
	Type string
	Err  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("message: failed to convert %s %s: %v", e.Type, e.Op, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func newToArrowError(typeName string, err error) error {
	return &SchemaError{Op: "to_arrow", Type: typeName, Err: err}
}

func newFromArrowError(typeName string, err error) error {
	return &SchemaError{Op: "from_arrow", Type: typeName, Err: err}
}

// UnknownVariantError is returned when decoding an enum-valued field whose
// string does not match any of the type's declared variants.
type UnknownVariantError struct {
	Type    string
	Variant string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("message: unknown variant %q for enum %q", e.Variant, e.Type)
}

// FieldNotFoundError is returned when a struct-union decode cannot locate
// one of its declared child fields in the encoded array.
type FieldNotFoundError struct {
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("message: field %q not found in encoded union", e.Field)
}

// EmptyArrayError is returned when decoding a scalar value from an Arrow
// array that happens to have zero length.
type EmptyArrayError struct {
	Type string
}

func (e *EmptyArrayError) Error() string {
	return fmt.Sprintf("message: array for %q is empty, cannot decode scalar", e.Type)
}
