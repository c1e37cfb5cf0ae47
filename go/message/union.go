package message

import (
	"errors"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

var errNotADenseUnion = errors.New("field is not a dense union")

// UnionField composes the Arrow field for a struct-like SchemaMessage
// type: a dense union of its children's fields, one per named member. A
// hand-written Field method for a composite type calls this with the
// fields of each member in declaration order.
func UnionField(name string, children []arrow.Field) arrow.Field {
	fields := make([]arrow.UnionField, len(children))
	for i, f := range children {
		fields[i] = arrow.UnionField{Field: f, TypeCode: arrow.UnionTypeCode(i)}
	}
	return arrow.Field{Name: name, Type: arrow.DenseUnionOf(fields, typeCodesOf(fields))}
}

// EncodeUnion builds the one-row dense union array for a struct-like
// type out of its already-encoded, single-valued member arrays. Every
// member of an arrowmesh struct is present for every message (optional
// members use Option[T] rather than the union's own nullability), so
// the encoded row always selects type code 0; the member arrays
// themselves hold the real values as the union's dense children.
func EncodeUnion(unionField arrow.Field, children []arrow.Array) (arrow.Array, error) {
	ut, ok := unionField.Type.(*arrow.DenseUnionType)
	if !ok {
		return nil, newToArrowError("union", errNotADenseUnion)
	}

	childData := make([]arrow.ArrayData, len(children))
	for i, child := range children {
		childData[i] = child.Data()
	}

	typeIDs := memory.NewBufferBytes([]byte{byte(ut.TypeCodes()[0])})
	offsets := memory.NewBufferBytes(arrow.Int32Traits.CastToBytes([]int32{0}))

	data := array.NewData(ut, 1, []*memory.Buffer{nil, typeIDs, offsets}, childData, 0, 0)
	defer data.Release()

	return array.MakeFromData(data), nil
}

// DecodeUnion unpacks a dense union array into a lookup from field name
// to that field's raw child ArrayData, so a struct-like type's
// FromArrow can pull each member out by name.
func DecodeUnion(data arrow.ArrayData) (map[string]arrow.ArrayData, error) {
	union, ok := array.MakeFromData(data).(*array.DenseUnion)
	if !ok {
		return nil, newFromArrowError("union", errNotADenseUnion)
	}
	defer union.Release()

	ut := union.UnionType().(*arrow.DenseUnionType)
	fields := ut.Fields()
	out := make(map[string]arrow.ArrayData, len(fields))
	for i, f := range fields {
		out[f.Name] = union.Field(i).Data()
	}
	return out, nil
}

// FieldData looks up a named member in a decoded union map, returning
// FieldNotFoundError if the member is absent.
func FieldData(fields map[string]arrow.ArrayData, name string) (arrow.ArrayData, error) {
	d, ok := fields[name]
	if !ok {
		return nil, &FieldNotFoundError{Field: name}
	}
	return d, nil
}

func typeCodesOf(fields []arrow.UnionField) []arrow.UnionTypeCode {
	codes := make([]arrow.UnionTypeCode, len(fields))
	for i, f := range fields {
		codes[i] = f.TypeCode
	}
	return codes
}
