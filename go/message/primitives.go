package message

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Primitive payload types are declared as named wrappers around Go's
// built-in scalars, since methods cannot be attached to unnamed builtin
// types directly. Each one is a single-element Arrow array round trip.

type (
	Uint8   uint8
	Uint16  uint16
	Uint32  uint32
	Uint64  uint64
	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64
	Bool    bool
	Text    string
)

func (Uint8) Field(name string) arrow.Field  { return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Uint8} }
func (v Uint8) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	b := array.NewUint8Builder(mem)
	defer b.Release()
	b.Append(uint8(v))
	return b.NewArray(), nil
}
func (v *Uint8) FromArrow(data arrow.ArrayData) error {
	arr := array.NewUint8Data(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return newFromArrowError("Uint8", &EmptyArrayError{Type: "Uint8"})
	}
	*v = Uint8(arr.Value(0))
	return nil
}

func (Uint16) Field(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Uint16}
}
func (v Uint16) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	b := array.NewUint16Builder(mem)
	defer b.Release()
	b.Append(uint16(v))
	return b.NewArray(), nil
}
func (v *Uint16) FromArrow(data arrow.ArrayData) error {
	arr := array.NewUint16Data(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return newFromArrowError("Uint16", &EmptyArrayError{Type: "Uint16"})
	}
	*v = Uint16(arr.Value(0))
	return nil
}

func (Uint32) Field(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Uint32}
}
func (v Uint32) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	b := array.NewUint32Builder(mem)
	defer b.Release()
	b.Append(uint32(v))
	return b.NewArray(), nil
}
func (v *Uint32) FromArrow(data arrow.ArrayData) error {
	arr := array.NewUint32Data(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return newFromArrowError("Uint32", &EmptyArrayError{Type: "Uint32"})
	}
	*v = Uint32(arr.Value(0))
	return nil
}

func (Uint64) Field(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Uint64}
}
func (v Uint64) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	b := array.NewUint64Builder(mem)
	defer b.Release()
	b.Append(uint64(v))
	return b.NewArray(), nil
}
func (v *Uint64) FromArrow(data arrow.ArrayData) error {
	arr := array.NewUint64Data(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return newFromArrowError("Uint64", &EmptyArrayError{Type: "Uint64"})
	}
	*v = Uint64(arr.Value(0))
	return nil
}

func (Int8) Field(name string) arrow.Field { return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int8} }
func (v Int8) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	b := array.NewInt8Builder(mem)
	defer b.Release()
	b.Append(int8(v))
	return b.NewArray(), nil
}
func (v *Int8) FromArrow(data arrow.ArrayData) error {
	arr := array.NewInt8Data(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return newFromArrowError("Int8", &EmptyArrayError{Type: "Int8"})
	}
	*v = Int8(arr.Value(0))
	return nil
}

func (Int16) Field(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int16}
}
func (v Int16) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	b := array.NewInt16Builder(mem)
	defer b.Release()
	b.Append(int16(v))
	return b.NewArray(), nil
}
func (v *Int16) FromArrow(data arrow.ArrayData) error {
	arr := array.NewInt16Data(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return newFromArrowError("Int16", &EmptyArrayError{Type: "Int16"})
	}
	*v = Int16(arr.Value(0))
	return nil
}

func (Int32) Field(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int32}
}
func (v Int32) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	b := array.NewInt32Builder(mem)
	defer b.Release()
	b.Append(int32(v))
	return b.NewArray(), nil
}
func (v *Int32) FromArrow(data arrow.ArrayData) error {
	arr := array.NewInt32Data(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return newFromArrowError("Int32", &EmptyArrayError{Type: "Int32"})
	}
	*v = Int32(arr.Value(0))
	return nil
}

func (Int64) Field(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64}
}
func (v Int64) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	b := array.NewInt64Builder(mem)
	defer b.Release()
	b.Append(int64(v))
	return b.NewArray(), nil
}
func (v *Int64) FromArrow(data arrow.ArrayData) error {
	arr := array.NewInt64Data(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return newFromArrowError("Int64", &EmptyArrayError{Type: "Int64"})
	}
	*v = Int64(arr.Value(0))
	return nil
}

func (Float32) Field(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float32}
}
func (v Float32) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	b := array.NewFloat32Builder(mem)
	defer b.Release()
	b.Append(float32(v))
	return b.NewArray(), nil
}
func (v *Float32) FromArrow(data arrow.ArrayData) error {
	arr := array.NewFloat32Data(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return newFromArrowError("Float32", &EmptyArrayError{Type: "Float32"})
	}
	*v = Float32(arr.Value(0))
	return nil
}

func (Float64) Field(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64}
}
func (v Float64) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	b.Append(float64(v))
	return b.NewArray(), nil
}
func (v *Float64) FromArrow(data arrow.ArrayData) error {
	arr := array.NewFloat64Data(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return newFromArrowError("Float64", &EmptyArrayError{Type: "Float64"})
	}
	*v = Float64(arr.Value(0))
	return nil
}

func (Bool) Field(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Boolean}
}
func (v Bool) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	b.Append(bool(v))
	return b.NewArray(), nil
}
func (v *Bool) FromArrow(data arrow.ArrayData) error {
	arr := array.NewBooleanData(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return newFromArrowError("Bool", &EmptyArrayError{Type: "Bool"})
	}
	*v = Bool(arr.Value(0))
	return nil
}

func (Text) Field(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.BinaryTypes.String}
}
func (v Text) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	b.Append(string(v))
	return b.NewArray(), nil
}
func (v *Text) FromArrow(data arrow.ArrayData) error {
	arr := array.NewStringData(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return newFromArrowError("Text", &EmptyArrayError{Type: "Text"})
	}
	*v = Text(arr.Value(0))
	return nil
}
