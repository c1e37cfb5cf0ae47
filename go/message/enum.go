package message

import (
	"slices"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// EnumField describes the Arrow field for a string-encoded enum type.
func EnumField(name string) arrow.Field {
	return arrow.Field{Name: name, Type: arrow.BinaryTypes.String}
}

// EncodeEnum lower-cases variant and encodes it as a one-element string
// array, the wire representation of an enum-like type.
func EncodeEnum(mem memory.Allocator, variant string) (arrow.Array, error) {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	b.Append(strings.ToLower(variant))
	return b.NewArray(), nil
}

// DecodeEnum decodes a one-element string array and validates it against
// the type's declared (already lower-cased) variants, returning
// UnknownVariantError if it does not match any of them.
func DecodeEnum(typeName string, variants []string, data arrow.ArrayData) (string, error) {
	arr := array.NewStringData(data)
	defer arr.Release()
	if arr.Len() == 0 {
		return "", newFromArrowError(typeName, &EmptyArrayError{Type: typeName})
	}

	got := arr.Value(0)
	if !slices.Contains(variants, got) {
		return "", newFromArrowError(typeName, &UnknownVariantError{Type: typeName, Variant: got})
	}
	return got, nil
}
