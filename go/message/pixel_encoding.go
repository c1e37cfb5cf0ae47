package message

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// PixelEncoding is an enum-valued SchemaMessage over a closed set of
// pixel layouts. It exists to give the enum-as-string encoding a
// concrete, meaningful example to round-trip in tests, rather than
// exercising DecodeEnum/EncodeEnum only against ad hoc strings.
type PixelEncoding string

const (
	RGB8  PixelEncoding = "rgb8"
	RGBA8 PixelEncoding = "rgba8"
	BGR8  PixelEncoding = "bgr8"
	BGRA8 PixelEncoding = "bgra8"
)

var pixelEncodingVariants = []string{string(RGB8), string(RGBA8), string(BGR8), string(BGRA8)}

// Field describes this type's Arrow contribution as a string-encoded
// enum field.
func (PixelEncoding) Field(name string) arrow.Field { return EnumField(name) }

// ToArrow encodes the variant as a lower-cased one-element string array.
func (p PixelEncoding) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	return EncodeEnum(mem, string(p))
}

// FromArrow decodes and validates the variant against PixelEncoding's
// closed set.
func (p *PixelEncoding) FromArrow(data arrow.ArrayData) error {
	variant, err := DecodeEnum("PixelEncoding", pixelEncodingVariants, data)
	if err != nil {
		return err
	}
	*p = PixelEncoding(variant)
	return nil
}
