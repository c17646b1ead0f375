// seehuhn.de/go/imgmeta - image metadata in Go
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package imgmeta

// Value is the value of a metadata entry.
//
// Read and String are inverse to each other, up to normalisation:
// after one round trip through String and Read, the text form of a value
// no longer changes.
type Value interface {
	// TypeID returns the type of the value.  The type never changes.
	TypeID() TypeID

	// Count returns the number of components of the value, for example
	// the number of integers in an integer array.
	Count() int

	// Read replaces the value with the value described by text.
	// On error, the value is left unchanged.
	Read(text string) error

	// String returns the canonical text form of the value.
	String() string
}

// NewValue returns a new, empty value of the given type.
// Types not known to this package give an empty [Bytes] value.
func NewValue(t TypeID) Value {
	switch t {
	case UnsignedByte:
		return &Integers[uint8]{Type: t}
	case SignedByte:
		return &Integers[int8]{Type: t}
	case UnsignedShort:
		return &Integers[uint16]{Type: t}
	case SignedShort:
		return &Integers[int16]{Type: t}
	case UnsignedLong, TiffIfd:
		return &Integers[uint32]{Type: t}
	case SignedLong:
		return &Integers[int32]{Type: t}
	case UnsignedRational:
		return &Rationals[uint32]{Type: t}
	case SignedRational:
		return &Rationals[int32]{Type: t}
	case TiffFloat:
		return &Floats[float32]{Type: t}
	case TiffDouble:
		return &Floats[float64]{Type: t}
	case AsciiString, String, XmpText:
		return &Text{Type: t}
	case Comment:
		return &CommentValue{Charset: CharsetASCII}
	case Date:
		return &DateValue{}
	case Time:
		return &TimeValue{}
	case XmpAlt, XmpBag, XmpSeq:
		return &XmpArray{Type: t}
	case LangAlt:
		return &LangAltValue{}
	case XmpStruct:
		return &XmpStructValue{}
	default:
		return &Bytes{}
	}
}

// ReadValue creates a value of type t and reads it from text.
func ReadValue(t TypeID, text string) (Value, error) {
	v := NewValue(t)
	err := v.Read(text)
	if err != nil {
		return nil, err
	}
	return v, nil
}
