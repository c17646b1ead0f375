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

import "strconv"

// Family identifies a metadata dialect.
type Family uint8

// These are the supported metadata dialects.
const (
	Exif Family = iota + 1
	IPTC
	XMP
)

func (f Family) String() string {
	switch f {
	case Exif:
		return "Exif"
	case IPTC:
		return "Iptc"
	case XMP:
		return "Xmp"
	default:
		return "Family(" + strconv.Itoa(int(f)) + ")"
	}
}

// Families lists all dialects, in the order in which they are processed.
var Families = []Family{Exif, IPTC, XMP}

// TypeID identifies the type of a [Value].
//
// The values from UnsignedByte to TiffIfd coincide with the field type codes
// used in TIFF and Exif files.
type TypeID uint32

// These are the supported value types.
const (
	UnsignedByte     TypeID = 1
	AsciiString      TypeID = 2
	UnsignedShort    TypeID = 3
	UnsignedLong     TypeID = 4
	UnsignedRational TypeID = 5
	SignedByte       TypeID = 6
	Undefined        TypeID = 7
	SignedShort      TypeID = 8
	SignedLong       TypeID = 9
	SignedRational   TypeID = 10
	TiffFloat        TypeID = 11
	TiffDouble       TypeID = 12
	TiffIfd          TypeID = 13

	String    TypeID = 0x10000
	Date      TypeID = 0x10001
	Time      TypeID = 0x10002
	Comment   TypeID = 0x10003
	XmpText   TypeID = 0x10004
	XmpAlt    TypeID = 0x10005
	XmpBag    TypeID = 0x10006
	XmpSeq    TypeID = 0x10007
	LangAlt   TypeID = 0x10008
	XmpStruct TypeID = 0x10009
)

var typeNames = map[TypeID]string{
	UnsignedByte:     "Byte",
	AsciiString:      "Ascii",
	UnsignedShort:    "Short",
	UnsignedLong:     "Long",
	UnsignedRational: "Rational",
	SignedByte:       "SByte",
	Undefined:        "Undefined",
	SignedShort:      "SShort",
	SignedLong:       "SLong",
	SignedRational:   "SRational",
	TiffFloat:        "Float",
	TiffDouble:       "Double",
	TiffIfd:          "Ifd",
	String:           "String",
	Date:             "Date",
	Time:             "Time",
	Comment:          "Comment",
	XmpText:          "XmpText",
	XmpAlt:           "XmpAlt",
	XmpBag:           "XmpBag",
	XmpSeq:           "XmpSeq",
	LangAlt:          "LangAlt",
	XmpStruct:        "XmpStruct",
}

func (t TypeID) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "TypeID(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// Size returns the size in bytes of a single component of a TIFF type,
// or 0 for types which are not TIFF types.
func (t TypeID) Size() int {
	switch t {
	case UnsignedByte, AsciiString, SignedByte, Undefined:
		return 1
	case UnsignedShort, SignedShort:
		return 2
	case UnsignedLong, SignedLong, TiffFloat, TiffIfd:
		return 4
	case UnsignedRational, SignedRational, TiffDouble:
		return 8
	default:
		return 0
	}
}

// IsXmpArray reports whether t is one of the XMP array types.
func (t TypeID) IsXmpArray() bool {
	return t == XmpAlt || t == XmpBag || t == XmpSeq || t == LangAlt
}
