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

package exif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"

	"seehuhn.de/go/imgmeta"
)

// Opaque is the value of a tag which is not known to this package, or
// which uses a field type not defined by TIFF.  ASCII fields without the
// terminating NUL are also kept as Opaque values.  The field is kept exactly
// as it was found, so that it can be written back unchanged.
//
// Opaque values report the type [imgmeta.Undefined].
type Opaque struct {
	WireType   uint16
	Components uint32
	Data       []byte
}

// TypeID implements the [imgmeta.Value] interface.
func (v *Opaque) TypeID() imgmeta.TypeID {
	return imgmeta.Undefined
}

// Count implements the [imgmeta.Value] interface.
func (v *Opaque) Count() int {
	return int(v.Components)
}

// Read implements the [imgmeta.Value] interface.  After a successful
// call, the field has TIFF type Undefined.
func (v *Opaque) Read(text string) error {
	b := &imgmeta.Bytes{}
	err := b.Read(text)
	if err != nil {
		return err
	}
	v.WireType = uint16(imgmeta.Undefined)
	v.Components = uint32(len(b.V))
	v.Data = b.V
	return nil
}

func (v *Opaque) String() string {
	b := &imgmeta.Bytes{V: v.Data}
	return b.String()
}

// fieldSize returns the number of data bytes of a field, or -1 if
// the type is not a TIFF type.
func fieldSize(wireType uint16, count uint32) int64 {
	size := imgmeta.TypeID(wireType).Size()
	if size == 0 || wireType > uint16(imgmeta.TiffIfd) {
		return -1
	}
	return int64(size) * int64(count)
}

// decodeValue converts the data of a field into a value.
func decodeValue(k Key, wireType uint16, count uint32, data []byte, order binary.ByteOrder) imgmeta.Value {
	info, known := lookupTag(k)
	if !known || fieldSize(wireType, count) < 0 {
		return &Opaque{WireType: wireType, Components: count, Data: bytes.Clone(data)}
	}

	t := imgmeta.TypeID(wireType)
	n := int(count)
	switch t {
	case imgmeta.UnsignedByte:
		return &imgmeta.Integers[uint8]{Type: t, V: bytes.Clone(data)}
	case imgmeta.SignedByte:
		v := make([]int8, n)
		for i := range v {
			v[i] = int8(data[i])
		}
		return &imgmeta.Integers[int8]{Type: t, V: v}
	case imgmeta.AsciiString:
		if len(data) == 0 || data[len(data)-1] != 0 {
			return &Opaque{WireType: wireType, Components: count, Data: bytes.Clone(data)}
		}
		return &imgmeta.Text{Type: t, V: string(data[:len(data)-1])}
	case imgmeta.UnsignedShort:
		v := make([]uint16, n)
		for i := range v {
			v[i] = order.Uint16(data[2*i:])
		}
		return &imgmeta.Integers[uint16]{Type: t, V: v}
	case imgmeta.SignedShort:
		v := make([]int16, n)
		for i := range v {
			v[i] = int16(order.Uint16(data[2*i:]))
		}
		return &imgmeta.Integers[int16]{Type: t, V: v}
	case imgmeta.UnsignedLong, imgmeta.TiffIfd:
		v := make([]uint32, n)
		for i := range v {
			v[i] = order.Uint32(data[4*i:])
		}
		return &imgmeta.Integers[uint32]{Type: t, V: v}
	case imgmeta.SignedLong:
		v := make([]int32, n)
		for i := range v {
			v[i] = int32(order.Uint32(data[4*i:]))
		}
		return &imgmeta.Integers[int32]{Type: t, V: v}
	case imgmeta.UnsignedRational:
		v := make([]imgmeta.Rational[uint32], n)
		for i := range v {
			v[i].Num = order.Uint32(data[8*i:])
			v[i].Den = order.Uint32(data[8*i+4:])
		}
		return &imgmeta.Rationals[uint32]{Type: t, V: v}
	case imgmeta.SignedRational:
		v := make([]imgmeta.Rational[int32], n)
		for i := range v {
			v[i].Num = int32(order.Uint32(data[8*i:]))
			v[i].Den = int32(order.Uint32(data[8*i+4:]))
		}
		return &imgmeta.Rationals[int32]{Type: t, V: v}
	case imgmeta.TiffFloat:
		v := make([]float32, n)
		for i := range v {
			v[i] = math.Float32frombits(order.Uint32(data[4*i:]))
		}
		return &imgmeta.Floats[float32]{Type: t, V: v}
	case imgmeta.TiffDouble:
		v := make([]float64, n)
		for i := range v {
			v[i] = math.Float64frombits(order.Uint64(data[8*i:]))
		}
		return &imgmeta.Floats[float64]{Type: t, V: v}
	}

	// type Undefined
	if info.tp == imgmeta.Comment {
		if c, err := decodeComment(data, order); err == nil {
			return c
		}
	}
	return &imgmeta.Bytes{V: bytes.Clone(data)}
}

// encodeValue returns the TIFF type, the count and the data of a field.
func encodeValue(v imgmeta.Value, order binary.ByteOrder) (uint16, uint32, []byte) {
	switch v := v.(type) {
	case *Opaque:
		return v.WireType, v.Components, v.Data
	case *imgmeta.Integers[uint8]:
		return uint16(v.Type), uint32(len(v.V)), v.V
	case *imgmeta.Integers[int8]:
		data := make([]byte, len(v.V))
		for i, x := range v.V {
			data[i] = byte(x)
		}
		return uint16(v.Type), uint32(len(v.V)), data
	case *imgmeta.Integers[uint16]:
		data := make([]byte, 2*len(v.V))
		for i, x := range v.V {
			order.PutUint16(data[2*i:], x)
		}
		return uint16(v.Type), uint32(len(v.V)), data
	case *imgmeta.Integers[int16]:
		data := make([]byte, 2*len(v.V))
		for i, x := range v.V {
			order.PutUint16(data[2*i:], uint16(x))
		}
		return uint16(v.Type), uint32(len(v.V)), data
	case *imgmeta.Integers[uint32]:
		data := make([]byte, 4*len(v.V))
		for i, x := range v.V {
			order.PutUint32(data[4*i:], x)
		}
		return uint16(v.Type), uint32(len(v.V)), data
	case *imgmeta.Integers[int32]:
		data := make([]byte, 4*len(v.V))
		for i, x := range v.V {
			order.PutUint32(data[4*i:], uint32(x))
		}
		return uint16(v.Type), uint32(len(v.V)), data
	case *imgmeta.Rationals[uint32]:
		data := make([]byte, 8*len(v.V))
		for i, x := range v.V {
			order.PutUint32(data[8*i:], x.Num)
			order.PutUint32(data[8*i+4:], x.Den)
		}
		return uint16(v.Type), uint32(len(v.V)), data
	case *imgmeta.Rationals[int32]:
		data := make([]byte, 8*len(v.V))
		for i, x := range v.V {
			order.PutUint32(data[8*i:], uint32(x.Num))
			order.PutUint32(data[8*i+4:], uint32(x.Den))
		}
		return uint16(v.Type), uint32(len(v.V)), data
	case *imgmeta.Floats[float32]:
		data := make([]byte, 4*len(v.V))
		for i, x := range v.V {
			order.PutUint32(data[4*i:], math.Float32bits(x))
		}
		return uint16(v.Type), uint32(len(v.V)), data
	case *imgmeta.Floats[float64]:
		data := make([]byte, 8*len(v.V))
		for i, x := range v.V {
			order.PutUint64(data[8*i:], math.Float64bits(x))
		}
		return uint16(v.Type), uint32(len(v.V)), data
	case *imgmeta.Bytes:
		return uint16(imgmeta.Undefined), uint32(len(v.V)), v.V
	case *imgmeta.CommentValue:
		data := encodeComment(v, order)
		return uint16(imgmeta.Undefined), uint32(len(data)), data
	}

	// All other values are stored as ASCII strings.
	data := append([]byte(v.String()), 0)
	return uint16(imgmeta.AsciiString), uint32(len(data)), data
}

// Character set identifiers at the start of a UserComment field.
var charsetIDs = [][]byte{
	imgmeta.CharsetUndefined: {0, 0, 0, 0, 0, 0, 0, 0},
	imgmeta.CharsetASCII:     []byte("ASCII\x00\x00\x00"),
	imgmeta.CharsetJIS:       []byte("JIS\x00\x00\x00\x00\x00"),
	imgmeta.CharsetUnicode:   []byte("UNICODE\x00"),
}

var errBadComment = errors.New("malformed user comment")

func utf16Encoding(order binary.ByteOrder) encoding.Encoding {
	endianness := unicode.LittleEndian
	if order == binary.BigEndian {
		endianness = unicode.BigEndian
	}
	return unicode.UTF16(endianness, unicode.IgnoreBOM)
}

func decodeComment(data []byte, order binary.ByteOrder) (*imgmeta.CommentValue, error) {
	if len(data) < 8 {
		return nil, errBadComment
	}
	cs := -1
	for i, id := range charsetIDs {
		if bytes.Equal(data[:8], id) {
			cs = i
			break
		}
	}
	if cs < 0 {
		return nil, errBadComment
	}

	body := data[8:]
	res := &imgmeta.CommentValue{Charset: imgmeta.Charset(cs)}
	if res.Charset == imgmeta.CharsetUnicode {
		if len(body)%2 != 0 {
			return nil, errBadComment
		}
		text, err := utf16Encoding(order).NewDecoder().Bytes(body)
		if err != nil {
			return nil, errBadComment
		}
		// Only accept text which re-encodes to the same bytes.
		again, err := utf16Encoding(order).NewEncoder().Bytes(text)
		if err != nil || !bytes.Equal(again, body) {
			return nil, errBadComment
		}
		res.Text = string(text)
	} else {
		res.Text = string(body)
	}
	return res, nil
}

func encodeComment(c *imgmeta.CommentValue, order binary.ByteOrder) []byte {
	cs := c.Charset
	if int(cs) >= len(charsetIDs) {
		cs = imgmeta.CharsetUndefined
	}
	data := append([]byte{}, charsetIDs[cs]...)
	body := []byte(c.Text)
	if cs == imgmeta.CharsetUnicode {
		enc, err := utf16Encoding(order).NewEncoder().Bytes(body)
		if err == nil {
			body = enc
		}
	}
	return append(data, body...)
}
