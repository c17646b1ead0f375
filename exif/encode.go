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
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"
)

type field struct {
	tag      uint16
	wireType uint16
	count    uint32
	data     []byte
}

// writeOrder is the order in which the IFDs are laid out.
var writeOrder = []Group{Image, Photo, Iop, GPSInfo, Thumbnail}

var errTooLarge = errors.New("Exif data too large")

// Encode writes the Exif data as a TIFF structure.
//
// The output has a canonical layout: the header is followed by IFD0,
// the Exif IFD, the interoperability IFD, the GPS IFD, IFD1 and the
// thumbnail image.  Each IFD is immediately followed by the field data
// which does not fit into the IFD entries.  Fields are sorted by tag;
// fields with the same tag keep their container order.
func Encode(data *Data) ([]byte, error) {
	order := data.ByteOrder
	if order == nil {
		order = binary.LittleEndian
	}

	ifds := make(map[Group][]field)
	for k, v := range data.All() {
		if isPointer(k) || int(k.Group) >= len(groupNames) {
			continue
		}
		wireType, count, buf := encodeValue(v, order)
		ifds[k.Group] = append(ifds[k.Group], field{
			tag:      k.Tag,
			wireType: wireType,
			count:    count,
			data:     buf,
		})
	}

	// Placeholders for the pointer tags.  Their values are filled in
	// once the layout is known.
	if len(ifds[Iop]) > 0 {
		ifds[Photo] = append(ifds[Photo], pointerField(tagInteropIFD))
	}
	if len(ifds[Photo]) > 0 {
		ifds[Image] = append(ifds[Image], pointerField(tagExifIFD))
	}
	if len(ifds[GPSInfo]) > 0 {
		ifds[Image] = append(ifds[Image], pointerField(tagGPSIFD))
	}
	if len(data.Thumbnail) > 0 {
		ifds[Thumbnail] = append(ifds[Thumbnail],
			pointerField(tagJPEGOffset), pointerField(tagJPEGLength))
	}

	pos := make(map[Group]uint32)
	total := uint64(headerSize)
	for _, g := range writeOrder {
		fields := ifds[g]
		if len(fields) == 0 && g != Image {
			continue
		}
		if len(fields) > math.MaxUint16 {
			return nil, fmt.Errorf("%s IFD: %w", g, errTooLarge)
		}
		slices.SortStableFunc(fields, func(a, b field) int {
			return cmp.Compare(a.tag, b.tag)
		})
		pos[g] = uint32(total)
		total += ifdSize(fields)
		if total > math.MaxUint32 {
			return nil, errTooLarge
		}
	}
	thumbPos := total
	total += uint64(len(data.Thumbnail))
	if total > math.MaxUint32 {
		return nil, errTooLarge
	}

	setPointer(ifds[Photo], tagInteropIFD, pos[Iop], order)
	setPointer(ifds[Image], tagExifIFD, pos[Photo], order)
	setPointer(ifds[Image], tagGPSIFD, pos[GPSInfo], order)
	setPointer(ifds[Thumbnail], tagJPEGOffset, uint32(thumbPos), order)
	setPointer(ifds[Thumbnail], tagJPEGLength, uint32(len(data.Thumbnail)), order)

	buf := make([]byte, total)
	if order == binary.BigEndian {
		copy(buf, "MM")
	} else {
		copy(buf, "II")
	}
	order.PutUint16(buf[2:], 42)
	order.PutUint32(buf[4:], pos[Image])

	for _, g := range writeOrder {
		p, ok := pos[g]
		if !ok {
			continue
		}
		var next uint32
		if g == Image {
			next = pos[Thumbnail]
		}
		writeIFD(buf, p, ifds[g], next, order)
	}
	copy(buf[thumbPos:], data.Thumbnail)

	return buf, nil
}

func pointerField(tag uint16) field {
	return field{tag: tag, wireType: uint16(tLong), count: 1, data: make([]byte, 4)}
}

func setPointer(fields []field, tag uint16, val uint32, order binary.ByteOrder) {
	for _, f := range fields {
		if f.tag == tag && f.wireType == uint16(tLong) && len(f.data) == 4 {
			order.PutUint32(f.data, val)
			return
		}
	}
}

// ifdSize returns the number of bytes used by an IFD, including the
// field data stored after the IFD.
func ifdSize(fields []field) uint64 {
	size := uint64(tableOverhead) + uint64(len(fields))*tableEntrySize
	for _, f := range fields {
		if len(f.data) > 4 {
			size += align(uint64(len(f.data)))
		}
	}
	return size
}

// align rounds up to a word boundary.
func align(n uint64) uint64 {
	return n + n&1
}

func writeIFD(buf []byte, pos uint32, fields []field, next uint32, order binary.ByteOrder) {
	order.PutUint16(buf[pos:], uint16(len(fields)))
	p := pos + 2
	dataPos := pos + uint32(tableOverhead+len(fields)*tableEntrySize)
	for _, f := range fields {
		order.PutUint16(buf[p:], f.tag)
		order.PutUint16(buf[p+2:], f.wireType)
		order.PutUint32(buf[p+4:], f.count)
		if len(f.data) <= 4 {
			copy(buf[p+8:p+12], f.data)
		} else {
			order.PutUint32(buf[p+8:], dataPos)
			copy(buf[dataPos:], f.data)
			dataPos += uint32(align(uint64(len(f.data))))
		}
		p += tableEntrySize
	}
	order.PutUint32(buf[p:], next)
}
