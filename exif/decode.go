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
	"fmt"

	"github.com/hashicorp/go-multierror"

	"seehuhn.de/go/imgmeta"
)

const (
	headerSize     = 8
	tableOverhead  = 6 // entry count and position of the next IFD
	tableEntrySize = 12
)

type decoder struct {
	buf   []byte
	order binary.ByteOrder
	data  *Data

	// seen records the positions of all IFDs read so far.
	seen map[uint32]bool

	// sub records the positions of the sub-IFDs, as found in the
	// pointer tags.
	sub map[Group]uint32

	thumbPos, thumbLen uint32

	warnings *multierror.Error
}

// Decode reads a TIFF structure containing Exif data.
//
// Problems which affect only a single field do not stop the decoding.
// Such fields are skipped, and the returned error is a
// [*multierror.Error] listing the problems.  In this case, both the data
// and the error are non-nil.
func Decode(block []byte) (*Data, error) {
	order, ifd0, err := readHeader(block)
	if err != nil {
		return nil, err
	}

	d := &decoder{
		buf:   block,
		order: order,
		data:  New(),
		seen:  make(map[uint32]bool),
		sub:   make(map[Group]uint32),
	}
	d.data.ByteOrder = order

	next, err := d.readIFD(Image, ifd0)
	if err != nil {
		return nil, err
	}
	for _, g := range []Group{Photo, Iop, GPSInfo} {
		pos, ok := d.sub[g]
		if !ok {
			continue
		}
		_, err = d.readIFD(g, pos)
		if err != nil {
			return nil, err
		}
	}
	if next != 0 {
		_, err = d.readIFD(Thumbnail, next)
		if err != nil {
			return nil, err
		}
		d.readThumbnail()
	}

	return d.data, d.warnings.ErrorOrNil()
}

func readHeader(buf []byte) (binary.ByteOrder, uint32, error) {
	if len(buf) < headerSize {
		return nil, 0, imgmeta.CorruptError(imgmeta.Exif, 0, "TIFF header too short")
	}
	var order binary.ByteOrder
	switch {
	case buf[0] == 'I' && buf[1] == 'I':
		order = binary.LittleEndian
	case buf[0] == 'M' && buf[1] == 'M':
		order = binary.BigEndian
	default:
		return nil, 0, imgmeta.CorruptError(imgmeta.Exif, 0, "invalid byte order mark")
	}
	if order.Uint16(buf[2:]) != 42 {
		return nil, 0, imgmeta.CorruptError(imgmeta.Exif, 2, "invalid TIFF magic number")
	}
	return order, order.Uint32(buf[4:]), nil
}

// readIFD reads the IFD at pos and appends its fields to the container.
// The return value is the position of the next IFD, or 0.
func (d *decoder) readIFD(g Group, pos uint32) (uint32, error) {
	if d.seen[pos] {
		return 0, imgmeta.CorruptError(imgmeta.Exif, int64(pos),
			fmt.Sprintf("IFD cycle detected in %s IFD", g))
	}
	d.seen[pos] = true

	bufSize := uint64(len(d.buf))
	if uint64(pos)+2 > bufSize {
		return 0, imgmeta.CorruptError(imgmeta.Exif, int64(pos),
			fmt.Sprintf("%s IFD past end of input", g))
	}
	entries := d.order.Uint16(d.buf[pos:])
	tabSize := uint64(tableOverhead) + uint64(entries)*tableEntrySize
	if uint64(pos)+tabSize > bufSize {
		return 0, imgmeta.CorruptError(imgmeta.Exif, int64(pos),
			fmt.Sprintf("%s IFD with %d entries extends past end of input", g, entries))
	}

	p := pos + 2
	for i := uint16(0); i < entries; i++ {
		tag := d.order.Uint16(d.buf[p:])
		wireType := d.order.Uint16(d.buf[p+2:])
		count := d.order.Uint32(d.buf[p+4:])
		valuePos := p + 8
		p += tableEntrySize

		var data []byte
		size := fieldSize(wireType, count)
		switch {
		case size < 0:
			data = d.buf[valuePos : valuePos+4]
		case size <= 4:
			data = d.buf[valuePos : valuePos+uint32(size)]
		default:
			dataPos := uint64(d.order.Uint32(d.buf[valuePos:]))
			if dataPos+uint64(size) > bufSize {
				err := imgmeta.CorruptError(imgmeta.Exif, int64(valuePos),
					fmt.Sprintf("skipping tag 0x%04x in %s IFD: data at %d past end of input",
						tag, g, dataPos))
				d.warnings = multierror.Append(d.warnings, err)
				continue
			}
			data = d.buf[dataPos : dataPos+uint64(size)]
		}

		k := Key{Group: g, Tag: tag}
		v := decodeValue(k, wireType, count, data, d.order)
		d.data.Append(k, v)

		if isPointer(k) {
			d.notePointer(k, v)
		}
	}

	return d.order.Uint32(d.buf[p:]), nil
}

func (d *decoder) notePointer(k Key, v imgmeta.Value) {
	x, ok := v.(*imgmeta.Integers[uint32])
	if !ok || len(x.V) != 1 {
		err := imgmeta.KeyError(imgmeta.ErrCorruptData, imgmeta.Exif, k.String(),
			"pointer tag is not a single LONG value")
		d.warnings = multierror.Append(d.warnings, err)
		return
	}
	pos := x.V[0]

	switch k {
	case Key{Image, tagExifIFD}:
		d.sub[Photo] = pos
	case Key{Image, tagGPSIFD}:
		d.sub[GPSInfo] = pos
	case Key{Photo, tagInteropIFD}:
		d.sub[Iop] = pos
	case Key{Thumbnail, tagJPEGOffset}:
		d.thumbPos = pos
	case Key{Thumbnail, tagJPEGLength}:
		d.thumbLen = pos
	}
}

func (d *decoder) readThumbnail() {
	if d.thumbPos == 0 || d.thumbLen == 0 {
		return
	}
	end := uint64(d.thumbPos) + uint64(d.thumbLen)
	if end > uint64(len(d.buf)) {
		err := imgmeta.CorruptError(imgmeta.Exif, int64(d.thumbPos),
			"thumbnail image past end of input")
		d.warnings = multierror.Append(d.warnings, err)
		return
	}
	d.data.Thumbnail = bytes.Clone(d.buf[d.thumbPos:end])
}
