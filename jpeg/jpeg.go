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

// Package jpeg locates and replaces the metadata blocks in JPEG files.
//
// Only the marker segments before the first scan are interpreted.  The
// image data is kept as an opaque byte slice and written back unchanged.
//
// The metadata blocks are stored as follows:
//
//   - Exif: an APP1 segment starting with "Exif\x00\x00".
//   - XMP: an APP1 segment starting with "http://ns.adobe.com/xap/1.0/\x00".
//   - IPTC: image resource 0x0404 in an APP13 segment starting with
//     "Photoshop 3.0\x00".
package jpeg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"seehuhn.de/go/imgmeta"
)

// Marker codes used by this package.
const (
	markerSOI   = 0xD8
	markerEOI   = 0xD9
	markerSOS   = 0xDA
	markerAPP0  = 0xE0
	markerAPP1  = 0xE1
	markerAPP13 = 0xED
	markerAPP15 = 0xEF
)

// maxSegmentData is the largest amount of data which fits into a marker
// segment.  The length field includes its own two bytes.
const maxSegmentData = 0xFFFF - 2

var (
	exifHeader      = []byte("Exif\x00\x00")
	xmpHeader       = []byte("http://ns.adobe.com/xap/1.0/\x00")
	photoshopHeader = []byte("Photoshop 3.0\x00")
)

// ErrTooLarge is returned by SetBlock if a block does not fit into a
// single marker segment.
var ErrTooLarge = errors.New("metadata block too large for a JPEG segment")

// IsJPEG reports whether data starts with a JPEG start of image marker.
func IsJPEG(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xFF && data[1] == markerSOI && data[2] == 0xFF
}

type segment struct {
	marker byte
	data   []byte
}

// File is a JPEG file, split into marker segments.
//
// A File must not be modified concurrently.
type File struct {
	segments []segment

	// tail holds everything from the first SOS marker (or the EOI marker)
	// to the end of the file.
	tail []byte
}

// Parse splits a JPEG file into marker segments.
// The data slice is not modified, and is not retained by the File.
func Parse(data []byte) (*File, error) {
	if !IsJPEG(data) {
		return nil, corrupt(0, "missing start of image marker")
	}

	f := &File{}
	pos := 2
	for {
		if pos >= len(data) {
			return nil, corrupt(int64(pos), "unexpected end of file")
		}
		if data[pos] != 0xFF {
			return nil, corrupt(int64(pos), fmt.Sprintf("expected marker, found 0x%02x", data[pos]))
		}
		start := pos
		// Any marker may be preceded by fill bytes 0xFF.
		for pos < len(data) && data[pos] == 0xFF {
			pos++
		}
		if pos >= len(data) {
			return nil, corrupt(int64(pos), "unexpected end of file")
		}
		marker := data[pos]
		pos++

		switch {
		case marker == markerSOS || marker == markerEOI:
			f.tail = bytes.Clone(data[start:])
			return f, nil
		case marker == 0x01 || marker >= 0xD0 && marker <= 0xD7:
			// TEM and RSTn have no length field.
			f.segments = append(f.segments, segment{marker: marker})
			continue
		}

		if pos+2 > len(data) {
			return nil, corrupt(int64(pos), "truncated segment length")
		}
		length := int(binary.BigEndian.Uint16(data[pos:]))
		if length < 2 || pos+length > len(data) {
			return nil, corrupt(int64(pos), fmt.Sprintf("invalid length %d for marker 0x%02x", length, marker))
		}
		f.segments = append(f.segments, segment{
			marker: marker,
			data:   bytes.Clone(data[pos+2 : pos+length]),
		})
		pos += length
	}
}

func corrupt(pos int64, msg string) error {
	return imgmeta.CorruptError(0, pos, "jpeg: "+msg)
}

// Block returns the metadata block of the given family, or nil if the
// file has no such block.  The returned slice must not be modified.
func (f *File) Block(family imgmeta.Family) []byte {
	switch family {
	case imgmeta.Exif:
		if i := f.find(markerAPP1, exifHeader); i >= 0 {
			return f.segments[i].data[len(exifHeader):]
		}
	case imgmeta.XMP:
		if i := f.find(markerAPP1, xmpHeader); i >= 0 {
			return f.segments[i].data[len(xmpHeader):]
		}
	case imgmeta.IPTC:
		if i := f.find(markerAPP13, photoshopHeader); i >= 0 {
			res, err := parseResources(f.segments[i].data[len(photoshopHeader):])
			if err != nil {
				return nil
			}
			for _, r := range res {
				if r.id == iptcResourceID {
					return r.data
				}
			}
		}
	}
	return nil
}

// SetBlock replaces the metadata block of the given family.  If block is
// empty, the block is removed from the file.
func (f *File) SetBlock(family imgmeta.Family, block []byte) error {
	switch family {
	case imgmeta.Exif:
		return f.setSegment(markerAPP1, exifHeader, block, f.exifPos)
	case imgmeta.XMP:
		return f.setSegment(markerAPP1, xmpHeader, block, f.xmpPos)
	case imgmeta.IPTC:
		return f.setIPTC(block)
	default:
		return fmt.Errorf("jpeg: unsupported metadata family %s", family)
	}
}

// setSegment stores block in the segment with the given marker and header.
// If no such segment exists, a new one is inserted at the position given
// by insertPos.
func (f *File) setSegment(marker byte, header, block []byte, insertPos func() int) error {
	i := f.find(marker, header)
	if len(block) == 0 {
		if i >= 0 {
			f.segments = append(f.segments[:i], f.segments[i+1:]...)
		}
		return nil
	}

	if len(header)+len(block) > maxSegmentData {
		return fmt.Errorf("jpeg: %d bytes: %w", len(block), ErrTooLarge)
	}
	data := make([]byte, 0, len(header)+len(block))
	data = append(data, header...)
	data = append(data, block...)
	seg := segment{marker: marker, data: data}

	if i >= 0 {
		f.segments[i] = seg
		return nil
	}
	i = insertPos()
	f.segments = append(f.segments, segment{})
	copy(f.segments[i+1:], f.segments[i:])
	f.segments[i] = seg
	return nil
}

func (f *File) setIPTC(block []byte) error {
	var res []resource
	i := f.find(markerAPP13, photoshopHeader)
	if i >= 0 {
		var err error
		res, err = parseResources(f.segments[i].data[len(photoshopHeader):])
		if err != nil {
			return err
		}
	}

	found := false
	out := res[:0]
	for _, r := range res {
		if r.id == iptcResourceID {
			if found || len(block) == 0 {
				continue
			}
			r.data = block
			found = true
		}
		out = append(out, r)
	}
	if !found && len(block) > 0 {
		out = append(out, resource{id: iptcResourceID, data: block})
	}

	if len(out) == 0 {
		// Only remove the segment if nothing else is stored in it.
		return f.setSegment(markerAPP13, photoshopHeader, nil, nil)
	}
	return f.setSegment(markerAPP13, photoshopHeader, encodeResources(out), f.iptcPos)
}

// find returns the index of the first segment with the given marker whose
// data starts with header, or -1.
func (f *File) find(marker byte, header []byte) int {
	for i, s := range f.segments {
		if s.marker == marker && bytes.HasPrefix(s.data, header) {
			return i
		}
	}
	return -1
}

// exifPos returns the position for a new Exif segment: after a leading
// APP0 (JFIF) segment, or at the start of the file.
func (f *File) exifPos() int {
	if len(f.segments) > 0 && f.segments[0].marker == markerAPP0 {
		return 1
	}
	return 0
}

// xmpPos returns the position for a new XMP segment: after the Exif
// segment, if present.
func (f *File) xmpPos() int {
	if i := f.find(markerAPP1, exifHeader); i >= 0 {
		return i + 1
	}
	return f.exifPos()
}

// iptcPos returns the position for a new APP13 segment: after all
// application segments APP0 to APP12.
func (f *File) iptcPos() int {
	pos := f.xmpPos()
	for i, s := range f.segments {
		if isAPP(s.marker) && s.marker < markerAPP13 {
			pos = max(pos, i+1)
		}
	}
	return pos
}

// Bytes returns the JPEG file, with all modifications applied.
func (f *File) Bytes() ([]byte, error) {
	size := 2 + len(f.tail)
	for _, s := range f.segments {
		size += 4 + len(s.data)
	}

	buf := make([]byte, 0, size)
	buf = append(buf, 0xFF, markerSOI)
	for _, s := range f.segments {
		buf = append(buf, 0xFF, s.marker)
		if s.marker == 0x01 || s.marker >= 0xD0 && s.marker <= 0xD7 {
			continue
		}
		if len(s.data) > maxSegmentData {
			return nil, fmt.Errorf("jpeg: marker 0x%02x: %w", s.marker, ErrTooLarge)
		}
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(s.data)+2))
		buf = append(buf, s.data...)
	}
	buf = append(buf, f.tail...)
	return buf, nil
}

// Markers returns the marker codes of the segments before the image data,
// in file order.  This does not include SOI.
func (f *File) Markers() []byte {
	res := make([]byte, len(f.segments))
	for i, s := range f.segments {
		res[i] = s.marker
	}
	return res
}

// isAPP reports whether m is one of the application markers APP0 to APP15.
func isAPP(m byte) bool {
	return m >= markerAPP0 && m <= markerAPP15
}
