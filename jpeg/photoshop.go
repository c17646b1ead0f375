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

package jpeg

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// iptcResourceID is the Photoshop image resource which holds IPTC data.
const iptcResourceID = 0x0404

var resourceSignature = []byte("8BIM")

// resource is one Photoshop image resource block.
type resource struct {
	id   uint16
	name []byte
	data []byte
}

// parseResources splits the data of an APP13 segment into image resource
// blocks.  Each block has the layout
//
//	"8BIM" | id (2 bytes) | Pascal string name, padded to even length |
//	size (4 bytes) | data, padded to even length
func parseResources(buf []byte) ([]resource, error) {
	var res []resource
	pos := 0
	for pos < len(buf) {
		// Some writers pad the segment with zero bytes.
		if buf[pos] == 0 && len(bytes.Trim(buf[pos:], "\x00")) == 0 {
			break
		}
		if pos+6 > len(buf) || !bytes.Equal(buf[pos:pos+4], resourceSignature) {
			return nil, corrupt(int64(pos), "invalid image resource signature")
		}
		id := binary.BigEndian.Uint16(buf[pos+4:])
		pos += 6

		nameLen := int(buf[pos])
		if pos+1+nameLen > len(buf) {
			return nil, corrupt(int64(pos), "truncated image resource name")
		}
		name := buf[pos+1 : pos+1+nameLen]
		pos += (1 + nameLen + 1) &^ 1

		if pos+4 > len(buf) {
			return nil, corrupt(int64(pos), "truncated image resource")
		}
		size := int(binary.BigEndian.Uint32(buf[pos:]))
		pos += 4
		if size < 0 || size > len(buf)-pos {
			return nil, corrupt(int64(pos), fmt.Sprintf("image resource 0x%04x: invalid size %d", id, size))
		}
		res = append(res, resource{id: id, name: name, data: buf[pos : pos+size]})
		pos += (size + 1) &^ 1
	}
	return res, nil
}

// encodeResources is the inverse of parseResources.
func encodeResources(res []resource) []byte {
	var buf []byte
	for _, r := range res {
		buf = append(buf, resourceSignature...)
		buf = binary.BigEndian.AppendUint16(buf, r.id)
		buf = append(buf, byte(len(r.name)))
		buf = append(buf, r.name...)
		if len(r.name)%2 == 0 {
			buf = append(buf, 0)
		}
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(r.data)))
		buf = append(buf, r.data...)
		if len(r.data)%2 == 1 {
			buf = append(buf, 0)
		}
	}
	return buf
}
