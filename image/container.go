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

package image

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"seehuhn.de/go/imgmeta"
	"seehuhn.de/go/imgmeta/jpeg"
)

// Container gives access to the metadata blocks stored in a file.
//
// Block returns nil if the file holds no block of the given family.
// SetBlock with an empty block removes the block.  Bytes returns the
// complete file contents, including all changes.
type Container interface {
	Block(f imgmeta.Family) []byte
	SetBlock(f imgmeta.Family, block []byte) error
	Bytes() ([]byte, error)
}

// ErrUnknownFileType is returned by Open if the file format is not
// supported.
var ErrUnknownFileType = errors.New("unknown file type")

// Sidecar is an XMP sidecar file.  The whole file is one XMP packet.
type Sidecar struct {
	data []byte
}

// NewSidecar returns a sidecar container holding the given XMP packet.
func NewSidecar(data []byte) *Sidecar {
	return &Sidecar{data: bytes.Clone(data)}
}

// Block implements the [Container] interface.
func (s *Sidecar) Block(f imgmeta.Family) []byte {
	if f != imgmeta.XMP || len(s.data) == 0 {
		return nil
	}
	return s.data
}

// SetBlock implements the [Container] interface.
// Sidecar files can only hold XMP data.
func (s *Sidecar) SetBlock(f imgmeta.Family, block []byte) error {
	if f != imgmeta.XMP {
		if len(block) == 0 {
			return nil
		}
		return fmt.Errorf("%s data cannot be stored in an XMP sidecar file", f)
	}
	s.data = bytes.Clone(block)
	return nil
}

// Bytes implements the [Container] interface.
func (s *Sidecar) Bytes() ([]byte, error) {
	return s.data, nil
}

// newContainer chooses the container type based on the file contents.
// Files which start like XML, and empty files with extension ".xmp", are
// treated as XMP sidecar files.
func newContainer(path string, data []byte) (Container, error) {
	if jpeg.IsJPEG(data) {
		return jpeg.Parse(data)
	}
	if looksLikeXMP(data) || len(data) == 0 && strings.EqualFold(filepath.Ext(path), ".xmp") {
		return NewSidecar(data), nil
	}
	return nil, ErrUnknownFileType
}

func looksLikeXMP(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))
	data = bytes.TrimLeft(data, " \t\r\n")
	for _, prefix := range []string{"<?xpacket", "<?xml", "<x:xmpmeta", "<rdf:RDF"} {
		if bytes.HasPrefix(data, []byte(prefix)) {
			return true
		}
	}
	return false
}
