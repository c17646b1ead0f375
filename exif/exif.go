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

// Package exif implements the Exif metadata dialect.
//
// Exif data is stored in a TIFF structure.  Keys have the form
// "Exif.Group.Tag", where the group names the IFD which holds the tag:
//
//   - Image: the main image (IFD0)
//   - Photo: the Exif IFD
//   - GPSInfo: the GPS IFD
//   - Iop: the interoperability IFD
//   - Thumbnail: the thumbnail image (IFD1)
//
// The tags which link the IFDs together (Exif.Image.ExifTag,
// Exif.Image.GPSTag, Exif.Photo.InteroperabilityTag and the thumbnail
// location tags) appear as ordinary entries after decoding, but their
// values are recomputed by [Encode].
package exif

import (
	"encoding/binary"

	"seehuhn.de/go/imgmeta"
)

// Data is the Exif metadata of an image.
type Data struct {
	*imgmeta.Metadata[Key]

	// ByteOrder is the byte order used by Encode.
	ByteOrder binary.ByteOrder

	// Thumbnail, if non-empty, is a JPEG thumbnail image.
	Thumbnail []byte
}

// New returns an empty Exif container.
func New() *Data {
	return &Data{
		Metadata:  imgmeta.New(Dialect),
		ByteOrder: binary.LittleEndian,
	}
}
