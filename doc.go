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

// Package imgmeta holds the parts of the image metadata engine which are
// shared between the three metadata dialects Exif, IPTC and XMP.
//
// # Values
//
// Every metadatum has a [Value].  The [TypeID] of a value is fixed when the
// value is created using [NewValue].  Values can be converted to text using
// the String method and parsed from text using the Read method.  The text
// forms are the ones used by the exiv2 command line tools:
//
//   - integer types are written as decimal numbers separated by spaces,
//   - rationals are written as "num/den",
//   - binary data is written as decimal byte values, e.g. "48 50 49 48",
//   - language alternatives are written as `lang="x-default" text`, where
//     texts which contain the item separator are quoted.
//
// The package provides the following value types:
//
//   - [Integers] for the TIFF integer types.
//   - [Rationals] for unsigned and signed rationals.
//   - [Floats] for the TIFF floating point types.
//   - [Text] for ASCII strings, IPTC strings and simple XMP text.
//   - [Bytes] for undefined (binary) data.
//   - [CommentValue] for the Exif user comment.
//   - [DateValue] and [TimeValue] for IPTC dates and times.
//   - [XmpArray] for XMP bags, sequences and alternative arrays.
//   - [LangAltValue] for XMP language alternatives.
//   - [XmpStructValue] for simple XMP structures.
//
// # Containers
//
// Entries of one dialect are stored in a [Metadata] container.  The
// container keeps entries in insertion order and allows several entries with
// the same key where the dialect permits this.  The dialect packages
// seehuhn.de/go/imgmeta/exif, seehuhn.de/go/imgmeta/iptc and
// seehuhn.de/go/imgmeta/xmp define the keys and the codecs for the
// individual dialects.
package imgmeta
