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

// Package iptc implements the IPTC-IIM metadata dialect.
//
// Keys have the form "Iptc.Record.DataSet", for example
// "Iptc.Application2.Caption".  Some datasets, like
// Iptc.Application2.Keywords, may occur more than once; for all other
// datasets, [imgmeta.Metadata.Add] refuses to add a second entry.
package iptc

import "seehuhn.de/go/imgmeta"

// Data is the IPTC metadata of an image.
type Data struct {
	*imgmeta.Metadata[Key]
}

// New returns an empty IPTC container.
func New() *Data {
	return &Data{Metadata: imgmeta.New(Dialect)}
}
