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

package xmp

import "seehuhn.de/go/imgmeta"

// Data is the XMP metadata of an image.
//
// Keys are interpreted using the namespace registry of the container.
type Data struct {
	*imgmeta.Metadata[Key]

	// About is the value of the rdf:about attribute.  This is normally
	// empty.
	About string

	reg *Registry
}

// New returns an empty XMP container.  If reg is nil, a new registry
// with the default namespaces is used.
func New(reg *Registry) *Data {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Data{
		Metadata: imgmeta.New[Key](dialect{reg: reg}),
		reg:      reg,
	}
}

// Registry returns the namespace registry used by the container.
func (d *Data) Registry() *Registry {
	return d.reg
}

// ParseKey converts the text form of a key into a Key, using the registry
// of the container.
func (d *Data) ParseKey(text string) (Key, error) {
	return ParseKey(d.reg, text)
}
