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

import (
	"strings"

	"seehuhn.de/go/imgmeta"
	"seehuhn.de/go/imgmeta/jvxml"
)

// Key identifies an XMP property.
//
// Keys are created by [ParseKey] or by the decoder.  The prefix is the one
// bound to NS in the registry which was used to create the key.
type Key struct {
	NS       string
	Prefix   string
	Property string
}

// String returns the key in the form "Xmp.prefix.property".
func (k Key) String() string {
	return "Xmp." + k.Prefix + "." + k.Property
}

// ParseKey converts the text form of a key into a Key.  Both the form
// "Xmp.dc.title" and the form "dc:title" are accepted.
//
// The prefix is looked up in reg.  Prefixes which are not registered give
// an error wrapping [imgmeta.ErrUnknownNamespace].
func ParseKey(reg *Registry, text string) (Key, error) {
	var prefix, property string
	if rest, ok := strings.CutPrefix(text, "Xmp."); ok {
		prefix, property, ok = strings.Cut(rest, ".")
		if !ok {
			return Key{}, keyError(imgmeta.ErrInvalidKeyFormat, text, "expected Xmp.prefix.property")
		}
	} else {
		prefix, property, ok = strings.Cut(text, ":")
		if !ok {
			return Key{}, keyError(imgmeta.ErrInvalidKeyFormat, text, "expected Xmp.prefix.property")
		}
	}
	if !isPrefix(prefix) {
		return Key{}, keyError(imgmeta.ErrInvalidKeyFormat, text, "invalid prefix")
	}
	if !jvxml.IsName([]byte(property)) || strings.Contains(property, ":") {
		return Key{}, keyError(imgmeta.ErrInvalidKeyFormat, text, "invalid property name")
	}

	ns, ok := reg.Resolve(prefix)
	if !ok {
		return Key{}, keyError(imgmeta.ErrUnknownNamespace, text, "prefix "+prefix+" is not registered")
	}
	return Key{NS: ns, Prefix: prefix, Property: property}, nil
}

func keyError(err error, text, msg string) error {
	return imgmeta.KeyError(err, imgmeta.XMP, text, msg)
}

// DefaultType returns the value type of an XMP property.
//
// For the namespaces of the built-in schemas, the type is taken from the
// schema and unknown properties give an error wrapping
// [imgmeta.ErrUnknownProperty].  Properties in all other namespaces have
// type [imgmeta.XmpText].
func DefaultType(k Key) (imgmeta.TypeID, error) {
	table, ok := propertyTypes[k.NS]
	if !ok {
		return imgmeta.XmpText, nil
	}
	tp, ok := table[k.Property]
	if !ok {
		return 0, keyError(imgmeta.ErrUnknownProperty, k.String(), "")
	}
	return tp, nil
}

// dialect describes XMP keys to the generic container code.
// Keys are parsed using the registry of the container.
type dialect struct {
	reg *Registry
}

func (d dialect) Family() imgmeta.Family {
	return imgmeta.XMP
}

func (d dialect) ParseKey(text string) (Key, error) {
	return ParseKey(d.reg, text)
}

func (d dialect) DefaultType(k Key) (imgmeta.TypeID, error) {
	return DefaultType(k)
}

// Repeatable reports whether entries for k are merged into one array.
// This is the case for array-valued properties.
func (d dialect) Repeatable(k Key) bool {
	tp, err := DefaultType(k)
	return err == nil && tp.IsXmpArray()
}
