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
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/imgmeta"
)

// Group identifies the IFD an Exif tag belongs to.
type Group uint8

// These are the IFDs supported by this package.
const (
	Image     Group = iota // IFD0
	Photo                  // Exif IFD
	GPSInfo                // GPS IFD
	Iop                    // Interoperability IFD
	Thumbnail              // IFD1
)

var groupNames = []string{
	Image:     "Image",
	Photo:     "Photo",
	GPSInfo:   "GPSInfo",
	Iop:       "Iop",
	Thumbnail: "Thumbnail",
}

func (g Group) String() string {
	if int(g) < len(groupNames) {
		return groupNames[g]
	}
	return "Group(" + strconv.Itoa(int(g)) + ")"
}

// Key identifies an Exif tag.
type Key struct {
	Group Group
	Tag   uint16
}

// String returns the key in the form "Exif.Group.TagName".  Tags without
// a name are written as four digit hexadecimal numbers, e.g.
// "Exif.Image.0x1234".
func (k Key) String() string {
	name := k.TagName()
	if name == "" {
		name = fmt.Sprintf("0x%04x", k.Tag)
	}
	return "Exif." + k.Group.String() + "." + name
}

// TagName returns the name of the tag, or the empty string if the tag is
// not known.
func (k Key) TagName() string {
	info, ok := lookupTag(k)
	if !ok {
		return ""
	}
	return info.name
}

// ParseKey converts the text form of a key into a Key.
func ParseKey(text string) (Key, error) {
	parts := strings.Split(text, ".")
	if len(parts) != 3 || parts[0] != "Exif" {
		return Key{}, keyError(text, "expected Exif.Group.Tag")
	}

	var k Key
	found := false
	for i, name := range groupNames {
		if name == parts[1] {
			k.Group = Group(i)
			found = true
			break
		}
	}
	if !found {
		return Key{}, keyError(text, "unknown group "+strconv.Quote(parts[1]))
	}

	tag := parts[2]
	if hex, isHex := strings.CutPrefix(tag, "0x"); isHex {
		n, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return Key{}, keyError(text, "invalid tag number")
		}
		k.Tag = uint16(n)
		return k, nil
	}

	n, ok := tagsByName[tableGroup(k.Group)][tag]
	if !ok {
		return Key{}, keyError(text, "unknown tag name "+strconv.Quote(tag))
	}
	k.Tag = n
	return k, nil
}

func keyError(text, msg string) error {
	return imgmeta.KeyError(imgmeta.ErrInvalidKeyFormat, imgmeta.Exif, text, msg)
}

// DefaultType returns the type used for new values of the given tag.
// Tags which are not known give [imgmeta.Undefined].
func DefaultType(k Key) imgmeta.TypeID {
	info, ok := lookupTag(k)
	if !ok {
		return imgmeta.Undefined
	}
	return info.tp
}

type dialect struct{}

func (dialect) Family() imgmeta.Family {
	return imgmeta.Exif
}

func (dialect) ParseKey(text string) (Key, error) {
	return ParseKey(text)
}

func (dialect) DefaultType(k Key) (imgmeta.TypeID, error) {
	return DefaultType(k), nil
}

// Exif files can contain the same tag more than once.
func (dialect) Repeatable(Key) bool {
	return true
}

// Dialect describes Exif keys to the generic container code.
var Dialect imgmeta.Dialect[Key] = dialect{}
