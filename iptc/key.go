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

package iptc

import (
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/imgmeta"
)

// Key identifies an IPTC dataset.
type Key struct {
	Record  uint8
	DataSet uint8
}

// String returns the key in the form "Iptc.Record.DataSet".  Records and
// datasets without a name are written as hexadecimal numbers.
func (k Key) String() string {
	rec, ok := recordNames[k.Record]
	if !ok {
		rec = fmt.Sprintf("0x%02x", k.Record)
	}
	ds := fmt.Sprintf("0x%02x", k.DataSet)
	if info, ok := lookupDataSet(k); ok {
		ds = info.name
	}
	return "Iptc." + rec + "." + ds
}

// ParseKey converts the text form of a key into a Key.
//
// Dataset names which are not known give an error wrapping
// [imgmeta.ErrUnknownDataset].  Unknown datasets can be given using their
// number, e.g. "Iptc.Application2.0xf0".
func ParseKey(text string) (Key, error) {
	parts := strings.Split(text, ".")
	if len(parts) != 3 || parts[0] != "Iptc" {
		return Key{}, keyError(imgmeta.ErrInvalidKeyFormat, text, "expected Iptc.Record.DataSet")
	}

	var k Key
	rec, ok := parseNumber(parts[1])
	if !ok {
		found := false
		for r, name := range recordNames {
			if name == parts[1] {
				rec, found = r, true
				break
			}
		}
		if !found {
			return Key{}, keyError(imgmeta.ErrInvalidKeyFormat, text,
				"unknown record "+strconv.Quote(parts[1]))
		}
	}
	k.Record = rec

	ds, ok := parseNumber(parts[2])
	if !ok {
		ds, ok = dataSetsByName[rec][parts[2]]
		if !ok {
			return Key{}, keyError(imgmeta.ErrUnknownDataset, text, "")
		}
	}
	k.DataSet = ds
	return k, nil
}

func parseNumber(s string) (uint8, bool) {
	hex, ok := strings.CutPrefix(s, "0x")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(hex, 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(n), true
}

func keyError(err error, text, msg string) error {
	return imgmeta.KeyError(err, imgmeta.IPTC, text, msg)
}

// DefaultType returns the value type of the given dataset.
func DefaultType(k Key) (imgmeta.TypeID, error) {
	info, ok := lookupDataSet(k)
	if !ok {
		return 0, keyError(imgmeta.ErrUnknownDataset, k.String(), "")
	}
	return info.tp, nil
}

// Repeatable reports whether a dataset may occur more than once.
// Datasets which are not known to this package are treated as
// repeatable.
func Repeatable(k Key) bool {
	info, ok := lookupDataSet(k)
	return !ok || info.repeatable
}

type dialect struct{}

func (dialect) Family() imgmeta.Family {
	return imgmeta.IPTC
}

func (dialect) ParseKey(text string) (Key, error) {
	return ParseKey(text)
}

func (dialect) DefaultType(k Key) (imgmeta.TypeID, error) {
	return DefaultType(k)
}

func (dialect) Repeatable(k Key) bool {
	return Repeatable(k)
}

// Dialect describes IPTC keys to the generic container code.
var Dialect imgmeta.Dialect[Key] = dialect{}
