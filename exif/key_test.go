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
	"errors"
	"testing"

	"seehuhn.de/go/imgmeta"
)

func TestParseKey(t *testing.T) {
	cases := []struct {
		in  string
		key Key
		out string
		tp  imgmeta.TypeID
	}{
		{"Exif.Image.Make", Key{Image, 0x010f}, "Exif.Image.Make", imgmeta.AsciiString},
		{"Exif.Photo.FNumber", Key{Photo, 0x829d}, "Exif.Photo.FNumber", imgmeta.UnsignedRational},
		{"Exif.Photo.UserComment", Key{Photo, 0x9286}, "Exif.Photo.UserComment", imgmeta.Comment},
		{"Exif.GPSInfo.GPSLatitude", Key{GPSInfo, 2}, "Exif.GPSInfo.GPSLatitude", imgmeta.UnsignedRational},
		{"Exif.Iop.InteroperabilityIndex", Key{Iop, 1}, "Exif.Iop.InteroperabilityIndex", imgmeta.AsciiString},
		{"Exif.Thumbnail.Compression", Key{Thumbnail, 0x0103}, "Exif.Thumbnail.Compression", imgmeta.UnsignedShort},
		{"Exif.Image.0x010f", Key{Image, 0x010f}, "Exif.Image.Make", imgmeta.AsciiString},
		{"Exif.Image.0xABCD", Key{Image, 0xabcd}, "Exif.Image.0xabcd", imgmeta.Undefined},
		{"Exif.Image.ExifTag", Key{Image, tagExifIFD}, "Exif.Image.ExifTag", imgmeta.UnsignedLong},
	}
	for _, test := range cases {
		k, err := ParseKey(test.in)
		if err != nil {
			t.Errorf("%s: %v", test.in, err)
			continue
		}
		if k != test.key {
			t.Errorf("%s: wrong key %v", test.in, k)
		}
		if s := k.String(); s != test.out {
			t.Errorf("%s: wrong string %q", test.in, s)
		}
		if tp := DefaultType(k); tp != test.tp {
			t.Errorf("%s: wrong type %s", test.in, tp)
		}

		// parsing must be deterministic
		k2, err := ParseKey(k.String())
		if err != nil || k2 != k {
			t.Errorf("%s: round trip failed: %v, %v", test.in, k2, err)
		}
	}
}

func TestParseKeyErrors(t *testing.T) {
	cases := []string{
		"",
		"Exif",
		"Exif.Image",
		"Iptc.Image.Make",
		"Exif.Nothing.Make",
		"Exif.Image.NoSuchTag",
		"Exif.Photo.Make",
		"Exif.Image.0x12345",
		"Exif.Image.Make.Extra",
	}
	for _, in := range cases {
		_, err := ParseKey(in)
		if !errors.Is(err, imgmeta.ErrInvalidKeyFormat) {
			t.Errorf("%q: expected ErrInvalidKeyFormat, got %v", in, err)
		}
	}
}

func TestAddAlwaysAppends(t *testing.T) {
	data := New()
	for i := 0; i < 2; i++ {
		ok, err := data.AddString("Exif.Image.Artist", "someone")
		if err != nil || !ok {
			t.Fatalf("AddString = %t, %v", ok, err)
		}
	}
	if data.Len() != 2 {
		t.Errorf("wrong number of entries: %d", data.Len())
	}
}
