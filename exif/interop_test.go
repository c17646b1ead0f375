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
	"bytes"
	"encoding/binary"
	"testing"

	goexif "github.com/rwcarlsen/goexif/exif"
)

// TestGoexifReadsOutput checks that an independent Exif reader
// understands the output of Encode.
func TestGoexifReadsOutput(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			data := testData(t, order)
			block, err := Encode(data)
			if err != nil {
				t.Fatal(err)
			}

			x, err := goexif.Decode(bytes.NewReader(block))
			if err != nil {
				t.Fatal(err)
			}

			stringCases := []struct {
				field goexif.FieldName
				want  string
			}{
				{goexif.Make, "Canon"},
				{goexif.Model, "Canon EOS 5D"},
				{goexif.DateTimeOriginal, "2024:05:01 12:00:00"},
				{goexif.GPSLatitudeRef, "N"},
				{goexif.InteroperabilityIndex, "R98"},
			}
			for _, test := range stringCases {
				tag, err := x.Get(test.field)
				if err != nil {
					t.Errorf("%s: %v", test.field, err)
					continue
				}
				got, err := tag.StringVal()
				if err != nil || got != test.want {
					t.Errorf("%s: got %q, %v", test.field, got, err)
				}
			}

			tag, err := x.Get(goexif.Orientation)
			if err != nil {
				t.Fatal(err)
			}
			if o, err := tag.Int(0); err != nil || o != 1 {
				t.Errorf("wrong orientation %d, %v", o, err)
			}

			tag, err = x.Get(goexif.FNumber)
			if err != nil {
				t.Fatal(err)
			}
			num, den, err := tag.Rat2(0)
			if err != nil || num != 28 || den != 10 {
				t.Errorf("wrong f-number %d/%d, %v", num, den, err)
			}
		})
	}
}
