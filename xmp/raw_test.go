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
	"encoding/xml"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/imgmeta"
)

func TestRawText(t *testing.T) {
	cases := []*Raw{
		{
			Attr: []xml.Attr{{Name: xml.Name{Space: RDFNamespace, Local: "resource"}, Value: "http://example.com"}},
		},
		{
			Attr:    []xml.Attr{{Name: attrXMLLang, Value: "de"}},
			Content: []xml.Token{xml.CharData("Hallo")},
		},
		{
			Content: []xml.Token{
				xml.StartElement{Name: xml.Name{Space: testNS, Local: "a"}},
				xml.CharData("1 < 2"),
				xml.EndElement{Name: xml.Name{Space: testNS, Local: "a"}},
			},
		},
	}
	for i, r1 := range cases {
		text := r1.String()
		if text == "" {
			t.Errorf("%d: cannot format value", i)
			continue
		}
		r2 := &Raw{}
		if err := r2.Read(text); err != nil {
			t.Errorf("%d: %v", i, err)
			continue
		}
		if d := cmp.Diff(r1, r2, cmpopts.EquateEmpty()); d != "" {
			t.Errorf("%d: round trip failed (-want +got):\n%s", i, d)
		}
		if r1.TypeID() != imgmeta.Undefined || r2.Count() != len(r1.Content) {
			t.Errorf("%d: wrong type or count", i)
		}
	}
}

func TestRawReadErrors(t *testing.T) {
	for _, text := range []string{"", "plain text", "<a>", "<a></b>"} {
		r := &Raw{}
		err := r.Read(text)
		if !errors.Is(err, imgmeta.ErrValueParse) {
			t.Errorf("%q: expected ErrValueParse, got %v", text, err)
		}
	}
}
