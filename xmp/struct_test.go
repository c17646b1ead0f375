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
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"seehuhn.de/go/imgmeta"
)

func TestTag(t *testing.T) {
	dc1 := &DublinCore{}
	dc1.Date = append(dc1.Date, "2024-03-01")
	dc1.Title.Set("", "Hello, World!")
	dc1.Title.Set(language.English.String(), "Hello, World!")
	dc1.Title.Set(language.German.String(), "Grüß Gott!")
	dc1.Subject = []string{"greeting", "test"}

	p := New(nil)
	err := p.Set(dc1)
	if err != nil {
		t.Fatal(err)
	}

	dc2 := DublinCore{}
	err = p.Get(&dc2)
	if err != nil {
		t.Fatal(err)
	}

	if d := cmp.Diff(dc1, &dc2); d != "" {
		t.Errorf("dc1 and dc2 differ (-want +got):\n%s", d)
	}
}

func TestSetReplaces(t *testing.T) {
	data := New(nil)
	if _, err := data.AddString("Xmp.dc.format", "image/png"); err != nil {
		t.Fatal(err)
	}
	if _, err := data.AddString("Xmp.dc.source", "old"); err != nil {
		t.Fatal(err)
	}

	err := data.Set(&DublinCore{Format: "image/jpeg"})
	if err != nil {
		t.Fatal(err)
	}

	// zero fields remove the property
	want := map[string][]string{
		"Xmp.dc.format": {"image/jpeg"},
	}
	if d := cmp.Diff(want, data.Map()); d != "" {
		t.Errorf("wrong contents (-want +got):\n%s", d)
	}
}

func TestModelRoundTrip(t *testing.T) {
	mm1 := &MediaManagement{
		DocumentID: "xmp.did:1234",
		InstanceID: "xmp.iid:5678",
		DerivedFrom: imgmeta.XmpStructValue{Fields: []imgmeta.Field{
			{Name: "stRef:documentID", Value: "xmp.did:0000"},
			{Name: "stRef:instanceID", Value: "xmp.iid:0000"},
		}},
	}
	basic1 := &Basic{
		CreatorTool: "imgmeta",
		Rating:      "5",
		Identifier:  []string{"a", "b"},
	}

	data := New(nil)
	if err := data.Set(mm1, basic1); err != nil {
		t.Fatal(err)
	}
	body, err := Encode(data)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Decode(nil, body)
	if err != nil {
		t.Fatal(err)
	}

	mm2 := &MediaManagement{}
	basic2 := &Basic{}
	if err := out.Get(mm2); err != nil {
		t.Fatal(err)
	}
	if err := out.Get(basic2); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(mm1, mm2); d != "" {
		t.Errorf("media management (-want +got):\n%s", d)
	}
	if d := cmp.Diff(basic1, basic2); d != "" {
		t.Errorf("basic (-want +got):\n%s", d)
	}
}

type testModel struct {
	_ Namespace `xmp:"http://ns.seehuhn.de/test/#"`
	_ Prefix    `xmp:"test"`

	Name  string   `xmp:"name"`
	Items []string `xmp:"items,seq"`
	Other string
}

func TestCustomModel(t *testing.T) {
	data := New(nil)
	err := data.Set(testModel{Name: "x", Items: []string{"1", "2"}, Other: "y"})
	if err != nil {
		t.Fatal(err)
	}

	if pfx, _ := data.Registry().ResolveReverse(testNS); pfx != "test" {
		t.Errorf("namespace registered with prefix %q", pfx)
	}

	want := map[string][]string{
		"Xmp.test.name":  {"x"},
		"Xmp.test.items": {"1, 2"},
		"Xmp.test.Other": {"y"},
	}
	if d := cmp.Diff(want, data.Map()); d != "" {
		t.Errorf("wrong contents (-want +got):\n%s", d)
	}
	v, _ := data.Metadata.Get(testKey("items"))
	if v.TypeID() != imgmeta.XmpSeq {
		t.Errorf("items have type %v", v.TypeID())
	}
}

func TestSchemaErrors(t *testing.T) {
	type noNamespace struct {
		A string
	}
	type badArray struct {
		_ Namespace `xmp:"http://example.com/"`
		A []string  `xmp:"a,list"`
	}
	type badType struct {
		_ Namespace `xmp:"http://example.com/"`
		A int
	}

	data := New(nil)
	for _, m := range []any{noNamespace{}, badArray{}, badType{}, 42} {
		if err := data.Set(m); err == nil {
			t.Errorf("%T: no error", m)
		}
	}
	if err := data.Get(DublinCore{}); err == nil {
		t.Error("Get accepted a non-pointer")
	}
}
