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

package imgmeta

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
)

type valueTestCase struct {
	desc string
	tp   TypeID
	in   string
	out  string
}

var valueTestCases = []valueTestCase{
	{"byte", UnsignedByte, "1 2 255", "1 2 255"},
	{"signed byte", SignedByte, "-128 127", "-128 127"},
	{"short", UnsignedShort, " 1  65535 ", "1 65535"},
	{"long", UnsignedLong, "4294967295", "4294967295"},
	{"signed long", SignedLong, "-7", "-7"},
	{"ifd", TiffIfd, "26", "26"},
	{"rational", UnsignedRational, "72/1 300/1", "72/1 300/1"},
	{"rational from integer", UnsignedRational, "72", "72/1"},
	{"rational from decimal", UnsignedRational, "2.5", "5/2"},
	{"zero denominator", UnsignedRational, "0/0", "0/0"},
	{"signed rational", SignedRational, "-1/3", "-1/3"},
	{"float", TiffFloat, "0.5 1e10", "0.5 1e+10"},
	{"double", TiffDouble, "3.25", "3.25"},
	{"ascii", AsciiString, "Canon", "Canon"},
	{"utf-8 string", String, "Grüße", "Grüße"},
	{"undefined", Undefined, "48 50 49 48", "48 50 49 48"},
	{"empty undefined", Undefined, "", ""},
	{"comment", Comment, "charset=Unicode hello", "charset=Unicode hello"},
	{"comment quoted charset", Comment, `charset="Ascii" hi`, "charset=Ascii hi"},
	{"comment without charset", Comment, "plain", "charset=Ascii plain"},
	{"date", Date, "2024-02-29", "2024-02-29"},
	{"basic date", Date, "20240229", "2024-02-29"},
	{"unknown month and day", Date, "20240000", "2024-00-00"},
	{"time", Time, "13:45:00+01:00", "13:45:00+01:00"},
	{"basic time", Time, "134500-0530", "13:45:00-05:30"},
	{"utc time", Time, "08:00:00", "08:00:00+00:00"},
	{"xmp text", XmpText, "hello, world", "hello, world"},
	{"bag", XmpBag, "one", "one"},
	{"lang alt default", LangAlt, "a title", `lang="x-default" a title`},
	{"lang alt", LangAlt, `lang="de-DE" Titel`, `lang="de-DE" Titel`},
	{"lang alt two items", LangAlt,
		`lang="x-default" title, lang="de" Titel`,
		`lang="x-default" title, lang="de" Titel`},
	{"lang alt quoted text", LangAlt,
		`lang="x-default" "a, lang=\"de\" b", lang="de" c`,
		`lang="x-default" "a, lang=\"de\" b", lang="de" c`},
	{"lang alt leading quote", LangAlt,
		`lang="x-default" "\"quoted\""`, `lang="x-default" "\"quoted\""`},
	{"empty lang alt", LangAlt, "", ""},
	{"struct", XmpStruct, `stEvt:action="saved" stEvt:when="2024"`,
		`stEvt:action="saved" stEvt:when="2024"`},
}

func TestValueRead(t *testing.T) {
	for _, test := range valueTestCases {
		t.Run(test.desc, func(t *testing.T) {
			v, err := ReadValue(test.tp, test.in)
			if err != nil {
				t.Fatal(err)
			}
			if v.TypeID() != test.tp {
				t.Errorf("wrong type: %s != %s", v.TypeID(), test.tp)
			}
			if got := v.String(); got != test.out {
				t.Errorf("wrong text: %q != %q", got, test.out)
			}
		})
	}
}

// TestValueRoundTrip checks that the text form of a value is stable after
// one round trip through String and Read.
func TestValueRoundTrip(t *testing.T) {
	for _, test := range valueTestCases {
		t.Run(test.desc, func(t *testing.T) {
			v1, err := ReadValue(test.tp, test.in)
			if err != nil {
				t.Fatal(err)
			}
			s1 := v1.String()
			v2, err := ReadValue(test.tp, s1)
			if err != nil {
				t.Fatal(err)
			}
			s2 := v2.String()
			if s1 != s2 {
				t.Errorf("text changed: %q -> %q", s1, s2)
			}
			if test.tp.IsXmpArray() && test.tp != LangAlt {
				return
			}
			if d := cmp.Diff(v1, v2); d != "" {
				t.Errorf("value changed (-want +got):\n%s", d)
			}
		})
	}
}

func TestValueParseErrors(t *testing.T) {
	cases := []struct {
		desc string
		tp   TypeID
		in   string
	}{
		{"byte out of range", UnsignedByte, "256"},
		{"negative short", UnsignedShort, "-1"},
		{"not a number", UnsignedLong, "abc"},
		{"bad rational", UnsignedRational, "1/x"},
		{"negative rational", UnsignedRational, "-1/2"},
		{"undefined hex", Undefined, "0x30"},
		{"bad float", TiffFloat, "1.2.3"},
		{"bad month", Date, "2024-13-01"},
		{"short date", Date, "2024-1-1"},
		{"bad hour", Time, "25:00:00"},
		{"bad zone", Time, "10:00:00+1"},
		{"bad charset", Comment, "charset=Klingon x"},
		{"bad struct", XmpStruct, "action=saved"},
		{"struct name with markup", XmpStruct, `dc:a<b="x"`},
		{"struct name with two colons", XmpStruct, `dc:a:b="x"`},
		{"struct name with ampersand", XmpStruct, `dc:a&b="x"`},
		{"lang alt text after quote", LangAlt, `lang="de" "a" b`},
	}
	for _, test := range cases {
		t.Run(test.desc, func(t *testing.T) {
			_, err := ReadValue(test.tp, test.in)
			if !errors.Is(err, ErrValueParse) {
				t.Errorf("expected ErrValueParse, got %v", err)
			}
		})
	}
}

// TestZeroValueRoundTrip checks that the text form of every empty value
// can be read back.
func TestZeroValueRoundTrip(t *testing.T) {
	for tp := range typeNames {
		v1 := NewValue(tp)
		s1 := v1.String()
		v2, err := ReadValue(tp, s1)
		if err != nil {
			t.Errorf("%s: %v", tp, err)
			continue
		}
		if s2 := v2.String(); s2 != s1 {
			t.Errorf("%s: text changed: %q -> %q", tp, s1, s2)
		}
	}
}

func TestReadKeepsValueOnError(t *testing.T) {
	v := &Integers[uint16]{Type: UnsignedShort}
	if err := v.Read("1 2"); err != nil {
		t.Fatal(err)
	}
	if err := v.Read("1 x"); err == nil {
		t.Fatal("expected error")
	}
	if d := cmp.Diff([]uint16{1, 2}, v.V); d != "" {
		t.Errorf("value changed (-want +got):\n%s", d)
	}
}

func TestCount(t *testing.T) {
	cases := []struct {
		v     Value
		count int
	}{
		{&Text{Type: AsciiString, V: "abc"}, 4},
		{&Text{Type: XmpText, V: "abc"}, 3},
		{&Bytes{V: []byte{1, 2}}, 2},
		{&Rationals[uint32]{Type: UnsignedRational, V: make([]Rational[uint32], 3)}, 3},
		{&CommentValue{Charset: CharsetASCII, Text: "ab"}, 10},
		{&DateValue{}, 8},
		{&TimeValue{}, 11},
	}
	for _, test := range cases {
		if got := test.v.Count(); got != test.count {
			t.Errorf("%s: wrong count %d != %d", test.v.TypeID(), got, test.count)
		}
	}
}

func TestUnknownType(t *testing.T) {
	v := NewValue(TypeID(99))
	if v.TypeID() != Undefined {
		t.Errorf("wrong type %s", v.TypeID())
	}
}

func TestLangAlt(t *testing.T) {
	v := &LangAltValue{}
	v.Set("de", "Hallo")
	v.Set("", "Hello")
	v.Set("fr-FR", "Bonjour")
	v.Set("de", "Guten Tag")

	want := []LangItem{
		{Lang: "x-default", Text: "Hello"},
		{Lang: "de", Text: "Guten Tag"},
		{Lang: "fr-FR", Text: "Bonjour"},
	}
	if d := cmp.Diff(want, v.V); d != "" {
		t.Errorf("wrong items (-want +got):\n%s", d)
	}

	if text, ok := v.Get("x-default"); !ok || text != "Hello" {
		t.Errorf("wrong default %q", text)
	}
	if d := cmp.Diff(map[string]string{
		"x-default": "Hello",
		"de":        "Guten Tag",
		"fr-FR":     "Bonjour",
	}, v.Map()); d != "" {
		t.Errorf("wrong map (-want +got):\n%s", d)
	}

	bestCases := []struct {
		prefs []language.Tag
		want  string
	}{
		{[]language.Tag{language.German}, "Guten Tag"},
		{[]language.Tag{language.MustParse("de-AT")}, "Guten Tag"},
		{[]language.Tag{language.French}, "Bonjour"},
		{[]language.Tag{language.Japanese}, "Hello"},
		{nil, "Hello"},
	}
	for _, test := range bestCases {
		if got := v.Best(test.prefs...); got != test.want {
			t.Errorf("Best(%v) = %q, want %q", test.prefs, got, test.want)
		}
	}
}

func TestLangAltSeparatorInText(t *testing.T) {
	v1 := &LangAltValue{V: []LangItem{{Lang: "x-default", Text: `a, lang="de" b`}}}
	v2 := &LangAltValue{}
	if err := v2.Read(v1.String()); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(v1, v2); d != "" {
		t.Errorf("round trip failed (-want +got):\n%s", d)
	}
}

func TestLangAltCase(t *testing.T) {
	v := &LangAltValue{V: []LangItem{{Lang: "EN-us", Text: "color"}}}
	if text, ok := v.Get("en-US"); !ok || text != "color" {
		t.Errorf("Get(en-US) = %q, %t", text, ok)
	}
	v.Set("en-us", "colour")
	if len(v.V) != 1 || v.V[0].Text != "colour" {
		t.Errorf("wrong items %v", v.V)
	}
}

func TestXmpStruct(t *testing.T) {
	v := &XmpStructValue{}
	v.Set("stRef:documentID", "abc")
	v.Set("stRef:instanceID", `say "hi"`)
	v.Set("stRef:documentID", "def")

	if got, _ := v.Get("stRef:documentID"); got != "def" {
		t.Errorf("wrong field value %q", got)
	}

	v2 := &XmpStructValue{}
	if err := v2.Read(v.String()); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(v, v2); d != "" {
		t.Errorf("round trip failed (-want +got):\n%s", d)
	}
}
