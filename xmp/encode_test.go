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
	"bytes"
	"encoding/xml"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"seehuhn.de/go/imgmeta"
)

type testCase struct {
	desc    string
	in      []imgmeta.Entry[Key]
	pattern []string
}

var testCases = []testCase{
	{
		desc: "simple non-URI value",
		in: []imgmeta.Entry[Key]{
			{Key: testKey("prop"), Value: text("testvalue")},
		},
		pattern: []string{"<test:prop>testvalue</test:prop>"},
	},
	{
		desc: "empty value",
		in: []imgmeta.Entry[Key]{
			{Key: testKey("prop"), Value: text("")},
		},
		pattern: []string{"<test:prop/>"},
	},
	{
		desc: "simple URI value",
		in: []imgmeta.Entry[Key]{
			{Key: testKey("prop"), Value: &Raw{
				Attr: []xml.Attr{{Name: xml.Name{Space: RDFNamespace, Local: "resource"}, Value: "http://example.com"}},
			}},
		},
		pattern: []string{"<test:prop rdf:resource=\"http://example.com\"/>"},
	},
	{
		desc: "XML markup in text value",
		in: []imgmeta.Entry[Key]{
			{Key: testKey("prop"), Value: text("<b>test</b>")},
		},
		pattern: []string{"<test:prop>&lt;b&gt;test&lt;/b&gt;</test:prop>"},
	},
	{
		desc: "struct value",
		in: []imgmeta.Entry[Key]{
			{Key: testKey("s"), Value: &imgmeta.XmpStructValue{
				Fields: []imgmeta.Field{
					{Name: "test:a", Value: "1"},
					{Name: "test:b", Value: "2"},
					{Name: "test:c", Value: ""},
				},
			}},
		},
		pattern: []string{
			"<test:s>",
			"<rdf:Description>",
			"<test:a>1</test:a>",
			"<test:b>2</test:b>",
			"<test:c/>",
			"</rdf:Description>",
			"</test:s>",
		},
	},
	{
		desc: "empty struct",
		in: []imgmeta.Entry[Key]{
			{Key: testKey("s"), Value: &imgmeta.XmpStructValue{}},
		},
		pattern: []string{"<test:s>", "<rdf:Description/>", "</test:s>"},
	},
	{
		desc: "xml:lang on property",
		in: []imgmeta.Entry[Key]{
			{Key: testKey("prop"), Value: &Raw{
				Attr:    []xml.Attr{{Name: attrXMLLang, Value: "de_DE"}},
				Content: []xml.Token{xml.CharData("testvalue")},
			}},
		},
		pattern: []string{"<test:prop xml:lang=\"de_DE\">testvalue</test:prop>"},
	},
	{
		desc: "ordered array",
		in: []imgmeta.Entry[Key]{
			{Key: testKey("prop"), Value: &imgmeta.XmpArray{Type: imgmeta.XmpSeq, V: []string{"a", "b", "c"}}},
		},
		pattern: []string{
			"<test:prop>",
			"<rdf:Seq>",
			"<rdf:li>a</rdf:li>",
			"<rdf:li>b</rdf:li>",
			"<rdf:li>c</rdf:li>",
			"</rdf:Seq>",
			"</test:prop>",
		},
	},
	{
		desc: "empty bag",
		in: []imgmeta.Entry[Key]{
			{Key: testKey("prop"), Value: &imgmeta.XmpArray{Type: imgmeta.XmpBag}},
		},
		pattern: []string{"<test:prop>", "<rdf:Bag/>", "</test:prop>"},
	},
	{
		desc: "language alternative",
		in: []imgmeta.Entry[Key]{
			{Key: testKey("prop"), Value: &imgmeta.LangAltValue{V: []imgmeta.LangItem{
				{Lang: "x-default", Text: "colour"},
				{Lang: "en-US", Text: "color"},
			}}},
		},
		pattern: []string{
			"<test:prop>",
			"<rdf:Alt>",
			"<rdf:li xml:lang=\"x-default\">colour</rdf:li>",
			"<rdf:li xml:lang=\"en-US\">color</rdf:li>",
			"</rdf:Alt>",
			"</test:prop>",
		},
	},
	{
		desc: "general qualifiers",
		in: []imgmeta.Entry[Key]{
			{Key: testKey("prop"), Value: &Raw{
				Content: []xml.Token{
					xml.StartElement{Name: elemRDFDescription, Attr: []xml.Attr{
						{Name: xml.Name{Space: testNS, Local: "q"}, Value: "qualifier"},
					}},
					xml.StartElement{Name: xml.Name{Space: RDFNamespace, Local: "value"}},
					xml.CharData("test value"),
					xml.EndElement{Name: xml.Name{Space: RDFNamespace, Local: "value"}},
					xml.StartElement{Name: xml.Name{Space: testNS, Local: "r"}},
					xml.EndElement{Name: xml.Name{Space: testNS, Local: "r"}},
					xml.EndElement{Name: elemRDFDescription},
				},
			}},
		},
		pattern: []string{
			"<test:prop>",
			"<rdf:Description test:q=\"qualifier\">",
			"<rdf:value>test value</rdf:value>",
			"<test:r/>",
			"</rdf:Description>",
			"</test:prop>",
		},
	},
}

func newTestData(entries []imgmeta.Entry[Key]) (*Data, error) {
	reg := NewRegistry()
	if err := reg.Register(testNS, "test"); err != nil {
		return nil, err
	}
	data := New(reg)
	for _, e := range entries {
		data.Append(e.Key, e.Value)
	}
	return data, nil
}

func TestRoundTrip(t *testing.T) {
	for i, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			data, err := newTestData(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			body, err := Encode(data)
			if err != nil {
				t.Fatal(err)
			}
			bodyString := string(body)

			var parts []string
			for _, p := range tc.pattern {
				parts = append(parts, regexp.QuoteMeta(p))
			}
			pat := regexp.MustCompile(strings.Join(parts, `\s*`))

			if pat.FindString(bodyString) == "" {
				t.Fatalf("missing property %q in test case %d:\n%s", tc.pattern, i, bodyString)
			}

			out, err := Decode(nil, body)
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(tc.in, out.Entries(), cmpopts.EquateEmpty()); d != "" {
				t.Fatalf("RoundTrip mismatch (-want +got):\n%s", d)
			}

			again, err := Encode(out)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(body, again) {
				t.Errorf("encoding not stable:\n%s\n%s", body, again)
			}
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	data, err := newTestData([]imgmeta.Entry[Key]{
		{Key: testKey("prop"), Value: text("testvalue")},
	})
	if err != nil {
		t.Fatal(err)
	}
	data.About = "uuid:42"

	body, err := Encode(data)
	if err != nil {
		t.Fatal(err)
	}

	want := "<?xpacket begin=\"\uFEFF\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>\n" +
		"<x:xmpmeta xmlns:x=\"adobe:ns:meta/\">\n" +
		"  <rdf:RDF xmlns:test=\"http://ns.seehuhn.de/test/#\" xmlns:rdf=\"http://www.w3.org/1999/02/22-rdf-syntax-ns#\">\n" +
		"    <rdf:Description rdf:about=\"uuid:42\">\n" +
		"      <test:prop>testvalue</test:prop>\n" +
		"    </rdf:Description>\n" +
		"  </rdf:RDF>\n" +
		"</x:xmpmeta>\n" +
		"<?xpacket end=\"w\"?>"
	if got := string(body); got != want {
		t.Errorf("wrong output:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeMergesArrays(t *testing.T) {
	data := New(nil)
	subject := Key{NS: "http://purl.org/dc/elements/1.1/", Prefix: "dc", Property: "subject"}
	format := Key{NS: "http://purl.org/dc/elements/1.1/", Prefix: "dc", Property: "format"}
	data.Append(subject, &imgmeta.XmpArray{Type: imgmeta.XmpBag, V: []string{"a"}})
	data.Append(format, text("image/png"))
	data.Append(subject, &imgmeta.XmpArray{Type: imgmeta.XmpBag, V: []string{"b", "c"}})
	data.Append(format, text("image/jpeg"))

	body, err := Encode(data)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Decode(nil, body)
	if err != nil {
		t.Fatal(err)
	}

	want := []imgmeta.Entry[Key]{
		{Key: subject, Value: &imgmeta.XmpArray{Type: imgmeta.XmpBag, V: []string{"a", "b", "c"}}},
		{Key: format, Value: text("image/png")},
	}
	if d := cmp.Diff(want, out.Entries()); d != "" {
		t.Errorf("wrong entries (-want +got):\n%s", d)
	}

	// the container itself is not modified
	if data.Len() != 4 {
		t.Errorf("container has %d entries, want 4", data.Len())
	}
}

func TestEncodeUnknownFieldPrefix(t *testing.T) {
	data, err := newTestData([]imgmeta.Entry[Key]{
		{Key: testKey("s"), Value: &imgmeta.XmpStructValue{
			Fields: []imgmeta.Field{{Name: "nope:a", Value: "1"}},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = Encode(data)
	if !errors.Is(err, imgmeta.ErrUnknownNamespace) {
		t.Errorf("expected ErrUnknownNamespace, got %v", err)
	}
}

func TestEncodeBadFieldName(t *testing.T) {
	for _, name := range []string{"test:a<b", "test:a:b", "test:a&b", "test:"} {
		data, err := newTestData([]imgmeta.Entry[Key]{
			{Key: testKey("s"), Value: &imgmeta.XmpStructValue{
				Fields: []imgmeta.Field{{Name: name, Value: "1"}},
			}},
		})
		if err != nil {
			t.Fatal(err)
		}
		_, err = Encode(data)
		if !errors.Is(err, imgmeta.ErrInvalidKeyFormat) {
			t.Errorf("%s: expected ErrInvalidKeyFormat, got %v", name, err)
		}
	}
}

// FuzzRoundTrip checks that an encoded packet is a fixed point of
// decoding followed by encoding.
func FuzzRoundTrip(f *testing.F) {
	for _, test := range decodeTestCases {
		f.Add(head + test.in + foot)
	}
	for _, tc := range testCases {
		data, err := newTestData(tc.in)
		if err != nil {
			f.Fatal(err)
		}
		body, err := Encode(data)
		if err != nil {
			f.Fatal(err)
		}
		f.Add(string(body))
	}

	f.Fuzz(func(t *testing.T, in string) {
		d1, err := Decode(nil, []byte(in))
		if err != nil {
			return
		}
		out1, err := Encode(d1)
		if err != nil {
			t.Fatal(err)
		}

		d2, err := Decode(nil, out1)
		if err != nil {
			t.Fatalf("cannot decode encoded packet: %v\n%s", err, out1)
		}
		out2, err := Encode(d2)
		if err != nil {
			t.Fatal(err)
		}

		if !bytes.Equal(out1, out2) {
			t.Errorf("round trip changed the packet:\n%s\n%s", out1, out2)
		}
	})
}
