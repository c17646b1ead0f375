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

package jvxml

import (
	"encoding/xml"
	"strings"
	"testing"
)

func name(local string) xml.Name {
	return xml.Name{Local: local}
}

var encodeTokenTests = []struct {
	desc   string
	indent bool
	toks   []Token
	want   string
	err    bool
}{
	{
		desc: "prefixed names",
		toks: []Token{
			xml.StartElement{Name: name("rdf:RDF"), Attr: []xml.Attr{
				{Name: name("xmlns:rdf"), Value: "http://www.w3.org/1999/02/22-rdf-syntax-ns#"},
			}},
			xml.EndElement{Name: name("rdf:RDF")},
		},
		want: `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"></rdf:RDF>`,
	},
	{
		desc: "empty element",
		toks: []Token{
			EmptyElement{Name: name("a"), Attr: []xml.Attr{{Name: name("b"), Value: "c"}}},
		},
		want: `<a b="c"/>`,
	},
	{
		desc: "escaped text",
		toks: []Token{
			xml.StartElement{Name: name("a")},
			xml.CharData("<b>&\"x\"\t"),
			xml.EndElement{Name: name("a")},
		},
		want: `<a>&lt;b&gt;&amp;&#34;x&#34;&#x9;</a>`,
	},
	{
		desc: "escaped attribute",
		toks: []Token{
			EmptyElement{Name: name("a"), Attr: []xml.Attr{{Name: name("b"), Value: "\"<\n"}}},
		},
		want: `<a b="&#34;&lt;&#xA;"/>`,
	},
	{
		desc: "processing instruction",
		toks: []Token{
			xml.ProcInst{Target: "xpacket", Inst: []byte(`end="w"`)},
		},
		want: `<?xpacket end="w"?>`,
	},
	{
		desc: "comment",
		toks: []Token{xml.Comment("hello")},
		want: `<!--hello-->`,
	},
	{
		desc:   "indentation",
		indent: true,
		toks: []Token{
			xml.ProcInst{Target: "xpacket", Inst: []byte("begin")},
			xml.StartElement{Name: name("a")},
			xml.StartElement{Name: name("b")},
			xml.CharData("text"),
			xml.EndElement{Name: name("b")},
			EmptyElement{Name: name("c")},
			xml.StartElement{Name: name("d")},
			xml.EndElement{Name: name("d")},
			xml.EndElement{Name: name("a")},
			xml.ProcInst{Target: "xpacket", Inst: []byte("end")},
		},
		want: "<?xpacket begin?>\n<a>\n  <b>text</b>\n  <c/>\n  <d></d>\n</a>\n<?xpacket end?>",
	},
	{
		desc:   "mixed content",
		indent: true,
		toks: []Token{
			xml.StartElement{Name: name("a")},
			xml.StartElement{Name: name("b")},
			xml.CharData("x"),
			EmptyElement{Name: name("c")},
			xml.CharData("y"),
			xml.EndElement{Name: name("b")},
			xml.EndElement{Name: name("a")},
		},
		want: "<a>\n  <b>x<c/>y</b>\n</a>",
	},
	{
		desc: "start element with no name",
		toks: []Token{xml.StartElement{}},
		err:  true,
	},
	{
		desc: "mismatched end tag",
		toks: []Token{
			xml.StartElement{Name: name("a")},
			xml.EndElement{Name: name("b")},
		},
		err: true,
	},
	{
		desc: "end tag without start tag",
		toks: []Token{xml.EndElement{Name: name("a")}},
		err:  true,
	},
	{
		desc: "invalid comment",
		toks: []Token{xml.Comment("a--b")},
		err:  true,
	},
	{
		desc: "invalid processing instruction",
		toks: []Token{xml.ProcInst{Target: "x", Inst: []byte("?>")}},
		err:  true,
	},
	{
		desc: "invalid token",
		toks: []Token{42},
		err:  true,
	},
}

func TestEncodeToken(t *testing.T) {
	for _, test := range encodeTokenTests {
		t.Run(test.desc, func(t *testing.T) {
			buf := &strings.Builder{}
			enc := NewEncoder(buf)
			if test.indent {
				enc.Indent("", "  ")
			}
			var err error
			for _, tok := range test.toks {
				err = enc.EncodeToken(tok)
				if err != nil {
					break
				}
			}
			if test.err {
				if err == nil {
					t.Error("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			err = enc.Close()
			if err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != test.want {
				t.Errorf("wrong output:\ngot  %q\nwant %q", got, test.want)
			}
		})
	}
}

func TestFlush(t *testing.T) {
	buf := &strings.Builder{}
	enc := NewEncoder(buf)
	if err := enc.EncodeToken(xml.CharData("hello world")); err != nil {
		t.Fatal(err)
	}
	if buf.Len() > 0 {
		t.Fatalf("EncodeToken caused write: %q", buf.String())
	}
	if err := enc.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello world" {
		t.Errorf("after Flush, got %q", buf.String())
	}
}

func TestClose(t *testing.T) {
	buf := &strings.Builder{}
	enc := NewEncoder(buf)
	if err := enc.EncodeToken(xml.StartElement{Name: name("a")}); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err == nil {
		t.Error("unclosed element not detected")
	}
	if err := enc.EncodeToken(xml.CharData("x")); err == nil {
		t.Error("write after Close succeeded")
	}
}

// TestDecodeEncode checks that the output can be read by encoding/xml.
func TestDecodeEncode(t *testing.T) {
	in := `<?xpacket begin?><x:a xmlns:x="http://example.com/"><x:b>1 &lt; 2</x:b><x:c/></x:a>`

	dec := xml.NewDecoder(strings.NewReader(in))
	buf := &strings.Builder{}
	enc := NewEncoder(buf)
	for {
		tok, err := dec.RawToken()
		if err != nil {
			break
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			tok.Name = name(qualified(tok.Name))
			for i, a := range tok.Attr {
				tok.Attr[i].Name = name(qualified(a.Name))
			}
			err = enc.EncodeToken(tok)
		case xml.EndElement:
			err = enc.EncodeToken(xml.EndElement{Name: name(qualified(tok.Name))})
		default:
			err = enc.EncodeToken(tok)
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	want := `<?xpacket begin?><x:a xmlns:x="http://example.com/"><x:b>1 &lt; 2</x:b><x:c></x:c></x:a>`
	if got := buf.String(); got != want {
		t.Errorf("wrong output:\ngot  %s\nwant %s", got, want)
	}
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func TestIsName(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"dc", true},
		{"Iptc4xmpCore", true},
		{"rdf:li", true},
		{"_x", true},
		{"a-b.c", true},
		{"", false},
		{"1a", false},
		{"-a", false},
		{"a b", false},
		{"a#", false},
		{"\xff", false},
	}
	for _, test := range cases {
		if got := IsName([]byte(test.in)); got != test.want {
			t.Errorf("IsName(%q) = %t, want %t", test.in, got, test.want)
		}
	}
}
