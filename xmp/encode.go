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
	"slices"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/imgmeta"
	"seehuhn.de/go/imgmeta/jvxml"
)

// Encode writes the container as an XMP packet.
//
// All properties are written as elements of a single rdf:Description
// element, in container order.  Entries of array properties which share
// a key are merged into one array.  If a non-array key occurs more than
// once, only the first entry is written.
func Encode(data *Data) ([]byte, error) {
	props := mergeEntries(data.Entries())

	ns := map[string]struct{}{}
	for _, p := range props {
		if err := collectNamespaces(ns, data.reg, p); err != nil {
			return nil, err
		}
	}

	e, err := newEncoder(data.reg, data.About, ns)
	if err != nil {
		return nil, err
	}
	for _, p := range props {
		err = e.writeProperty(p.Key, p.Value)
		if err != nil {
			return nil, err
		}
	}
	err = e.Close()
	if err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// mergeEntries combines entries with the same key.  The merged values are
// new objects; the values in the container are not modified.
func mergeEntries(entries []imgmeta.Entry[Key]) []imgmeta.Entry[Key] {
	var res []imgmeta.Entry[Key]
	pos := make(map[Key]int)
	for _, e := range entries {
		i, seen := pos[e.Key]
		if !seen {
			pos[e.Key] = len(res)
			res = append(res, e)
			continue
		}

		switch prev := res[i].Value.(type) {
		case *imgmeta.XmpArray:
			if next, ok := e.Value.(*imgmeta.XmpArray); ok && next.Type == prev.Type {
				res[i].Value = &imgmeta.XmpArray{
					Type: prev.Type,
					V:    slices.Concat(prev.V, next.V),
				}
			}
		case *imgmeta.LangAltValue:
			if next, ok := e.Value.(*imgmeta.LangAltValue); ok {
				res[i].Value = &imgmeta.LangAltValue{V: slices.Concat(prev.V, next.V)}
			}
		}
	}
	return res
}

// collectNamespaces adds the namespaces used by an entry to ns.
func collectNamespaces(ns map[string]struct{}, reg *Registry, e imgmeta.Entry[Key]) error {
	ns[e.Key.NS] = struct{}{}
	switch v := e.Value.(type) {
	case *imgmeta.XmpStructValue:
		for _, f := range v.Fields {
			pfx, local, _ := strings.Cut(f.Name, ":")
			if strings.Contains(local, ":") || !jvxml.IsName([]byte(local)) {
				return imgmeta.KeyError(imgmeta.ErrInvalidKeyFormat, imgmeta.XMP, e.Key.String(),
					"invalid struct field name "+strconv.Quote(f.Name))
			}
			uri, ok := reg.Resolve(pfx)
			if !ok {
				return imgmeta.KeyError(imgmeta.ErrUnknownNamespace, imgmeta.XMP, e.Key.String(),
					"struct field "+f.Name)
			}
			ns[uri] = struct{}{}
		}
	case *Raw:
		addName := func(n xml.Name) {
			if n.Space != "" {
				ns[n.Space] = struct{}{}
			}
		}
		for _, a := range v.Attr {
			addName(a.Name)
		}
		for _, t := range v.Content {
			if t, ok := t.(xml.StartElement); ok {
				addName(t.Name)
				for _, a := range t.Attr {
					addName(a.Name)
				}
			}
		}
	}
	return nil
}

// An encoder writes XMP data to an output stream.
type encoder struct {
	buf *bytes.Buffer
	*jvxml.Encoder
	nsToPrefix map[string]string
}

// newEncoder returns a new encoder, and writes the XMP packet header.
// The namespaces in nsUsed are declared on the rdf:RDF element.
func newEncoder(reg *Registry, about string, nsUsed map[string]struct{}) (*encoder, error) {
	nsUsed[RDFNamespace] = struct{}{}

	nsToPrefix := map[string]string{
		xmlNamespace:  "xml",
		metaNamespace: "x",
	}
	for ns := range nsUsed {
		nsToPrefix[ns] = reg.prefixFor(ns, "")
	}

	buf := &bytes.Buffer{}
	enc := jvxml.NewEncoder(buf)
	enc.Indent("", "  ")
	e := &encoder{
		buf:        buf,
		Encoder:    enc,
		nsToPrefix: nsToPrefix,
	}

	err := e.EncodeToken(xml.ProcInst{
		Target: "xpacket",
		Inst:   []byte("begin=\"\uFEFF\" id=\"W5M0MpCehiHzreSzNTczkc9d\""),
	})
	if err != nil {
		return nil, err
	}

	err = e.EncodeToken(xml.StartElement{
		Name: e.makeName(metaNamespace, "xmpmeta"),
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns:x"}, Value: metaNamespace}},
	})
	if err != nil {
		return nil, err
	}

	var attrs []xml.Attr
	nameSpaces := maps.Keys(nsUsed)
	sort.Strings(nameSpaces)
	for _, ns := range nameSpaces {
		if ns == xmlNamespace || ns == metaNamespace {
			continue
		}
		pfx := e.nsToPrefix[ns]
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "xmlns:" + pfx}, Value: ns})
	}
	err = e.EncodeToken(xml.StartElement{
		Name: e.makeName(RDFNamespace, "RDF"),
		Attr: attrs,
	})
	if err != nil {
		return nil, err
	}

	err = e.EncodeToken(xml.StartElement{
		Name: e.makeName(RDFNamespace, "Description"),
		Attr: []xml.Attr{{Name: e.makeName(RDFNamespace, "about"), Value: about}},
	})
	if err != nil {
		return nil, err
	}

	return e, nil
}

// writeProperty writes one property element.
func (e *encoder) writeProperty(k Key, val imgmeta.Value) error {
	name := e.makeName(k.NS, k.Property)

	switch val := val.(type) {
	case *Raw:
		attr := make([]xml.Attr, len(val.Attr))
		for i, a := range val.Attr {
			attr[i] = xml.Attr{Name: e.makeName(a.Name.Space, a.Name.Local), Value: a.Value}
		}
		return e.writeElement(name, attr, e.translate(val.Content))

	case *imgmeta.XmpArray:
		var items []jvxml.Token
		for _, text := range val.V {
			items = e.appendText(items, e.makeName(RDFNamespace, "li"), nil, text)
		}
		return e.writeArray(name, val.Type, items)

	case *imgmeta.LangAltValue:
		var items []jvxml.Token
		for _, item := range val.V {
			attr := []xml.Attr{{Name: e.makeName(xmlNamespace, "lang"), Value: item.Lang}}
			items = e.appendText(items, e.makeName(RDFNamespace, "li"), attr, item.Text)
		}
		return e.writeArray(name, imgmeta.XmpAlt, items)

	case *imgmeta.XmpStructValue:
		var fields []jvxml.Token
		for _, f := range val.Fields {
			fields = e.appendText(fields, xml.Name{Local: f.Name}, nil, f.Value)
		}
		desc := e.makeName(RDFNamespace, "Description")
		return e.writeElement(name, nil, wrap(desc, fields))

	default:
		var content []jvxml.Token
		if text := val.String(); text != "" {
			content = append(content, xml.CharData(text))
		}
		return e.writeElement(name, nil, content)
	}
}

// appendText appends the tokens for an element with text content.
func (e *encoder) appendText(tokens []jvxml.Token, name xml.Name, attr []xml.Attr, text string) []jvxml.Token {
	if text == "" {
		return append(tokens, jvxml.EmptyElement{Name: name, Attr: attr})
	}
	return append(tokens,
		xml.StartElement{Name: name, Attr: attr},
		xml.CharData(text),
		xml.EndElement{Name: name})
}

func (e *encoder) writeArray(name xml.Name, tp imgmeta.TypeID, items []jvxml.Token) error {
	var local string
	switch tp {
	case imgmeta.XmpSeq:
		local = "Seq"
	case imgmeta.XmpAlt:
		local = "Alt"
	default:
		local = "Bag"
	}
	return e.writeElement(name, nil, wrap(e.makeName(RDFNamespace, local), items))
}

// wrap encloses a list of tokens in an element.
func wrap(name xml.Name, content []jvxml.Token) []jvxml.Token {
	if len(content) == 0 {
		return []jvxml.Token{jvxml.EmptyElement{Name: name}}
	}
	res := make([]jvxml.Token, 0, len(content)+2)
	res = append(res, xml.StartElement{Name: name})
	res = append(res, content...)
	return append(res, xml.EndElement{Name: name})
}

// writeElement writes an element with the given content.
func (e *encoder) writeElement(name xml.Name, attr []xml.Attr, content []jvxml.Token) error {
	if len(content) == 0 {
		return e.EncodeToken(jvxml.EmptyElement{Name: name, Attr: attr})
	}
	err := e.EncodeToken(xml.StartElement{Name: name, Attr: attr})
	if err != nil {
		return err
	}
	for _, t := range content {
		err = e.EncodeToken(t)
		if err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: name})
}

// translate converts tokens from a Raw value into tokens with prefixed
// names.  Elements without content are written as empty elements.
func (e *encoder) translate(tokens []xml.Token) []jvxml.Token {
	res := make([]jvxml.Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		switch t := tokens[i].(type) {
		case xml.StartElement:
			name := e.makeName(t.Name.Space, t.Name.Local)
			attr := make([]xml.Attr, len(t.Attr))
			for j, a := range t.Attr {
				attr[j] = xml.Attr{Name: e.makeName(a.Name.Space, a.Name.Local), Value: a.Value}
			}
			if i+1 < len(tokens) {
				if _, isEnd := tokens[i+1].(xml.EndElement); isEnd {
					res = append(res, jvxml.EmptyElement{Name: name, Attr: attr})
					i++
					continue
				}
			}
			res = append(res, xml.StartElement{Name: name, Attr: attr})
		case xml.EndElement:
			res = append(res, xml.EndElement{Name: e.makeName(t.Name.Space, t.Name.Local)})
		default:
			res = append(res, t)
		}
	}
	return res
}

// Close writes the end of the XMP packet and flushes the encoder.
func (e *encoder) Close() error {
	err := e.EncodeToken(xml.EndElement{
		Name: e.makeName(RDFNamespace, "Description"),
	})
	if err != nil {
		return err
	}

	err = e.EncodeToken(xml.EndElement{
		Name: e.makeName(RDFNamespace, "RDF"),
	})
	if err != nil {
		return err
	}

	err = e.EncodeToken(xml.EndElement{
		Name: e.makeName(metaNamespace, "xmpmeta"),
	})
	if err != nil {
		return err
	}

	err = e.EncodeToken(xml.ProcInst{
		Target: "xpacket",
		Inst:   []byte("end=\"w\""),
	})
	if err != nil {
		return err
	}

	return e.Encoder.Close()
}

func (e *encoder) makeName(ns, local string) xml.Name {
	if ns == "" {
		return xml.Name{Local: local}
	}
	pfx, ok := e.nsToPrefix[ns]
	if !ok {
		panic("namespace not registered: " + ns)
	}
	return xml.Name{Local: pfx + ":" + local}
}
