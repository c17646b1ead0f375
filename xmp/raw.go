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
	"io"
	"strings"

	"seehuhn.de/go/imgmeta"
)

// Raw is the XML form of a property value which cannot be represented
// by one of the value types in the imgmeta package.
//
// Attr holds the attributes of the property element and Content holds the
// XML tokens between the start and end tag of the property element.  Names
// use namespace URIs, as returned by [xml.Decoder.Token].
type Raw struct {
	Attr    []xml.Attr
	Content []xml.Token
}

// TypeID implements the [imgmeta.Value] interface.
func (r *Raw) TypeID() imgmeta.TypeID {
	return imgmeta.Undefined
}

// Count returns the number of XML tokens in the value.
func (r *Raw) Count() int {
	return len(r.Content)
}

// String returns the value as an XML element named "value".
func (r *Raw) String() string {
	b := &strings.Builder{}
	enc := xml.NewEncoder(b)
	start := xml.StartElement{Name: xml.Name{Local: rawElement}, Attr: r.Attr}
	err := enc.EncodeToken(start)
	for _, t := range r.Content {
		if err != nil {
			break
		}
		err = enc.EncodeToken(t)
	}
	if err == nil {
		err = enc.EncodeToken(start.End())
	}
	if err == nil {
		err = enc.Flush()
	}
	if err != nil {
		return ""
	}
	return b.String()
}

// Read replaces the value with the XML element given in text.
// The name of the outer element is ignored.
func (r *Raw) Read(text string) error {
	dec := xml.NewDecoder(strings.NewReader(text))

	var start *xml.StartElement
	var content []xml.Token
	depth := 0
	for {
		t, err := dec.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return rawError(text, err.Error())
		}
		switch t := t.(type) {
		case xml.StartElement:
			t.Attr = dropNSDecls(t.Attr)
			if start == nil {
				start = &t
				depth = 1
				continue
			}
			depth++
			content = append(content, t)
			continue
		case xml.EndElement:
			depth--
			if depth == 0 {
				continue
			}
		}
		if depth > 0 {
			content = append(content, xml.CopyToken(t))
		}
	}
	if start == nil {
		return rawError(text, errNoElement.Error())
	}

	r.Attr = start.Attr
	r.Content = content
	return nil
}

const rawElement = "value"

var errNoElement = errors.New("no XML element found")

func rawError(text, msg string) error {
	return imgmeta.KeyError(imgmeta.ErrValueParse, imgmeta.XMP, "", "Raw "+text+": "+msg)
}

// dropNSDecls removes namespace declarations from a list of attributes.
func dropNSDecls(attr []xml.Attr) []xml.Attr {
	var res []xml.Attr
	for _, a := range attr {
		if a.Name.Space == "xmlns" || a.Name.Space == "" && a.Name.Local == "xmlns" {
			continue
		}
		res = append(res, a)
	}
	return res
}
