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
	"fmt"
	"io"
	"strings"

	"seehuhn.de/go/imgmeta"
)

// Decode reads an XMP packet.  The rdf:RDF element may be wrapped in an
// x:xmpmeta element and in xpacket processing instructions.
//
// Namespaces which are not yet known to reg are registered.  If reg is nil,
// a new registry is used.
func Decode(reg *Registry, block []byte) (*Data, error) {
	data := New(reg)
	d := &decoder{
		data:  data,
		hints: make(map[string]string),
	}

	dec := xml.NewDecoder(bytes.NewReader(block))

	var level int
	descriptionLevel := -1
	propertyLevel := -1
	seenRoot := false
	var propertyElement []xml.Token
tokenLoop:
	for {
		t, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, imgmeta.CorruptError(imgmeta.XMP, dec.InputOffset(), err.Error())
		}

		switch t := t.(type) {
		case xml.StartElement:
			d.noteNamespaces(t.Attr)
			t.Attr = dropNSDecls(t.Attr)

			if level > 0 || t.Name == elemRDFRoot {
				// If a sequence of rdf:RDF elements is encountered, the
				// contents are merged.
				seenRoot = true
				level++
			} else {
				continue tokenLoop
			}
			if descriptionLevel < 0 && level == 2 && t.Name == elemRDFDescription {
				for _, a := range t.Attr {
					switch a.Name {
					case attrRDFAbout:
						data.About = a.Value
					case attrXMLLang, attrRDFID, attrRDFNodeID:
						// These are not allowed in XMP, and we simply ignore them.
					default:
						if a.Name.Space == "" {
							continue
						}
						// Property [...] elements that have non-URI simple,
						// unqualified values may be replaced with attributes
						// in the rdf:Description element.
						err := d.addProperty(a.Name, &imgmeta.Text{Type: imgmeta.XmpText, V: a.Value})
						if err != nil {
							return nil, err
						}
					}
				}
				descriptionLevel = level
			} else if descriptionLevel >= 0 && propertyLevel < 0 {
				// start recording the XML tokens which make up a property element
				propertyLevel = level
				propertyElement = nil
			}

			if propertyLevel >= 0 {
				propertyElement = append(propertyElement, t)
			}

		case xml.EndElement:
			if level == propertyLevel {
				// propertyElement contains the XML tokens which make up the
				// property, including the start element, but not the end
				// element.
				start := propertyElement[0].(xml.StartElement)
				val := d.propertyValue(start, cleanContent(propertyElement[1:]))
				if err := d.addProperty(start.Name, val); err != nil {
					return nil, err
				}
				propertyLevel = -1
			}
			if level == descriptionLevel {
				descriptionLevel = -1
			}
			if level > 0 {
				level--
			}
			if propertyLevel >= 0 {
				propertyElement = append(propertyElement, t)
			}

		case xml.CharData:
			if propertyLevel >= 0 {
				propertyElement = append(propertyElement, t.Copy())
			}
		}
	}
	if !seenRoot {
		return nil, imgmeta.CorruptError(imgmeta.XMP, -1, "no rdf:RDF element found")
	}
	return data, nil
}

type decoder struct {
	data *Data

	// hints maps namespace URIs to the prefixes used in the packet.
	hints map[string]string
}

// noteNamespaces records the prefixes declared in an element.
func (d *decoder) noteNamespaces(attr []xml.Attr) {
	for _, a := range attr {
		if a.Name.Space == "xmlns" {
			if _, seen := d.hints[a.Value]; !seen {
				d.hints[a.Value] = a.Name.Local
			}
		}
	}
}

func (d *decoder) prefix(ns string) string {
	return d.data.reg.prefixFor(ns, d.hints[ns])
}

func (d *decoder) addProperty(name xml.Name, val imgmeta.Value) error {
	if name.Space == "" {
		return imgmeta.CorruptError(imgmeta.XMP, -1,
			fmt.Sprintf("property %q has no namespace", name.Local))
	}
	k := Key{NS: name.Space, Prefix: d.prefix(name.Space), Property: name.Local}
	d.data.Append(k, val)
	return nil
}

// cleanContent removes comments and processing instructions from the
// content of a property element.  If the content contains elements,
// whitespace between the elements is removed as well.
func cleanContent(tokens []xml.Token) []xml.Token {
	hasElements := false
	for _, t := range tokens {
		if _, ok := t.(xml.StartElement); ok {
			hasElements = true
			break
		}
	}

	res := make([]xml.Token, 0, len(tokens))
	for _, t := range tokens {
		switch t := t.(type) {
		case xml.StartElement, xml.EndElement:
			res = append(res, t)
		case xml.CharData:
			if hasElements && len(bytes.TrimSpace(t)) == 0 {
				continue
			}
			res = append(res, t)
		}
	}
	return res
}

// propertyValue converts a property element into a value.
// Property elements which do not map onto one of the imgmeta value types
// are kept as Raw XML.
//
// This implements the rules from appendix C.2.5 (Content of a nodeElement)
// of ISO 16684-1:2011.
func (d *decoder) propertyValue(start xml.StartElement, tokens []xml.Token) imgmeta.Value {
	switch getProperyElementType(start, tokens) {
	case literalPropertyElt:
		// A literalPropertyElt is the typical element form of a simple
		// property.  The text content is the property value.  Attributes of
		// the element would be qualifiers in the XMP data model.
		//
		// See appendix C.2.7 (The literalPropertyElt) of ISO 16684-1:2011.
		if len(start.Attr) == 0 {
			return &imgmeta.Text{Type: imgmeta.XmpText, V: textContent(tokens)}
		}

	case resourcePropertyElt:
		// A resourcePropertyElt most commonly represents an XMP struct or
		// array property.
		//
		// See appendix C.2.6 (The resourcePropertyElt) of ISO 16684-1:2011.
		if len(start.Attr) == 0 {
			if v := d.nodeValue(tokens); v != nil {
				return v
			}
		}

	case parseTypeResourcePropertyElt:
		// A parseTypeResourcePropertyElt is a form of shorthand that replaces
		// the inner nodeElement of a resourcePropertyElt with an
		// rdf:parseType="Resource" attribute on the outer element.
		//
		// See appendix C.2.9 (The parseTypeResourcePropertyElt) of ISO 16684-1:2011.
		if len(start.Attr) == 1 {
			if v := d.structValue(tokens); v != nil {
				return v
			}
		}

	case emptyPropertyElt:
		// An emptyPropertyElt is an element with no contained content, just a
		// possibly empty set of attributes.  Without attributes, this is a
		// simple property with an empty value.
		//
		// See appendix C.2.12 (The emptyPropertyElt) of ISO 16684-1:2011.
		if len(start.Attr) == 0 {
			return &imgmeta.Text{Type: imgmeta.XmpText}
		}
	}

	return &Raw{Attr: start.Attr, Content: tokens}
}

// nodeValue converts the node element inside a resourcePropertyElt into an
// array or a struct value.
func (d *decoder) nodeValue(tokens []xml.Token) imgmeta.Value {
	elems, ok := splitElements(tokens)
	if !ok || len(elems) != 1 {
		return nil
	}
	node := elems[0][0].(xml.StartElement)
	inner := elems[0][1 : len(elems[0])-1]
	if len(node.Attr) > 0 {
		return nil
	}

	var tp imgmeta.TypeID
	switch node.Name {
	case elemRDFBag:
		tp = imgmeta.XmpBag
	case elemRDFSeq:
		tp = imgmeta.XmpSeq
	case elemRDFAlt:
		tp = imgmeta.XmpAlt
	case elemRDFDescription:
		return d.structValue(inner)
	default:
		return nil
	}

	items, ok := splitElements(inner)
	if !ok {
		return nil
	}
	var texts []string
	var langItems []imgmeta.LangItem
	for _, item := range items {
		start := item[0].(xml.StartElement)
		content := item[1 : len(item)-1]
		if start.Name != elemRDFLi || !isText(content) {
			return nil
		}
		text := textContent(content)
		switch {
		case len(start.Attr) == 0:
			texts = append(texts, text)
		case len(start.Attr) == 1 && start.Attr[0].Name == attrXMLLang && tp == imgmeta.XmpAlt:
			langItems = append(langItems, imgmeta.LangItem{Lang: start.Attr[0].Value, Text: text})
		default:
			return nil
		}
	}

	switch {
	case len(langItems) > 0 && len(texts) == 0:
		return &imgmeta.LangAltValue{V: langItems}
	case len(langItems) > 0:
		return nil
	default:
		return &imgmeta.XmpArray{Type: tp, V: texts}
	}
}

// structValue converts a list of field elements into a struct value.
// Only structs whose fields are all simple and unqualified are converted.
func (d *decoder) structValue(tokens []xml.Token) imgmeta.Value {
	fields, ok := splitElements(tokens)
	if !ok {
		return nil
	}
	res := &imgmeta.XmpStructValue{}
	for _, field := range fields {
		start := field[0].(xml.StartElement)
		content := field[1 : len(field)-1]
		if len(start.Attr) > 0 || !isText(content) || start.Name.Space == "" {
			return nil
		}
		name := d.prefix(start.Name.Space) + ":" + start.Name.Local
		res.Fields = append(res.Fields, imgmeta.Field{Name: name, Value: textContent(content)})
	}
	return res
}

// splitElements splits a list of tokens into top-level elements.  Each
// element includes its start and end tokens.  If character data occurs
// between the elements, ok is false.
func splitElements(tokens []xml.Token) (elems [][]xml.Token, ok bool) {
	depth := 0
	first := 0
	for i, t := range tokens {
		switch t.(type) {
		case xml.StartElement:
			if depth == 0 {
				first = i
			}
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				elems = append(elems, tokens[first:i+1])
			}
		default:
			if depth == 0 {
				return nil, false
			}
		}
	}
	return elems, depth == 0
}

// isText checks whether a list of tokens consists of character data only.
func isText(tokens []xml.Token) bool {
	for _, t := range tokens {
		if _, ok := t.(xml.CharData); !ok {
			return false
		}
	}
	return true
}

func textContent(tokens []xml.Token) string {
	b := &strings.Builder{}
	for _, t := range tokens {
		if c, ok := t.(xml.CharData); ok {
			b.Write(c)
		}
	}
	return b.String()
}

// getProperyElementType determines the RDF type of a property element.
//
// This implements the rules from appendix C.2.5 (Content of a nodeElement)
// of ISO 16684-1:2011.
func getProperyElementType(start xml.StartElement, tokens []xml.Token) propertyElementType {
	if len(start.Attr) > 3 {
		return emptyPropertyElt
	}

	for _, a := range start.Attr {
		switch a.Name {
		case attrXMLLang, attrRDFID:
			continue
		case attrRDFDataType: // not allowed in XMP
			return literalPropertyElt
		case attrRDFParseType:
			switch a.Value {
			case "Literal": // not allowed in XMP
				return parseTypeLiteralPropertyElt
			case "Resource":
				return parseTypeResourcePropertyElt
			case "Collection": // not allowed in XMP
				return parseTypeCollectionPropertyElt
			default: // not allowed in XMP
				return parseTypeOtherPropertyElt
			}
		default:
			return emptyPropertyElt
		}
	}

	for _, t := range tokens {
		switch t.(type) {
		case xml.StartElement:
			return resourcePropertyElt
		case xml.CharData:
			return literalPropertyElt
		}
	}
	return emptyPropertyElt
}

type propertyElementType int

const (
	resourcePropertyElt propertyElementType = iota + 1
	literalPropertyElt
	parseTypeLiteralPropertyElt
	parseTypeResourcePropertyElt
	parseTypeCollectionPropertyElt
	parseTypeOtherPropertyElt
	emptyPropertyElt
)

var (
	elemRDFRoot        = xml.Name{Space: RDFNamespace, Local: "RDF"}
	elemRDFDescription = xml.Name{Space: RDFNamespace, Local: "Description"}
	elemRDFBag         = xml.Name{Space: RDFNamespace, Local: "Bag"}
	elemRDFSeq         = xml.Name{Space: RDFNamespace, Local: "Seq"}
	elemRDFAlt         = xml.Name{Space: RDFNamespace, Local: "Alt"}
	elemRDFLi          = xml.Name{Space: RDFNamespace, Local: "li"}

	attrRDFAbout     = xml.Name{Space: RDFNamespace, Local: "about"}
	attrRDFDataType  = xml.Name{Space: RDFNamespace, Local: "datatype"}
	attrRDFID        = xml.Name{Space: RDFNamespace, Local: "ID"}
	attrRDFNodeID    = xml.Name{Space: RDFNamespace, Local: "nodeID"}
	attrRDFParseType = xml.Name{Space: RDFNamespace, Local: "parseType"}
	attrXMLLang      = xml.Name{Space: xmlNamespace, Local: "lang"}
)
