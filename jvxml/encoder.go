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

// Package jvxml writes streams of XML tokens.
//
// In contrast to the encoder in encoding/xml, this package never invents
// namespace declarations: element and attribute names are written exactly
// as given in the Local field, so that prefixed names like "rdf:li" can be
// used directly.  The package also supports self-closing elements, see
// [EmptyElement].
package jvxml

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"
)

// Token is one of the token types from encoding/xml, or an EmptyElement.
type Token = any

// EmptyElement represents an element without content, written as "<name/>".
type EmptyElement struct {
	Name xml.Name
	Attr []xml.Attr
}

// An Encoder writes XML tokens to an output stream.
type Encoder struct {
	w *bufio.Writer

	prefix string
	indent string

	depth      int
	indentedIn bool
	afterText  bool
	wroteAny   bool

	tags   []string
	closed bool
	err    error
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Indent sets the encoder to generate XML in which each element begins on a
// new line that starts with prefix and is followed by one copy of indent
// per nesting level.  Elements which only contain character data are kept
// on a single line.
func (enc *Encoder) Indent(prefix, indent string) {
	enc.prefix = prefix
	enc.indent = indent
}

// EncodeToken writes the given XML token to the stream.
//
// It returns an error if StartElement and EndElement tokens are not
// properly matched.  Like the encoder in encoding/xml, EncodeToken buffers
// its output; call Flush or Close when done.
func (enc *Encoder) EncodeToken(t Token) error {
	if enc.closed {
		return errClosed
	}
	if enc.err != nil {
		return enc.err
	}

	switch t := t.(type) {
	case xml.StartElement:
		if err := enc.writeStart(t.Name, t.Attr, false); err != nil {
			return err
		}
	case EmptyElement:
		if err := enc.writeStart(t.Name, t.Attr, true); err != nil {
			return err
		}
	case xml.EndElement:
		if err := enc.writeEnd(t.Name); err != nil {
			return err
		}
	case xml.CharData:
		xml.EscapeText(enc, t)
		if len(t) > 0 {
			enc.afterText = true
		}
	case xml.Comment:
		if bytes.Contains(t, []byte("--")) {
			return errors.New("xml: comment must not contain \"--\"")
		}
		enc.writeIndent(0)
		enc.writeString("<!--")
		enc.Write(t)
		enc.writeString("-->")
	case xml.ProcInst:
		if !IsName([]byte(t.Target)) {
			return fmt.Errorf("xml: invalid processing instruction target %q", t.Target)
		}
		if bytes.Contains(t.Inst, []byte("?>")) {
			return errors.New("xml: processing instruction must not contain \"?>\"")
		}
		enc.writeIndent(0)
		enc.writeString("<?")
		enc.writeString(t.Target)
		if len(t.Inst) > 0 {
			enc.writeString(" ")
			enc.Write(t.Inst)
		}
		enc.writeString("?>")
	default:
		return fmt.Errorf("xml: invalid token type %T", t)
	}
	return enc.err
}

func (enc *Encoder) writeStart(name xml.Name, attr []xml.Attr, empty bool) error {
	if name.Local == "" {
		return errors.New("xml: start tag with no name")
	}
	if empty {
		enc.writeIndent(0)
	} else {
		enc.writeIndent(1)
		enc.tags = append(enc.tags, name.Local)
	}

	enc.writeString("<")
	enc.writeString(name.Local)
	for _, a := range attr {
		if a.Name.Local == "" {
			continue
		}
		enc.writeString(" ")
		enc.writeString(a.Name.Local)
		enc.writeString(`="`)
		xml.EscapeText(enc, []byte(a.Value))
		enc.writeString(`"`)
	}
	if empty {
		enc.writeString("/>")
	} else {
		enc.writeString(">")
	}
	return nil
}

func (enc *Encoder) writeEnd(name xml.Name) error {
	if name.Local == "" {
		return errors.New("xml: end tag with no name")
	}
	if len(enc.tags) == 0 {
		return fmt.Errorf("xml: end tag </%s> without start tag", name.Local)
	}
	if top := enc.tags[len(enc.tags)-1]; top != name.Local {
		return fmt.Errorf("xml: end tag </%s> does not match start tag <%s>", name.Local, top)
	}
	enc.tags = enc.tags[:len(enc.tags)-1]

	enc.writeIndent(-1)
	enc.writeString("</")
	enc.writeString(name.Local)
	enc.writeString(">")
	return nil
}

// writeIndent starts a new line before markup, if indentation is enabled.
// The end tag of an element which has no child elements stays on the
// line of the start tag.  No whitespace is added after character data,
// so that mixed content is preserved.
func (enc *Encoder) writeIndent(depthDelta int) {
	afterText := enc.afterText
	enc.afterText = false
	if enc.prefix == "" && enc.indent == "" {
		return
	}
	if depthDelta < 0 {
		enc.depth--
		if enc.indentedIn || afterText {
			enc.indentedIn = false
			return
		}
	}
	enc.indentedIn = false

	if !afterText {
		if enc.wroteAny {
			enc.writeString("\n")
		}
		enc.writeString(enc.prefix)
		for range enc.depth {
			enc.writeString(enc.indent)
		}
	}

	if depthDelta > 0 {
		enc.depth++
		enc.indentedIn = true
	}
}

// Write implements io.Writer.  The data is written without escaping.
func (enc *Encoder) Write(b []byte) (int, error) {
	if enc.err != nil {
		return 0, enc.err
	}
	if len(b) > 0 {
		enc.wroteAny = true
	}
	n, err := enc.w.Write(b)
	enc.err = err
	return n, err
}

func (enc *Encoder) writeString(s string) {
	if enc.err != nil || s == "" {
		return
	}
	enc.wroteAny = true
	_, enc.err = enc.w.WriteString(s)
}

// Flush writes any buffered XML to the underlying writer.
func (enc *Encoder) Flush() error {
	if enc.err != nil {
		return enc.err
	}
	return enc.w.Flush()
}

// Close flushes the encoder.  It returns an error if the written XML
// has unclosed elements.  After Close, no more tokens can be written.
func (enc *Encoder) Close() error {
	if enc.closed {
		return nil
	}
	enc.closed = true
	if err := enc.Flush(); err != nil {
		return err
	}
	if len(enc.tags) > 0 {
		return fmt.Errorf("xml: unclosed tag <%s>", enc.tags[len(enc.tags)-1])
	}
	return nil
}

var errClosed = errors.New("xml: use of closed encoder")

// IsName reports whether s is a valid XML name.  Names may contain colons.
func IsName(s []byte) bool {
	if len(s) == 0 {
		return false
	}
	c, n := utf8.DecodeRune(s)
	if c == utf8.RuneError && n == 1 {
		return false
	}
	if !isNameStart(c) {
		return false
	}
	for n < len(s) {
		s = s[n:]
		c, n = utf8.DecodeRune(s)
		if c == utf8.RuneError && n == 1 {
			return false
		}
		if !isNameStart(c) && !isNameChar(c) {
			return false
		}
	}
	return true
}

func isNameStart(c rune) bool {
	return c == '_' || c == ':' || unicode.IsLetter(c)
}

func isNameChar(c rune) bool {
	return c == '-' || c == '.' || c == '·' ||
		unicode.IsDigit(c) || unicode.Is(unicode.Mn, c) || unicode.Is(unicode.Mc, c)
}
