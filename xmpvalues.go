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
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"seehuhn.de/go/imgmeta/jvxml"
)

// XmpArray is an XMP array of simple text items.  The type must be one of
// [XmpBag], [XmpSeq] or [XmpAlt].
type XmpArray struct {
	Type TypeID
	V    []string
}

// TypeID implements the [Value] interface.
func (v *XmpArray) TypeID() TypeID {
	return v.Type
}

// Count implements the [Value] interface.
func (v *XmpArray) Count() int {
	return len(v.V)
}

// Read implements the [Value] interface.
// The value is replaced by an array with the single item text.
func (v *XmpArray) Read(text string) error {
	v.V = []string{text}
	return nil
}

func (v *XmpArray) String() string {
	return strings.Join(v.V, ", ")
}

// DefaultLanguage is the language tag used for the default entry of a
// language alternative.
const DefaultLanguage = "x-default"

// LangItem is one entry of a language alternative.
type LangItem struct {
	Lang string
	Text string
}

// LangAltValue is an XMP language alternative.  This maps language tags
// to the version of a text in that language.
// Values of this type report the type [LangAlt].
type LangAltValue struct {
	V []LangItem
}

// TypeID implements the [Value] interface.
func (v *LangAltValue) TypeID() TypeID {
	return LangAlt
}

// Count implements the [Value] interface.
func (v *LangAltValue) Count() int {
	return len(v.V)
}

// Set sets the text for the given language.  An empty language
// stands for [DefaultLanguage].
func (v *LangAltValue) Set(lang, text string) {
	lang = normalizeLang(lang)
	for i := range v.V {
		if normalizeLang(v.V[i].Lang) == lang {
			v.V[i].Text = text
			return
		}
	}
	item := LangItem{Lang: lang, Text: text}
	if lang == DefaultLanguage {
		v.V = append([]LangItem{item}, v.V...)
	} else {
		v.V = append(v.V, item)
	}
}

// Get returns the text for the given language.
// Language tags are compared in canonical form.
func (v *LangAltValue) Get(lang string) (string, bool) {
	lang = normalizeLang(lang)
	for _, item := range v.V {
		if normalizeLang(item.Lang) == lang {
			return item.Text, true
		}
	}
	return "", false
}

// Map returns the value as a map from language tags to texts.
func (v *LangAltValue) Map() map[string]string {
	res := make(map[string]string, len(v.V))
	for _, item := range v.V {
		res[item.Lang] = item.Text
	}
	return res
}

// Best returns the text which best matches the given language preferences.
// If no language matches, the default entry is used.  If there is no
// default entry either, the first entry is returned.
func (v *LangAltValue) Best(prefs ...language.Tag) string {
	if len(v.V) == 0 {
		return ""
	}

	var tags []language.Tag
	var idx []int
	for i, item := range v.V {
		if item.Lang == DefaultLanguage {
			continue
		}
		tag, err := language.Parse(item.Lang)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		idx = append(idx, i)
	}
	if len(tags) > 0 && len(prefs) > 0 {
		m := language.NewMatcher(tags)
		_, i, conf := m.Match(prefs...)
		if conf != language.No {
			return v.V[idx[i]].Text
		}
	}

	if text, ok := v.Get(DefaultLanguage); ok {
		return text
	}
	return v.V[0].Text
}

// Read implements the [Value] interface.
//
// The text consists of one or more items of the form `lang="tag" text`,
// separated by ", ".  Texts which contain the separator are written as
// Go quoted strings.  If the text does not start with `lang=`, the whole
// text is used for the default language.  The empty string gives an
// empty language alternative.
func (v *LangAltValue) Read(text string) error {
	if text == "" {
		v.V = nil
		return nil
	}
	if !strings.HasPrefix(text, "lang=") {
		v.V = []LangItem{{Lang: DefaultLanguage, Text: text}}
		return nil
	}

	var items []LangItem
	rest := text
	for {
		rest = strings.TrimPrefix(rest, "lang=")
		q, err := strconv.QuotedPrefix(rest)
		if err != nil {
			return parseError(LangAlt, text, "invalid language tag")
		}
		lang, _ := strconv.Unquote(q)
		rest = strings.TrimPrefix(rest[len(q):], " ")

		var body string
		next := -1
		if strings.HasPrefix(rest, `"`) {
			q, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return parseError(LangAlt, text, "invalid quoted text")
			}
			body, _ = strconv.Unquote(q)
			rest = rest[len(q):]
			if rest != "" {
				if !strings.HasPrefix(rest, `, lang="`) {
					return parseError(LangAlt, text, "unexpected text after quoted item")
				}
				next = 0
			}
		} else {
			body = rest
			next = strings.Index(rest, `, lang="`)
			if next >= 0 {
				body = rest[:next]
			}
		}
		items = append(items, LangItem{Lang: normalizeLang(lang), Text: body})
		if next < 0 {
			break
		}
		rest = rest[next+2:]
	}

	v.V = items
	return nil
}

func (v *LangAltValue) String() string {
	parts := make([]string, len(v.V))
	for i, item := range v.V {
		text := item.Text
		if strings.HasPrefix(text, `"`) || strings.Contains(text, `, lang="`) {
			text = strconv.Quote(text)
		}
		parts[i] = "lang=" + strconv.Quote(item.Lang) + " " + text
	}
	return strings.Join(parts, ", ")
}

// normalizeLang brings a language tag into canonical form.
// Tags which cannot be parsed are kept unchanged.
func normalizeLang(lang string) string {
	if lang == "" || strings.EqualFold(lang, DefaultLanguage) {
		return DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	return tag.String()
}

// Field is one field of an XMP structure.  The name has the form
// "prefix:name".
type Field struct {
	Name  string
	Value string
}

// XmpStructValue is an XMP structure with simple text fields.
// Values of this type report the type [XmpStruct].
type XmpStructValue struct {
	Fields []Field
}

// TypeID implements the [Value] interface.
func (v *XmpStructValue) TypeID() TypeID {
	return XmpStruct
}

// Count implements the [Value] interface.
func (v *XmpStructValue) Count() int {
	return len(v.Fields)
}

// Get returns the value of the named field.
func (v *XmpStructValue) Get(name string) (string, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Set sets the value of the named field.
func (v *XmpStructValue) Set(name, value string) {
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			v.Fields[i].Value = value
			return
		}
	}
	v.Fields = append(v.Fields, Field{Name: name, Value: value})
}

// Read implements the [Value] interface.
// The text is a space separated list of `prefix:name="value"` pairs,
// where the values use Go string quoting.
func (v *XmpStructValue) Read(text string) error {
	var fields []Field
	rest := strings.TrimSpace(text)
	for rest != "" {
		name, tail, found := strings.Cut(rest, "=")
		if !found || !isQName(name) {
			return parseError(XmpStruct, text, "expected prefix:name=")
		}
		q, err := strconv.QuotedPrefix(tail)
		if err != nil {
			return parseError(XmpStruct, text, "invalid value for "+name)
		}
		val, _ := strconv.Unquote(q)
		fields = append(fields, Field{Name: name, Value: val})
		rest = strings.TrimLeft(tail[len(q):], " ")
	}
	v.Fields = fields
	return nil
}

func (v *XmpStructValue) String() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.Name + "=" + strconv.Quote(f.Value)
	}
	return strings.Join(parts, " ")
}

// isQName reports whether s is a qualified XML name of the form
// "prefix:local".
func isQName(s string) bool {
	prefix, local, found := strings.Cut(s, ":")
	return found && isNCName(prefix) && isNCName(local)
}

func isNCName(s string) bool {
	return !strings.Contains(s, ":") && jvxml.IsName([]byte(s))
}
