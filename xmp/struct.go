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
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"seehuhn.de/go/imgmeta"
)

// Set sets XMP properties from the fields of namespace structs.
//
// Each non-zero field replaces all entries of the corresponding property.
// Properties for zero fields are removed.
func (d *Data) Set(models ...any) error {
	for _, v := range models {
		if err := d.setOne(v); err != nil {
			return err
		}
	}
	return nil
}

func (d *Data) setOne(v any) error {
	s := reflect.Indirect(reflect.ValueOf(v))
	if s.Kind() != reflect.Struct {
		return errors.New("no struct found")
	}
	info, err := getSchema(s.Type())
	if err != nil {
		return err
	}

	prefix := d.reg.prefixFor(info.ns, info.prefix)
	for _, prop := range info.props {
		k := Key{NS: info.ns, Prefix: prefix, Property: prop.name}
		val := toValue(s.Field(prop.field), prop.tp)
		d.DeleteAll(k)
		if val != nil {
			d.Append(k, val)
		}
	}
	return nil
}

// toValue converts a struct field into an XMP value.
// Zero fields give nil.
func toValue(f reflect.Value, tp imgmeta.TypeID) imgmeta.Value {
	if f.IsZero() {
		return nil
	}
	switch tp {
	case imgmeta.XmpText:
		return &imgmeta.Text{Type: imgmeta.XmpText, V: f.String()}
	case imgmeta.XmpBag, imgmeta.XmpSeq, imgmeta.XmpAlt:
		return &imgmeta.XmpArray{Type: tp, V: slices.Clone(f.Interface().([]string))}
	case imgmeta.LangAlt:
		x := f.Interface().(imgmeta.LangAltValue)
		if len(x.V) == 0 {
			return nil
		}
		return &imgmeta.LangAltValue{V: slices.Clone(x.V)}
	default: // imgmeta.XmpStruct
		x := f.Interface().(imgmeta.XmpStructValue)
		if len(x.Fields) == 0 {
			return nil
		}
		return &imgmeta.XmpStructValue{Fields: slices.Clone(x.Fields)}
	}
}

// Get fills the fields in a namespace struct using data from the container.
// Fields for which no matching entry exists are set to the zero value.
//
// The argument dst must be a pointer to an XMP namespace struct.
// Use d.Metadata.Get to look up a single entry by key.
func (d *Data) Get(dst any) error {
	p := reflect.ValueOf(dst)
	if p.Kind() != reflect.Pointer || p.Elem().Kind() != reflect.Struct {
		return errors.New("not a pointer to a struct")
	}
	s := p.Elem()
	info, err := getSchema(s.Type())
	if err != nil {
		return err
	}

	for _, prop := range info.props {
		f := s.Field(prop.field)
		f.SetZero()

		var val imgmeta.Value
		for k, v := range d.All() {
			if k.NS == info.ns && k.Property == prop.name {
				val = v
				break
			}
		}

		switch val := val.(type) {
		case *imgmeta.Text:
			if f.Kind() == reflect.String {
				f.SetString(val.V)
			}
		case *imgmeta.XmpArray:
			if f.Kind() == reflect.Slice {
				f.Set(reflect.ValueOf(slices.Clone(val.V)))
			}
		case *imgmeta.LangAltValue:
			if f.Type() == langAltType {
				f.Set(reflect.ValueOf(imgmeta.LangAltValue{V: slices.Clone(val.V)}))
			}
		case *imgmeta.XmpStructValue:
			if f.Type() == structType {
				f.Set(reflect.ValueOf(imgmeta.XmpStructValue{Fields: slices.Clone(val.Fields)}))
			}
		}
	}
	return nil
}

// schemaInfo describes an XMP namespace struct.
type schemaInfo struct {
	ns     string
	prefix string
	props  []propInfo
}

type propInfo struct {
	name  string
	tp    imgmeta.TypeID
	field int
}

// getSchema extracts the XMP properties from the fields of a namespace
// struct type.
//
// Property names are taken from the `xmp` struct tag, or from the field
// name if no tag is given.  String slices can use the tag options "bag"
// (the default), "seq" and "alt" to specify the array type.
func getSchema(st reflect.Type) (*schemaInfo, error) {
	info := &schemaInfo{}
	for i := range st.NumField() {
		fInfo := st.Field(i)
		tag := fInfo.Tag.Get("xmp")

		switch fInfo.Type {
		case nsTagType:
			info.ns = tag
			continue
		case prefixTagType:
			info.prefix = tag
			continue
		}
		if !fInfo.IsExported() {
			continue
		}

		name, opt, _ := strings.Cut(tag, ",")
		if name == "" {
			name = fInfo.Name
		}

		var tp imgmeta.TypeID
		switch {
		case fInfo.Type == langAltType:
			tp = imgmeta.LangAlt
		case fInfo.Type == structType:
			tp = imgmeta.XmpStruct
		case fInfo.Type.Kind() == reflect.String:
			tp = imgmeta.XmpText
		case fInfo.Type == stringSliceType:
			switch opt {
			case "", "bag":
				tp = imgmeta.XmpBag
			case "seq":
				tp = imgmeta.XmpSeq
			case "alt":
				tp = imgmeta.XmpAlt
			default:
				return nil, fmt.Errorf("field %s: invalid array type %q", fInfo.Name, opt)
			}
		default:
			return nil, fmt.Errorf("field %s: unsupported type %s", fInfo.Name, fInfo.Type)
		}
		info.props = append(info.props, propInfo{name: name, tp: tp, field: i})
	}
	if info.ns == "" {
		return nil, errors.New("XMP namespace not specified")
	}
	return info, nil
}

var (
	nsTagType       = reflect.TypeFor[Namespace]()
	prefixTagType   = reflect.TypeFor[Prefix]()
	langAltType     = reflect.TypeFor[imgmeta.LangAltValue]()
	structType      = reflect.TypeFor[imgmeta.XmpStructValue]()
	stringSliceType = reflect.TypeFor[[]string]()
)

// Namespace must be used in XMP namespace structs to specify the namespace
// URI.  The namespace URI is specified using a struct tag on a field of type
// Namespace.  For example:
//
//	type MyNamespace struct {
//	    _ Namespace `xmp:"http://example.com/ns/my/namespace/"`
//	    ...
//	}
type Namespace struct{}

// Prefix can be used in XMP namespace structs to optionally specify the
// preferred XML prefix for the namespace.  The prefix is specified using a
// struct tag on a field of type Prefix.  For example:
//
//	type MyNamespace struct {
//	    _ Namespace `xmp:"http://example.com/ns/my/namespace/"`
//	    _ Prefix    `xmp:"myns"`
//	    ...
//	}
//
// If no prefix is specified (or if there is a prefix name clash), a prefix is
// automatically chosen.
type Prefix struct{}
