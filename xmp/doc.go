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

// Package xmp implements the Extensible Metadata Platform (XMP) dialect.
//
// # Keys and Namespaces
//
// XMP properties are identified by a namespace URI and a property name.
// In keys, the namespace is given by a prefix, as in "Xmp.dc.title" or
// "dc:title".  Prefixes are resolved using a [Registry].  A new registry
// knows the common namespaces; additional namespaces can be added using
// [Registry.Register].  The decoder registers namespaces it has not seen
// before, using the prefix from the XMP packet where possible.
//
// # Values
//
// Simple properties are represented by [imgmeta.Text] values, arrays by
// [imgmeta.XmpArray] and [imgmeta.LangAltValue], and structures whose fields
// are all simple by [imgmeta.XmpStructValue].  Everything else, for example
// qualified properties or arrays of structures, is stored as [Raw] XML and
// written back unchanged.
//
// # Models
//
// Models can be used get or set several properties from a namespace at once.
// Use [Data.Get] to read values from an XMP container into a model, and
// [Data.Set] to store values from a model into a container. The following
// models are defined in this library:
//
//   - [DublinCore] represents the Dublin Core namespace.
//   - [Basic] represents the XMP basic namespace.
//   - [RightsManagement] represents the XMP Rights Management namespace.
//   - [MediaManagement] represents the XMP Media Management namespace.
//   - [Photoshop] represents the Adobe Photoshop namespace.
//   - [IptcCore] represents the IPTC Core namespace.
//
// Additional models can be defined by defining a struct with fields of type
// string, []string, [imgmeta.LangAltValue] or [imgmeta.XmpStructValue], and
// using the Go struct tags to specify the XMP property name where this is
// different from the field name.  See [DublinCore], [Namespace] and [Prefix]
// for examples.  The models above also define the property types returned
// by [DefaultType].
package xmp
