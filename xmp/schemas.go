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
	"reflect"

	"seehuhn.de/go/imgmeta"
)

// DublinCore represents the properties in the Dublin Core namespace.
//
// See section 8.4 of ISO 16684-1:2011.
type DublinCore struct {
	_ Namespace `xmp:"http://purl.org/dc/elements/1.1/"`
	_ Prefix    `xmp:"dc"`

	// Contributor is a list of contributors to the resource.
	// This should not include names listed in the Creator field.
	Contributor []string `xmp:"contributor,bag"`

	// Coverage is the extent or scope of the resource.
	Coverage string `xmp:"coverage"`

	// Creator is a list of the creators of the resource.  Entities should be
	// listed in order of decreasing precedence, if such order is significant.
	Creator []string `xmp:"creator,seq"`

	// Date is a point or period of time associated with an event in the life
	// cycle of the resource.
	Date []string `xmp:"date,seq"`

	// Description is a textual description of the content of the resource.
	Description imgmeta.LangAltValue `xmp:"description"`

	// Format is the media type of the resource.
	Format string `xmp:"format"`

	// Identifier is an unambiguous reference for the resource.
	Identifier string `xmp:"identifier"`

	// Language is a list of languages used in the content of the resource.
	Language []string `xmp:"language,bag"`

	// Publisher is a list of publishers of the resource.
	Publisher []string `xmp:"publisher,bag"`

	// Relation is a list of related resources.
	Relation []string `xmp:"relation,bag"`

	// Rights is an informal rights statement for the resource.
	Rights imgmeta.LangAltValue `xmp:"rights"`

	// Source is a reference to a resource from which the present resource is
	// derived, either in whole or in part.
	Source string `xmp:"source"`

	// Subject is a list of descriptive phrases or keywords that specify the
	// content of the resource.
	Subject []string `xmp:"subject,bag"`

	// Title is the title or name of the resource.
	Title imgmeta.LangAltValue `xmp:"title"`

	// Type is the nature or genre of the resource.
	Type []string `xmp:"type,bag"`
}

// Basic represents the XMP basic namespace.
//
// See section 8.4 of ISO 16684-1:2011 for details.
type Basic struct {
	_ Namespace `xmp:"http://ns.adobe.com/xap/1.0/"`
	_ Prefix    `xmp:"xmp"`

	// CreateDate is the date and time the resource was originally created.
	CreateDate string

	// CreatorTool is the name of the first known tool used to create the
	// resource.
	CreatorTool string

	// Identifier is an unambiguous reference to the resource within a given
	// context.
	Identifier []string `xmp:",bag"`

	// Label is a word or short phrase that identifies a resource within a
	// local context.
	Label string

	// MetadataDate is the date and time that any metadata for this resource was
	// last modified.
	MetadataDate string

	// ModifyDate is the date and time the resource was last modified.
	ModifyDate string

	// Nickname is a short informal name for the resource.
	Nickname string

	// Rating is a user-assigned rating for this resource.
	//
	// The value must be -1 (rejected), 0 (unrated) or a rating in the range
	// (0, 5].
	Rating string
}

// RightsManagement represents the XMP Rights Management namespace.
//
// See section 8.5 of ISO 16684-1:2011 for details.
type RightsManagement struct {
	_ Namespace `xmp:"http://ns.adobe.com/xap/1.0/rights/"`
	_ Prefix    `xmp:"xmpRights"`

	// Certificate is a reference to a digital certificate that can be used to
	// verify the rights management information.
	Certificate string

	// Marked is "True" if the document has been marked as copyrighted.
	Marked string

	// Owner is a list of legal owners of the resource.
	Owner []string `xmp:",bag"`

	// UsageTerms is a statement that specifies the terms and conditions under
	// which the document can be used.
	UsageTerms imgmeta.LangAltValue

	// WebStatement is a URL that can be used to access a rights management
	// information statement.
	WebStatement string
}

// MediaManagement represents the XMP Media Management namespace.
//
// See section 8.6 of ISO 16684-1:2011 for details.
type MediaManagement struct {
	_ Namespace `xmp:"http://ns.adobe.com/xap/1.0/mm/"`
	_ Prefix    `xmp:"xmpMM"`

	// DerivedFrom is a reference to a resource from which the present resource
	// is derived, either in whole or in part.  The fields use the stRef
	// namespace.
	DerivedFrom imgmeta.XmpStructValue

	// DocumentID is a unique identifier for the document.
	DocumentID string

	// InstanceID is a unique identifier for the document instance.
	InstanceID string

	// OriginalDocumentID is a unique identifier for the original document.
	OriginalDocumentID string

	// RenditionClass is a rendition class name for this resource.
	RenditionClass string

	// RenditionParams can be used to provide additional rendition parameters
	RenditionParams string
}

// Photoshop represents the Adobe Photoshop namespace.  Many of its
// properties mirror IPTC-IIM datasets.
type Photoshop struct {
	_ Namespace `xmp:"http://ns.adobe.com/photoshop/1.0/"`
	_ Prefix    `xmp:"photoshop"`

	AuthorsPosition        string
	CaptionWriter          string
	Category               string
	City                   string
	ColorMode              string
	Country                string
	Credit                 string
	DateCreated            string
	Headline               string
	ICCProfile             string
	Instructions           string
	Source                 string
	State                  string
	SupplementalCategories []string `xmp:",bag"`
	TransmissionReference  string
	Urgency                string
}

// IptcCore represents the IPTC Core namespace.
type IptcCore struct {
	_ Namespace `xmp:"http://iptc.org/std/Iptc4xmpCore/1.0/xmlns/"`
	_ Prefix    `xmp:"Iptc4xmpCore"`

	CountryCode string

	// CreatorContactInfo holds the contact details of the creator, using
	// fields like Iptc4xmpCore:CiAdrCity and Iptc4xmpCore:CiEmailWork.
	CreatorContactInfo imgmeta.XmpStructValue

	IntellectualGenre string
	Location          string
	Scene             []string `xmp:",bag"`
	SubjectCode       []string `xmp:",bag"`
}

// builtinSchemas lists the namespace structs which define the properties
// of the built-in namespaces.
var builtinSchemas = []any{
	DublinCore{},
	Basic{},
	RightsManagement{},
	MediaManagement{},
	Photoshop{},
	IptcCore{},
}

// propertyTypes maps namespace URIs to the value types of the properties in
// the namespace.
var propertyTypes = make(map[string]map[string]imgmeta.TypeID)

func init() {
	for _, s := range builtinSchemas {
		info, err := getSchema(reflect.TypeOf(s))
		if err != nil {
			panic(err)
		}
		table := make(map[string]imgmeta.TypeID, len(info.props))
		for _, prop := range info.props {
			table[prop.name] = prop.tp
		}
		propertyTypes[info.ns] = table
	}
}
