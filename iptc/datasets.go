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

package iptc

import "seehuhn.de/go/imgmeta"

// The IPTC records supported by this package.
const (
	Envelope     uint8 = 1
	Application2 uint8 = 2
)

var recordNames = map[uint8]string{
	Envelope:     "Envelope",
	Application2: "Application2",
}

type dataSetInfo struct {
	name       string
	repeatable bool
	tp         imgmeta.TypeID
}

const (
	tString    = imgmeta.String
	tShort     = imgmeta.UnsignedShort
	tDate      = imgmeta.Date
	tTime      = imgmeta.Time
	tUndefined = imgmeta.Undefined
)

var dataSets = map[uint8]map[uint8]dataSetInfo{
	Envelope: {
		0:   {"ModelVersion", false, tShort},
		5:   {"Destination", true, tString},
		20:  {"FileFormat", false, tShort},
		22:  {"FileVersion", false, tShort},
		30:  {"ServiceId", false, tString},
		40:  {"EnvelopeNumber", false, tString},
		50:  {"ProductId", true, tString},
		60:  {"EnvelopePriority", false, tString},
		70:  {"DateSent", false, tDate},
		80:  {"TimeSent", false, tTime},
		90:  {"CharacterSet", false, tUndefined},
		100: {"UNO", false, tString},
		120: {"ARMId", false, tShort},
		122: {"ARMVersion", false, tShort},
	},
	Application2: {
		0:   {"RecordVersion", false, tShort},
		3:   {"ObjectType", false, tString},
		4:   {"ObjectAttribute", true, tString},
		5:   {"ObjectName", false, tString},
		7:   {"EditStatus", false, tString},
		8:   {"EditorialUpdate", false, tString},
		10:  {"Urgency", false, tString},
		12:  {"Subject", true, tString},
		15:  {"Category", false, tString},
		20:  {"SuppCategory", true, tString},
		22:  {"FixtureId", false, tString},
		25:  {"Keywords", true, tString},
		26:  {"LocationCode", true, tString},
		27:  {"LocationName", true, tString},
		30:  {"ReleaseDate", false, tDate},
		35:  {"ReleaseTime", false, tTime},
		37:  {"ExpirationDate", false, tDate},
		38:  {"ExpirationTime", false, tTime},
		40:  {"SpecialInstructions", false, tString},
		42:  {"ActionAdvised", false, tString},
		45:  {"ReferenceService", true, tString},
		47:  {"ReferenceDate", true, tDate},
		50:  {"ReferenceNumber", true, tString},
		55:  {"DateCreated", false, tDate},
		60:  {"TimeCreated", false, tTime},
		62:  {"DigitizationDate", false, tDate},
		63:  {"DigitizationTime", false, tTime},
		65:  {"Program", false, tString},
		70:  {"ProgramVersion", false, tString},
		75:  {"ObjectCycle", false, tString},
		80:  {"Byline", true, tString},
		85:  {"BylineTitle", true, tString},
		90:  {"City", false, tString},
		92:  {"SubLocation", false, tString},
		95:  {"ProvinceState", false, tString},
		100: {"CountryCode", false, tString},
		101: {"CountryName", false, tString},
		103: {"TransmissionReference", false, tString},
		105: {"Headline", false, tString},
		110: {"Credit", false, tString},
		115: {"Source", false, tString},
		116: {"Copyright", false, tString},
		118: {"Contact", true, tString},
		120: {"Caption", false, tString},
		122: {"Writer", true, tString},
		125: {"RasterizedCaption", false, tUndefined},
		130: {"ImageType", false, tString},
		131: {"ImageOrientation", false, tString},
		135: {"Language", false, tString},
		150: {"AudioType", false, tString},
		151: {"AudioRate", false, tString},
		152: {"AudioResolution", false, tString},
		153: {"AudioDuration", false, tString},
		154: {"AudioOutcue", false, tString},
		200: {"PreviewFormat", false, tShort},
		201: {"PreviewVersion", false, tShort},
		202: {"Preview", false, tUndefined},
	},
}

var dataSetsByName = make(map[uint8]map[string]uint8)

func init() {
	for rec, table := range dataSets {
		byName := make(map[string]uint8, len(table))
		for ds, info := range table {
			byName[info.name] = ds
		}
		dataSetsByName[rec] = byName
	}
}

func lookupDataSet(k Key) (dataSetInfo, bool) {
	info, ok := dataSets[k.Record][k.DataSet]
	return info, ok
}
