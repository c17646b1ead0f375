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

package exif

import (
	"seehuhn.de/go/imgmeta"
)

// Tags which link the IFDs together.  The values of these tags are
// computed when the data is encoded.
const (
	tagExifIFD     uint16 = 0x8769
	tagGPSIFD      uint16 = 0x8825
	tagInteropIFD  uint16 = 0xa005
	tagJPEGOffset  uint16 = 0x0201
	tagJPEGLength  uint16 = 0x0202
	tagUserComment uint16 = 0x9286
)

type tagInfo struct {
	name string
	tp   imgmeta.TypeID
}

const (
	tByte      = imgmeta.UnsignedByte
	tASCII     = imgmeta.AsciiString
	tShort     = imgmeta.UnsignedShort
	tLong      = imgmeta.UnsignedLong
	tRational  = imgmeta.UnsignedRational
	tUndefined = imgmeta.Undefined
	tSRational = imgmeta.SignedRational
	tComment   = imgmeta.Comment
)

// tags lists the known tags of every group.  The thumbnail IFD uses the
// same tags as IFD0.
var tags = map[Group]map[uint16]tagInfo{
	Image: {
		0x00fe: {"NewSubfileType", tLong},
		0x0100: {"ImageWidth", tLong},
		0x0101: {"ImageLength", tLong},
		0x0102: {"BitsPerSample", tShort},
		0x0103: {"Compression", tShort},
		0x0106: {"PhotometricInterpretation", tShort},
		0x010e: {"ImageDescription", tASCII},
		0x010f: {"Make", tASCII},
		0x0110: {"Model", tASCII},
		0x0111: {"StripOffsets", tLong},
		0x0112: {"Orientation", tShort},
		0x0115: {"SamplesPerPixel", tShort},
		0x0116: {"RowsPerStrip", tLong},
		0x0117: {"StripByteCounts", tLong},
		0x011a: {"XResolution", tRational},
		0x011b: {"YResolution", tRational},
		0x011c: {"PlanarConfiguration", tShort},
		0x0128: {"ResolutionUnit", tShort},
		0x0131: {"Software", tASCII},
		0x0132: {"DateTime", tASCII},
		0x013b: {"Artist", tASCII},
		0x013c: {"HostComputer", tASCII},
		0x013e: {"WhitePoint", tRational},
		0x013f: {"PrimaryChromaticities", tRational},
		0x0201: {"JPEGInterchangeFormat", tLong},
		0x0202: {"JPEGInterchangeFormatLength", tLong},
		0x0211: {"YCbCrCoefficients", tRational},
		0x0212: {"YCbCrSubSampling", tShort},
		0x0213: {"YCbCrPositioning", tShort},
		0x0214: {"ReferenceBlackWhite", tRational},
		0x4746: {"Rating", tShort},
		0x4749: {"RatingPercent", tShort},
		0x8298: {"Copyright", tASCII},
		0x8769: {"ExifTag", tLong},
		0x8825: {"GPSTag", tLong},
		0x9c9b: {"XPTitle", tByte},
		0x9c9c: {"XPComment", tByte},
		0x9c9d: {"XPAuthor", tByte},
		0x9c9e: {"XPKeywords", tByte},
		0x9c9f: {"XPSubject", tByte},
	},
	Photo: {
		0x829a: {"ExposureTime", tRational},
		0x829d: {"FNumber", tRational},
		0x8822: {"ExposureProgram", tShort},
		0x8827: {"ISOSpeedRatings", tShort},
		0x8830: {"SensitivityType", tShort},
		0x9000: {"ExifVersion", tUndefined},
		0x9003: {"DateTimeOriginal", tASCII},
		0x9004: {"DateTimeDigitized", tASCII},
		0x9010: {"OffsetTime", tASCII},
		0x9011: {"OffsetTimeOriginal", tASCII},
		0x9012: {"OffsetTimeDigitized", tASCII},
		0x9101: {"ComponentsConfiguration", tUndefined},
		0x9102: {"CompressedBitsPerPixel", tRational},
		0x9201: {"ShutterSpeedValue", tSRational},
		0x9202: {"ApertureValue", tRational},
		0x9203: {"BrightnessValue", tSRational},
		0x9204: {"ExposureBiasValue", tSRational},
		0x9205: {"MaxApertureValue", tRational},
		0x9206: {"SubjectDistance", tRational},
		0x9207: {"MeteringMode", tShort},
		0x9208: {"LightSource", tShort},
		0x9209: {"Flash", tShort},
		0x920a: {"FocalLength", tRational},
		0x9214: {"SubjectArea", tShort},
		0x927c: {"MakerNote", tUndefined},
		0x9286: {"UserComment", tComment},
		0x9290: {"SubSecTime", tASCII},
		0x9291: {"SubSecTimeOriginal", tASCII},
		0x9292: {"SubSecTimeDigitized", tASCII},
		0xa000: {"FlashpixVersion", tUndefined},
		0xa001: {"ColorSpace", tShort},
		0xa002: {"PixelXDimension", tLong},
		0xa003: {"PixelYDimension", tLong},
		0xa004: {"RelatedSoundFile", tASCII},
		0xa005: {"InteroperabilityTag", tLong},
		0xa20e: {"FocalPlaneXResolution", tRational},
		0xa20f: {"FocalPlaneYResolution", tRational},
		0xa210: {"FocalPlaneResolutionUnit", tShort},
		0xa215: {"ExposureIndex", tRational},
		0xa217: {"SensingMethod", tShort},
		0xa300: {"FileSource", tUndefined},
		0xa301: {"SceneType", tUndefined},
		0xa401: {"CustomRendered", tShort},
		0xa402: {"ExposureMode", tShort},
		0xa403: {"WhiteBalance", tShort},
		0xa404: {"DigitalZoomRatio", tRational},
		0xa405: {"FocalLengthIn35mmFilm", tShort},
		0xa406: {"SceneCaptureType", tShort},
		0xa407: {"GainControl", tShort},
		0xa408: {"Contrast", tShort},
		0xa409: {"Saturation", tShort},
		0xa40a: {"Sharpness", tShort},
		0xa40c: {"SubjectDistanceRange", tShort},
		0xa420: {"ImageUniqueID", tASCII},
		0xa430: {"CameraOwnerName", tASCII},
		0xa431: {"BodySerialNumber", tASCII},
		0xa432: {"LensSpecification", tRational},
		0xa433: {"LensMake", tASCII},
		0xa434: {"LensModel", tASCII},
		0xa435: {"LensSerialNumber", tASCII},
	},
	GPSInfo: {
		0x0000: {"GPSVersionID", tByte},
		0x0001: {"GPSLatitudeRef", tASCII},
		0x0002: {"GPSLatitude", tRational},
		0x0003: {"GPSLongitudeRef", tASCII},
		0x0004: {"GPSLongitude", tRational},
		0x0005: {"GPSAltitudeRef", tByte},
		0x0006: {"GPSAltitude", tRational},
		0x0007: {"GPSTimeStamp", tRational},
		0x0008: {"GPSSatellites", tASCII},
		0x0009: {"GPSStatus", tASCII},
		0x000a: {"GPSMeasureMode", tASCII},
		0x000b: {"GPSDOP", tRational},
		0x000c: {"GPSSpeedRef", tASCII},
		0x000d: {"GPSSpeed", tRational},
		0x000e: {"GPSTrackRef", tASCII},
		0x000f: {"GPSTrack", tRational},
		0x0010: {"GPSImgDirectionRef", tASCII},
		0x0011: {"GPSImgDirection", tRational},
		0x0012: {"GPSMapDatum", tASCII},
		0x0013: {"GPSDestLatitudeRef", tASCII},
		0x0014: {"GPSDestLatitude", tRational},
		0x0015: {"GPSDestLongitudeRef", tASCII},
		0x0016: {"GPSDestLongitude", tRational},
		0x001b: {"GPSProcessingMethod", tUndefined},
		0x001c: {"GPSAreaInformation", tUndefined},
		0x001d: {"GPSDateStamp", tASCII},
		0x001e: {"GPSDifferential", tShort},
		0x001f: {"GPSHPositioningError", tRational},
	},
	Iop: {
		0x0001: {"InteroperabilityIndex", tASCII},
		0x0002: {"InteroperabilityVersion", tUndefined},
		0x1000: {"RelatedImageFileFormat", tASCII},
		0x1001: {"RelatedImageWidth", tLong},
		0x1002: {"RelatedImageLength", tLong},
	},
}

var tagsByName = make(map[Group]map[string]uint16)

func init() {
	for g, table := range tags {
		byName := make(map[string]uint16, len(table))
		for tag, info := range table {
			byName[info.name] = tag
		}
		tagsByName[g] = byName
	}
}

func tableGroup(g Group) Group {
	if g == Thumbnail {
		return Image
	}
	return g
}

func lookupTag(k Key) (tagInfo, bool) {
	info, ok := tags[tableGroup(k.Group)][k.Tag]
	return info, ok
}

// isPointer reports whether the value of k is computed by the encoder.
func isPointer(k Key) bool {
	switch k.Group {
	case Image:
		return k.Tag == tagExifIFD || k.Tag == tagGPSIFD
	case Photo:
		return k.Tag == tagInteropIFD
	case Thumbnail:
		return k.Tag == tagJPEGOffset || k.Tag == tagJPEGLength
	}
	return false
}
