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
	"fmt"
	"strconv"
	"strings"
)

// Text is a text value.  This is used for Exif ASCII strings, IPTC strings
// and simple XMP properties.
//
// The text is stored without a terminating NUL byte.
type Text struct {
	Type TypeID
	V    string
}

// TypeID implements the [Value] interface.
func (v *Text) TypeID() TypeID {
	return v.Type
}

// Count implements the [Value] interface.
// For Exif ASCII strings, this includes the terminating NUL byte.
func (v *Text) Count() int {
	if v.Type == AsciiString {
		return len(v.V) + 1
	}
	return len(v.V)
}

// Read implements the [Value] interface.
func (v *Text) Read(text string) error {
	v.V = text
	return nil
}

func (v *Text) String() string {
	return v.V
}

// Bytes is binary data.  Values of this type report the type [Undefined].
type Bytes struct {
	V []byte
}

// TypeID implements the [Value] interface.
func (v *Bytes) TypeID() TypeID {
	return Undefined
}

// Count implements the [Value] interface.
func (v *Bytes) Count() int {
	return len(v.V)
}

// Read implements the [Value] interface.
// The text must consist of decimal byte values, separated by white space.
func (v *Bytes) Read(text string) error {
	res, err := readBytes(text)
	if err != nil {
		return parseError(Undefined, text, err.Error())
	}
	v.V = res
	return nil
}

func (v *Bytes) String() string {
	return formatBytes(v.V)
}

func readBytes(text string) ([]byte, error) {
	fields := strings.Fields(text)
	res := make([]byte, 0, len(fields))
	for _, f := range fields {
		b, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid byte value %q", f)
		}
		res = append(res, byte(b))
	}
	return res, nil
}

func formatBytes(data []byte) string {
	var b strings.Builder
	for i, c := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(int(c)))
	}
	return b.String()
}

// Charset is the character set of an Exif comment.
type Charset uint8

// These are the character sets allowed in Exif comments.
const (
	CharsetUndefined Charset = iota
	CharsetASCII
	CharsetJIS
	CharsetUnicode
)

var charsetNames = []string{
	CharsetUndefined: "Undefined",
	CharsetASCII:     "Ascii",
	CharsetJIS:       "Jis",
	CharsetUnicode:   "Unicode",
}

func (c Charset) String() string {
	if int(c) < len(charsetNames) {
		return charsetNames[c]
	}
	return "Charset(" + strconv.Itoa(int(c)) + ")"
}

// CommentValue is a text with a character set, as used by the Exif
// UserComment tag.  Values of this type report the type [Comment].
//
// The text is always stored as a Go string.  The conversion to and from
// the character set happens in the Exif codec.
type CommentValue struct {
	Charset Charset
	Text    string
}

// TypeID implements the [Value] interface.
func (v *CommentValue) TypeID() TypeID {
	return Comment
}

// Count implements the [Value] interface.
func (v *CommentValue) Count() int {
	return 8 + len(v.Text)
}

// Read implements the [Value] interface.
//
// The text can start with a "charset=Name " prefix, where the name is
// one of Ascii, Jis, Unicode or Undefined.  The name may be quoted.
// If the prefix is missing, the character set is Ascii.
func (v *CommentValue) Read(text string) error {
	cs := CharsetASCII
	if rest, ok := strings.CutPrefix(text, "charset="); ok {
		name, tail, _ := strings.Cut(rest, " ")
		name = strings.Trim(name, `"`)
		found := false
		for i, n := range charsetNames {
			if strings.EqualFold(n, name) {
				cs = Charset(i)
				found = true
				break
			}
		}
		if !found {
			return parseError(Comment, text, "unknown character set "+strconv.Quote(name))
		}
		text = tail
	}
	v.Charset = cs
	v.Text = text
	return nil
}

func (v *CommentValue) String() string {
	return "charset=" + v.Charset.String() + " " + v.Text
}

// DateValue is a calendar date, as used by IPTC.
// Values of this type report the type [Date].
type DateValue struct {
	Year, Month, Day int
}

// TypeID implements the [Value] interface.
func (v *DateValue) TypeID() TypeID {
	return Date
}

// Count implements the [Value] interface.
// This is the length of the IPTC encoding.
func (v *DateValue) Count() int {
	return 8
}

// Read implements the [Value] interface.
// Both the extended form "YYYY-MM-DD" and the basic form "YYYYMMDD"
// are accepted.  A month or day of 00 stands for an unknown value.
func (v *DateValue) Read(text string) error {
	s := strings.TrimSpace(text)
	if len(s) == 10 && s[4] == '-' && s[7] == '-' {
		s = s[:4] + s[5:7] + s[8:]
	}
	if len(s) != 8 {
		return parseError(Date, text, "")
	}
	year, ok1 := atoiDigits(s[:4])
	month, ok2 := atoiDigits(s[4:6])
	day, ok3 := atoiDigits(s[6:])
	if !ok1 || !ok2 || !ok3 || month > 12 || day > 31 {
		return parseError(Date, text, "")
	}
	v.Year, v.Month, v.Day = year, month, day
	return nil
}

func (v *DateValue) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", v.Year, v.Month, v.Day)
}

// TimeValue is a time of day with a UTC offset, as used by IPTC.
// Values of this type report the type [Time].
type TimeValue struct {
	Hour, Minute, Second int

	// Offset is the difference to UTC in minutes.
	Offset int
}

// TypeID implements the [Value] interface.
func (v *TimeValue) TypeID() TypeID {
	return Time
}

// Count implements the [Value] interface.
// This is the length of the IPTC encoding.
func (v *TimeValue) Count() int {
	return 11
}

// Read implements the [Value] interface.
//
// The accepted forms are "HH:MM:SS±hh:mm", "HH:MM:SS" (UTC) and
// the basic form "HHMMSS±hhmm" used on the wire.
func (v *TimeValue) Read(text string) error {
	s := strings.TrimSpace(text)
	var clock, zone string
	if i := strings.IndexAny(s, "+-"); i >= 0 {
		clock, zone = s[:i], s[i:]
	} else {
		clock = strings.TrimSuffix(s, "Z")
	}
	clock = strings.ReplaceAll(clock, ":", "")
	if len(clock) != 6 {
		return parseError(Time, text, "")
	}
	h, ok1 := atoiDigits(clock[:2])
	m, ok2 := atoiDigits(clock[2:4])
	sec, ok3 := atoiDigits(clock[4:])
	if !ok1 || !ok2 || !ok3 || h > 23 || m > 59 || sec > 60 {
		return parseError(Time, text, "")
	}

	offset := 0
	if zone != "" {
		sign := 1
		if zone[0] == '-' {
			sign = -1
		}
		zone = strings.ReplaceAll(zone[1:], ":", "")
		if len(zone) != 4 {
			return parseError(Time, text, "invalid time zone")
		}
		zh, ok1 := atoiDigits(zone[:2])
		zm, ok2 := atoiDigits(zone[2:])
		if !ok1 || !ok2 || zh > 23 || zm > 59 {
			return parseError(Time, text, "invalid time zone")
		}
		offset = sign * (60*zh + zm)
	}

	v.Hour, v.Minute, v.Second, v.Offset = h, m, sec, offset
	return nil
}

func (v *TimeValue) String() string {
	sign := '+'
	off := v.Offset
	if off < 0 {
		sign = '-'
		off = -off
	}
	return fmt.Sprintf("%02d:%02d:%02d%c%02d:%02d",
		v.Hour, v.Minute, v.Second, sign, off/60, off%60)
}

func atoiDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = 10*n + int(c-'0')
	}
	return n, true
}
