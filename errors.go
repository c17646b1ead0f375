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
	"errors"
	"strconv"
	"strings"
)

// These errors describe the different kinds of failure.  Errors returned by
// this module wrap one of these, so that callers can use [errors.Is].
var (
	ErrInvalidKeyFormat        = errors.New("invalid key format")
	ErrUnknownNamespace        = errors.New("unknown namespace")
	ErrUnknownDataset          = errors.New("unknown dataset")
	ErrUnknownProperty         = errors.New("unknown property")
	ErrValueParse              = errors.New("cannot parse value")
	ErrCorruptData             = errors.New("corrupt data")
	ErrIO                      = errors.New("I/O error")
	ErrConflictingRegistration = errors.New("conflicting namespace registration")
)

// Error gives the context in which an error occurred.
type Error struct {
	// Err is one of the sentinel errors defined in this package.
	Err error

	Family Family

	// Key is the key being processed, if any.
	Key string

	// Offset is the byte offset inside the metadata block, or -1.
	Offset int64

	Msg string
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Family != 0 {
		b.WriteString(e.Family.String())
		b.WriteString(": ")
	}
	if e.Key != "" {
		b.WriteString(strconv.Quote(e.Key))
		b.WriteString(": ")
	}
	b.WriteString(e.Err.Error())
	if e.Offset >= 0 {
		b.WriteString(" at offset ")
		b.WriteString(strconv.FormatInt(e.Offset, 10))
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KeyError returns an error for the given key.
func KeyError(err error, f Family, key string, msg string) error {
	return &Error{Err: err, Family: f, Key: key, Offset: -1, Msg: msg}
}

// CorruptError returns an [ErrCorruptData] error for the given position
// inside a metadata block.
func CorruptError(f Family, offset int64, msg string) error {
	return &Error{Err: ErrCorruptData, Family: f, Offset: offset, Msg: msg}
}

func parseError(t TypeID, text string, msg string) error {
	m := t.String() + " " + strconv.Quote(text)
	if msg != "" {
		m += ": " + msg
	}
	return &Error{Err: ErrValueParse, Offset: -1, Msg: m}
}
