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

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"

	"seehuhn.de/go/imgmeta"
)

// marker is the first byte of every dataset.
const marker = 0x1C

// Decode reads a sequence of IPTC datasets.  Zero bytes after the last
// dataset are ignored.
func Decode(block []byte) (*Data, error) {
	data := New()

	pos := 0
	for pos < len(block) {
		if block[pos] != marker {
			if allZero(block[pos:]) {
				break
			}
			return nil, imgmeta.CorruptError(imgmeta.IPTC, int64(pos),
				fmt.Sprintf("expected dataset marker, found 0x%02x", block[pos]))
		}
		start := pos
		if pos+5 > len(block) {
			return nil, imgmeta.CorruptError(imgmeta.IPTC, int64(start), "truncated dataset header")
		}
		k := Key{Record: block[pos+1], DataSet: block[pos+2]}
		length := uint64(binary.BigEndian.Uint16(block[pos+3:]))
		pos += 5

		if length&0x8000 != 0 {
			// extended dataset: the lower bits give the size of the length field
			n := int(length & 0x7fff)
			if n == 0 || n > 4 || pos+n > len(block) {
				return nil, imgmeta.CorruptError(imgmeta.IPTC, int64(start),
					"invalid extended length")
			}
			length = 0
			for _, b := range block[pos : pos+n] {
				length = length<<8 | uint64(b)
			}
			pos += n
		}

		if uint64(pos)+length > uint64(len(block)) {
			return nil, imgmeta.CorruptError(imgmeta.IPTC, int64(start),
				fmt.Sprintf("%s: data extends past end of input", k))
		}
		body := block[pos : pos+int(length)]
		pos += int(length)

		data.Append(k, decodeValue(k, body))
	}

	return data, nil
}

func allZero(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}

// decodeValue converts the data of a dataset into a value.  If the data
// cannot be represented exactly by the value type of the dataset,
// the data is kept as binary data.
func decodeValue(k Key, body []byte) imgmeta.Value {
	info, ok := lookupDataSet(k)
	if !ok {
		return &imgmeta.Bytes{V: bytes.Clone(body)}
	}

	var v imgmeta.Value
	switch info.tp {
	case tString:
		return &imgmeta.Text{Type: tString, V: string(body)}
	case tShort:
		if len(body) == 2 {
			v = &imgmeta.Integers[uint16]{
				Type: tShort,
				V:    []uint16{binary.BigEndian.Uint16(body)},
			}
		}
	case tDate, tTime:
		x := imgmeta.NewValue(info.tp)
		if x.Read(string(body)) == nil {
			v = x
		}
	}
	if v != nil {
		if enc, err := encodeValue(v); err == nil && bytes.Equal(enc, body) {
			return v
		}
	}
	return &imgmeta.Bytes{V: bytes.Clone(body)}
}

func encodeValue(v imgmeta.Value) ([]byte, error) {
	switch v := v.(type) {
	case *imgmeta.Bytes:
		return v.V, nil
	case *imgmeta.Integers[uint16]:
		res := make([]byte, 2*len(v.V))
		for i, x := range v.V {
			binary.BigEndian.PutUint16(res[2*i:], x)
		}
		return res, nil
	case *imgmeta.DateValue:
		if v.Year < 0 || v.Year > 9999 {
			return nil, errInvalidDate
		}
		return fmt.Appendf(nil, "%04d%02d%02d", v.Year, v.Month, v.Day), nil
	case *imgmeta.TimeValue:
		sign := byte('+')
		off := v.Offset
		if off < 0 {
			sign = '-'
			off = -off
		}
		return fmt.Appendf(nil, "%02d%02d%02d%c%02d%02d",
			v.Hour, v.Minute, v.Second, sign, off/60, off%60), nil
	default:
		return []byte(v.String()), nil
	}
}

var errInvalidDate = errors.New("date out of range")

// Encode writes the datasets in container order.  Datasets of the
// envelope record are written before datasets of the application record.
func Encode(data *Data) ([]byte, error) {
	entries := data.Entries()
	slices.SortStableFunc(entries, func(a, b imgmeta.Entry[Key]) int {
		return cmp.Compare(a.Key.Record, b.Key.Record)
	})

	var buf []byte
	for _, e := range entries {
		body, err := encodeValue(e.Value)
		if err != nil {
			return nil, imgmeta.KeyError(imgmeta.ErrValueParse, imgmeta.IPTC, e.Key.String(), err.Error())
		}
		buf = append(buf, marker, e.Key.Record, e.Key.DataSet)
		switch {
		case len(body) < 0x8000:
			buf = binary.BigEndian.AppendUint16(buf, uint16(len(body)))
		case uint64(len(body)) <= math.MaxUint32:
			buf = binary.BigEndian.AppendUint16(buf, 0x8004)
			buf = binary.BigEndian.AppendUint32(buf, uint32(len(body)))
		default:
			return nil, fmt.Errorf("%s: dataset too large", e.Key)
		}
		buf = append(buf, body...)
	}
	return buf, nil
}
