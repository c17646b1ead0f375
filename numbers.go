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
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Integers is an array of integers.  This is used for the TIFF types
// Byte, SByte, Short, SShort, Long, SLong and Ifd.
type Integers[T constraints.Integer] struct {
	Type TypeID
	V    []T
}

// TypeID implements the [Value] interface.
func (v *Integers[T]) TypeID() TypeID {
	return v.Type
}

// Count implements the [Value] interface.
func (v *Integers[T]) Count() int {
	return len(v.V)
}

// Read implements the [Value] interface.
func (v *Integers[T]) Read(text string) error {
	fields := strings.Fields(text)
	res := make([]T, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return parseError(v.Type, text, "")
		}
		x := T(n)
		if int64(x) != n {
			return parseError(v.Type, text, f+" out of range")
		}
		res = append(res, x)
	}
	v.V = res
	return nil
}

func (v *Integers[T]) String() string {
	parts := make([]string, len(v.V))
	for i, x := range v.V {
		parts[i] = strconv.FormatInt(int64(x), 10)
	}
	return strings.Join(parts, " ")
}

// Rational is a fraction.  The denominator may be zero.
type Rational[T int32 | uint32] struct {
	Num, Den T
}

func (r Rational[T]) String() string {
	return strconv.FormatInt(int64(r.Num), 10) + "/" + strconv.FormatInt(int64(r.Den), 10)
}

// Rationals is an array of rationals.  This is used for the TIFF types
// Rational and SRational.
type Rationals[T int32 | uint32] struct {
	Type TypeID
	V    []Rational[T]
}

// TypeID implements the [Value] interface.
func (v *Rationals[T]) TypeID() TypeID {
	return v.Type
}

// Count implements the [Value] interface.
func (v *Rationals[T]) Count() int {
	return len(v.V)
}

// Read implements the [Value] interface.
//
// Every component can be given as "num/den", as an integer, or as a decimal
// fraction.  Decimal fractions are converted exactly, and fail if the
// result cannot be represented.
func (v *Rationals[T]) Read(text string) error {
	fields := strings.Fields(text)
	res := make([]Rational[T], 0, len(fields))
	for _, f := range fields {
		r, ok := parseRational[T](f)
		if !ok {
			return parseError(v.Type, text, "invalid rational "+strconv.Quote(f))
		}
		res = append(res, r)
	}
	v.V = res
	return nil
}

func parseRational[T int32 | uint32](s string) (Rational[T], bool) {
	var zero Rational[T]
	if num, den, found := strings.Cut(s, "/"); found {
		n, ok1 := parseComponent[T](num)
		d, ok2 := parseComponent[T](den)
		if !ok1 || !ok2 {
			return zero, false
		}
		return Rational[T]{Num: n, Den: d}, true
	}

	q, ok := new(big.Rat).SetString(s)
	if !ok || !q.Num().IsInt64() || !q.Denom().IsInt64() {
		return zero, false
	}
	n, d := q.Num().Int64(), q.Denom().Int64()
	if int64(T(n)) != n || int64(T(d)) != d {
		return zero, false
	}
	return Rational[T]{Num: T(n), Den: T(d)}, true
}

func parseComponent[T int32 | uint32](s string) (T, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || int64(T(n)) != n {
		return 0, false
	}
	return T(n), true
}

func (v *Rationals[T]) String() string {
	parts := make([]string, len(v.V))
	for i, r := range v.V {
		parts[i] = r.String()
	}
	return strings.Join(parts, " ")
}

// Floats is an array of floating point numbers.  This is used for the TIFF
// types Float and Double.
type Floats[T float32 | float64] struct {
	Type TypeID
	V    []T
}

// TypeID implements the [Value] interface.
func (v *Floats[T]) TypeID() TypeID {
	return v.Type
}

// Count implements the [Value] interface.
func (v *Floats[T]) Count() int {
	return len(v.V)
}

func (v *Floats[T]) bits() int {
	var zero T
	if _, isSingle := any(zero).(float32); isSingle {
		return 32
	}
	return 64
}

// Read implements the [Value] interface.
func (v *Floats[T]) Read(text string) error {
	fields := strings.Fields(text)
	res := make([]T, 0, len(fields))
	for _, f := range fields {
		x, err := strconv.ParseFloat(f, v.bits())
		if err != nil {
			return parseError(v.Type, text, "")
		}
		res = append(res, T(x))
	}
	v.V = res
	return nil
}

func (v *Floats[T]) String() string {
	parts := make([]string, len(v.V))
	for i, x := range v.V {
		parts[i] = strconv.FormatFloat(float64(x), 'g', -1, v.bits())
	}
	return strings.Join(parts, " ")
}
