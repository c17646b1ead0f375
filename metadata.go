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
	"iter"
	"slices"
)

// Key is the key type of a metadata dialect.
// Keys are comparable values; String returns the canonical text form.
type Key interface {
	comparable
	String() string
}

// Dialect describes the keys of one metadata dialect.
type Dialect[K Key] interface {
	// Family returns the dialect family.
	Family() Family

	// ParseKey converts the text form of a key into a key.
	ParseKey(text string) (K, error)

	// DefaultType returns the value type used for new entries with key k.
	DefaultType(k K) (TypeID, error)

	// Repeatable reports whether a container may hold more than one
	// entry with key k.
	Repeatable(k K) bool
}

// Entry is one metadatum.
type Entry[K Key] struct {
	Key   K
	Value Value
}

// Metadata is an ordered collection of metadata entries of one dialect.
// Entries are kept in insertion order.  Depending on the dialect, more
// than one entry can have the same key.
//
// A Metadata object must not be modified concurrently.
type Metadata[K Key] struct {
	dialect Dialect[K]
	entries []Entry[K]
}

// New returns an empty container for the given dialect.
func New[K Key](d Dialect[K]) *Metadata[K] {
	return &Metadata[K]{dialect: d}
}

// Dialect returns the dialect of the container.
func (m *Metadata[K]) Dialect() Dialect[K] {
	return m.dialect
}

// Len returns the number of entries.
func (m *Metadata[K]) Len() int {
	return len(m.entries)
}

// Add adds a new entry at the end of the container.
//
// If the key is not repeatable and an entry with this key already exists,
// the container is left unchanged and false is returned.
func (m *Metadata[K]) Add(k K, v Value) bool {
	if !m.dialect.Repeatable(k) {
		if _, exists := m.FindFirst(k); exists {
			return false
		}
	}
	m.entries = append(m.entries, Entry[K]{Key: k, Value: v})
	return true
}

// Append adds a new entry at the end of the container, without checking
// whether the key is repeatable.  This is used by the decoders, which must
// preserve the contents of a metadata block.
func (m *Metadata[K]) Append(k K, v Value) {
	m.entries = append(m.entries, Entry[K]{Key: k, Value: v})
}

// FindFirst returns the position of the first entry with key k.
func (m *Metadata[K]) FindFirst(k K) (int, bool) {
	for i, e := range m.entries {
		if e.Key == k {
			return i, true
		}
	}
	return -1, false
}

// Get returns the value of the first entry with key k.
func (m *Metadata[K]) Get(k K) (Value, bool) {
	i, ok := m.FindFirst(k)
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// At returns the entry at position i.
func (m *Metadata[K]) At(i int) Entry[K] {
	return m.entries[i]
}

// Erase removes the entry at position i.  The positions of all later
// entries decrease by one.
//
// This takes time proportional to the number of entries after position i.
func (m *Metadata[K]) Erase(i int) {
	m.entries = slices.Delete(m.entries, i, i+1)
}

// Delete removes the first entry with key k.
// The return value indicates whether an entry was found.
func (m *Metadata[K]) Delete(k K) bool {
	i, ok := m.FindFirst(k)
	if !ok {
		return false
	}
	m.Erase(i)
	return true
}

// DeleteAll removes all entries with key k and returns the number of
// entries removed.
func (m *Metadata[K]) DeleteAll(k K) int {
	n := 0
	for {
		i, ok := m.FindFirst(k)
		if !ok {
			return n
		}
		m.Erase(i)
		n++
	}
}

// Clear removes all entries.
func (m *Metadata[K]) Clear() {
	m.entries = nil
}

// Entries returns a copy of the entries, in container order.
func (m *Metadata[K]) Entries() []Entry[K] {
	return slices.Clone(m.entries)
}

// All iterates over the entries in container order.
//
// The iteration works on a snapshot of the entries taken when the
// iteration starts.  The container can be modified inside the loop;
// such changes are not seen by the running iteration.
func (m *Metadata[K]) All() iter.Seq2[K, Value] {
	return func(yield func(K, Value) bool) {
		for _, e := range m.Entries() {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Values returns the values of all entries with key k, in container order.
func (m *Metadata[K]) Values(k K) []Value {
	var res []Value
	for _, e := range m.entries {
		if e.Key == k {
			res = append(res, e.Value)
		}
	}
	return res
}

// NewEntryValue parses the text form of a key and creates a value of the
// default type for this key from text.
func (m *Metadata[K]) NewEntryValue(key, text string) (K, Value, error) {
	var zero K
	k, err := m.dialect.ParseKey(key)
	if err != nil {
		return zero, nil, err
	}
	t, err := m.dialect.DefaultType(k)
	if err != nil {
		return zero, nil, err
	}
	v, err := ReadValue(t, text)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Key == "" {
			e.Family = m.dialect.Family()
			e.Key = k.String()
		}
		return zero, nil, err
	}
	return k, v, nil
}

// AddString adds a new entry, given the text forms of the key and the
// value.  The value has the default type of the key.
// The boolean return value has the same meaning as for [Metadata.Add].
func (m *Metadata[K]) AddString(key, text string) (bool, error) {
	k, v, err := m.NewEntryValue(key, text)
	if err != nil {
		return false, err
	}
	return m.Add(k, v), nil
}

// DeleteString removes the first entry with the given key.
func (m *Metadata[K]) DeleteString(key string) (bool, error) {
	k, err := m.dialect.ParseKey(key)
	if err != nil {
		return false, err
	}
	return m.Delete(k), nil
}

// DeleteAllString removes all entries with the given key.
func (m *Metadata[K]) DeleteAllString(key string) (int, error) {
	k, err := m.dialect.ParseKey(key)
	if err != nil {
		return 0, err
	}
	return m.DeleteAll(k), nil
}

// SetString replaces all entries with the given key by new entries,
// one for each of the given texts.  Setting no texts removes the key.
//
// If one of the texts cannot be parsed, the container is not modified.
// Like [Metadata.Append], this does not check whether the key is
// repeatable.
func (m *Metadata[K]) SetString(key string, texts ...string) error {
	k, err := m.dialect.ParseKey(key)
	if err != nil {
		return err
	}
	values := make([]Value, len(texts))
	for i, text := range texts {
		_, v, err := m.NewEntryValue(key, text)
		if err != nil {
			return err
		}
		values[i] = v
	}

	m.DeleteAll(k)
	for _, v := range values {
		m.Append(k, v)
	}
	return nil
}

// Map returns the contents of the container as a map from the key
// strings to the text forms of the values.  Values of repeated keys are
// listed in container order.
func (m *Metadata[K]) Map() map[string][]string {
	res := make(map[string][]string)
	for _, e := range m.entries {
		s := e.Key.String()
		res[s] = append(res[s], e.Value.String())
	}
	return res
}

// Strings iterates over the text forms of keys and values,
// in container order.
func (m *Metadata[K]) Strings() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for k, v := range m.All() {
			if !yield(k.String(), v.String()) {
				return
			}
		}
	}
}
