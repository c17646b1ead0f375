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
	"sync"
	"testing"

	"seehuhn.de/go/imgmeta"
)

// TestDefaultPrefix ensures that the prefixes in the defaultPrefix table are
// unique and non-empty.
func TestDefaultPrefix(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range defaultPrefix {
		if seen[p] {
			t.Errorf("prefix %q is not unique", p)
		}
		if p == "" {
			t.Errorf("prefix %q is empty", p)
		}
		seen[p] = true
	}
}

// TestModelPrefixes checks that the built-in namespace structs use the
// prefixes from the defaultPrefix table.
func TestModelPrefixes(t *testing.T) {
	for _, m := range builtinSchemas {
		info, err := getSchema(reflect.TypeOf(m))
		if err != nil {
			t.Fatal(err)
		}
		if pfx := defaultPrefix[info.ns]; pfx != info.prefix {
			t.Errorf("%s: prefix %q, want %q", info.ns, info.prefix, pfx)
		}
	}
}

func TestGetPrefix(t *testing.T) {
	m := map[string]string{
		"a": "http://ns.seehuhn.de/test/a/#",
	}
	p := getPrefix(m, "http://ns.seehuhn.de/test/b/#")
	if p != "b" {
		t.Errorf("unexpected prefix %q", p)
	}
	p = getPrefix(m, "http://ns.seehuhn.de/test/other/a/#")
	if p != "a1" {
		t.Errorf("unexpected prefix %q", p)
	}
	p = getPrefix(m, "urn:1234")
	if p != "ns" {
		t.Errorf("unexpected prefix %q", p)
	}
	p = getPrefix(m, "http://example.com/XMLstuff/")
	if p != "_XMLstuff" {
		t.Errorf("unexpected prefix %q", p)
	}
}

func TestRegister(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register("http://example.com/ns/", "ex")
	if err != nil {
		t.Fatal(err)
	}
	// registering the same mapping again is fine
	err = reg.Register("http://example.com/ns/", "ex")
	if err != nil {
		t.Fatal(err)
	}

	ns, ok := reg.Resolve("ex")
	if !ok || ns != "http://example.com/ns/" {
		t.Errorf("Resolve(ex) = %q, %t", ns, ok)
	}
	pfx, ok := reg.ResolveReverse("http://example.com/ns/")
	if !ok || pfx != "ex" {
		t.Errorf("ResolveReverse = %q, %t", pfx, ok)
	}

	k, err := ParseKey(reg, "ex:Title")
	if err != nil {
		t.Fatal(err)
	}
	if k.String() != "Xmp.ex.Title" || k.NS != "http://example.com/ns/" {
		t.Errorf("wrong key %#v", k)
	}

	_, err = ParseKey(reg, "unknownprefix:Title")
	if !errors.Is(err, imgmeta.ErrUnknownNamespace) {
		t.Errorf("expected ErrUnknownNamespace, got %v", err)
	}
}

func TestRegisterErrors(t *testing.T) {
	cases := []struct {
		desc   string
		ns     string
		prefix string
		err    error
	}{
		{"prefix in use", "http://example.com/other/", "dc", imgmeta.ErrConflictingRegistration},
		{"namespace in use", "http://purl.org/dc/elements/1.1/", "dublin", imgmeta.ErrConflictingRegistration},
		{"empty namespace", "", "ex", imgmeta.ErrInvalidKeyFormat},
		{"empty prefix", "http://example.com/", "", imgmeta.ErrInvalidKeyFormat},
		{"dot in prefix", "http://example.com/", "a.b", imgmeta.ErrInvalidKeyFormat},
		{"colon in prefix", "http://example.com/", "a:b", imgmeta.ErrInvalidKeyFormat},
	}
	for _, test := range cases {
		t.Run(test.desc, func(t *testing.T) {
			reg := NewRegistry()
			before := reg.Prefixes()
			err := reg.Register(test.ns, test.prefix)
			if !errors.Is(err, test.err) {
				t.Errorf("expected %v, got %v", test.err, err)
			}
			if after := reg.Prefixes(); !reflect.DeepEqual(before, after) {
				t.Errorf("registry changed: %q", after)
			}
		})
	}
}

func TestPrefixFor(t *testing.T) {
	reg := NewRegistry()

	// a free hint is used
	pfx := reg.prefixFor("http://example.com/a/", "foo")
	if pfx != "foo" {
		t.Errorf("got prefix %q, want foo", pfx)
	}
	// a known namespace keeps its prefix
	pfx = reg.prefixFor("http://purl.org/dc/elements/1.1/", "other")
	if pfx != "dc" {
		t.Errorf("got prefix %q, want dc", pfx)
	}
	// a hint which is already bound elsewhere is not used
	pfx = reg.prefixFor("http://example.com/dc/", "dc")
	if pfx != "dc1" {
		t.Errorf("got prefix %q, want dc1", pfx)
	}
	ns, _ := reg.Resolve("dc1")
	if ns != "http://example.com/dc/" {
		t.Errorf("dc1 resolves to %q", ns)
	}
}

func TestRegistryConcurrent(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				ns := fmt.Sprintf("http://example.com/%d/%d/", i, j)
				pfx := reg.prefixFor(ns, "ns")
				if got, _ := reg.Resolve(pfx); got != ns {
					t.Errorf("prefix %q resolves to %q, want %q", pfx, got, ns)
				}
				reg.Prefixes()
			}
		}()
	}
	wg.Wait()

	if n := len(reg.Prefixes()); n != len(defaultPrefix)+8*50 {
		t.Errorf("got %d prefixes, want %d", n, len(defaultPrefix)+8*50)
	}
}
