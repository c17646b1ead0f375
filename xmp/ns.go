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
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/imgmeta"
	"seehuhn.de/go/imgmeta/jvxml"
)

// A Registry maps XMP namespace URIs to prefixes and back.
//
// A new registry knows the namespaces used by the built-in XMP schemas.
// Registrations are never removed.  A Registry is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	nsToPrefix map[string]string
	prefixToNS map[string]string
}

// NewRegistry returns a registry which contains the default namespaces.
func NewRegistry() *Registry {
	r := &Registry{
		nsToPrefix: make(map[string]string, len(defaultPrefix)),
		prefixToNS: make(map[string]string, len(defaultPrefix)),
	}
	for ns, pfx := range defaultPrefix {
		r.nsToPrefix[ns] = pfx
		r.prefixToNS[pfx] = ns
	}
	return r
}

// Register binds the namespace URI ns to the given prefix.
//
// Registering the same mapping twice is allowed.  If either the URI or the
// prefix is already bound differently, an error wrapping
// [imgmeta.ErrConflictingRegistration] is returned and the registry is
// not changed.
func (r *Registry) Register(ns, prefix string) error {
	if ns == "" {
		return imgmeta.KeyError(imgmeta.ErrInvalidKeyFormat, imgmeta.XMP, prefix,
			"empty namespace URI")
	}
	if !isPrefix(prefix) {
		return imgmeta.KeyError(imgmeta.ErrInvalidKeyFormat, imgmeta.XMP, prefix,
			"invalid namespace prefix")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	oldPfx, nsBound := r.nsToPrefix[ns]
	oldNS, pfxBound := r.prefixToNS[prefix]
	switch {
	case nsBound && oldPfx == prefix:
		return nil
	case nsBound:
		return imgmeta.KeyError(imgmeta.ErrConflictingRegistration, imgmeta.XMP, prefix,
			fmt.Sprintf("%s is already registered with prefix %q", ns, oldPfx))
	case pfxBound:
		return imgmeta.KeyError(imgmeta.ErrConflictingRegistration, imgmeta.XMP, prefix,
			fmt.Sprintf("prefix is already used for %s", oldNS))
	}

	r.nsToPrefix[ns] = prefix
	r.prefixToNS[prefix] = ns
	return nil
}

// Resolve returns the namespace URI bound to a prefix.
func (r *Registry) Resolve(prefix string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ns, ok := r.prefixToNS[prefix]
	return ns, ok
}

// ResolveReverse returns the prefix bound to a namespace URI.
func (r *Registry) ResolveReverse(ns string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pfx, ok := r.nsToPrefix[ns]
	return pfx, ok
}

// Prefixes returns all registered prefixes, in sorted order.
func (r *Registry) Prefixes() []string {
	r.mu.RLock()
	res := maps.Keys(r.prefixToNS)
	r.mu.RUnlock()
	sort.Strings(res)
	return res
}

// prefixFor returns the prefix for ns, registering the namespace if
// needed.  New namespaces use the prefix hint if it is free, and a
// generated prefix otherwise.
func (r *Registry) prefixFor(ns, hint string) string {
	r.mu.RLock()
	pfx, ok := r.nsToPrefix[ns]
	r.mu.RUnlock()
	if ok {
		return pfx
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if pfx, ok := r.nsToPrefix[ns]; ok {
		return pfx
	}
	if isPrefix(hint) && r.prefixToNS[hint] == "" {
		pfx = hint
	} else {
		pfx = getPrefix(r.prefixToNS, ns)
	}
	r.nsToPrefix[ns] = pfx
	r.prefixToNS[pfx] = ns
	return pfx
}

// isPrefix checks whether s can be used as a namespace prefix.  Dots are
// excluded, since they separate the parts of a key.
func isPrefix(s string) bool {
	return jvxml.IsName([]byte(s)) && !strings.ContainsAny(s, ":.")
}

// getPrefix chooses a new prefix for the given namespace.
// The new prefix is chosen to be different from the ones already in the
// prefixToNS map.
func getPrefix(prefixToNS map[string]string, ns string) string {
	// Pick a name. We try to use the final element of the path
	// but fall back to "ns".
	prefix := strings.TrimRight(ns, "/#")
	if i := strings.LastIndexAny(prefix, "/#:"); i >= 0 {
		prefix = prefix[i+1:]
	}
	if !isPrefix(prefix) {
		prefix = "ns"
	}
	// Names starting with "xml", in any case, are reserved.
	if len(prefix) >= 3 && strings.EqualFold(prefix[:3], "xml") {
		prefix = "_" + prefix
	}

	if prefixToNS[prefix] != "" {
		for idx := 1; ; idx++ {
			if id := prefix + strconv.Itoa(idx); prefixToNS[id] == "" {
				prefix = id
				break
			}
		}
	}
	return prefix
}

var defaultPrefix = map[string]string{
	xmlNamespace:                                       "xml",
	RDFNamespace:                                       "rdf",
	metaNamespace:                                      "x",
	"http://purl.org/dc/elements/1.1/":                 "dc",
	"http://ns.adobe.com/xap/1.0/":                     "xmp",
	"http://ns.adobe.com/xap/1.0/mm/":                  "xmpMM",
	"http://ns.adobe.com/xap/1.0/rights/":              "xmpRights",
	"http://ns.adobe.com/xap/1.0/sType/ResourceRef#":   "stRef",
	"http://ns.adobe.com/xap/1.0/sType/ResourceEvent#": "stEvt",
	"http://ns.adobe.com/xmp/Identifier/qual/1.0/":     "xmpidq",
	"http://ns.adobe.com/photoshop/1.0/":               "photoshop",
	"http://iptc.org/std/Iptc4xmpCore/1.0/xmlns/":      "Iptc4xmpCore",
	"http://ns.adobe.com/exif/1.0/":                    "exif",
	"http://ns.adobe.com/tiff/1.0/":                    "tiff",
}

const (
	// xmlNamespace is the namespace for XML.
	xmlNamespace = "http://www.w3.org/XML/1998/namespace"

	// RDFNamespace is the namespace for RDF.
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// metaNamespace is the namespace of the x:xmpmeta wrapper element.
	metaNamespace = "adobe:ns:meta/"
)
