/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package typekey builds and compares canonical type keys: immutable,
// order-independent sets of distinct member types. A key's identity does
// not depend on the order its types were supplied in, which is what makes
// Conjunction[A|B] and Conjunction[B|A] the same type.
package typekey

import (
	"hash/maphash"
	"reflect"
	"sort"
	"strings"

	"dirpx.dev/conjx/apis"
	cerrors "dirpx.dev/conjx/errors"
)

// seed is the process-wide hash seed for key and member hashing.
// Hashes are not stable across processes.
var seed = maphash.MakeSeed()

// Key is an immutable set of distinct member types in canonical order.
// The zero Key is the empty key (the open conjunction type).
type Key struct {
	// types holds the members sorted by token for deterministic iteration.
	types []reflect.Type
	// set provides O(1) membership checks.
	set map[reflect.Type]struct{}
	// fp is the interning fingerprint; equal keys have equal fingerprints.
	fp string
	// hash is the order-independent member hash.
	hash uint64
}

// Ensure Key implements apis.Key.
var _ apis.Key = Key{}

// Empty returns the empty key identifying the open conjunction type.
func Empty() Key {
	return Key{}
}

// FromTypes builds a key from member types. Duplicates collapse to one
// entry; a nil type yields an error.
func FromTypes(ts ...reflect.Type) (Key, error) {
	b := newBuilder()
	for _, t := range ts {
		if err := b.add(t); err != nil {
			return Key{}, err
		}
	}
	return b.key(), nil
}

// MustFromTypes is like FromTypes but panics on nil types. Intended for
// hard-coded member lists in tests and initialization code.
func MustFromTypes(ts ...reflect.Type) Key {
	k, err := FromTypes(ts...)
	if err != nil {
		panic(err)
	}
	return k
}

// token returns the interning token for a single member type. PkgPath
// disambiguates same-named types from different packages; String carries
// generic instantiation parameters, so distinct parameterizations of one
// generic type produce distinct tokens.
func token(t reflect.Type) string {
	return t.PkgPath() + "|" + t.String()
}

// Types returns the member types in canonical order. The slice is a copy.
func (k Key) Types() []reflect.Type {
	out := make([]reflect.Type, len(k.types))
	copy(out, k.types)
	return out
}

// Has reports whether t is a member of the key.
func (k Key) Has(t reflect.Type) bool {
	_, ok := k.set[t]
	return ok
}

// ContainsAll reports whether every member of other is a member of k
// (other ⊆ k). The empty key is a subset of every key.
func (k Key) ContainsAll(other apis.Key) bool {
	if other == nil {
		return false
	}
	for _, t := range other.Types() {
		if !k.Has(t) {
			return false
		}
	}
	return true
}

// Len returns the number of member types.
func (k Key) Len() int {
	return len(k.types)
}

// Equal reports set equality with other, regardless of supply order.
func (k Key) Equal(other apis.Key) bool {
	if other == nil {
		return false
	}
	if k.Len() != other.Len() {
		return false
	}
	return k.ContainsAll(other)
}

// Hash returns an order-independent hash consistent with Equal.
func (k Key) Hash() uint64 {
	return k.hash
}

// Fingerprint returns the interning token of the whole key. Equal keys
// have equal fingerprints; the converse holds for all types whose package
// path and rendered form identify them uniquely, which callers must not
// assume (the registry verifies true key equality on fingerprint hits).
func (k Key) Fingerprint() string {
	return k.fp
}

// String renders the members for display, e.g. "int | string", sorted by
// display name. The empty key renders as "...".
func (k Key) String() string {
	if len(k.types) == 0 {
		return "..."
	}
	names := make([]string, len(k.types))
	for i, t := range k.types {
		names[i] = DisplayName(t)
	}
	sort.Strings(names)
	return strings.Join(names, " | ")
}

// Union returns the set union of k and other.
func (k Key) Union(other apis.Key) Key {
	b := newBuilder()
	for _, t := range k.types {
		_ = b.add(t)
	}
	if other != nil {
		for _, t := range other.Types() {
			_ = b.add(t)
		}
	}
	return b.key()
}

// Diff returns k with all members of other removed. Members of other not
// present in k are ignored.
func (k Key) Diff(other apis.Key) Key {
	drop := map[reflect.Type]struct{}{}
	if other != nil {
		for _, t := range other.Types() {
			drop[t] = struct{}{}
		}
	}
	b := newBuilder()
	for _, t := range k.types {
		if _, ok := drop[t]; !ok {
			_ = b.add(t)
		}
	}
	return b.key()
}

// builder accumulates distinct member types and finalizes them into a Key.
type builder struct {
	types []reflect.Type
	set   map[reflect.Type]struct{}
}

func newBuilder() *builder {
	return &builder{set: map[reflect.Type]struct{}{}}
}

// add records t, collapsing duplicates. Nil types are rejected.
func (b *builder) add(t reflect.Type) error {
	if t == nil {
		return &cerrors.TypeExprError{Reason: "nil reflect.Type provided"}
	}
	if _, ok := b.set[t]; ok {
		return nil
	}
	b.set[t] = struct{}{}
	b.types = append(b.types, t)
	return nil
}

// key finalizes the builder into a canonical Key: members sorted by
// token, fingerprint joined from the sorted tokens, hash XOR-combined so
// it is order independent by construction.
func (b *builder) key() Key {
	sort.Slice(b.types, func(i, j int) bool {
		return token(b.types[i]) < token(b.types[j])
	})
	tokens := make([]string, len(b.types))
	var h uint64
	for i, t := range b.types {
		tokens[i] = token(t)
		h ^= maphash.Comparable(seed, t)
	}
	return Key{
		types: b.types,
		set:   b.set,
		fp:    strings.Join(tokens, " & "),
		hash:  h,
	}
}
