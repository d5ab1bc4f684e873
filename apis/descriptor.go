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

package apis

import "reflect"

// Descriptor is the type-level object representing a conjunction type for
// one specific key. Descriptors are created exclusively by a Registry,
// which guarantees that equal keys yield the identical Descriptor object
// for as long as it is referenced anywhere (canonical identity).
//
// The membership check of the source design was a single overloaded
// operator whose meaning depended on the operand; it is deliberately split
// here into ContainsType (bare member type) and ContainsKey (subset check)
// so call sites read unambiguously.
//
// Instance checks come in two documented policies: Matches requires exact
// key equality (the isinstance-style check for a specific conjunction
// type), while MatchesSubset only requires the descriptor's key to be a
// subset of the instance's key (the issubclass-style weaker check). The
// open descriptor (empty key) matches every instance.
type Descriptor interface {
	// Key returns the descriptor's canonical key.
	Key() Key
	// Name returns the display name, e.g. "Conjunction[int | string]".
	Name() string
	// Members returns the member types; see Key.Types for ordering rules.
	Members() []reflect.Type
	// Len returns the number of member types.
	Len() int

	// ContainsType reports whether t is one of the member types.
	ContainsType(t reflect.Type) bool
	// ContainsKey reports whether k is a subset of the descriptor's key.
	ContainsKey(k Key) bool
	// SubsetOf reports whether the descriptor's key is a subset of other's
	// key (including equal keys).
	SubsetOf(other Descriptor) bool

	// Union normalizes exprs together with the receiver's key and resolves
	// the combined key through the originating registry. It is commutative,
	// associative and idempotent; unioning with a subset returns the
	// receiver's canonical equal.
	Union(exprs ...any) (Descriptor, error)

	// Matches reports whether i's key equals the descriptor's key exactly.
	// The open descriptor (empty key) matches any non-nil instance.
	Matches(i Instance) bool
	// MatchesSubset reports whether the descriptor's key is a subset of
	// i's key.
	MatchesSubset(i Instance) bool

	// Equal reports key equality with other (permutation invariant).
	Equal(other Descriptor) bool
	// Hash returns the key's hash.
	Hash() uint64
}
