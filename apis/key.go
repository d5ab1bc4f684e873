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

// Key is the canonical, order-independent set of distinct member types
// identifying a conjunction type. Two keys are equal iff their type sets
// are equal, regardless of the order types were supplied. Implementations
// must be immutable value types, safe for concurrent use.
type Key interface {
	// Types returns the member types in canonical order. The returned slice
	// is a copy; callers may not rely on any particular order beyond it
	// being stable for a given key value.
	Types() []reflect.Type
	// Has reports whether t is a member of the key.
	Has(t reflect.Type) bool
	// ContainsAll reports whether every member of other is a member of the
	// receiver (other ⊆ receiver).
	ContainsAll(other Key) bool
	// Len returns the number of member types.
	Len() int
	// Equal reports set equality with other (permutation invariant).
	Equal(other Key) bool
	// Hash returns an order-independent hash consistent with Equal.
	Hash() uint64
	// Fingerprint returns a stable textual identity used for interning.
	// Equal keys produce equal fingerprints.
	Fingerprint() string
	// String renders the key for display, e.g. "int | string".
	String() string
}
