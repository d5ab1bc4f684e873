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

// Registry is the canonical conjunction-type cache: it maps keys to
// descriptors with lookup-or-create semantics and identity preservation.
// While a descriptor for an equal key is still referenced anywhere,
// Resolve returns that exact object; the registry's own association is
// weak and never keeps a descriptor alive on its own.
//
// Concurrent Resolve calls for an equal key must never expose two distinct
// descriptors; construction per key is effectively exclusive.
type Registry interface {
	// Resolve returns the canonical descriptor for k, constructing and
	// registering it if no live descriptor for an equal key exists.
	Resolve(k Key) (Descriptor, error)
	// Lookup returns the live canonical descriptor for k, if any. It never
	// constructs.
	Lookup(k Key) (Descriptor, bool)
	// Adopt registers an existing descriptor under its own key, preserving
	// its identity across registry rebuilds. Implementations may reject
	// descriptors of foreign implementations.
	Adopt(d Descriptor) error
	// Entries returns a snapshot of the live descriptors (order is
	// unspecified).
	Entries() []Descriptor
	// Len returns the number of live entries.
	Len() int
	// Purge drops associations whose descriptors have been reclaimed and
	// returns the number of entries removed.
	Purge() int
	// Reset clears all associations. Live descriptors referenced elsewhere
	// remain valid but lose canonical identity with future Resolve calls.
	Reset()
}
