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

package common

// Described augments Named with human-oriented metadata about a member
// type.
//
// # Overview
//
// Described is a higher-level contract that extends Named with a
// human-readable description of the slot a value occupies. While Named
// focuses on a compact, canonical identifier for serialization and
// registries, Described provides context that is useful for:
//
//   - Data documentation emitted alongside NDJSON records.
//   - Debugging and introspection tools.
//   - Administrative and developer-facing UIs.
//
// The NDJSON encoder consults Described when writing the per-record type
// header: if a member value implements it, the header entry carries the
// returned description next to the type name.
//
// All methods are type-level: they describe the kind of slot, not any
// particular instance.
//
// # Contract
//
//   - All methods MUST be safe for concurrent use by multiple goroutines.
//   - All methods SHOULD be inexpensive and ideally allocation-free
//     (for example, returning string literals or precomputed values).
//   - Implementations MUST NOT perform blocking operations or I/O.
//   - Returned values SHOULD be deterministic for a given type and stable
//     for a given version of the type's schema.
//
// # Usage
//
//	type Sample struct{ V float64 }
//
//	func (Sample) TypeName() string        { return "metrics.sample" }
//	func (Sample) TypeDescription() string { return "One scrape of a gauge" }
type Described interface {
	Named

	// TypeDescription returns a short human-readable description of this
	// member type, suitable for documentation output. It MAY be empty if
	// no description is available.
	TypeDescription() string
}
