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

// Named lets a value provide the stable name its member type is recorded
// under in serialized form.
//
// # Overview
//
// The NDJSON layer writes one (type name, value) pair per member slot and
// needs names that survive across program executions. For most types the
// name comes from the serializer's type table or from the mint registry;
// Named is the per-value escape hatch that takes precedence over both.
//
// The type-level name and any instance state are orthogonal: TypeName
// describes the slot's kind (for example "metrics.sample"), never the
// particular value.
//
// # Contract
//
//   - The returned name MUST be non-empty and MUST be deterministic for a
//     given concrete type.
//   - The returned name MUST be stable across program executions as long
//     as the underlying schema does not change; it is persisted.
//   - Implementations MUST be safe for concurrent calls, SHOULD be
//     allocation-free, and MUST NOT perform blocking operations or I/O.
//   - The name SHOULD be unique within the application's serialization
//     namespace; colliding names make decoded data ambiguous.
//
// # Usage
//
//	type Sample struct{ V float64 }
//
//	func (Sample) TypeName() string { return "metrics.sample" }
//
// A decoder must still know how to map "metrics.sample" back to the Go
// type, so types used with Named are normally also registered in the
// serializer's type table under the same name.
type Named interface {
	// TypeName returns the stable serialization name for this value's
	// member type.
	TypeName() string
}
