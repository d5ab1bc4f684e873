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

import "reflect"

// Typed lets a value declare the member-type slot it occupies inside a
// conjunction.
//
// # Overview
//
// Typed is the primary, zero-reflection fast path of member-type
// inference. When a value implements Typed, the resolution chain MUST
// prefer this interface and MUST NOT attempt any further strategies (mint
// lookup, reflect fallback) for that value.
//
// Semantically, Typed is a type-level contract: MemberType describes which
// slot a value fills, not anything about the particular instance. The
// returned type is expected to be independent of instance state.
//
// The canonical use case is a wrapper that stores its payload under an
// interface or ancestor type rather than its own concrete type:
//
//	type AsReader struct{ R *bytes.Buffer }
//
//	func (AsReader) MemberType() reflect.Type {
//	    return reflect.TypeFor[io.Reader]()
//	}
//
// Without Typed, the reflect fallback would slot the wrapper under its
// concrete struct type.
//
// # Contract
//
//   - The returned type MUST be non-nil; a nil return makes the strategy
//     fall through to the next one in the chain.
//   - The returned type MUST be deterministic for a given concrete type.
//   - Implementations MUST be safe for concurrent calls and MUST NOT
//     perform blocking operations or I/O.
//   - Implementations SHOULD be constant-time; returning a precomputed
//     reflect.Type is RECOMMENDED.
type Typed interface {
	// MemberType returns the member-type slot this value occupies.
	MemberType() reflect.Type
}

// TypedFor provides generic, type-aware slot assignment for values of
// type T.
//
// # Overview
//
// TypedFor is the type-parametric counterpart of Typed. It separates the
// subject being slotted (a value of type T) from the strategy that decides
// which member slot it fills, so one slotting strategy can be reused
// across multiple payload types:
//
//	type UnderElem[T any] struct{}
//
//	func (UnderElem[T]) MemberTypeFor(v []T) reflect.Type {
//	    return reflect.TypeFor[[]T]()
//	}
//
// TypedFor is a contract for out-of-tree inference strategies; the
// built-in chain only consumes Typed.
//
// # Contract
//
//   - MemberTypeFor MUST be deterministic for a given T and MUST NOT
//     depend on mutable state of v.
//   - Implementations MUST be safe for concurrent use.
type TypedFor[T any] interface {
	// MemberTypeFor returns the member-type slot for v.
	MemberTypeFor(v T) reflect.Type
}
