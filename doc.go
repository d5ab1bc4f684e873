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

// Package conjx provides a global, process-wide conjunction type system:
// immutable, type-indexed containers holding exactly one value per member
// type.
//
// A conjunction type is identified by the set of its member types, not by
// their order: Conjunction[int | string] and Conjunction[string | int] are
// the same type, resolve to the identical descriptor object, and their
// instances compare equal when the stored values do. An instance maps each
// member type to exactly one value and supports merge, projection and
// difference, each producing a new instance.
//
// # Design
//
// The core of conjx is a read-mostly global snapshot (state). The snapshot
// holds four things:
//
//   - Config: rules that control normalization and construction (how deep
//     nested type-expression groups may flatten, how member collisions
//     during merges are reported, whether non-comparable member values are
//     rejected).
//
//   - Registry: the process-wide canonical cache mapping type keys to
//     descriptors. While a descriptor for a key is referenced anywhere,
//     resolving an equal key returns that exact object; the registry holds
//     its entries weakly and never keeps a descriptor alive on its own.
//
//   - Resolver: a read-only object that answers "which member slot does
//     this value occupy?". The resolver tries multiple strategies, in
//     priority order:
//     1. If the value implements common.Typed, use v.MemberType().
//     2. If the value is boxed into a minted type, use that type.
//     3. Otherwise, fall back to the value's dynamic type via reflect.
//     Resolver is expected to be concurrency-safe for reads.
//
//   - Builder: a pluggable factory that knows how to construct Registry
//     and Resolver instances for a given Config (and optional extension
//     data). The Builder is also allowed to reuse/migrate state from
//     previous Registry/Resolver instances; the default builder adopts the
//     previous registry's live descriptors so canonical identity survives
//     reconfiguration.
//
// All of these live inside a single immutable struct called state.
// The package holds an atomic pointer to the current state. Readers load
// that pointer, use it, and never mutate it. Writers build a brand-new
// state and atomically swap it in.
//
// This means conjx lookups are lock-free on the hot path:
//
//	d, _ := conjx.Type(reflect.TypeFor[int](), reflect.TypeFor[string]())
//	i, _ := conjx.New(42, "alice")
//
// and concurrent callers always see a consistent snapshot.
//
// # Global API
//
// The package exposes three groups of operations:
//
//  1. Read helpers:
//
//     Type(exprs ...any) (apis.Descriptor, error)
//     KeyOf(exprs ...any) (apis.Key, error)
//     New(values ...any) (*instance.Instance, error)
//     NewAs(d apis.Descriptor, values ...any) (*instance.Instance, error)
//     FromItems(items ...instance.Item) (*instance.Instance, error)
//     Is / Matches / MatchesSubset
//     Register(name string, t reflect.Type) error
//     Registry() apis.Registry
//     Resolver() apis.Resolver
//
//     These are safe for concurrent use without additional locking.
//     They always read from the latest published snapshot.
//
//  2. Mutation helpers:
//
//     SetConfig(cfg apis.Config)
//     SetBuilder(b apis.Builder)
//     SetExt(ext T)
//     SetRegistry(reg apis.Registry)
//     SetResolver(res apis.Resolver)
//     UnpinRegistry()
//     UnpinResolver()
//     SetAll(...)
//
//     Each of these acquires an internal build lock, derives a new
//     snapshot (rebuilding or reusing Registry / Resolver as needed),
//     and then atomically publishes that snapshot.
//
//     Semantics in short:
//
//     - Config affects normalization and construction rules. Calling
//     SetConfig() may trigger a rebuild of Registry and/or Resolver,
//     unless they are explicitly "pinned". Rebuilt registries adopt the
//     previous registry's live descriptors, so descriptors already held
//     by callers keep their canonical identity.
//
//     - Builder controls how Registry and Resolver are constructed.
//     Swapping the Builder lets you replace resolution logic
//     (different strategies, different caching policies) at runtime.
//
//     - Ext is an opaque extension payload. It is not interpreted by
//     conjx itself. It is simply passed down to the Builder so custom
//     builders (in other binaries) can carry extra policy/state.
//
//     - SetRegistry() / SetResolver() directly overwrite the current
//     Registry / Resolver in the snapshot and "pin" them. Once a
//     layer is pinned, conjx will stop rebuilding that layer
//     automatically until you call UnpinRegistry()/UnpinResolver().
//
//     - SetAll(...) is the "hard reset" API. It lets a process replace
//     Builder, Config, Ext, Registry, Resolver in one shot. This is
//     mainly used by tests to get a clean deterministic state
//     between test cases.
//
//  3. Introspection:
//
//     ExtAs[T]() (T, bool)
//     Purge() int
//     // plus Registry().Entries(), etc.
//
//     These let callers examine the currently published snapshot for
//     debugging, metrics exposition, or documentation.
//
// # Concurrency model
//
// Reads (Type, KeyOf, New, Registry, Resolver) are wait-free at the
// snapshot level: they load the current *state atomically and never take
// locks. The Registry serializes descriptor construction internally so
// concurrent Resolve calls for an equal key observe one object.
//
// Writes (SetConfig, SetBuilder, SetExt, SetRegistry, SetResolver, etc.)
// take a short build mutex, assemble a brand-new state struct, and then
// publish it via an atomic pointer swap. This gives the calling binary
// a predictable "last write wins" behavior without forcing per-lookup
// locking.
//
// # Pinning
//
// conjx supports the concept of "pinning" a layer:
//
//   - When you call SetRegistry(reg), that exact Registry becomes the
//     process-wide registry and is considered pinned. Further calls to
//     SetConfig() will not attempt to rebuild a new Registry until you
//     explicitly UnpinRegistry().
//
//   - When you call SetResolver(res), that Resolver is pinned and will
//     not be rebuilt automatically until UnpinResolver().
//
// Pinning is there for advanced scenarios where you want full control
// over one layer while still letting other layers evolve. For example,
// you may lock a custom Resolver that maps values onto interface member
// slots but still allow Config values to change underneath it.
//
// # Usage pattern in a binary
//
// A typical component does:
//
//  1. Let conjx init with default builder/config.
//
//  2. Optionally mint named member types for slots that share a base
//     type:
//
//     score, _ := mint.For[int]("score")
//     retries, _ := mint.For[int]("retries")
//
//  3. Construct and combine instances:
//
//     ctx, _ := conjx.New(42, "alice")
//     more, _ := ctx.With(map[string]string{"k": "v"})
//
//  4. Gate handlers on conjunction types:
//
//     d := conjx.MustType(reflect.TypeFor[int](), reflect.TypeFor[string]())
//     if d.MatchesSubset(more) { ... }
//
//  5. In tests, call conjx.SetAll(...) to get deterministic snapshots
//     and to inject a mock Builder.
//
// # Scope
//
// conjx is intentionally small. It does not try to be a general DI
// container or service locator. It only solves one job:
//
//	"Given a set of member types, provide the one canonical type object
//	 for that set, and immutable instances mapping each member type to
//	 exactly one value."
//
// Everything else (lifecycle, injection, routing, persistence beyond the
// ndjson helpers) belongs to higher layers.
package conjx
