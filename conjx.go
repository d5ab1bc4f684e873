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

package conjx

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/conjx/apis"
	"dirpx.dev/conjx/builder"
	"dirpx.dev/conjx/config"
	"dirpx.dev/conjx/instance"
	"dirpx.dev/conjx/ndjson"
	"dirpx.dev/conjx/typekey"
)

// init initializes the global conjx state.
func init() {
	// Initialize state with default cfg, reg, and res.
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.reg = b.BuildRegistry(s.cfg, nil, nil)
	s.res = b.BuildResolver(s.cfg, s.reg, nil, nil)
	s.bld = b
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("conjx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("conjx: builder returned nil resolver")
)

// Type resolves the canonical descriptor for the conjunction of exprs
// using the global conjx reg. Each operand may be a reflect.Type, a key,
// a descriptor, an instance, or a (nested) group of those.
// This is a convenience wrapper around the global reg.
func Type(exprs ...any) (apis.Descriptor, error) {
	s := st.Load()
	k, err := typekey.New(s.cfg, exprs...)
	if err != nil {
		return nil, err
	}
	return s.reg.Resolve(k)
}

// MustType is like Type but panics on error. Intended for hard-coded type
// expressions in initialization code.
func MustType(exprs ...any) apis.Descriptor {
	d, err := Type(exprs...)
	if err != nil {
		panic(err)
	}
	return d
}

// KeyOf normalizes exprs into a canonical key using the global conjx
// configuration, without resolving a descriptor.
func KeyOf(exprs ...any) (apis.Key, error) {
	return typekey.New(st.Load().cfg, exprs...)
}

// New constructs a conjunction instance from positional values using the
// global conjx res and reg. Member types are inferred per value; values
// implementing apis.Instance are spliced with right precedence.
// This is a convenience wrapper around the global state.
func New(values ...any) (*instance.Instance, error) {
	s := st.Load()
	return instance.New(s.reg, s.res, s.cfg, values...)
}

// Must is like New but panics on error.
func Must(values ...any) *instance.Instance {
	i, err := New(values...)
	if err != nil {
		panic(err)
	}
	return i
}

// NewAs constructs an instance validated against d: the values' inferred
// key must equal d's key exactly.
// This is a convenience wrapper around the global state.
func NewAs(d apis.Descriptor, values ...any) (*instance.Instance, error) {
	s := st.Load()
	return instance.NewFor(d, s.reg, s.res, s.cfg, values...)
}

// FromItems constructs an instance from explicitly typed member slots
// using the global conjx state.
func FromItems(items ...instance.Item) (*instance.Instance, error) {
	s := st.Load()
	return instance.FromItems(s.reg, s.res, s.cfg, items...)
}

// As extracts the member value of type T from i.
func As[T any](i *instance.Instance) (T, error) {
	return instance.As[T](i)
}

// Matches reports whether i is exactly an instance of the conjunction of
// exprs (key equality).
func Matches(i apis.Instance, exprs ...any) (bool, error) {
	d, err := Type(exprs...)
	if err != nil {
		return false, err
	}
	return d.Matches(i), nil
}

// MatchesSubset reports whether i carries at least the members of the
// conjunction of exprs (subset check).
func MatchesSubset(i apis.Instance, exprs ...any) (bool, error) {
	d, err := Type(exprs...)
	if err != nil {
		return false, err
	}
	return d.MatchesSubset(i), nil
}

// Is reports whether i is exactly an instance of the conjunction of
// exprs. Unlike Matches it compares keys directly, without resolving a
// descriptor through the global reg. A nil instance is never a match.
func Is(i apis.Instance, exprs ...any) (bool, error) {
	if i == nil {
		return false, nil
	}
	k, err := KeyOf(exprs...)
	if err != nil {
		return false, err
	}
	return i.Key().Equal(k), nil
}

// Register binds a stable serialization name to t in the process-wide
// ndjson type table, making t decodable by every serializer built on the
// default table.
func Register(name string, t reflect.Type) error {
	return ndjson.Default().Register(name, t)
}

// Purge drops reclaimed associations from the global conjx reg and
// returns the number removed.
// This is a convenience wrapper around the global reg.
func Purge() int {
	return st.Load().reg.Purge()
}

// SetAll explicitly sets all global conjx state components.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced.
//
// This is a convenience wrapper around the global state.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Extension
	next := ext

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg := reg
	npreg := false
	if nreg == nil {
		nreg = nbld.BuildRegistry(ncfg, old.reg, next)
	} else {
		npreg = true
	}

	// Resolver
	nres := res
	npres := false
	if nres == nil {
		nres = nbld.BuildResolver(ncfg, nreg, old.res, next)
	} else {
		npres = true
	}

	// Ensure non-nil reg and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  ncfg,
			ext:  next,
			reg:  nreg,
			res:  nres,
			bld:  nbld,
			preg: npreg,
			pres: npres,
		},
	)
}

// Config returns the global conjx configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global conjx configuration to cfg.
// It rebuilds the global reg and res using the new configuration.
// This is a convenience wrapper around the global state.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new nreg and res based on the new cfg and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(cfg, old.reg, old.ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(cfg, nreg, old.res, old.ext)
	}

	// Ensure non-nil nreg and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  cfg,
			ext:  old.ext,
			reg:  nreg,
			res:  nres,
			bld:  b,
			preg: old.preg,
			pres: old.pres,
		},
	)
}

// Registry returns the global conjx reg.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets the global conjx reg to reg.
// It uses the global conjx configuration to rebuild the global res.
// This is a convenience wrapper around the global state.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new res based on the old cfg and new reg.
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, reg, old.res, old.ext)
	}

	// Ensure non-nil res.
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  reg,
			res:  nres,
			bld:  b,
			preg: true,
			pres: old.pres,
		},
	)
}

// Resolver returns the global conjx res.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver sets the global conjx res to res.
// It uses the global conjx configuration and reg.
// This is a convenience wrapper around the global state.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			res:  res,
			bld:  old.bld,
			preg: old.preg,
			pres: true,
		},
	)
}

// Builder returns the global conjx bld.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global conjx bld to b.
// This is a convenience wrapper around the global state.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Build new reg and res based on the new bld and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, old.ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, nreg, old.res, old.ext)
	}

	// Ensure non-nil reg and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  nreg,
			res:  nres,
			bld:  b,
			preg: old.preg,
			pres: old.pres,
		},
	)
}

// SetExt replaces extension config and rebuilds non-pinned layers via the builder.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()
	b := old.bld

	// Build new reg and res based on the new ext and old state.
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, ext)
	}
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, nreg, old.res, ext)
	}

	// Ensure non-nil reg and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  ext,
			reg:  nreg,
			res:  nres,
			bld:  b,
			preg: old.preg,
			pres: old.pres,
		},
	)
}

// ExtAs returns the global conjx extension config as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned returns whether the global conjx reg is pinned (immutable).
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry makes the global conjx reg immutable.
func PinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			res:  old.res,
			bld:  old.bld,
			preg: true,
			pres: old.pres,
		},
	)
}

// UnpinRegistry makes the global conjx reg mutable again.
func UnpinRegistry() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			res:  old.res,
			bld:  old.bld,
			preg: false,
			pres: old.pres,
		},
	)
}

// IsResolverPinned returns whether the global conjx res is pinned (immutable).
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver makes the global conjx res immutable.
func PinResolver() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			res:  old.res,
			bld:  old.bld,
			preg: old.preg,
			pres: true,
		},
	)
}

// UnpinResolver makes the global conjx res mutable again.
func UnpinResolver() {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  old.cfg,
			ext:  old.ext,
			reg:  old.reg,
			res:  old.res,
			bld:  old.bld,
			preg: old.preg,
			pres: false,
		},
	)
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global conjx state.
var st atomic.Pointer[state]

// state is the global conjx state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global conjx configuration.
	cfg apis.Config
	// ext is the global conjx extension configuration.
	ext any
	// reg is the global conjx reg.
	reg apis.Registry
	// res is the global conjx res.
	res apis.Resolver
	// bld is the global conjx bld.
	bld apis.Builder
	// preg indicates whether the reg is pinned (immutable).
	preg bool
	// pres indicates whether the res is pinned (immutable).
	pres bool
}
