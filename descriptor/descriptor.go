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

// Package descriptor implements the type-level conjunction object. A
// descriptor pairs a canonical key with the registry that minted it, so
// set-algebra results resolve back to canonical objects.
package descriptor

import (
	"reflect"

	"dirpx.dev/conjx/apis"
	cerrors "dirpx.dev/conjx/errors"
	"dirpx.dev/conjx/typekey"
)

// Desc is the concrete descriptor. Descriptors are immutable after New;
// all methods are safe for concurrent use.
//
// Desc must only be created by a registry; constructing one directly
// bypasses canonical identity.
type Desc struct {
	reg  apis.Registry
	cfg  apis.Config
	key  apis.Key
	name string
	hash uint64
}

// Ensure Desc implements apis.Descriptor.
var _ apis.Descriptor = (*Desc)(nil)

// New builds a descriptor for key, bound to the registry that will resolve
// derived keys. Intended for registry implementations only.
func New(reg apis.Registry, key apis.Key, cfg apis.Config) (*Desc, error) {
	if key == nil {
		return nil, &cerrors.TypeExprError{Reason: "nil key"}
	}
	name := "Conjunction"
	if key.Len() > 0 {
		name = "Conjunction[" + key.String() + "]"
	}
	return &Desc{
		reg:  reg,
		cfg:  cfg,
		key:  key,
		name: name,
		hash: key.Hash(),
	}, nil
}

// Key returns the descriptor's canonical key.
func (d *Desc) Key() apis.Key {
	return d.key
}

// Name returns the display name, e.g. "Conjunction[int | string]". The
// open descriptor is named "Conjunction".
func (d *Desc) Name() string {
	return d.name
}

// Members returns the member types in the key's canonical order.
func (d *Desc) Members() []reflect.Type {
	return d.key.Types()
}

// Len returns the number of member types.
func (d *Desc) Len() int {
	return d.key.Len()
}

// ContainsType reports whether t is one of the member types.
func (d *Desc) ContainsType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	return d.key.Has(t)
}

// ContainsKey reports whether k is a subset of the descriptor's key.
func (d *Desc) ContainsKey(k apis.Key) bool {
	if k == nil {
		return false
	}
	return d.key.ContainsAll(k)
}

// SubsetOf reports whether the descriptor's key is a subset of other's
// key. Every descriptor is a subset of itself; the open descriptor is a
// subset of every descriptor.
func (d *Desc) SubsetOf(other apis.Descriptor) bool {
	if other == nil {
		return false
	}
	return other.Key().ContainsAll(d.key)
}

// Union resolves the conjunction of the receiver's members and exprs
// through the originating registry. Unioning with a subset of the
// receiver's members returns the receiver's canonical equal.
func (d *Desc) Union(exprs ...any) (apis.Descriptor, error) {
	operands := make([]any, 0, len(exprs)+1)
	operands = append(operands, d.key)
	operands = append(operands, exprs...)
	k, err := typekey.New(d.cfg, operands...)
	if err != nil {
		return nil, err
	}
	return d.reg.Resolve(k)
}

// Matches reports whether i's key equals the descriptor's key exactly.
// The open descriptor matches any non-nil instance.
func (d *Desc) Matches(i apis.Instance) bool {
	if i == nil {
		return false
	}
	if d.key.Len() == 0 {
		return true
	}
	return d.key.Equal(i.Key())
}

// MatchesSubset reports whether the descriptor's key is a subset of i's
// key, i.e. i carries at least the descriptor's members.
func (d *Desc) MatchesSubset(i apis.Instance) bool {
	if i == nil {
		return false
	}
	return i.Key().ContainsAll(d.key)
}

// Equal reports key equality with other, regardless of member order or
// originating registry.
func (d *Desc) Equal(other apis.Descriptor) bool {
	if other == nil {
		return false
	}
	if o, ok := other.(*Desc); ok && o == d {
		return true
	}
	return d.key.Equal(other.Key())
}

// Hash returns the key's order-independent hash.
func (d *Desc) Hash() uint64 {
	return d.hash
}

// String returns the display name.
func (d *Desc) String() string {
	return d.name
}
