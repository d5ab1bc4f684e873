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

// Package mint synthesizes distinct named member types over a shared base
// type. Two slots of the same underlying Go type cannot coexist in one
// conjunction; minting gives each slot its own type, so "int_0" and
// "int_1" both wrapping int are distinct members.
//
// Minted types are process-global: minting the same name over the same
// base is idempotent and returns the established type, while reusing a
// name for a different base is a conflict.
package mint

import (
	"reflect"
	"sync"

	cerrors "dirpx.dev/conjx/errors"
	"dirpx.dev/conjx/typekey"
)

// Minted describes one synthesized member type. Immutable after creation.
type Minted struct {
	name string
	base reflect.Type
	typ  reflect.Type
}

var (
	mintMu sync.Mutex
	byName = map[string]*Minted{}
	byType = map[reflect.Type]*Minted{}
)

// New mints a member type called name over base. The synthesized type is a
// single-field struct whose tag carries the name, which makes each name a
// distinct reflect.Type even over the same base.
//
// Minting an established name with the same base returns the established
// Minted; with a different base it returns a *errors.NameConflictError.
func New(name string, base reflect.Type) (*Minted, error) {
	if name == "" {
		return nil, &cerrors.TypeExprError{Reason: "empty mint name"}
	}
	if base == nil {
		return nil, &cerrors.TypeExprError{Reason: "nil base type for mint " + name}
	}

	mintMu.Lock()
	defer mintMu.Unlock()

	if m, ok := byName[name]; ok {
		if m.base == base {
			return m, nil
		}
		return nil, &cerrors.NameConflictError{
			Name:     name,
			Existing: m.base.String(),
			Proposed: base.String(),
		}
	}

	typ := reflect.StructOf([]reflect.StructField{{
		Name: "Value",
		Type: base,
		Tag:  reflect.StructTag(`conjx:"mint:` + name + `"`),
	}})
	m := &Minted{name: name, base: base, typ: typ}
	byName[name] = m
	byType[typ] = m
	typekey.SetDisplayName(typ, name)
	return m, nil
}

// For mints a member type called name over T.
func For[T any](name string) (*Minted, error) {
	return New(name, reflect.TypeFor[T]())
}

// MustNew is like New but panics on error. Intended for package-level
// variable initialization.
func MustNew(name string, base reflect.Type) *Minted {
	m, err := New(name, base)
	if err != nil {
		panic(err)
	}
	return m
}

// Name returns the mint name.
func (m *Minted) Name() string {
	return m.name
}

// Base returns the underlying base type.
func (m *Minted) Base() reflect.Type {
	return m.base
}

// Type returns the synthesized member type.
func (m *Minted) Type() reflect.Type {
	return m.typ
}

// Wrap boxes v into the minted type. v must be assignable to the base
// type; a nil v is accepted when the base kind can hold nil.
func (m *Minted) Wrap(v any) (any, error) {
	box := reflect.New(m.typ).Elem()
	if v == nil {
		switch m.base.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface,
			reflect.Map, reflect.Pointer, reflect.Slice:
			return box.Interface(), nil
		default:
			return nil, &cerrors.KeyMismatchError{Want: m.base.String(), Got: "nil"}
		}
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(m.base) {
		return nil, &cerrors.KeyMismatchError{Want: m.base.String(), Got: rv.Type().String()}
	}
	box.Field(0).Set(rv)
	return box.Interface(), nil
}

// MustWrap is like Wrap but panics on error.
func (m *Minted) MustWrap(v any) any {
	w, err := m.Wrap(v)
	if err != nil {
		panic(err)
	}
	return w
}

// Unwrap extracts the base value from a minted box. It reports false when
// v is not a value of this minted type.
func (m *Minted) Unwrap(v any) (any, bool) {
	if reflect.TypeOf(v) != m.typ {
		return nil, false
	}
	return reflect.ValueOf(v).Field(0).Interface(), true
}

// ByName returns the established Minted for name, if any.
func ByName(name string) (*Minted, bool) {
	mintMu.Lock()
	defer mintMu.Unlock()
	m, ok := byName[name]
	return m, ok
}

// Of returns the Minted whose synthesized type is t, if any.
func Of(t reflect.Type) (*Minted, bool) {
	if t == nil {
		return nil, false
	}
	mintMu.Lock()
	defer mintMu.Unlock()
	m, ok := byType[t]
	return m, ok
}

// NameOf returns the mint name of t, if t is a minted type.
func NameOf(t reflect.Type) (string, bool) {
	m, ok := Of(t)
	if !ok {
		return "", false
	}
	return m.name, true
}

// IsMinted reports whether t is a minted type.
func IsMinted(t reflect.Type) bool {
	_, ok := Of(t)
	return ok
}

// Unbox returns the base value of v when v's dynamic type is minted;
// otherwise it returns v unchanged. The second result reports whether
// unboxing happened.
func Unbox(v any) (any, bool) {
	m, ok := Of(reflect.TypeOf(v))
	if !ok {
		return v, false
	}
	out, _ := m.Unwrap(v)
	return out, true
}
