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

package ndjson

import (
	"reflect"
	"sync"

	cerrors "dirpx.dev/conjx/errors"
)

// Codec customizes the wire encoding of one member type's values. Both
// functions operate on JSON fragments: Encode must return a valid JSON
// value, Decode receives the slot's raw JSON bytes and returns a value
// assignable to the member type.
type Codec struct {
	Encode func(v any) ([]byte, error)
	Decode func(data []byte) (any, error)
}

// Types maps stable serialization names to member types and back, and
// carries optional per-type codecs. A serializer can only decode member
// types its table (or the mint registry) knows by name.
//
// The zero value is not usable; create tables with NewTypes, which seeds
// the names of the common builtin member types.
type Types struct {
	mu     sync.RWMutex
	byName map[string]reflect.Type
	byType map[reflect.Type]string
	codecs map[reflect.Type]Codec
}

// defaultTypes backs serializers built without an explicit table and the
// root-level registration API.
var defaultTypes = NewTypes()

// Default returns the process-wide type table.
func Default() *Types { return defaultTypes }

// NewTypes creates a type table preseeded with the builtin member types:
// int, int64, float64, string, bool, []any, map[string]any and
// map[string]string, each under its Go rendering.
func NewTypes() *Types {
	t := &Types{
		byName: map[string]reflect.Type{},
		byType: map[reflect.Type]string{},
		codecs: map[reflect.Type]Codec{},
	}
	for _, typ := range []reflect.Type{
		reflect.TypeFor[int](),
		reflect.TypeFor[int64](),
		reflect.TypeFor[float64](),
		reflect.TypeFor[string](),
		reflect.TypeFor[bool](),
		reflect.TypeFor[[]any](),
		reflect.TypeFor[map[string]any](),
		reflect.TypeFor[map[string]string](),
	} {
		t.byName[typ.String()] = typ
		t.byType[typ] = typ.String()
	}
	return t
}

// Register binds name to typ. Registration is idempotent for the same
// pair; rebinding either side produces a *errors.NameConflictError.
func (t *Types) Register(name string, typ reflect.Type) error {
	if name == "" {
		return &cerrors.TypeExprError{Reason: "empty serialization name"}
	}
	if typ == nil {
		return &cerrors.TypeExprError{Reason: "nil type for serialization name " + name}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.byName[name]; ok {
		if existing == typ {
			return nil
		}
		return &cerrors.NameConflictError{
			Name:     name,
			Existing: existing.String(),
			Proposed: typ.String(),
		}
	}
	if existingName, ok := t.byType[typ]; ok && existingName != name {
		return &cerrors.NameConflictError{
			Name:     existingName,
			Existing: typ.String(),
			Proposed: typ.String(),
		}
	}
	t.byName[name] = typ
	t.byType[typ] = name
	return nil
}

// RegisterFor binds name to T.
func RegisterFor[T any](t *Types, name string) error {
	return t.Register(name, reflect.TypeFor[T]())
}

// RegisterCodec installs a custom codec for typ, overriding the default
// encoding/json handling of its values. For minted member types the
// codec is keyed by the base type. Installing a codec is idempotent in
// the sense that later registrations replace earlier ones.
func (t *Types) RegisterCodec(typ reflect.Type, c Codec) error {
	if typ == nil {
		return &cerrors.TypeExprError{Reason: "nil type for codec"}
	}
	if c.Encode == nil || c.Decode == nil {
		return &cerrors.TypeExprError{Reason: "codec for " + typ.String() + " must carry both directions"}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.codecs[typ] = c
	return nil
}

// CodecFor returns the codec installed for typ, if any.
func (t *Types) CodecFor(typ reflect.Type) (Codec, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.codecs[typ]
	return c, ok
}

// TypeOf returns the type registered under name, if any.
func (t *Types) TypeOf(name string) (reflect.Type, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	typ, ok := t.byName[name]
	return typ, ok
}

// NameFor returns the name typ is registered under, if any.
func (t *Types) NameFor(typ reflect.Type) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	name, ok := t.byType[typ]
	return name, ok
}
