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

// Package instance implements the value-level conjunction object: an
// immutable mapping from each member type of a key to exactly one value.
// All derivation operations (merge, projection, difference) return new
// instances and never mutate the receiver.
package instance

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"dirpx.dev/conjx/apis"
	"dirpx.dev/conjx/cxapi/overlap"
	cerrors "dirpx.dev/conjx/errors"
	"dirpx.dev/conjx/typekey"
)

// Item is one explicitly typed member slot: the member type and the value
// occupying it. Value must be assignable to Type.
type Item struct {
	Type  reflect.Type
	Value any
}

// Instance is the concrete conjunction value. Instances are immutable
// after construction; all methods are safe for concurrent use.
type Instance struct {
	desc apis.Descriptor
	reg  apis.Registry
	res  apis.Resolver
	cfg  apis.Config
	key  typekey.Key
	data map[reflect.Type]any

	hashOnce sync.Once
	hash     uint64
}

// Ensure Instance implements apis.Instance.
var _ apis.Instance = (*Instance)(nil)

// New constructs an instance from positional values. Member types are
// inferred through res; each value occupies the slot of its inferred type.
//
// A value implementing apis.Instance is spliced: its member slots are
// merged in with right precedence over slots accumulated so far, subject
// to the configured overlap policy. Two directly supplied values resolving
// to the same member type are a construction error.
func New(reg apis.Registry, res apis.Resolver, cfg apis.Config, values ...any) (*Instance, error) {
	b := newBuilder(reg, res, cfg)
	for _, v := range values {
		if err := b.addValue(v); err != nil {
			return nil, err
		}
	}
	return b.finish(nil)
}

// NewFor is like New but validates the result against desc: the inferred
// key must equal desc's key exactly, otherwise a *errors.KeyMismatchError
// is returned. The returned instance is bound to desc.
func NewFor(desc apis.Descriptor, reg apis.Registry, res apis.Resolver, cfg apis.Config, values ...any) (*Instance, error) {
	if desc == nil {
		return nil, &cerrors.TypeExprError{Reason: "nil descriptor"}
	}
	b := newBuilder(reg, res, cfg)
	for _, v := range values {
		if err := b.addValue(v); err != nil {
			return nil, err
		}
	}
	if !b.keyEquals(desc.Key()) {
		return nil, &cerrors.KeyMismatchError{
			Want: desc.Key().String(),
			Got:  b.keyString(),
		}
	}
	return b.finish(desc)
}

// FromItems constructs an instance from explicitly typed slots. Each value
// must be assignable to its declared member type; nil values are accepted
// only for member types that can hold nil. Duplicate member types are a
// construction error.
func FromItems(reg apis.Registry, res apis.Resolver, cfg apis.Config, items ...Item) (*Instance, error) {
	b := newBuilder(reg, res, cfg)
	for _, it := range items {
		if err := b.addItem(it); err != nil {
			return nil, err
		}
	}
	return b.finish(nil)
}

// Descriptor returns the canonical descriptor of the instance's type.
func (i *Instance) Descriptor() apis.Descriptor {
	return i.desc
}

// Key returns the instance's canonical key.
func (i *Instance) Key() apis.Key {
	return i.key
}

// Len returns the number of member slots.
func (i *Instance) Len() int {
	return i.key.Len()
}

// Types returns the member types in canonical order.
func (i *Instance) Types() []reflect.Type {
	return i.key.Types()
}

// Items returns the member slots in canonical order.
func (i *Instance) Items() []Item {
	ts := i.key.Types()
	out := make([]Item, len(ts))
	for n, t := range ts {
		out[n] = Item{Type: t, Value: i.data[t]}
	}
	return out
}

// ValueOf returns the value stored for member type t, if present.
func (i *Instance) ValueOf(t reflect.Type) (any, bool) {
	v, ok := i.data[t]
	return v, ok
}

// Get returns the value stored for member type t, or a
// *errors.MissingTypeError when t is not a member.
func (i *Instance) Get(t reflect.Type) (any, error) {
	v, ok := i.data[t]
	if !ok {
		return nil, &cerrors.MissingTypeError{Type: t}
	}
	return v, nil
}

// GetAll returns the values stored for the given member types, in the
// order requested. Any absent type yields a *errors.MissingTypeError.
func (i *Instance) GetAll(ts ...reflect.Type) ([]any, error) {
	out := make([]any, len(ts))
	for n, t := range ts {
		v, ok := i.data[t]
		if !ok {
			return nil, &cerrors.MissingTypeError{Type: t}
		}
		out[n] = v
	}
	return out, nil
}

// Is reports whether the instance's key is exactly the key the given
// type expressions normalize to. The containment form of the predicate
// is on the descriptor side, see apis.Descriptor.MatchesSubset.
func (i *Instance) Is(exprs ...any) (bool, error) {
	k, err := typekey.New(i.cfg, exprs...)
	if err != nil {
		return false, err
	}
	return i.key.Equal(k), nil
}

// Project returns a new instance restricted to the member types named by
// exprs (any normalizable type expression). Every requested type must be
// present; an absent one yields a *errors.MissingTypeError. Projecting an
// instance onto its own key returns an equal instance.
func (i *Instance) Project(exprs ...any) (*Instance, error) {
	want, err := typekey.New(i.cfg, exprs...)
	if err != nil {
		return nil, err
	}
	b := newBuilder(i.reg, i.res, i.cfg)
	for _, t := range want.Types() {
		v, ok := i.data[t]
		if !ok {
			return nil, &cerrors.MissingTypeError{Type: t}
		}
		if err := b.addItem(Item{Type: t, Value: v}); err != nil {
			return nil, err
		}
	}
	return b.finish(nil)
}

// Merge combines the receiver with others left to right. Colliding member
// types are resolved by right precedence: the rightmost operand's value
// wins. Collisions are reported per the overlap policy but are never
// errors. The receiver is unchanged.
func (i *Instance) Merge(others ...apis.Instance) (*Instance, error) {
	b := newBuilder(i.reg, i.res, i.cfg)
	b.splice(i)
	for _, o := range others {
		if o == nil {
			return nil, &cerrors.TypeExprError{Reason: "nil instance operand"}
		}
		b.splice(o)
	}
	return b.finish(nil)
}

// With returns a new instance where each value occupies the slot of its
// inferred type, replacing the receiver's value for that slot if present.
// Replacement follows merge semantics (right precedence, overlap policy).
func (i *Instance) With(values ...any) (*Instance, error) {
	b := newBuilder(i.reg, i.res, i.cfg)
	b.splice(i)
	for _, v := range values {
		t, err := i.res.TypeFor(v, i.cfg)
		if err != nil {
			return nil, err
		}
		b.put(Item{Type: t, Value: v})
	}
	return b.finish(nil)
}

// Difference returns a new instance with the member types named by exprs
// removed. Types absent from the receiver are ignored; the result may be
// the empty instance.
func (i *Instance) Difference(exprs ...any) (*Instance, error) {
	drop, err := typekey.New(i.cfg, exprs...)
	if err != nil {
		return nil, err
	}
	b := newBuilder(i.reg, i.res, i.cfg)
	for _, t := range i.key.Types() {
		if drop.Has(t) {
			continue
		}
		if err := b.addItem(Item{Type: t, Value: i.data[t]}); err != nil {
			return nil, err
		}
	}
	return b.finish(nil)
}

// Equal reports whether other has an equal key and deeply equal values in
// every slot.
func (i *Instance) Equal(other apis.Instance) bool {
	if other == nil {
		return false
	}
	if o, ok := other.(*Instance); ok && o == i {
		return true
	}
	if !i.key.Equal(other.Key()) {
		return false
	}
	for t, v := range i.data {
		ov, ok := other.ValueOf(t)
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// String renders the members in canonical order, e.g.
// "Conjunction(int=42, string=alice)". The empty instance renders as
// "Conjunction()".
func (i *Instance) String() string {
	ts := i.key.Types()
	parts := make([]string, len(ts))
	for n, t := range ts {
		parts[n] = fmt.Sprintf("%s=%v", typekey.DisplayName(t), i.data[t])
	}
	sort.Strings(parts)
	return "Conjunction(" + strings.Join(parts, ", ") + ")"
}

// As extracts the member value of type T from i, or a
// *errors.MissingTypeError when T is not a member.
func As[T any](i *Instance) (T, error) {
	var zero T
	v, ok := i.ValueOf(reflect.TypeFor[T]())
	if !ok {
		return zero, &cerrors.MissingTypeError{Type: reflect.TypeFor[T]()}
	}
	return v.(T), nil
}

// builder accumulates member slots for one construction call, tracking
// which slots came from direct positional values so construction-time
// duplicates can be told apart from merge-style splices.
type builder struct {
	reg apis.Registry
	res apis.Resolver
	cfg apis.Config

	types  []reflect.Type
	data   map[reflect.Type]any
	direct map[reflect.Type]bool
}

func newBuilder(reg apis.Registry, res apis.Resolver, cfg apis.Config) *builder {
	return &builder{
		reg:    reg,
		res:    res,
		cfg:    cfg,
		data:   map[reflect.Type]any{},
		direct: map[reflect.Type]bool{},
	}
}

// addValue records one positional value, splicing instances.
func (b *builder) addValue(v any) error {
	if sub, ok := v.(apis.Instance); ok {
		b.splice(sub)
		return nil
	}
	t, err := b.res.TypeFor(v, b.cfg)
	if err != nil {
		return err
	}
	if b.direct[t] {
		return &cerrors.DuplicateTypeError{Type: t}
	}
	b.direct[t] = true
	b.put(Item{Type: t, Value: v})
	return nil
}

// addItem records one explicitly typed slot, validating assignability.
func (b *builder) addItem(it Item) error {
	if it.Type == nil {
		return &cerrors.TypeExprError{Reason: "item with nil member type"}
	}
	if it.Value == nil {
		if !nilable(it.Type.Kind()) {
			return &cerrors.KeyMismatchError{Want: it.Type.String(), Got: "nil"}
		}
	} else if !reflect.TypeOf(it.Value).AssignableTo(it.Type) {
		return &cerrors.KeyMismatchError{
			Want: it.Type.String(),
			Got:  reflect.TypeOf(it.Value).String(),
		}
	}
	if b.direct[it.Type] {
		return &cerrors.DuplicateTypeError{Type: it.Type}
	}
	b.direct[it.Type] = true
	b.put(it)
	return nil
}

// splice merges another instance's slots in with right precedence.
func (b *builder) splice(o apis.Instance) {
	for _, t := range o.Key().Types() {
		v, _ := o.ValueOf(t)
		b.put(Item{Type: t, Value: v})
	}
}

// put stores a slot, replacing any earlier value for the same type with
// right precedence and reporting the collision per the overlap policy.
func (b *builder) put(it Item) {
	if _, ok := b.data[it.Type]; ok {
		warnOverlap(b.cfg, it.Type)
	} else {
		b.types = append(b.types, it.Type)
	}
	b.data[it.Type] = it.Value
}

// keyEquals reports whether the accumulated slots form a key equal to k.
func (b *builder) keyEquals(k apis.Key) bool {
	if k == nil || len(b.types) != k.Len() {
		return false
	}
	for _, t := range b.types {
		if !k.Has(t) {
			return false
		}
	}
	return true
}

// keyString renders the accumulated key for error messages.
func (b *builder) keyString() string {
	k, err := typekey.FromTypes(b.types...)
	if err != nil {
		return "<invalid key>"
	}
	return k.String()
}

// finish freezes the accumulated slots into an Instance. When desc is
// nil, the canonical descriptor is resolved through the registry;
// otherwise the instance is bound to desc. RequireHashable is enforced
// here so every construction path passes through the check.
func (b *builder) finish(desc apis.Descriptor) (*Instance, error) {
	if b.cfg.RequireHashable {
		// Judged on the stored value's dynamic type. The member type
		// alone is not enough: reflect reports interface types as
		// comparable even when the held value is not.
		for _, t := range b.types {
			v := b.data[t]
			if v == nil {
				continue
			}
			if dt := reflect.TypeOf(v); !dt.Comparable() {
				return nil, &cerrors.UnhashableTypeError{Type: dt}
			}
		}
	}
	k, err := typekey.FromTypes(b.types...)
	if err != nil {
		return nil, err
	}
	if desc == nil {
		desc, err = b.reg.Resolve(k)
		if err != nil {
			return nil, err
		}
	}
	return &Instance{
		desc: desc,
		reg:  b.reg,
		res:  b.res,
		cfg:  b.cfg,
		key:  k,
		data: b.data,
	}, nil
}

// nilable reports whether a member type of kind k can hold nil.
func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}

// warnOverlap reports a member-type collision per the overlap policy.
func warnOverlap(cfg apis.Config, t reflect.Type) {
	if cfg.Overlap != overlap.Warn || cfg.Logger == nil {
		return
	}
	cfg.Logger.Warn("member type collision resolved by right precedence",
		zap.String("type", typekey.DisplayName(t)),
	)
}
