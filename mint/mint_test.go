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

package mint_test

import (
	"errors"
	"reflect"
	"testing"

	cerrors "dirpx.dev/conjx/errors"
	"dirpx.dev/conjx/mint"
	"dirpx.dev/conjx/typekey"
)

func TestNew_DistinctTypesOverSameBase(t *testing.T) {
	a, err := mint.For[int]("int_0")
	if err != nil {
		t.Fatalf("For(int_0): unexpected error: %v", err)
	}
	b, err := mint.For[int]("int_1")
	if err != nil {
		t.Fatalf("For(int_1): unexpected error: %v", err)
	}

	if a.Type() == b.Type() {
		t.Fatalf("distinct names over one base must synthesize distinct types")
	}
	if a.Base() != b.Base() || a.Base() != reflect.TypeFor[int]() {
		t.Fatalf("Base mismatch: %v vs %v", a.Base(), b.Base())
	}

	// Both slots coexist in one key.
	k, err := typekey.FromTypes(a.Type(), b.Type())
	if err != nil {
		t.Fatalf("FromTypes: unexpected error: %v", err)
	}
	if k.Len() != 2 {
		t.Fatalf("Len = %d, want 2", k.Len())
	}
}

func TestNew_IdempotentAndConflict(t *testing.T) {
	a, err := mint.For[string]("mint_test_label")
	if err != nil {
		t.Fatalf("For: unexpected error: %v", err)
	}
	again, err := mint.For[string]("mint_test_label")
	if err != nil {
		t.Fatalf("idempotent re-mint: unexpected error: %v", err)
	}
	if again != a {
		t.Fatalf("idempotent re-mint must return the established Minted")
	}

	_, err = mint.For[int]("mint_test_label")
	var nce *cerrors.NameConflictError
	if err == nil || !errors.As(err, &nce) {
		t.Fatalf("conflicting base: want *NameConflictError, got %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := mint.New("", reflect.TypeFor[int]()); err == nil {
		t.Fatalf("empty name: want error")
	}
	if _, err := mint.New("mint_test_nilbase", nil); err == nil {
		t.Fatalf("nil base: want error")
	}
}

func TestWrapUnwrap(t *testing.T) {
	m, err := mint.For[int]("mint_test_wrap")
	if err != nil {
		t.Fatalf("For: unexpected error: %v", err)
	}

	boxed, err := m.Wrap(42)
	if err != nil {
		t.Fatalf("Wrap: unexpected error: %v", err)
	}
	if reflect.TypeOf(boxed) != m.Type() {
		t.Fatalf("Wrap type = %v, want %v", reflect.TypeOf(boxed), m.Type())
	}

	v, ok := m.Unwrap(boxed)
	if !ok || v != 42 {
		t.Fatalf("Unwrap = (%v,%v), want (42,true)", v, ok)
	}
	if _, ok := m.Unwrap(42); ok {
		t.Fatalf("Unwrap of raw base value must report false")
	}

	if _, err := m.Wrap("nope"); err == nil {
		t.Fatalf("Wrap with incompatible value: want error")
	}
	if _, err := m.Wrap(nil); err == nil {
		t.Fatalf("Wrap(nil) over int base: want error")
	}
}

func TestWrap_NilOverNilableBase(t *testing.T) {
	m, err := mint.For[map[string]string]("mint_test_nilmap")
	if err != nil {
		t.Fatalf("For: unexpected error: %v", err)
	}
	boxed, err := m.Wrap(nil)
	if err != nil {
		t.Fatalf("Wrap(nil): unexpected error: %v", err)
	}
	v, ok := m.Unwrap(boxed)
	if !ok || v.(map[string]string) != nil {
		t.Fatalf("Unwrap = (%v,%v), want (nil map,true)", v, ok)
	}
}

func TestLookups(t *testing.T) {
	m, err := mint.For[float64]("mint_test_lookup")
	if err != nil {
		t.Fatalf("For: unexpected error: %v", err)
	}

	if got, ok := mint.ByName("mint_test_lookup"); !ok || got != m {
		t.Fatalf("ByName = (%v,%v), want (%v,true)", got, ok, m)
	}
	if got, ok := mint.Of(m.Type()); !ok || got != m {
		t.Fatalf("Of = (%v,%v), want (%v,true)", got, ok, m)
	}
	if name, ok := mint.NameOf(m.Type()); !ok || name != "mint_test_lookup" {
		t.Fatalf("NameOf = (%q,%v), want (mint_test_lookup,true)", name, ok)
	}
	if !mint.IsMinted(m.Type()) {
		t.Fatalf("IsMinted(minted type) = false")
	}
	if mint.IsMinted(reflect.TypeFor[float64]()) {
		t.Fatalf("IsMinted(base type) = true")
	}
	if _, ok := mint.ByName("mint_test_absent"); ok {
		t.Fatalf("ByName(absent): want miss")
	}
}

func TestUnbox(t *testing.T) {
	m, err := mint.For[int]("mint_test_unbox")
	if err != nil {
		t.Fatalf("For: unexpected error: %v", err)
	}
	if v, ok := mint.Unbox(m.MustWrap(9)); !ok || v != 9 {
		t.Fatalf("Unbox(boxed) = (%v,%v), want (9,true)", v, ok)
	}
	if v, ok := mint.Unbox("plain"); ok || v != "plain" {
		t.Fatalf("Unbox(plain) = (%v,%v), want (plain,false)", v, ok)
	}
}

func TestDisplayName(t *testing.T) {
	m, err := mint.For[int]("mint_test_display")
	if err != nil {
		t.Fatalf("For: unexpected error: %v", err)
	}
	if got := typekey.DisplayName(m.Type()); got != "mint_test_display" {
		t.Fatalf("DisplayName = %q, want %q", got, "mint_test_display")
	}
	k, _ := typekey.FromTypes(m.Type())
	if k.String() != "mint_test_display" {
		t.Fatalf("Key.String = %q, want %q", k.String(), "mint_test_display")
	}
}
