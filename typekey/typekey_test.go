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

package typekey_test

import (
	"errors"
	"reflect"
	"testing"

	"dirpx.dev/conjx/apis"
	"dirpx.dev/conjx/config"
	cerrors "dirpx.dev/conjx/errors"
	"dirpx.dev/conjx/typekey"
)

var (
	intT    = reflect.TypeFor[int]()
	strT    = reflect.TypeFor[string]()
	mapT    = reflect.TypeFor[map[string]string]()
	floatT  = reflect.TypeFor[float64]()
	testCfg = config.DefaultConfig()
)

func TestFromTypes_PermutationInvariance(t *testing.T) {
	a, err := typekey.FromTypes(intT, strT, mapT)
	if err != nil {
		t.Fatalf("FromTypes: unexpected error: %v", err)
	}
	b, err := typekey.FromTypes(mapT, intT, strT)
	if err != nil {
		t.Fatalf("FromTypes permuted: unexpected error: %v", err)
	}

	if !a.Equal(b) {
		t.Fatalf("Equal: %v != %v, want equal", a, b)
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("Hash: %d != %d, want equal", a.Hash(), b.Hash())
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("Fingerprint: %q != %q, want equal", a.Fingerprint(), b.Fingerprint())
	}
	if !reflect.DeepEqual(a.Types(), b.Types()) {
		t.Fatalf("Types order differs: %v vs %v", a.Types(), b.Types())
	}
}

func TestFromTypes_DuplicatesCollapse(t *testing.T) {
	k, err := typekey.FromTypes(intT, strT, intT, intT)
	if err != nil {
		t.Fatalf("FromTypes: unexpected error: %v", err)
	}
	if k.Len() != 2 {
		t.Fatalf("Len = %d, want 2", k.Len())
	}
	dedup, _ := typekey.FromTypes(intT, strT)
	if !k.Equal(dedup) {
		t.Fatalf("deduplicated key differs: %v vs %v", k, dedup)
	}
}

func TestFromTypes_NilType(t *testing.T) {
	_, err := typekey.FromTypes(intT, nil)
	var te *cerrors.TypeExprError
	if err == nil {
		t.Fatalf("expected TypeExprError, got nil")
	}
	if !errors.As(err, &te) {
		t.Fatalf("expected *TypeExprError, got %T: %v", err, err)
	}
}

func TestEmpty(t *testing.T) {
	e := typekey.Empty()
	if e.Len() != 0 {
		t.Fatalf("Len = %d, want 0", e.Len())
	}
	if e.String() != "..." {
		t.Fatalf("String = %q, want %q", e.String(), "...")
	}
	k, _ := typekey.FromTypes(intT)
	if !k.ContainsAll(e) {
		t.Fatalf("empty key must be subset of every key")
	}
	if e.ContainsAll(k) {
		t.Fatalf("non-empty key must not be subset of empty key")
	}
}

func TestNew_FlattensGroupsAndSplicesKeys(t *testing.T) {
	inner, _ := typekey.FromTypes(strT, mapT)

	k, err := typekey.New(testCfg, intT, []any{inner, []any{floatT}})
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}
	want, _ := typekey.FromTypes(intT, strT, mapT, floatT)
	if !k.Equal(want) {
		t.Fatalf("New = %v, want %v", k, want)
	}

	// Normalization is idempotent: renormalizing the result changes nothing.
	again, err := typekey.New(testCfg, k)
	if err != nil {
		t.Fatalf("New(key): unexpected error: %v", err)
	}
	if !again.Equal(k) || again.Fingerprint() != k.Fingerprint() {
		t.Fatalf("renormalized key differs: %v vs %v", again, k)
	}
}

func TestNew_TypeSlice(t *testing.T) {
	k, err := typekey.New(testCfg, []reflect.Type{intT, strT})
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}
	want, _ := typekey.FromTypes(intT, strT)
	if !k.Equal(want) {
		t.Fatalf("New = %v, want %v", k, want)
	}
}

func TestNew_DepthLimit(t *testing.T) {
	cfg := testCfg
	cfg.MaxFlatten = 2

	nested := []any{[]any{[]any{intT}}}
	if _, err := typekey.New(cfg, nested); err == nil {
		t.Fatalf("expected depth limit error, got nil")
	}

	// One level below the limit still works.
	ok := []any{[]any{intT}}
	if _, err := typekey.New(cfg, ok); err != nil {
		t.Fatalf("within limit: unexpected error: %v", err)
	}
}

func TestNew_RejectsNonTypeOperands(t *testing.T) {
	_, err := typekey.New(testCfg, intT, 42, "nope")
	if err == nil {
		t.Fatalf("expected error for non-type operands, got nil")
	}
	// Both offenders are reported, not just the first.
	var te *cerrors.TypeExprError
	if !errors.As(err, &te) {
		t.Fatalf("expected aggregated TypeExprError, got %T: %v", err, err)
	}
}

func TestUnionAndDiff(t *testing.T) {
	a, _ := typekey.FromTypes(intT, strT)
	b, _ := typekey.FromTypes(strT, mapT)

	u := a.Union(b)
	wantU, _ := typekey.FromTypes(intT, strT, mapT)
	if !u.Equal(wantU) {
		t.Fatalf("Union = %v, want %v", u, wantU)
	}

	d := u.Diff(b)
	wantD, _ := typekey.FromTypes(intT)
	if !d.Equal(wantD) {
		t.Fatalf("Diff = %v, want %v", d, wantD)
	}

	// Diff with a disjoint key is a no-op.
	if !a.Diff(typekey.MustFromTypes(floatT)).Equal(a) {
		t.Fatalf("Diff with disjoint key must not change the key")
	}
}

func TestString_SortedDisplayNames(t *testing.T) {
	k, _ := typekey.FromTypes(strT, intT)
	if k.String() != "int | string" {
		t.Fatalf("String = %q, want %q", k.String(), "int | string")
	}
}

func TestDisplayName_Registration(t *testing.T) {
	type payload struct{ V int }
	pt := reflect.TypeFor[payload]()

	typekey.SetDisplayName(pt, "payload.custom")
	defer typekey.SetDisplayName(pt, "")

	if got := typekey.DisplayName(pt); got != "payload.custom" {
		t.Fatalf("DisplayName = %q, want %q", got, "payload.custom")
	}

	typekey.SetDisplayName(pt, "")
	if got := typekey.DisplayName(pt); got != pt.String() {
		t.Fatalf("DisplayName after removal = %q, want %q", got, pt.String())
	}
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.Key = typekey.Key{}
