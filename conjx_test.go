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

package conjx_test

import (
	"reflect"
	"testing"

	"dirpx.dev/conjx"
	"dirpx.dev/conjx/builder"
	"dirpx.dev/conjx/config"
	"dirpx.dev/conjx/cxapi/overlap"
	"dirpx.dev/conjx/instance"
	"dirpx.dev/conjx/ndjson"
	"dirpx.dev/conjx/resolver"
)

var (
	intT   = reflect.TypeFor[int]()
	strT   = reflect.TypeFor[string]()
	floatT = reflect.TypeFor[float64]()
)

// resetGlobal restores the default global snapshot with nothing pinned.
func resetGlobal() {
	cfg := config.DefaultConfig()
	conjx.SetAll(&cfg, nil, nil, nil, builder.New())
}

func TestType_CanonicalIdentity(t *testing.T) {
	resetGlobal()

	a := conjx.MustType(intT, strT)
	b := conjx.MustType(strT, intT)
	if a != b {
		t.Fatalf("permuted type expressions resolved to distinct descriptors")
	}
	if a.Name() != "Conjunction[int | string]" {
		t.Fatalf("Name = %q", a.Name())
	}
}

func TestType_BadExpression(t *testing.T) {
	resetGlobal()

	if _, err := conjx.Type(42); err == nil {
		t.Fatalf("non-type operand: want error")
	}
}

func TestKeyOf(t *testing.T) {
	resetGlobal()

	k, err := conjx.KeyOf(intT, []any{strT})
	if err != nil {
		t.Fatalf("KeyOf: unexpected error: %v", err)
	}
	if k.Len() != 2 || !k.Has(intT) || !k.Has(strT) {
		t.Fatalf("KeyOf = %v", k)
	}
}

func TestNewAndChecks(t *testing.T) {
	resetGlobal()

	i, err := conjx.New(42, "alice")
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}

	if v, err := conjx.As[int](i); err != nil || v != 42 {
		t.Fatalf("As[int] = (%v,%v), want (42,nil)", v, err)
	}

	if ok, err := conjx.Matches(i, intT, strT); err != nil || !ok {
		t.Fatalf("Matches(exact) = (%v,%v), want (true,nil)", ok, err)
	}
	if ok, _ := conjx.Matches(i, intT); ok {
		t.Fatalf("Matches(partial) = true, want false")
	}
	if ok, err := conjx.MatchesSubset(i, intT); err != nil || !ok {
		t.Fatalf("MatchesSubset(partial) = (%v,%v), want (true,nil)", ok, err)
	}
	if ok, _ := conjx.MatchesSubset(i, floatT); ok {
		t.Fatalf("MatchesSubset(foreign) = true, want false")
	}

	// The instance's descriptor is the same object Type resolves.
	if i.Descriptor() != conjx.MustType(intT, strT) {
		t.Fatalf("instance descriptor not canonical")
	}
}

func TestIs(t *testing.T) {
	resetGlobal()

	i := conjx.Must(42, "alice")
	if ok, err := conjx.Is(i, strT, intT); err != nil || !ok {
		t.Fatalf("Is(exact, permuted) = (%v,%v), want (true,nil)", ok, err)
	}
	if ok, err := conjx.Is(i, intT); err != nil || ok {
		t.Fatalf("Is(partial) = (%v,%v), want (false,nil)", ok, err)
	}
	if ok, err := conjx.Is(nil, intT); err != nil || ok {
		t.Fatalf("Is(nil) = (%v,%v), want (false,nil)", ok, err)
	}
	if _, err := conjx.Is(i, 42); err == nil {
		t.Fatalf("Is with non-type operand: want error")
	}
}

func TestRegister(t *testing.T) {
	type mark struct{ N int }
	markT := reflect.TypeFor[mark]()

	if err := conjx.Register("conjx_test.mark", markT); err != nil {
		t.Fatalf("Register: unexpected error: %v", err)
	}
	// The binding lands in the process-wide table.
	if typ, ok := ndjson.Default().TypeOf("conjx_test.mark"); !ok || typ != markT {
		t.Fatalf("default table TypeOf = (%v,%v)", typ, ok)
	}
	if err := conjx.Register("conjx_test.mark", intT); err == nil {
		t.Fatalf("conflicting Register: want error")
	}
}

func TestNewAs(t *testing.T) {
	resetGlobal()

	d := conjx.MustType(intT, strT)
	i, err := conjx.NewAs(d, "alice", 42)
	if err != nil {
		t.Fatalf("NewAs: unexpected error: %v", err)
	}
	if i.Descriptor() != d {
		t.Fatalf("NewAs must bind the given descriptor")
	}
	if _, err := conjx.NewAs(d, 42); err == nil {
		t.Fatalf("NewAs with missing member: want error")
	}
}

func TestFromItems(t *testing.T) {
	resetGlobal()

	i, err := conjx.FromItems(
		instance.Item{Type: intT, Value: 1},
		instance.Item{Type: strT, Value: "x"},
	)
	if err != nil {
		t.Fatalf("FromItems: unexpected error: %v", err)
	}
	if i.Len() != 2 {
		t.Fatalf("Len = %d, want 2", i.Len())
	}
}

func TestMust_Panics(t *testing.T) {
	resetGlobal()

	defer func() {
		if recover() == nil {
			t.Fatalf("Must with duplicate members must panic")
		}
	}()
	conjx.Must(1, 2)
}

func TestSetConfig_PreservesCanonicalIdentity(t *testing.T) {
	resetGlobal()

	d := conjx.MustType(intT, strT)

	conjx.SetConfig(config.NewConfig(config.WithOverlap(overlap.Warn)))
	defer resetGlobal()

	if conjx.Config().Overlap != overlap.Warn {
		t.Fatalf("Overlap = %v, want warn", conjx.Config().Overlap)
	}
	// The rebuilt registry adopted the live descriptor.
	if got := conjx.MustType(strT, intT); got != d {
		t.Fatalf("reconfiguration lost canonical identity")
	}
}

func TestPinning(t *testing.T) {
	resetGlobal()
	defer resetGlobal()

	if conjx.IsResolverPinned() {
		t.Fatalf("resolver pinned after reset")
	}
	custom := resolver.Default()
	conjx.SetResolver(custom)
	if !conjx.IsResolverPinned() {
		t.Fatalf("SetResolver must pin")
	}
	if conjx.Resolver() != custom {
		t.Fatalf("custom resolver not installed")
	}

	// Pinned layers survive reconfiguration.
	conjx.SetConfig(config.DefaultConfig())
	if conjx.Resolver() != custom {
		t.Fatalf("pinned resolver replaced by SetConfig")
	}

	conjx.UnpinResolver()
	if conjx.IsResolverPinned() {
		t.Fatalf("UnpinResolver did not unpin")
	}

	reg := conjx.Registry()
	conjx.PinRegistry()
	if !conjx.IsRegistryPinned() {
		t.Fatalf("PinRegistry did not pin")
	}
	conjx.SetConfig(config.DefaultConfig())
	if conjx.Registry() != reg {
		t.Fatalf("pinned registry replaced by SetConfig")
	}
	conjx.UnpinRegistry()
}

func TestExt(t *testing.T) {
	resetGlobal()
	defer resetGlobal()

	type policy struct{ Strict bool }
	conjx.SetExt(policy{Strict: true})

	got, ok := conjx.ExtAs[policy]()
	if !ok || !got.Strict {
		t.Fatalf("ExtAs = (%+v,%v)", got, ok)
	}
	if _, ok := conjx.ExtAs[string](); ok {
		t.Fatalf("ExtAs with wrong type must miss")
	}
}

func TestPurge(t *testing.T) {
	resetGlobal()

	d := conjx.MustType(intT)
	if n := conjx.Purge(); n != 0 {
		t.Fatalf("Purge with live entries = %d, want 0", n)
	}
	if got := conjx.MustType(intT); got != d {
		t.Fatalf("Purge dropped a live entry")
	}
}
