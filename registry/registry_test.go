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

package registry_test

import (
	"reflect"
	"runtime"
	"testing"

	"dirpx.dev/conjx/apis"
	"dirpx.dev/conjx/config"
	"dirpx.dev/conjx/registry"
	"dirpx.dev/conjx/typekey"
)

var (
	intT = reflect.TypeFor[int]()
	strT = reflect.TypeFor[string]()
	mapT = reflect.TypeFor[map[string]string]()
)

func TestResolve_CanonicalIdentity(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	a := typekey.MustFromTypes(intT, strT)
	b := typekey.MustFromTypes(strT, intT)

	da, err := reg.Resolve(a)
	if err != nil {
		t.Fatalf("Resolve(a): unexpected error: %v", err)
	}
	db, err := reg.Resolve(b)
	if err != nil {
		t.Fatalf("Resolve(b): unexpected error: %v", err)
	}

	// Permuted but equal keys must yield the identical object.
	if da != db {
		t.Fatalf("Resolve returned distinct descriptors for equal keys: %p vs %p", da, db)
	}
	if reg.Len() != 1 {
		t.Fatalf("Len = %d, want 1", reg.Len())
	}
}

func TestResolve_DistinctKeys(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	da, _ := reg.Resolve(typekey.MustFromTypes(intT))
	db, _ := reg.Resolve(typekey.MustFromTypes(intT, strT))

	if da == db {
		t.Fatalf("distinct keys resolved to the same descriptor")
	}
	if da.Equal(db) {
		t.Fatalf("distinct keys compare equal")
	}
	if reg.Len() != 2 {
		t.Fatalf("Len = %d, want 2", reg.Len())
	}
}

func TestResolve_EmptyKey(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	d, err := reg.Resolve(typekey.Empty())
	if err != nil {
		t.Fatalf("Resolve(empty): unexpected error: %v", err)
	}
	if d.Len() != 0 {
		t.Fatalf("Len = %d, want 0", d.Len())
	}
	if d.Name() != "Conjunction" {
		t.Fatalf("Name = %q, want %q", d.Name(), "Conjunction")
	}
}

func TestResolve_NilKey(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	if _, err := reg.Resolve(nil); err != registry.ErrNilKey {
		t.Fatalf("nil key: want ErrNilKey, got %v", err)
	}
}

func TestLookup(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	k := typekey.MustFromTypes(intT, mapT)

	if _, ok := reg.Lookup(k); ok {
		t.Fatalf("Lookup before Resolve: want miss")
	}
	d, _ := reg.Resolve(k)
	got, ok := reg.Lookup(typekey.MustFromTypes(mapT, intT))
	if !ok || got != d {
		t.Fatalf("Lookup after Resolve: got (%p,%v), want (%p,true)", got, ok, d)
	}
	if _, ok := reg.Lookup(nil); ok {
		t.Fatalf("Lookup(nil): want miss")
	}
}

func TestAdopt_PreservesIdentityAcrossRegistries(t *testing.T) {
	cfg := config.DefaultConfig()
	old := registry.New(cfg)
	d, _ := old.Resolve(typekey.MustFromTypes(intT, strT))

	next := registry.New(cfg)
	if err := next.Adopt(d); err != nil {
		t.Fatalf("Adopt: unexpected error: %v", err)
	}
	// Idempotent re-adoption of the same object.
	if err := next.Adopt(d); err != nil {
		t.Fatalf("Adopt idempotent: unexpected error: %v", err)
	}

	got, err := next.Resolve(typekey.MustFromTypes(strT, intT))
	if err != nil {
		t.Fatalf("Resolve after Adopt: unexpected error: %v", err)
	}
	if got != d {
		t.Fatalf("adopted identity lost: got %p, want %p", got, d)
	}
}

func TestAdopt_Conflict(t *testing.T) {
	cfg := config.DefaultConfig()
	reg := registry.New(cfg)
	mine, _ := reg.Resolve(typekey.MustFromTypes(intT))

	other := registry.New(cfg)
	foreign, _ := other.Resolve(typekey.MustFromTypes(intT))

	err := reg.Adopt(foreign)
	if err != registry.ErrIdentityConflict {
		t.Fatalf("want ErrIdentityConflict, got %v", err)
	}
	// The established descriptor keeps winning.
	got, _ := reg.Resolve(typekey.MustFromTypes(intT))
	if got != mine {
		t.Fatalf("established identity lost after conflicting Adopt")
	}
}

func TestAdopt_Nil(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	if err := reg.Adopt(nil); err != registry.ErrNilKey {
		t.Fatalf("Adopt(nil): want ErrNilKey, got %v", err)
	}
}

func TestEntriesAndReset(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	d1, _ := reg.Resolve(typekey.MustFromTypes(intT))
	d2, _ := reg.Resolve(typekey.MustFromTypes(strT))

	entries := reg.Entries()
	if len(entries) != 2 {
		t.Fatalf("Entries len = %d, want 2", len(entries))
	}

	reg.Reset()
	if reg.Len() != 0 {
		t.Fatalf("after Reset, Len = %d, want 0", reg.Len())
	}
	// Held descriptors stay valid but lose canonical identity.
	if d1.Name() == "" || d2.Name() == "" {
		t.Fatalf("held descriptors invalid after Reset")
	}
	got, _ := reg.Resolve(d1.Key())
	if got == d1 {
		t.Fatalf("Reset must sever canonical identity")
	}
}

func TestPurge_AllLive(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	d, _ := reg.Resolve(typekey.MustFromTypes(intT))

	if n := reg.Purge(); n != 0 {
		t.Fatalf("Purge with live entries = %d, want 0", n)
	}
	if got, ok := reg.Lookup(d.Key()); !ok || got != d {
		t.Fatalf("live entry lost by Purge")
	}
}

func TestResolve_ReclaimedAfterGC(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	key := typekey.MustFromTypes(intT, strT)

	// Resolve inside a closure so no strong reference survives it.
	func() {
		d, err := reg.Resolve(key)
		if err != nil {
			t.Fatalf("Resolve: unexpected error: %v", err)
		}
		if d == nil {
			t.Fatalf("Resolve returned nil descriptor")
		}
	}()

	// Weak references are cleared once the descriptor is collected.
	for i := 0; i < 5; i++ {
		runtime.GC()
	}

	if _, ok := reg.Lookup(key); ok {
		t.Fatalf("Lookup found a descriptor with no strong references left")
	}
	// Purge drops whatever the cleanup callbacks have not swept yet.
	reg.Purge()
	if reg.Len() != 0 {
		t.Fatalf("Len after reclamation = %d, want 0", reg.Len())
	}

	// A fresh Resolve mints a new canonical descriptor.
	d, err := reg.Resolve(key)
	if err != nil {
		t.Fatalf("Resolve after reclamation: unexpected error: %v", err)
	}
	if got, ok := reg.Lookup(key); !ok || got != d {
		t.Fatalf("re-resolved descriptor not canonical")
	}
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.Registry = registry.New(config.DefaultConfig())
