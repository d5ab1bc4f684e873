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

package resolver_test

import (
	"errors"
	"reflect"
	"testing"

	"dirpx.dev/conjx/apis"
	"dirpx.dev/conjx/config"
	cerrors "dirpx.dev/conjx/errors"
	"dirpx.dev/conjx/mint"
	"dirpx.dev/conjx/resolver"
	"dirpx.dev/conjx/strategy"
)

// asError occupies the error slot regardless of its concrete type.
type asError struct{}

func (asError) Error() string            { return "asError" }
func (asError) MemberType() reflect.Type { return reflect.TypeFor[error]() }

func TestDefaultChainOrder(t *testing.T) {
	cfg := config.DefaultConfig()
	res := resolver.Default()

	// Self-description wins over reflection.
	if got, err := res.TypeFor(asError{}, cfg); err != nil || got != reflect.TypeFor[error]() {
		t.Fatalf("TypeFor(asError) = (%v,%v), want (error,nil)", got, err)
	}

	// Minted boxes keep their synthesized type.
	m, err := mint.For[int]("resolver_test_score")
	if err != nil {
		t.Fatalf("mint.For: unexpected error: %v", err)
	}
	if got, err := res.TypeFor(m.MustWrap(3), cfg); err != nil || got != m.Type() {
		t.Fatalf("TypeFor(boxed) = (%v,%v), want (%v,nil)", got, err, m.Type())
	}

	// Everything else falls back to the dynamic type.
	if got, err := res.TypeFor(42, cfg); err != nil || got != reflect.TypeFor[int]() {
		t.Fatalf("TypeFor(42) = (%v,%v), want (int,nil)", got, err)
	}
}

func TestNilValue(t *testing.T) {
	cfg := config.DefaultConfig()
	res := resolver.Default()

	_, err := res.TypeFor(nil, cfg)
	var te *cerrors.TypeExprError
	if err == nil || !errors.As(err, &te) {
		t.Fatalf("TypeFor(nil): want *TypeExprError, got %v", err)
	}
}

func TestEmptyChain(t *testing.T) {
	cfg := config.DefaultConfig()
	res := resolver.New()

	if _, err := res.TypeFor(42, cfg); err == nil {
		t.Fatalf("empty chain must not handle any value")
	}
}

func TestNilStrategiesSkipped(t *testing.T) {
	cfg := config.DefaultConfig()
	res := resolver.New(nil, strategy.NewReflect(), nil)

	if got, err := res.TypeFor("x", cfg); err != nil || got != reflect.TypeFor[string]() {
		t.Fatalf("TypeFor = (%v,%v), want (string,nil)", got, err)
	}
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.Resolver = (*resolver.Resolver)(nil)
