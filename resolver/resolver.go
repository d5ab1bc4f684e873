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

// Package resolver maps member values to member types by running a chain
// of strategies in order and taking the first answer.
package resolver

import (
	"reflect"

	"dirpx.dev/conjx/apis"
	cerrors "dirpx.dev/conjx/errors"
	"dirpx.dev/conjx/strategy"
)

// Resolver is the default apis.Resolver implementation: an ordered
// strategy chain. Immutable after New; safe for concurrent use.
type Resolver struct {
	strategies []apis.Strategy
}

// Ensure Resolver implements apis.Resolver.
var _ apis.Resolver = (*Resolver)(nil)

// New creates a resolver running the given strategies in order. Nil
// strategies are skipped.
func New(strategies ...apis.Strategy) *Resolver {
	chain := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			chain = append(chain, s)
		}
	}
	return &Resolver{strategies: chain}
}

// Default creates the standard chain: self-described types first, minted
// types next, plain reflection last.
func Default() *Resolver {
	return New(strategy.NewTyped(), strategy.NewMint(), strategy.NewReflect())
}

// TypeFor returns the member type for v. When no strategy handles v (in
// particular for untyped nil), it returns a *errors.TypeExprError.
func (r *Resolver) TypeFor(v any, cfg apis.Config) (reflect.Type, error) {
	for _, s := range r.strategies {
		if t, ok := s.TryType(v, cfg); ok {
			return t, nil
		}
	}
	reason := "no strategy could determine a member type"
	if v == nil {
		reason = "nil value has no member type"
	}
	return nil, &cerrors.TypeExprError{Expr: v, Reason: reason}
}
