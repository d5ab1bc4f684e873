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

// Package strategy provides the member-type inference strategies chained
// by the default resolver: explicit self-description first, minted types
// next, plain reflection last.
package strategy

import (
	"reflect"

	"dirpx.dev/conjx/apis"
	"dirpx.dev/conjx/cxapi/common"
)

// Typed infers the member type from values that describe it themselves
// via the common.Typed contract. This takes precedence over every other
// strategy, so a value can occupy a slot other than its dynamic type (for
// example an implementation standing in for an interface member).
type Typed struct{}

// Ensure Typed implements apis.Strategy.
var _ apis.Strategy = Typed{}

// NewTyped creates a Typed strategy.
func NewTyped() Typed {
	return Typed{}
}

// TryType returns the self-declared member type when v implements
// common.Typed and declares a non-nil type.
func (Typed) TryType(v any, _ apis.Config) (reflect.Type, bool) {
	t, ok := v.(common.Typed)
	if !ok {
		return nil, false
	}
	mt := t.MemberType()
	if mt == nil {
		return nil, false
	}
	return mt, true
}
