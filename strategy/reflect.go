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

package strategy

import (
	"reflect"

	"dirpx.dev/conjx/apis"
)

// Reflect is the last-resort strategy: the member type is the value's
// dynamic type. It handles every non-nil value.
type Reflect struct{}

// Ensure Reflect implements apis.Strategy.
var _ apis.Strategy = Reflect{}

// NewReflect creates a Reflect strategy.
func NewReflect() Reflect {
	return Reflect{}
}

// TryType returns v's dynamic type. Untyped nil has no dynamic type and
// is not handled.
func (Reflect) TryType(v any, _ apis.Config) (reflect.Type, bool) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, false
	}
	return t, true
}
