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
	"dirpx.dev/conjx/mint"
)

// Mint recognizes values boxed into minted member types. Minted boxes
// keep their synthesized type as the member type; placing this strategy
// before Reflect pins that down even if the reflection fallback is
// swapped out.
type Mint struct{}

// Ensure Mint implements apis.Strategy.
var _ apis.Strategy = Mint{}

// NewMint creates a Mint strategy.
func NewMint() Mint {
	return Mint{}
}

// TryType returns v's dynamic type when it is a minted type.
func (Mint) TryType(v any, _ apis.Config) (reflect.Type, bool) {
	t := reflect.TypeOf(v)
	if t == nil || !mint.IsMinted(t) {
		return nil, false
	}
	return t, true
}
