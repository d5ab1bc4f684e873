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

package apis

import "reflect"

// Instance is the minimal value-level contract the type layer needs: an
// immutable mapping from each member type of a key to exactly one value.
// Descriptors use it for instance checks, and the normalizer accepts it as
// a type-expression operand (splicing in its key). The full instance
// engine lives in the instance package.
type Instance interface {
	// Key returns the instance's canonical key. It always equals the key
	// of the instance's descriptor exactly.
	Key() Key
	// Len returns the number of member slots.
	Len() int
	// ValueOf returns the value stored for member type t, if present.
	ValueOf(t reflect.Type) (any, bool)
}
