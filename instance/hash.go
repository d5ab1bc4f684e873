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

package instance

import (
	"fmt"
	"hash/maphash"
	"reflect"
)

// seed is the process-wide seed for instance hashing. Hashes are not
// stable across processes.
var seed = maphash.MakeSeed()

// Hash returns an order-independent hash over the instance's (type,
// value) pairs, computed once and cached.
//
// Values whose dynamic type is comparable hash via the runtime's native
// hashing, so equal comparable values always hash equally. Other values
// fall back to hashing their formatted representation, which is
// consistent for deeply equal values of the common container shapes
// (fmt renders map entries in sorted key order) but not guaranteed for
// types whose representation hides state. The dispatch is on the stored
// value's dynamic type, not the member type: an interface member slot
// can hold a non-comparable value.
func (i *Instance) Hash() uint64 {
	i.hashOnce.Do(func() {
		var h uint64
		for t, v := range i.data {
			th := maphash.Comparable(seed, t)
			vh := valueHash(v)
			h ^= maphash.Comparable(seed, [2]uint64{th, vh})
		}
		i.hash = h
	})
	return i.hash
}

// valueHash hashes one member value.
func valueHash(v any) uint64 {
	if v == nil {
		return maphash.String(seed, "<nil>")
	}
	if reflect.TypeOf(v).Comparable() {
		return maphash.Comparable(seed, v)
	}
	return maphash.String(seed, fmt.Sprintf("%#v", v))
}
