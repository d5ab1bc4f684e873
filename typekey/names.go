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

package typekey

import (
	"reflect"
	"sync"
)

// displayNames maps types to explicit display names. Synthesized types
// (such as minted wrapper structs) render unhelpfully via reflect, so
// their creators register a readable name here.
var (
	displayMu    sync.RWMutex
	displayNames = map[reflect.Type]string{}
)

// SetDisplayName registers a display name for t, used by Key.String and
// descriptor names. Registering an empty name removes the entry. The last
// registration wins; display names carry no identity semantics.
func SetDisplayName(t reflect.Type, name string) {
	if t == nil {
		return
	}
	displayMu.Lock()
	defer displayMu.Unlock()
	if name == "" {
		delete(displayNames, t)
		return
	}
	displayNames[t] = name
}

// DisplayName returns the display name for t: the registered one if any,
// otherwise reflect's rendering of the type.
func DisplayName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	displayMu.RLock()
	name, ok := displayNames[t]
	displayMu.RUnlock()
	if ok {
		return name
	}
	return t.String()
}
