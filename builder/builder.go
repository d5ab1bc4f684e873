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

// Package builder assembles the registry and resolver for a configuration
// snapshot, carrying live descriptors across rebuilds so canonical
// identity survives configuration changes.
package builder

import (
	"dirpx.dev/conjx/apis"
	"dirpx.dev/conjx/registry"
	"dirpx.dev/conjx/resolver"
)

// Default is the standard apis.Builder implementation.
type Default struct{}

// Ensure Default implements apis.Builder.
var _ apis.Builder = Default{}

// New creates the default builder.
func New() Default {
	return Default{}
}

// BuildRegistry creates a registry for cfg. Live descriptors of the
// previous registry are adopted into the new one, so keys resolved before
// a rebuild keep resolving to the same objects afterwards. Adoption
// conflicts are skipped; the previous entry's identity wins.
func (Default) BuildRegistry(cfg apis.Config, prev apis.Registry, ext any) apis.Registry {
	reg := registry.New(cfg)
	if prev != nil {
		for _, d := range prev.Entries() {
			_ = reg.Adopt(d)
		}
	}
	return reg
}

// BuildResolver returns the resolver for cfg: a custom resolver installed
// by the caller is kept, otherwise the default strategy chain is built.
func (Default) BuildResolver(cfg apis.Config, reg apis.Registry, prev apis.Resolver, ext any) apis.Resolver {
	if prev != nil {
		return prev
	}
	return resolver.Default()
}
