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

// Package registry provides the canonical conjunction-type cache. It maps
// keys to descriptors with lookup-or-create semantics, holding its entries
// weakly: a descriptor stays canonical for as long as anything references
// it, and the association disappears once the collector reclaims it.
package registry

import (
	"errors"
	"runtime"
	"sync"
	"weak"

	"dirpx.dev/conjx/apis"
	"dirpx.dev/conjx/descriptor"
)

var (
	// ErrNilKey is returned when a nil key is resolved or looked up.
	ErrNilKey = errors.New("conjx: nil key")

	// ErrForeignDescriptor is returned by Adopt for descriptors that were
	// not produced by this package.
	ErrForeignDescriptor = errors.New("conjx: cannot adopt descriptor of foreign implementation")

	// ErrIdentityConflict is returned by Adopt when a live descriptor for
	// an equal key already exists and is a different object.
	ErrIdentityConflict = errors.New("conjx: live descriptor for equal key already registered")
)

// Registry is the default apis.Registry implementation.
//
// Entries are bucketed by key fingerprint. Fingerprints are designed to
// collide only for equal keys, but the registry never trusts that: every
// bucket hit is verified with true key equality before it is returned.
// Each bucket holds weak pointers; a cleanup attached to every descriptor
// sweeps its bucket after reclamation.
type Registry struct {
	cfg apis.Config

	mu      sync.Mutex
	buckets map[string][]weak.Pointer[descriptor.Desc]
}

// Ensure Registry implements apis.Registry.
var _ apis.Registry = (*Registry)(nil)

// New creates an empty registry using cfg for descriptor construction.
func New(cfg apis.Config) *Registry {
	return &Registry{
		cfg:     cfg,
		buckets: map[string][]weak.Pointer[descriptor.Desc]{},
	}
}

// Resolve returns the canonical descriptor for k, constructing and
// registering one if no live descriptor for an equal key exists.
// Concurrent calls with equal keys observe the same object.
func (r *Registry) Resolve(k apis.Key) (apis.Descriptor, error) {
	if k == nil {
		return nil, ErrNilKey
	}
	fp := k.Fingerprint()

	r.mu.Lock()
	defer r.mu.Unlock()

	if d := r.liveLocked(fp, k); d != nil {
		return d, nil
	}

	d, err := descriptor.New(r, k, r.cfg)
	if err != nil {
		return nil, err
	}
	r.insertLocked(fp, d)
	return d, nil
}

// Lookup returns the live canonical descriptor for k, if any. It never
// constructs.
func (r *Registry) Lookup(k apis.Key) (apis.Descriptor, bool) {
	if k == nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if d := r.liveLocked(k.Fingerprint(), k); d != nil {
		return d, true
	}
	return nil, false
}

// Adopt registers d under its own key, preserving its identity across
// registry rebuilds. Descriptors of foreign implementations are rejected,
// as is adoption when a different live descriptor already owns the key.
func (r *Registry) Adopt(d apis.Descriptor) error {
	if d == nil {
		return ErrNilKey
	}
	cd, ok := d.(*descriptor.Desc)
	if !ok {
		return ErrForeignDescriptor
	}
	k := cd.Key()
	fp := k.Fingerprint()

	r.mu.Lock()
	defer r.mu.Unlock()

	if live := r.liveLocked(fp, k); live != nil {
		if live == cd {
			return nil
		}
		return ErrIdentityConflict
	}
	r.insertLocked(fp, cd)
	return nil
}

// Entries returns a snapshot of the live descriptors in unspecified order.
func (r *Registry) Entries() []apis.Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []apis.Descriptor
	for _, bucket := range r.buckets {
		for _, wp := range bucket {
			if d := wp.Value(); d != nil {
				out = append(out, d)
			}
		}
	}
	return out
}

// Len returns the number of live entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, bucket := range r.buckets {
		for _, wp := range bucket {
			if wp.Value() != nil {
				n++
			}
		}
	}
	return n
}

// Purge drops associations whose descriptors have been reclaimed and
// returns the number removed. The attached cleanups do this incrementally;
// Purge is the eager variant for tests and memory-pressure handling.
func (r *Registry) Purge() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for fp, bucket := range r.buckets {
		kept := bucket[:0]
		for _, wp := range bucket {
			if wp.Value() != nil {
				kept = append(kept, wp)
			} else {
				removed++
			}
		}
		if len(kept) == 0 {
			delete(r.buckets, fp)
		} else {
			r.buckets[fp] = kept
		}
	}
	return removed
}

// Reset clears all associations. Descriptors referenced elsewhere remain
// valid but lose canonical identity with future Resolve calls.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buckets = map[string][]weak.Pointer[descriptor.Desc]{}
}

// liveLocked scans fp's bucket for a live descriptor whose key equals k.
// Callers must hold r.mu.
func (r *Registry) liveLocked(fp string, k apis.Key) *descriptor.Desc {
	for _, wp := range r.buckets[fp] {
		if d := wp.Value(); d != nil && d.Key().Equal(k) {
			return d
		}
	}
	return nil
}

// insertLocked registers d in fp's bucket and attaches the reclamation
// cleanup. Callers must hold r.mu.
func (r *Registry) insertLocked(fp string, d *descriptor.Desc) {
	r.buckets[fp] = append(r.buckets[fp], weak.Make(d))
	runtime.AddCleanup(d, r.sweep, fp)
}

// sweep removes reclaimed entries from fp's bucket. Runs on the cleanup
// goroutine after a descriptor registered under fp is collected.
func (r *Registry) sweep(fp string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket, ok := r.buckets[fp]
	if !ok {
		return
	}
	kept := bucket[:0]
	for _, wp := range bucket {
		if wp.Value() != nil {
			kept = append(kept, wp)
		}
	}
	if len(kept) == 0 {
		delete(r.buckets, fp)
		return
	}
	r.buckets[fp] = kept
}
