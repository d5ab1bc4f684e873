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
	"fmt"
	"reflect"

	"dirpx.dev/rxmerr"

	"dirpx.dev/conjx/apis"
	cerrors "dirpx.dev/conjx/errors"
)

// DefaultMaxFlatten bounds the nesting depth of grouped operands when the
// configuration does not set one. A value of 8 should be sufficient for
// all practical purposes.
const DefaultMaxFlatten = 8

// New normalizes a type expression into a canonical Key.
//
// The variadic operand list is the Go rendition of a union expression;
// each operand may be:
//
//   - a reflect.Type: a single member type,
//   - an apis.Key: its members are spliced in,
//   - an apis.Descriptor: its key is spliced in (flattening
//     conjunction-of-conjunction expressions),
//   - an apis.Instance: its key is spliced in,
//   - a []reflect.Type: each element is a member type,
//   - a []any: a nested group, normalized recursively up to
//     cfg.MaxFlatten levels deep.
//
// Duplicate members, including duplicates introduced by splicing, collapse
// to one entry; normalization is idempotent and set-like, never an error.
// Operands that are none of the accepted forms produce a
// *errors.TypeExprError; all offending operands are reported in one
// aggregated error (via rxmerr) rather than stopping at the first.
func New(cfg apis.Config, exprs ...any) (Key, error) {
	maxFlatten := cfg.MaxFlatten
	if maxFlatten <= 0 {
		maxFlatten = DefaultMaxFlatten
	}

	n := normalizer{b: newBuilder(), maxFlatten: maxFlatten}
	for _, expr := range exprs {
		n.walk(expr, 0)
	}
	if len(n.errs) > 0 {
		c := rxmerr.NewCollector()
		for _, err := range n.errs {
			c.Append(err)
		}
		return Key{}, c.Err()
	}
	return n.b.key(), nil
}

// normalizer walks one expression, collecting every offending operand so
// the caller sees all of them at once.
type normalizer struct {
	b          *builder
	maxFlatten int
	errs       []error
}

func (n *normalizer) fail(err error) {
	n.errs = append(n.errs, err)
}

func (n *normalizer) add(t reflect.Type) {
	if err := n.b.add(t); err != nil {
		n.fail(err)
	}
}

// walk dispatches one operand into the builder, recursing into nested
// groups.
func (n *normalizer) walk(expr any, depth int) {
	if expr == nil {
		n.fail(&cerrors.TypeExprError{Expr: expr, Reason: "nil operand"})
		return
	}

	switch v := expr.(type) {
	case reflect.Type:
		n.add(v)

	case apis.Descriptor:
		n.splice(v.Key())

	case apis.Key:
		n.splice(v)

	case apis.Instance:
		n.splice(v.Key())

	case []reflect.Type:
		for _, t := range v {
			n.add(t)
		}

	case []any:
		if depth >= n.maxFlatten {
			n.fail(&cerrors.TypeExprError{
				Expr:   expr,
				Reason: fmt.Sprintf("expression groups nested deeper than %d levels", n.maxFlatten),
			})
			return
		}
		for _, e := range v {
			n.walk(e, depth+1)
		}

	default:
		n.fail(&cerrors.TypeExprError{
			Expr:   expr,
			Reason: fmt.Sprintf("operand of type %T is not a type expression", expr),
		})
	}
}

// splice copies another key's members into the builder.
func (n *normalizer) splice(k apis.Key) {
	if k == nil {
		n.fail(&cerrors.TypeExprError{Reason: "nil key operand"})
		return
	}
	for _, t := range k.Types() {
		n.add(t)
	}
}
