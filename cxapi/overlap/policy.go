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

package overlap

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	cerrors "dirpx.dev/conjx/errors"
)

// Policy controls how member-type collisions are reported when two
// conjunction operands carry a value for the same member type.
//
// # Overview
//
// Policy is a small enumerated type that describes the diagnostic behavior
// of merge-time overlaps. It never changes the outcome of a merge: the
// right-hand operand's value always wins for a shared member type,
// preserving associativity of composition. The policy only governs whether
// the collision is surfaced.
//
// The source designs of this system disagreed on overlap diagnostics (one
// variant warned, another was silent), so the behavior is a configuration
// knob rather than a fixed contract.
//
// # Values
//
//   - Silent — overlaps are resolved without any diagnostic output.
//   - Warn   — overlaps are logged through the configured logger.
//
// # Contract
//
//   - Implementations MUST resolve overlaps identically under every
//     policy; only diagnostics may differ.
//   - Policy values MUST be safe to use concurrently across goroutines
//     (they are plain integers).
//   - The mapping from known Policy values to their textual tokens MUST
//     remain stable; it is used in configuration files.
type Policy int

const (
	// Silent resolves overlapping member types without diagnostics.
	//
	// This is the default. Use it when overlap is an expected part of the
	// composition style, for example when progressively refining a
	// conjunction with With or Merge.
	Silent Policy = iota

	// Warn logs each overlapping member type through the configured
	// logger before resolving it by right precedence.
	//
	// Use it when overlaps usually indicate a programming mistake, for
	// example when assembling conjunctions from independent sources that
	// are expected to be disjoint.
	Warn
)

// String returns the canonical token for the policy.
//
// For all defined values the returned strings are:
//
//   - Silent -> "silent"
//   - Warn   -> "warn"
//
// For unknown or out-of-range values, String returns a diagnostic form
// "unknown(<n>)". This behavior is intentional and never panics, so that
// corrupted values can still be surfaced safely in logs.
func (p Policy) String() string {
	switch p {
	case Silent:
		return "silent"
	case Warn:
		return "warn"
	default:
		return "unknown(" + strconv.Itoa(int(p)) + ")"
	}
}

// Valid reports whether p is one of the defined policy values.
func (p Policy) Valid() bool {
	return p == Silent || p == Warn
}

// Parse converts a string token into the corresponding Policy value. It
// accepts the canonical tokens produced by String, case-insensitively and
// with surrounding whitespace ignored. Any other input yields a
// *errors.ParseError and the zero Policy, which callers MUST NOT rely on
// in the error case.
func Parse(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent":
		return Silent, nil
	case "warn":
		return Warn, nil
	default:
		return Silent, &cerrors.ParseError{Type: "Policy", Value: s}
	}
}

// MustParse is like Parse but panics on invalid input. It is intended for
// hard-coded configuration, tests and initialization code; callers MUST
// NOT use it on untrusted input.
func MustParse(s string) Policy {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// MarshalText implements encoding.TextMarshaler. Unknown values are
// rejected rather than serialized in their diagnostic form, so invalid
// states are never persisted.
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, &cerrors.ParseError{Type: "Policy", Value: p.String()}
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the same
// tokens as Parse. On failure the receiver is left unchanged.
func (p *Policy) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalYAML implements yaml.Marshaler using the canonical token.
func (p Policy) MarshalYAML() (any, error) {
	if !p.Valid() {
		return nil, &cerrors.ParseError{Type: "Policy", Value: p.String()}
	}
	return p.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler. It accepts the same tokens as
// Parse. On failure the receiver is left unchanged.
func (p *Policy) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}
