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

import (
	"go.uber.org/zap"

	"dirpx.dev/conjx/cxapi/overlap"
)

// Config carries read-only knobs that influence normalization, merging and
// hashing. It is passed by value and should be treated as immutable by
// implementations.
type Config struct {
	// Overlap selects how member-type collisions during merges and
	// instance splicing are reported. Collisions are always resolved by
	// right precedence; the policy only controls diagnostics.
	Overlap overlap.Policy

	// MaxFlatten limits the nesting depth of grouped type-expression
	// operands. Acts as a safety guard against pathological nesting.
	MaxFlatten int

	// RequireHashable rejects values of non-comparable types at
	// construction time. When false (the default), such values fall back
	// to a formatted-representation hash that is only as stable as their
	// printed form.
	RequireHashable bool

	// Logger receives overlap warnings when Overlap is overlap.Warn.
	// A nil Logger disables warning output regardless of policy.
	Logger *zap.Logger
}
