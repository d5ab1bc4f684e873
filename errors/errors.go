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

// Package errors provides reusable error types for the conjx type algebra.
//
// This package defines the common error values produced when normalizing
// type expressions, constructing conjunction instances, extracting member
// values, and parsing enum-like configuration tokens. By centralizing these
// types, the package gives the whole conjx surface one consistent error
// handling story.
//
// The errors in this package are intentionally simple value carriers with
// stable message formats. They are designed to be:
//
//   - easy to construct from normalization / construction / extraction code,
//   - easy to recognize via errors.As type assertions,
//   - and easy for users to understand when surfaced in logs or diagnostics.
//
// # Error Types
//
//   - TypeExprError
//     Returned when an input cannot be normalized into a type key, for
//     example a non-type operand where a type expression was expected,
//     or a nested expression group exceeding the flattening depth limit.
//
//   - DuplicateTypeError
//     Returned when two directly supplied positional values resolve to the
//     same member type within one construction call. Construction-time
//     conflicts are errors; merge-time conflicts are resolved by right
//     precedence and are never errors.
//
//   - MissingTypeError
//     Returned when a requested member type (via projection or raw
//     extraction) is absent from an instance's key.
//
//   - KeyMismatchError
//     Returned when an instance is constructed against a descriptor whose
//     key does not match the supplied values' inferred types, or when an
//     explicitly typed item carries a value that is not assignable to its
//     declared member type.
//
//   - UnhashableTypeError
//     Returned when RequireHashable is enabled and a supplied value's type
//     is not comparable, so no equality-consistent hash can be computed.
//
//   - NameConflictError
//     Returned when a stable name (a minted type name or a serialization
//     type name) is re-registered for a different underlying type.
//
//   - ParseError
//     Returned when parsing a string into an enum-like conjx type (such as
//     the overlap policy) fails.
package errors

import "reflect"

// typeName renders t for error messages, tolerating nil types.
func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// TypeExprError is returned when an operand of a type expression cannot be
// normalized into a member type. The zero Expr is rendered as "<nil>".
//
// Expr holds the offending operand (which may be any value, since the
// failure is precisely that it was not a type), and Reason describes what
// was wrong with it.
type TypeExprError struct {
	// Expr is the operand that could not be normalized.
	Expr any

	// Reason is a short, human-readable explanation of the failure.
	Reason string
}

// Error implements the error interface for TypeExprError.
//
// The error message format is:
//
//	"conjx: invalid type expression: {Reason}"
func (e *TypeExprError) Error() string {
	return "conjx: invalid type expression: " + e.Reason
}

// DuplicateTypeError is returned when two directly supplied positional
// values resolve to the same member type within a single construction call.
type DuplicateTypeError struct {
	// Type is the member type supplied more than once.
	Type reflect.Type
}

// Error implements the error interface for DuplicateTypeError.
//
// The error message format is:
//
//	"conjx: duplicate member type: {Type}"
func (e *DuplicateTypeError) Error() string {
	return "conjx: duplicate member type: " + typeName(e.Type)
}

// MissingTypeError is returned when a requested member type is absent from
// an instance's key.
type MissingTypeError struct {
	// Type is the member type that was requested but not present.
	Type reflect.Type
}

// Error implements the error interface for MissingTypeError.
//
// The error message format is:
//
//	"conjx: type not in conjunction: {Type}"
func (e *MissingTypeError) Error() string {
	return "conjx: type not in conjunction: " + typeName(e.Type)
}

// KeyMismatchError is returned when supplied values do not fit a required
// key: either a descriptor-validated construction saw a different inferred
// key, or an explicitly typed item carried a value of an incompatible type.
type KeyMismatchError struct {
	// Want describes the required key or member type.
	Want string

	// Got describes what the supplied values actually produced.
	Got string
}

// Error implements the error interface for KeyMismatchError.
//
// The error message format is:
//
//	"conjx: key mismatch: want {Want}, got {Got}"
func (e *KeyMismatchError) Error() string {
	return "conjx: key mismatch: want " + e.Want + ", got " + e.Got
}

// UnhashableTypeError is returned when RequireHashable is enabled and a
// value of a non-comparable type is supplied to a construction call.
type UnhashableTypeError struct {
	// Type is the non-comparable member type.
	Type reflect.Type
}

// Error implements the error interface for UnhashableTypeError.
//
// The error message format is:
//
//	"conjx: unhashable member type: {Type}"
func (e *UnhashableTypeError) Error() string {
	return "conjx: unhashable member type: " + typeName(e.Type)
}

// NameConflictError is returned when a stable name is re-registered for a
// different underlying type. Registration is idempotent for the same
// (name, type) pair; only conflicting pairs produce this error.
type NameConflictError struct {
	// Name is the contested name.
	Name string

	// Existing describes the type already registered under Name.
	Existing string

	// Proposed describes the type the caller attempted to register.
	Proposed string
}

// Error implements the error interface for NameConflictError.
//
// The error message format is:
//
//	"conjx: name {Name} already registered for {Existing}, cannot register {Proposed}"
func (e *NameConflictError) Error() string {
	return "conjx: name " + e.Name + " already registered for " + e.Existing +
		", cannot register " + e.Proposed
}

// ParseError is returned when parsing a string into a strongly typed
// enum-like value (for example, the overlap Policy) fails.
//
// Type identifies the logical type being parsed and Value contains the
// exact string that could not be interpreted. Callers MAY pattern-match on
// Type to provide type-specific guidance.
type ParseError struct {
	// Type is the logical name of the type being parsed (for example, "Policy").
	Type string

	// Value is the invalid textual representation that was provided.
	Value string
}

// Error implements the error interface for ParseError.
//
// The error message format is:
//
//	"conjx: invalid {Type} value: {Value}"
func (e *ParseError) Error() string {
	return "conjx: invalid " + e.Type + " value: " + e.Value
}
