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

// Package config assembles apis.Config values through functional options
// and loads them from YAML documents.
package config

import (
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"dirpx.dev/conjx/apis"
	"dirpx.dev/conjx/cxapi/overlap"
	"dirpx.dev/conjx/typekey"
)

// Option mutates a Config under construction.
type Option func(*apis.Config)

// DefaultConfig returns the baseline configuration: silent overlap
// handling, the default flattening depth, no hashability requirement, and
// a no-op logger.
func DefaultConfig() apis.Config {
	return apis.Config{
		Overlap:         overlap.Silent,
		MaxFlatten:      typekey.DefaultMaxFlatten,
		RequireHashable: false,
		Logger:          zap.NewNop(),
	}
}

// NewConfig builds a configuration from the defaults with opts applied in
// order.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithOverlap selects the overlap reporting policy.
func WithOverlap(p overlap.Policy) Option {
	return func(c *apis.Config) {
		c.Overlap = p
	}
}

// WithMaxFlatten sets the nesting depth limit for grouped type-expression
// operands. Non-positive values fall back to the default at use sites.
func WithMaxFlatten(n int) Option {
	return func(c *apis.Config) {
		c.MaxFlatten = n
	}
}

// WithRequireHashable toggles rejection of non-comparable member values at
// construction time.
func WithRequireHashable(require bool) Option {
	return func(c *apis.Config) {
		c.RequireHashable = require
	}
}

// WithLogger sets the logger receiving overlap warnings. Nil disables
// warning output.
func WithLogger(l *zap.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = l
	}
}

// File is the YAML shape of a configuration document. Absent fields keep
// their defaults; the logger is runtime-only and never serialized.
type File struct {
	Overlap         overlap.Policy `yaml:"overlap"`
	MaxFlatten      int            `yaml:"max_flatten"`
	RequireHashable bool           `yaml:"require_hashable"`
}

// Load parses a YAML configuration document into an apis.Config. The
// returned configuration carries a no-op logger; install a real one with
// WithLogger afterwards if warnings are wanted.
func Load(data []byte) (apis.Config, error) {
	f := File{
		Overlap:    overlap.Silent,
		MaxFlatten: typekey.DefaultMaxFlatten,
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return apis.Config{}, err
	}
	return NewConfig(
		WithOverlap(f.Overlap),
		WithMaxFlatten(f.MaxFlatten),
		WithRequireHashable(f.RequireHashable),
	), nil
}

// Dump renders cfg as a YAML document, omitting the logger.
func Dump(cfg apis.Config) ([]byte, error) {
	return yaml.Marshal(File{
		Overlap:         cfg.Overlap,
		MaxFlatten:      cfg.MaxFlatten,
		RequireHashable: cfg.RequireHashable,
	})
}
