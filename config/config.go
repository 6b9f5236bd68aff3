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

package config

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/goccy/go-yaml"

	"dirpx.dev/pathx/apis"
)

const (
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultIncludeMethods represents the default for IncludeMethods.
	// When true, zero-argument single-result methods are members.
	DefaultIncludeMethods = true
	// DefaultSnakeCase represents the default for SnakeCase.
	DefaultSnakeCase = true
	// DefaultCollectionAliases represents the default for CollectionAliases.
	DefaultCollectionAliases = true
	// DefaultMapKeys represents the default for MapKeys.
	DefaultMapKeys = true
)

// DefaultTagKeys are the struct tag keys consulted for member aliases.
var DefaultTagKeys = []string{"json", "yaml"}

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return normalize(cfg)
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxUnwrap:         DefaultMaxUnwrap,
		IncludeMethods:    DefaultIncludeMethods,
		TagKeys:           slices.Clone(DefaultTagKeys),
		SnakeCase:         DefaultSnakeCase,
		CollectionAliases: DefaultCollectionAliases,
		MapKeys:           DefaultMapKeys,
	}
}

// Load decodes a YAML document from r onto DefaultConfig. Keys absent from
// the document keep their defaults; unknown keys are rejected. An empty
// document yields the defaults.
func Load(r io.Reader) (apis.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return apis.Config{}, fmt.Errorf("pathx(config): read: %w", err)
	}

	cfg := DefaultConfig()
	// The decoder zeroes its target for a null document (empty, comments
	// only, or a bare "---"), so those are answered with the defaults.
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return apis.Config{}, fmt.Errorf("pathx(config): decode: %w", err)
	}
	if doc == nil {
		return cfg, nil
	}
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.DisallowUnknownField()); err != nil {
		return apis.Config{}, fmt.Errorf("pathx(config): decode: %w", err)
	}
	return normalize(cfg), nil
}

// LoadFile is Load over the named file.
func LoadFile(path string) (apis.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return apis.Config{}, fmt.Errorf("pathx(config): %w", err)
	}
	defer f.Close()
	return Load(f)
}

// normalize repairs out-of-range values.
func normalize(cfg apis.Config) apis.Config {
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	return cfg
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithIncludeMethods sets the IncludeMethods option.
func WithIncludeMethods(include bool) Option {
	return func(c *apis.Config) {
		c.IncludeMethods = include
	}
}

// WithTagKeys replaces the TagKeys option. No keys disables tag aliases.
func WithTagKeys(keys ...string) Option {
	return func(c *apis.Config) {
		c.TagKeys = slices.Clone(keys)
	}
}

// WithSnakeCase sets the SnakeCase option.
func WithSnakeCase(enable bool) Option {
	return func(c *apis.Config) {
		c.SnakeCase = enable
	}
}

// WithCollectionAliases sets the CollectionAliases option.
func WithCollectionAliases(enable bool) Option {
	return func(c *apis.Config) {
		c.CollectionAliases = enable
	}
}

// WithMapKeys sets the MapKeys option.
func WithMapKeys(enable bool) Option {
	return func(c *apis.Config) {
		c.MapKeys = enable
	}
}
