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

package builder

import (
	"log/slog"
	"maps"

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/descriptor"
	"dirpx.dev/pathx/introspect"
	"dirpx.dev/pathx/registry"
	"dirpx.dev/pathx/resolver"
	"dirpx.dev/pathx/strategy"
)

// Renames maps alias names to member names, e.g. {"nickname": "Name"}.
// Passed as the ext argument of BuildResolver it adds to the renames set
// with WithRenames; ext wins on conflicts.
type Renames map[string]string

// Option configures the builder.
type Option func(*builder)

// WithLogger sets the logger handed to the resolvers the builder creates.
func WithLogger(l *slog.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithIntrospector replaces the reflection introspector. fn is called
// with the configuration of every build.
func WithIntrospector(fn func(apis.Config) apis.Introspector) Option {
	return func(b *builder) {
		if fn != nil {
			b.intro = fn
		}
	}
}

// WithAliases appends alias providers tried after the built-in ones.
func WithAliases(providers ...apis.AliasProvider) Option {
	return func(b *builder) {
		b.aliases = append(b.aliases, providers...)
	}
}

// WithRenames adds fixed alias names, see Renames.
func WithRenames(renames map[string]string) Option {
	return func(b *builder) {
		if b.renames == nil {
			b.renames = make(map[string]string, len(renames))
		}
		maps.Copy(b.renames, renames)
	}
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{
		logger: slog.New(slog.DiscardHandler),
		intro:  introspect.New,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// builder holds the options shared by every build.
type builder struct {
	logger  *slog.Logger
	intro   func(apis.Config) apis.Introspector
	aliases []apis.AliasProvider
	renames map[string]string
}

// BuildSegments returns prev when given, so segment handles stay valid
// across configuration changes; otherwise a fresh registry.
func (b *builder) BuildSegments(_ apis.Config, prev apis.SegmentRegistry, _ any) apis.SegmentRegistry {
	if prev != nil {
		return prev
	}
	return registry.New()
}

// BuildResolver builds a direct resolver over the configured introspector
// followed by the alias providers enabled in cfg, in this order: member
// getters, renames, struct tags, snake/kebab case, map keys, collection
// lengths, then providers added with WithAliases. Map keys come before
// lengths so a "count" entry is not shadowed by the map's size. prev is not reused since
// its caches reflect the previous configuration.
func (b *builder) BuildResolver(cfg apis.Config, _ apis.SegmentRegistry, _ apis.MemberResolver, ext any) apis.MemberResolver {
	direct := resolver.NewDirect(b.intro(cfg), resolver.WithLogger(b.logger))

	providers := []apis.AliasProvider{strategy.NewGetter()}
	if renames := b.mergeRenames(ext); len(renames) > 0 {
		providers = append(providers, strategy.NewRename(direct, renames))
	}
	if len(cfg.TagKeys) > 0 {
		providers = append(providers, strategy.NewTags(cfg.MaxUnwrap, cfg.TagKeys...))
	}
	if cfg.SnakeCase {
		providers = append(providers, strategy.NewSnakeCase(direct))
	}
	if cfg.MapKeys {
		providers = append(providers, strategy.NewMapKeys(cfg.MaxUnwrap))
	}
	if cfg.CollectionAliases {
		providers = append(providers, strategy.NewCollection(cfg.MaxUnwrap))
	}
	providers = append(providers, b.aliases...)

	b.logger.Debug("resolver built", slog.Int("aliases", len(providers)))
	return resolver.New(direct, providers...)
}

// BuildDescriptors builds a reflection descriptor provider reading members
// through res.
func (b *builder) BuildDescriptors(cfg apis.Config, res apis.MemberResolver, _ apis.DescriptorProvider, _ any) apis.DescriptorProvider {
	return descriptor.NewProvider(cfg, res, b.intro(cfg))
}

func (b *builder) mergeRenames(ext any) map[string]string {
	extra, _ := ext.(Renames)
	if len(extra) == 0 {
		return b.renames
	}
	out := maps.Clone(b.renames)
	if out == nil {
		out = make(map[string]string, len(extra))
	}
	maps.Copy(out, extra)
	return out
}
