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

package pathx

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/builder"
	"dirpx.dev/pathx/config"
	"dirpx.dev/pathx/descriptor"
	"dirpx.dev/pathx/segment"
)

// init initializes the global state.
func init() {
	st.Store(rebuild(&state{}, config.DefaultConfig(), nil, builder.New()))
}

var (
	// ErrNilSegments is returned when a builder returns a nil segment registry.
	ErrNilSegments = errors.New("pathx: builder returned nil segment registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("pathx: builder returned nil resolver")
	// ErrNilDescriptors is returned when a builder returns a nil descriptor provider.
	ErrNilDescriptors = errors.New("pathx: builder returned nil descriptor provider")
)

// Intern returns the canonical segment for raw from the global registry.
func Intern(raw string) *segment.Segment {
	return st.Load().segs.Intern(raw)
}

// InternValue returns the canonical segment for an arbitrary value from the
// global registry.
func InternValue(v any) *segment.Segment {
	return st.Load().segs.InternValue(v)
}

// Resolve reads seg from instance, whose declared type is t, through the
// global resolver. A nil t means the dynamic type of instance.
func Resolve(instance any, t reflect.Type, seg *segment.Segment) (any, bool, error) {
	return st.Load().res.Resolve(instance, t, seg)
}

// ResolveValue interns raw and reads it from instance.
func ResolveValue(instance any, raw string) (any, bool, error) {
	s := st.Load()
	return s.res.Resolve(instance, nil, s.segs.Intern(raw))
}

// ResolvePath reads segs one after the other, starting at instance. `this`
// segments stay on the current value. It stops at the first segment that
// is not found or fails.
func ResolvePath(instance any, segs ...*segment.Segment) (any, bool, error) {
	res := st.Load().res
	cur := instance
	for _, seg := range segs {
		if seg == nil || seg.IsThis() {
			continue
		}
		v, found, err := res.Resolve(cur, nil, seg)
		if err != nil || !found {
			return nil, false, err
		}
		cur = v
	}
	return cur, true, nil
}

// Describe returns the global descriptor for t, or descriptor.Empty when
// none applies.
func Describe(t reflect.Type) apis.Descriptor {
	if d, ok := st.Load().desc.Describe(t); ok {
		return d
	}
	return descriptor.Empty
}

// DescribeValue is Describe over the dynamic type of v.
func DescribeValue(v any) apis.Descriptor {
	if v == nil {
		return descriptor.Empty
	}
	return Describe(reflect.TypeOf(v))
}

// Reset drops every cache of the current snapshot: interned segments,
// member getters and descriptors. Components are reset in place; nothing
// is rebuilt.
func Reset() {
	s := st.Load()
	s.segs.Reset()
	s.res.Reset()
	s.desc.Reset()
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged (registry and
// resolver are rebuilt unless given), except for ext which is always
// replaced. Given components are pinned.
//
// This is a convenience wrapper around the global state, mainly for tests.
func SetAll(cfg *apis.Config, ext any, segs apis.SegmentRegistry, res apis.MemberResolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Start from a copy whose pins reflect the given components only.
	base := *old
	base.segs, base.psegs = segs, segs != nil
	base.res, base.pres = res, res != nil
	if segs == nil {
		base.segs = old.segs
	}
	if res == nil {
		base.res = old.res
	}

	st.Store(rebuild(&base, ncfg, ext, nbld))
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg and rebuilds the layers
// that are not pinned.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(rebuild(old, cfg, old.ext, old.bld))
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds the layers that are
// not pinned. A nil b is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(rebuild(old, old.cfg, old.ext, b))
}

// SetExt replaces the extension payload handed to the builder and rebuilds
// the layers that are not pinned.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(rebuild(old, old.cfg, ext, old.bld))
}

// ExtAs returns the global extension payload as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// Segments returns the global segment registry.
func Segments() apis.SegmentRegistry {
	return st.Load().segs
}

// SetSegments sets and pins the global segment registry. The resolver and
// descriptors are rebuilt unless pinned. A nil segs is ignored.
func SetSegments(segs apis.SegmentRegistry) {
	if segs == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	base := *st.Load()
	base.segs, base.psegs = segs, true
	st.Store(rebuild(&base, base.cfg, base.ext, base.bld))
}

// IsSegmentsPinned returns whether the global segment registry is pinned.
func IsSegmentsPinned() bool {
	return st.Load().psegs
}

// PinSegments stops the global segment registry from being rebuilt.
func PinSegments() {
	setPins(func(s *state) { s.psegs = true })
}

// UnpinSegments lets the global segment registry be rebuilt again.
func UnpinSegments() {
	setPins(func(s *state) { s.psegs = false })
}

// Resolver returns the global member resolver.
func Resolver() apis.MemberResolver {
	return st.Load().res
}

// SetResolver sets and pins the global member resolver. Descriptors are
// rebuilt over it. A nil res is ignored.
func SetResolver(res apis.MemberResolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	base := *st.Load()
	base.res, base.pres = res, true
	st.Store(rebuild(&base, base.cfg, base.ext, base.bld))
}

// IsResolverPinned returns whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver stops the global resolver from being rebuilt.
func PinResolver() {
	setPins(func(s *state) { s.pres = true })
}

// UnpinResolver lets the global resolver be rebuilt again. It takes effect
// on the next rebuild.
func UnpinResolver() {
	setPins(func(s *state) { s.pres = false })
}

// Descriptors returns the global descriptor provider.
func Descriptors() apis.DescriptorProvider {
	return st.Load().desc
}

// setPins publishes a copy of the current state with pins changed by fn.
func setPins(fn func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	ns := *st.Load()
	fn(&ns)
	st.Store(&ns)
}

// rebuild derives a new state from old with the given inputs. Pinned layers
// are kept; the others are rebuilt through bld, passing the previous
// instances along. Descriptors always follow the resolver.
func rebuild(old *state, cfg apis.Config, ext any, bld apis.Builder) *state {
	ns := &state{
		cfg:   cfg,
		ext:   ext,
		bld:   bld,
		segs:  old.segs,
		res:   old.res,
		psegs: old.psegs,
		pres:  old.pres,
	}
	if !ns.psegs {
		ns.segs = bld.BuildSegments(cfg, old.segs, ext)
	}
	if ns.segs == nil {
		panic(ErrNilSegments)
	}
	if !ns.pres {
		ns.res = bld.BuildResolver(cfg, ns.segs, old.res, ext)
	}
	if ns.res == nil {
		panic(ErrNilResolver)
	}
	ns.desc = bld.BuildDescriptors(cfg, ns.res, old.desc, ext)
	if ns.desc == nil {
		panic(ErrNilDescriptors)
	}
	return ns
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the global extension payload.
	ext any
	// segs is the global segment registry.
	segs apis.SegmentRegistry
	// res is the global member resolver.
	res apis.MemberResolver
	// desc is the global descriptor provider.
	desc apis.DescriptorProvider
	// bld is the global builder.
	bld apis.Builder
	// psegs indicates whether segs is pinned.
	psegs bool
	// pres indicates whether res is pinned.
	pres bool
}
