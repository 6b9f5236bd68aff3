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

// Package pathx provides the dynamic value access layer of a text
// template engine: it turns path components such as `person.Name`,
// `[first name]` or `@index` into canonical segments, and reads the named
// members from arbitrary Go values with the reflection cost paid once per
// (host type, segment) pair.
//
// # Design
//
// The core of pathx is a read-mostly global snapshot (state). The snapshot
// holds five things:
//
//   - Config: knobs that control member discovery (pointer depth, whether
//     methods count as properties) and which alias providers are enabled
//     (struct tags, snake case, map keys, collection lengths).
//
//   - Segments: an interning registry of path components. Each distinct
//     raw text gets one segment.Segment carrying its bracket-trimmed and
//     lowercase forms, a precomputed hash and its classification
//     (`this`, `@variable`, well-known loop variable). Segments compare
//     equal ignoring case, one outer bracket pair and a leading `@`.
//
//   - Resolver: answers "what is member seg of this value?". It scans the
//     members of a type once per segment, binds a getter once per member
//     and memoizes misses. When a member does not exist it consults alias
//     providers in order:
//     1. values implementing apis.MemberGetter answer for themselves;
//     2. configured renames ("nickname" reads Name);
//     3. struct tag names (`json:"first_name"`);
//     4. snake and kebab case ("first_name" reads FirstName);
//     5. `length` and `count` on sized values;
//     6. keys of string-keyed maps.
//
//   - Descriptors: per-type bundles of a member resolver, an enumeration
//     factory and an iterator for loop constructs (array, map, object and
//     enumerable shapes).
//
//   - Builder: a pluggable factory that constructs the registry, resolver
//     and descriptor provider for a given Config (and optional extension
//     data).
//
// All of these live inside a single immutable struct. The package holds an
// atomic pointer to the current state. Readers load that pointer, use it,
// and never mutate it. Writers build a brand-new state and atomically swap
// it in, so lookups are lock-free on the hot path:
//
//	seg := pathx.Intern("Name")
//	v, found, err := pathx.Resolve(person, reflect.TypeOf(person), seg)
//
// # Global API
//
//  1. Read helpers:
//
//     Intern(raw string) *segment.Segment
//     InternValue(v any) *segment.Segment
//     Resolve(instance any, t reflect.Type, seg *segment.Segment) (any, bool, error)
//     ResolveValue(instance any, raw string) (any, bool, error)
//     ResolvePath(instance any, segs ...*segment.Segment) (any, bool, error)
//     Describe(t reflect.Type) apis.Descriptor
//
//  2. Mutation helpers:
//
//     SetConfig(cfg apis.Config)
//     SetBuilder(b apis.Builder)
//     SetExt(ext T)
//     SetSegments(segs apis.SegmentRegistry)
//     SetResolver(res apis.MemberResolver)
//     UnpinSegments()
//     UnpinResolver()
//     SetAll(...)
//     Reset()
//
//     Each of these except Reset acquires an internal build lock, derives
//     a new snapshot (rebuilding or reusing layers as needed) and then
//     atomically publishes it. Reset empties the caches of the current
//     snapshot in place.
//
// # Missing members
//
// A member that does not exist is reported with found=false and is never
// an error; what a template does about it is up to the caller. err is set
// only when a member exists but cannot be bound, and matches
// resolver.ErrBind with errors.Is.
//
// # Pinning
//
// SetSegments and SetResolver install a component and pin it: later
// SetConfig, SetBuilder and SetExt calls keep it until the matching Unpin
// call. Descriptors are always rebuilt over the current resolver.
package pathx
