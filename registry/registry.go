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

package registry

import (
	"fmt"
	"sync"
	"sync/atomic"

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/segment"
)

// New constructs a SegmentRegistry seeded with the well-known segments.
func New() apis.SegmentRegistry {
	r := &registry{}
	r.st.Store(newStore())
	return r
}

// registry is a SegmentRegistry backed by sync.Map.
//
// Lookups are lock-free: readers load the current store and probe it by raw
// text before doing any normalization work. Reset swaps the store
// atomically, so a reader never observes a half-cleared table.
type registry struct {
	st atomic.Pointer[store]
}

// Ensure registry implements apis.SegmentRegistry.
var _ apis.SegmentRegistry = (*registry)(nil)

// store is one generation of interned segments.
type store struct {
	// m maps raw text to its canonical segment.
	m sync.Map // map[string]*segment.Segment
	// count tracks the number of interned raw spellings.
	count atomic.Int64
}

func newStore() *store {
	s := &store{}
	for _, wk := range segment.WellKnowns() {
		if wk.Variable {
			s.add("@"+wk.Name, wk.Kind)
		}
		s.add(wk.Name, wk.Kind)
	}
	return s
}

// add publishes a new segment for raw unless one exists already.
// A losing writer discards its segment and returns the winner.
func (s *store) add(raw string, kind segment.Kind) *segment.Segment {
	v, loaded := s.m.LoadOrStore(raw, segment.New(raw, kind))
	if !loaded {
		s.count.Add(1)
	}
	return v.(*segment.Segment)
}

// Intern returns the canonical segment for raw.
func (r *registry) Intern(raw string) *segment.Segment {
	s := r.st.Load()
	if v, ok := s.m.Load(raw); ok {
		return v.(*segment.Segment)
	}
	return s.add(raw, segment.KindNone)
}

// InternValue interns v. Segments pass through untouched; nil (including a
// nil *segment.Segment) is `this`; strings and fmt.Stringer values intern
// their text; anything else interns fmt.Sprint(v).
func (r *registry) InternValue(v any) *segment.Segment {
	switch x := v.(type) {
	case *segment.Segment:
		if x != nil {
			return x
		}
		return r.Intern("")
	case nil:
		return r.Intern("")
	case string:
		return r.Intern(x)
	case fmt.Stringer:
		return r.Intern(x.String())
	default:
		return r.Intern(fmt.Sprint(x))
	}
}

// Lookup returns the segment interned for raw, if any.
func (r *registry) Lookup(raw string) (*segment.Segment, bool) {
	if v, ok := r.st.Load().m.Load(raw); ok {
		return v.(*segment.Segment), true
	}
	return nil, false
}

// Entries returns a snapshot for diagnostics (order is unspecified).
func (r *registry) Entries() []*segment.Segment {
	s := r.st.Load()
	entries := make([]*segment.Segment, 0, s.count.Load())
	s.m.Range(func(_, value any) bool {
		entries = append(entries, value.(*segment.Segment))
		return true
	})
	return entries
}

// Count returns the number of interned raw spellings.
func (r *registry) Count() int {
	return int(r.st.Load().count.Load())
}

// Reset drops every interned segment and re-seeds the well-known ones.
// Segments handed out before the reset stay valid: equality is by value.
func (r *registry) Reset() {
	r.st.Store(newStore())
}
