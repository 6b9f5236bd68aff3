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

package strategy

import (
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/segment"
	uref "dirpx.dev/pathx/utils/reflect"
)

// NewTags creates an apis.AliasProvider that resolves segments against the
// names given by struct tags, e.g. `json:"first_name"`. A field answers to
// the name it declares under each of keys; when two fields claim one name
// the earlier field wins. Names tagged "-" are skipped.
func NewTags(maxUnwrap int, keys ...string) apis.AliasProvider {
	s := &tagStrategy{maxUnwrap: maxUnwrap, keys: append([]string(nil), keys...)}
	s.cache.Store(&sync.Map{})
	return s
}

// tagStrategy caches, per base struct type, tag name -> field index.
type tagStrategy struct {
	maxUnwrap int
	keys      []string
	cache     atomic.Pointer[sync.Map] // map[reflect.Type]map[string][]int
}

// Ensure tagStrategy implements apis.AliasProvider.
var _ apis.AliasProvider = (*tagStrategy)(nil)

// TryResolveAlias reads the field whose tag name matches seg.
func (s *tagStrategy) TryResolveAlias(instance any, t reflect.Type, seg *segment.Segment) (any, bool) {
	if instance == nil || seg == nil || len(s.keys) == 0 {
		return nil, false
	}
	if t == nil || t.Kind() == reflect.Interface {
		t = reflect.TypeOf(instance)
	}
	base, err := uref.Indirect(t, s.maxUnwrap)
	if err != nil || base.Kind() != reflect.Struct {
		return nil, false
	}

	index, ok := s.names(base)[seg.Lower()]
	if !ok {
		return nil, false
	}
	v, ok := uref.IndirectValue(reflect.ValueOf(instance), base, s.maxUnwrap)
	if !ok {
		return nil, false
	}
	fv, err := v.FieldByIndexErr(index)
	if err != nil || !fv.CanInterface() {
		return nil, false
	}
	return fv.Interface(), true
}

// Reset drops the cached tag tables.
func (s *tagStrategy) Reset() {
	s.cache.Store(&sync.Map{})
}

// names returns the tag table of base, building it on first use.
func (s *tagStrategy) names(base reflect.Type) map[string][]int {
	c := s.cache.Load()
	if v, ok := c.Load(base); ok {
		return v.(map[string][]int)
	}
	m := make(map[string][]int)
	for _, f := range reflect.VisibleFields(base) {
		if !f.IsExported() {
			continue
		}
		for _, key := range s.keys {
			name := tagName(f.Tag.Get(key))
			if name == "" {
				continue
			}
			lower := segment.LowerInvariant(name)
			if _, dup := m[lower]; !dup {
				m[lower] = f.Index
			}
		}
	}
	v, _ := c.LoadOrStore(base, m)
	return v.(map[string][]int)
}

// tagName returns the name part of a tag value ("name,omitempty" -> "name").
// "-" and empty names yield "".
func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
