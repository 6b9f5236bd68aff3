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

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/segment"
	uref "dirpx.dev/pathx/utils/reflect"
)

// collectionAliases are the segment spellings answered with a length.
var collectionAliases = map[string]struct{}{
	"length": {},
	"count":  {},
}

// NewCollection creates an apis.AliasProvider that answers `length` and
// `count` on slices, arrays, maps, strings and channels.
func NewCollection(maxUnwrap int) apis.AliasProvider {
	return collectionStrategy{maxUnwrap: maxUnwrap}
}

// collectionStrategy reports reflect.Value.Len for sized values.
type collectionStrategy struct {
	maxUnwrap int
}

// Ensure collectionStrategy implements apis.AliasProvider.
var _ apis.AliasProvider = collectionStrategy{}

// TryResolveAlias returns the length of instance for length/count.
func (s collectionStrategy) TryResolveAlias(instance any, _ reflect.Type, seg *segment.Segment) (any, bool) {
	if instance == nil || seg == nil {
		return nil, false
	}
	if _, ok := collectionAliases[seg.Lower()]; !ok {
		return nil, false
	}
	v, ok := uref.IndirectAny(reflect.ValueOf(instance), s.maxUnwrap)
	if !ok {
		return nil, false
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return v.Len(), true
	default:
		return nil, false
	}
}
