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

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/segment"
	uref "dirpx.dev/pathx/utils/reflect"
)

// NewMapKeys creates an apis.AliasProvider that resolves segments against
// the entries of maps keyed by a string kind. The bracket-trimmed text is
// tried verbatim first, then keys are matched ignoring case; when several
// keys match ignoring case the result is unspecified.
func NewMapKeys(maxUnwrap int) apis.AliasProvider {
	return mapKeyStrategy{maxUnwrap: maxUnwrap}
}

// mapKeyStrategy reads string-keyed map entries.
type mapKeyStrategy struct {
	maxUnwrap int
}

// Ensure mapKeyStrategy implements apis.AliasProvider.
var _ apis.AliasProvider = mapKeyStrategy{}

// TryResolveAlias returns the entry of instance named by seg.
func (s mapKeyStrategy) TryResolveAlias(instance any, _ reflect.Type, seg *segment.Segment) (any, bool) {
	if instance == nil || seg == nil {
		return nil, false
	}
	v, ok := uref.IndirectAny(reflect.ValueOf(instance), s.maxUnwrap)
	if !ok || v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	kt := v.Type().Key()
	if e := v.MapIndex(reflect.ValueOf(seg.Trimmed()).Convert(kt)); e.IsValid() {
		return e.Interface(), true
	}
	it := v.MapRange()
	for it.Next() {
		if strings.EqualFold(it.Key().String(), seg.Lower()) {
			return it.Value().Interface(), true
		}
	}
	return nil, false
}
