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

	"github.com/iancoleman/strcase"

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/segment"
)

// NewSnakeCase creates an apis.AliasProvider that maps snake_case and
// kebab-case segments to the CamelCase member they name ("first_name" and
// "first-name" resolve FirstName). Targets are resolved through res, which
// should be a direct resolver.
func NewSnakeCase(res apis.MemberResolver) apis.AliasProvider {
	s := &snakeStrategy{res: res}
	s.cache.Store(&sync.Map{})
	return s
}

// snakeStrategy caches the camel-cased target segment per segment Ident.
type snakeStrategy struct {
	res   apis.MemberResolver
	cache atomic.Pointer[sync.Map] // map[segment.Ident]*segment.Segment
}

// Ensure snakeStrategy implements apis.AliasProvider.
var _ apis.AliasProvider = (*snakeStrategy)(nil)

// TryResolveAlias resolves the CamelCase spelling of seg.
func (s *snakeStrategy) TryResolveAlias(instance any, t reflect.Type, seg *segment.Segment) (any, bool) {
	if seg == nil || s.res == nil || !strings.ContainsAny(seg.Lower(), "_-") {
		return nil, false
	}
	v, found, err := s.res.Resolve(instance, t, s.target(seg))
	if err != nil || !found {
		return nil, false
	}
	return v, true
}

// Reset drops the cached targets.
func (s *snakeStrategy) Reset() {
	s.cache.Store(&sync.Map{})
}

func (s *snakeStrategy) target(seg *segment.Segment) *segment.Segment {
	c := s.cache.Load()
	id := seg.Ident()
	if v, ok := c.Load(id); ok {
		return v.(*segment.Segment)
	}
	v, _ := c.LoadOrStore(id, segment.New(strcase.ToCamel(seg.Lower()), segment.KindNone))
	return v.(*segment.Segment)
}
