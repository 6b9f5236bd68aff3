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
)

// NewRename creates an apis.AliasProvider that maps alias names to member
// names, e.g. {"nickname": "Name"}. Aliases match like segments do (case
// and brackets are ignored); targets are resolved through res, which
// should be a direct resolver so that aliases never chain.
func NewRename(res apis.MemberResolver, aliases map[string]string) apis.AliasProvider {
	m := make(map[segment.Ident]*segment.Segment, len(aliases))
	for alias, target := range aliases {
		m[segment.New(alias, segment.KindNone).Ident()] = segment.New(target, segment.KindNone)
	}
	return &renameStrategy{res: res, targets: m}
}

// renameStrategy consults a fixed alias table.
type renameStrategy struct {
	res     apis.MemberResolver
	targets map[segment.Ident]*segment.Segment
}

// Ensure renameStrategy implements apis.AliasProvider.
var _ apis.AliasProvider = (*renameStrategy)(nil)

// TryResolveAlias resolves the member seg is an alias for.
func (s *renameStrategy) TryResolveAlias(instance any, t reflect.Type, seg *segment.Segment) (any, bool) {
	if seg == nil || s.res == nil {
		return nil, false
	}
	target, ok := s.targets[seg.Ident()]
	if !ok {
		return nil, false
	}
	v, found, err := s.res.Resolve(instance, t, target)
	if err != nil || !found {
		return nil, false
	}
	return v, true
}
