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

// NewGetter creates an apis.AliasProvider that lets values implementing
// apis.MemberGetter answer for themselves.
func NewGetter() apis.AliasProvider {
	return getterStrategy{}
}

// getterStrategy is a zero-reflection path: if the instance implements
// apis.MemberGetter, ask it for the bracket-trimmed segment text.
type getterStrategy struct{}

// Ensure getterStrategy implements apis.AliasProvider.
var _ apis.AliasProvider = getterStrategy{}

// TryResolveAlias asks instance for seg when it implements apis.MemberGetter.
func (getterStrategy) TryResolveAlias(instance any, _ reflect.Type, seg *segment.Segment) (any, bool) {
	if instance == nil || seg == nil {
		return nil, false
	}
	if g, ok := instance.(apis.MemberGetter); ok {
		return g.GetMember(seg.Trimmed())
	}
	return nil, false
}

// Func adapts a plain function to apis.AliasProvider.
type Func func(instance any, t reflect.Type, seg *segment.Segment) (any, bool)

// TryResolveAlias calls f.
func (f Func) TryResolveAlias(instance any, t reflect.Type, seg *segment.Segment) (any, bool) {
	return f(instance, t, seg)
}
