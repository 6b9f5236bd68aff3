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

package resolver

import (
	"reflect"

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/segment"
)

// New constructs an apis.MemberResolver that tries direct member access
// first and then the given alias providers in order. Nil providers are
// ignored. The returned resolver is safe for concurrent use provided the
// providers themselves are safe for concurrent TryResolveAlias calls.
func New(direct apis.MemberResolver, providers ...apis.AliasProvider) apis.MemberResolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.AliasProvider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			out = append(out, p)
		}
	}
	return &chain{direct: direct, providers: out}
}

// chain is an immutable, order-preserving resolver over a direct resolver
// and a set of alias providers.
type chain struct {
	direct    apis.MemberResolver
	providers []apis.AliasProvider
}

// Resolve returns the direct result when found or failed; otherwise the
// first provider that handles seg decides. Provider results are not
// cached here.
func (r *chain) Resolve(instance any, t reflect.Type, seg *segment.Segment) (any, bool, error) {
	v, found, err := r.direct.Resolve(instance, t, seg)
	if found || err != nil {
		return v, found, err
	}
	for _, p := range r.providers {
		if v, ok := p.TryResolveAlias(instance, t, seg); ok {
			return v, true, nil
		}
	}
	return nil, false, nil
}

// resetter is implemented by providers that keep their own caches.
type resetter interface {
	Reset()
}

// Reset drops the direct caches and those of providers that keep any.
func (r *chain) Reset() {
	r.direct.Reset()
	for _, p := range r.providers {
		if rs, ok := p.(resetter); ok {
			rs.Reset()
		}
	}
}

// DirectOf returns the resolver that chain consults before its providers.
// Alias providers that need plain member access are built on it.
func DirectOf(r apis.MemberResolver) apis.MemberResolver {
	if c, ok := r.(*chain); ok {
		return c.direct
	}
	return r
}
