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

package resolver_test

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/config"
	"dirpx.dev/pathx/introspect"
	"dirpx.dev/pathx/resolver"
	"dirpx.dev/pathx/segment"
	"dirpx.dev/pathx/strategy"
)

type Person struct {
	Name string
	Age  int
}

type Pet struct {
	Name string
}

type headline struct {
	Title string
}

func (h headline) TITLE() string { return "computed" }

func (h *headline) Lookup(key string) string { return key }

// countingIntrospector wraps an Introspector, counting Members calls per
// type and Bind calls per member name.
type countingIntrospector struct {
	inner apis.Introspector

	mu      sync.Mutex
	members map[reflect.Type]int
	binds   map[string]*atomic.Int64
}

func newCounting() *countingIntrospector {
	return &countingIntrospector{
		inner:   introspect.New(config.DefaultConfig()),
		members: make(map[reflect.Type]int),
		binds:   make(map[string]*atomic.Int64),
	}
}

func (c *countingIntrospector) Members(t reflect.Type) []apis.Member {
	c.mu.Lock()
	c.members[t]++
	c.mu.Unlock()

	ms := c.inner.Members(t)
	for i := range ms {
		c.mu.Lock()
		n, ok := c.binds[ms[i].Name]
		if !ok {
			n = new(atomic.Int64)
			c.binds[ms[i].Name] = n
		}
		c.mu.Unlock()
		bind := ms[i].Bind
		ms[i].Bind = func() (apis.Getter, error) {
			n.Add(1)
			return bind()
		}
	}
	return ms
}

func (c *countingIntrospector) scans(t reflect.Type) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.members[t]
}

func (c *countingIntrospector) bindCount(name string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.binds[name]; ok {
		return n.Load()
	}
	return 0
}

func seg(raw string) *segment.Segment { return segment.New(raw, segment.KindNone) }

var personType = reflect.TypeFor[Person]()

func TestResolve_CaseInsensitive(t *testing.T) {
	r := resolver.NewDirect(introspect.New(config.DefaultConfig()))
	p := Person{Name: "Ann", Age: 41}

	for _, raw := range []string{"Name", "name", "NAME", "[name]", "@Name"} {
		v, found, err := r.Resolve(p, personType, seg(raw))
		require.NoError(t, err)
		require.True(t, found, "segment %q", raw)
		require.Equal(t, "Ann", v)
	}

	v, found, err := r.Resolve(&p, nil, seg("AGE"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 41, v)
}

func TestResolve_NotFound(t *testing.T) {
	r := resolver.NewDirect(introspect.New(config.DefaultConfig()))

	cases := []struct {
		instance any
		typ      reflect.Type
		seg      *segment.Segment
	}{
		{Person{}, personType, seg("missing")},
		{Person{}, personType, nil},
		{nil, nil, seg("Name")},
		{(*Person)(nil), reflect.TypeFor[*Person](), seg("Name")},
		{42, nil, seg("Name")},
	}
	for _, tc := range cases {
		v, found, err := r.Resolve(tc.instance, tc.typ, tc.seg)
		require.NoError(t, err)
		require.False(t, found)
		require.Nil(t, v)
	}
}

func TestResolve_InterfaceTypeUsesDynamicType(t *testing.T) {
	r := resolver.NewDirect(introspect.New(config.DefaultConfig()))

	v, found, err := r.Resolve(Pet{Name: "Rex"}, reflect.TypeFor[any](), seg("name"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Rex", v)
}

func TestResolve_PropertyBeatsField(t *testing.T) {
	r := resolver.NewDirect(introspect.New(config.DefaultConfig()))
	h := headline{Title: "stored"}

	v, found, err := r.Resolve(h, nil, seg("title"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "computed", v)

	// Methods taking arguments are never resolved.
	_, found, err = r.Resolve(&h, nil, seg("lookup"))
	require.NoError(t, err)
	require.False(t, found)

	fields := resolver.NewDirect(introspect.New(config.NewConfig(config.WithIncludeMethods(false))))
	v, found, err = fields.Resolve(h, nil, seg("title"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "stored", v)
}

func TestResolve_ScansOncePerPair(t *testing.T) {
	intro := newCounting()
	r := resolver.NewDirect(intro)
	p := Person{Name: "Ann", Age: 41}

	for range 100 {
		_, found, _ := r.Resolve(p, personType, seg("name"))
		require.True(t, found)
		_, found, _ = r.Resolve(p, personType, seg("[NAME]"))
		require.True(t, found)
	}
	require.Equal(t, 1, intro.scans(personType))

	r.Resolve(p, personType, seg("age"))
	require.Equal(t, 2, intro.scans(personType))
	require.EqualValues(t, 1, intro.bindCount("Name"))
	require.EqualValues(t, 1, intro.bindCount("Age"))
}

func TestResolve_NegativeMemoized(t *testing.T) {
	intro := newCounting()
	r := resolver.NewDirect(intro)

	for range 10 {
		_, found, err := r.Resolve(Person{}, personType, seg("nickname"))
		require.NoError(t, err)
		require.False(t, found)
	}
	require.Equal(t, 1, intro.scans(personType))
}

func TestResolve_GetterSharedAcrossDeclaredTypes(t *testing.T) {
	intro := newCounting()
	r := resolver.NewDirect(intro)
	p := &Person{Name: "Ann"}

	v1, _, _ := r.Resolve(*p, personType, seg("name"))
	v2, _, _ := r.Resolve(p, reflect.TypeFor[*Person](), seg("name"))
	v3, _, _ := r.Resolve(&p, reflect.TypeFor[**Person](), seg("name"))
	require.Equal(t, []any{"Ann", "Ann", "Ann"}, []any{v1, v2, v3})

	// Three tables were scanned, one getter was bound.
	require.Equal(t, 1, intro.scans(personType))
	require.Equal(t, 1, intro.scans(reflect.TypeFor[*Person]()))
	require.EqualValues(t, 1, intro.bindCount("Name"))
}

func TestResolve_CrossTypeIsolation(t *testing.T) {
	r := resolver.NewDirect(introspect.New(config.DefaultConfig()))
	name := seg("name")

	for range 3 {
		v, _, _ := r.Resolve(Person{Name: "Ann"}, nil, name)
		require.Equal(t, "Ann", v)
		v, _, _ = r.Resolve(Pet{Name: "Rex"}, nil, name)
		require.Equal(t, "Rex", v)
	}

	_, found, _ := r.Resolve(Pet{}, nil, seg("age"))
	require.False(t, found)
	_, found, _ = r.Resolve(Person{}, nil, seg("age"))
	require.True(t, found)
}

func TestResolve_Reset(t *testing.T) {
	intro := newCounting()
	r := resolver.NewDirect(intro)

	r.Resolve(Person{}, personType, seg("name"))
	r.Reset()
	v, found, err := r.Resolve(Person{Name: "Bo"}, personType, seg("name"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Bo", v)

	require.Equal(t, 2, intro.scans(personType))
	require.EqualValues(t, 2, intro.bindCount("Name"))
}

// brokenIntrospector lists one member whose binding always fails.
type brokenIntrospector struct {
	binds atomic.Int64
}

var errBroken = errors.New("broken accessor")

func (b *brokenIntrospector) Members(reflect.Type) []apis.Member {
	return []apis.Member{{
		Name: "Broken",
		Kind: apis.Field,
		ID:   "broken",
		Bind: func() (apis.Getter, error) {
			b.binds.Add(1)
			return nil, errBroken
		},
	}}
}

func TestResolve_BindFailureCached(t *testing.T) {
	intro := &brokenIntrospector{}
	r := resolver.NewDirect(intro)

	for range 5 {
		v, found, err := r.Resolve(Person{}, personType, seg("broken"))
		require.Error(t, err)
		require.ErrorIs(t, err, resolver.ErrBind)
		require.ErrorIs(t, err, errBroken)
		require.False(t, found)
		require.Nil(t, v)
	}
	require.EqualValues(t, 1, intro.binds.Load())

	// A second type resolving to the same member ID shares the failure.
	_, _, err := r.Resolve(Pet{}, nil, seg("broken"))
	require.ErrorIs(t, err, resolver.ErrBind)
	require.EqualValues(t, 1, intro.binds.Load())

	// Other segments are unaffected.
	_, found, err := r.Resolve(Person{}, personType, seg("other"))
	require.NoError(t, err)
	require.False(t, found)
}

func TestChain_AliasOrder(t *testing.T) {
	var calls []string
	provider := func(name string, answer bool) apis.AliasProvider {
		return strategy.Func(func(any, reflect.Type, *segment.Segment) (any, bool) {
			calls = append(calls, name)
			if answer {
				return name, true
			}
			return nil, false
		})
	}
	direct := resolver.NewDirect(introspect.New(config.DefaultConfig()))
	r := resolver.New(direct, provider("a", false), nil, provider("b", true), provider("c", true))

	v, found, err := r.Resolve(Person{}, personType, seg("unknown"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "b", v)
	require.Equal(t, []string{"a", "b"}, calls)

	// A direct hit never consults providers.
	calls = nil
	v, found, err = r.Resolve(Person{Name: "Ann"}, personType, seg("name"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Ann", v)
	require.Empty(t, calls)
}

func TestChain_ErrorSkipsProviders(t *testing.T) {
	called := false
	p := strategy.Func(func(any, reflect.Type, *segment.Segment) (any, bool) {
		called = true
		return "alias", true
	})
	r := resolver.New(resolver.NewDirect(&brokenIntrospector{}), p)

	_, found, err := r.Resolve(Person{}, personType, seg("broken"))
	require.ErrorIs(t, err, resolver.ErrBind)
	require.False(t, found)
	require.False(t, called)
}

func TestChain_Rename(t *testing.T) {
	direct := resolver.NewDirect(introspect.New(config.DefaultConfig()))
	r := resolver.New(direct, strategy.NewRename(direct, map[string]string{"nickname": "Name"}))

	v, found, err := r.Resolve(Person{Name: "Ann", Age: 41}, personType, seg("nickname"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Ann", v)

	v, found, err = r.Resolve(Person{Name: "Ann", Age: 41}, personType, seg("AGE"))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 41, v)
}

func TestChain_Comparable(t *testing.T) {
	direct := resolver.NewDirect(introspect.New(config.DefaultConfig()))
	a := resolver.New(direct, strategy.NewCollection(config.DefaultMaxUnwrap))
	b := resolver.New(direct, strategy.NewCollection(config.DefaultMaxUnwrap))

	same := a
	require.NotPanics(t, func() {
		require.True(t, a == same)
		require.False(t, a == b)
		require.False(t, a == apis.MemberResolver(direct))
	})
}

type resettable struct {
	strategy.Func
	resets int
}

func (r *resettable) Reset() { r.resets++ }

func TestChain_ResetAndDirect(t *testing.T) {
	intro := newCounting()
	direct := resolver.NewDirect(intro)
	p := &resettable{Func: func(any, reflect.Type, *segment.Segment) (any, bool) { return nil, false }}
	r := resolver.New(direct, p)

	require.Same(t, direct, resolver.DirectOf(r))
	require.Same(t, direct, resolver.DirectOf(direct))

	r.Resolve(Person{}, personType, seg("name"))
	r.Reset()
	r.Resolve(Person{}, personType, seg("name"))
	require.Equal(t, 1, p.resets)
	require.Equal(t, 2, intro.scans(personType))
}
