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

package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/registry"
	"dirpx.dev/pathx/segment"
)

// seeded is the number of well-known spellings every registry starts with.
const seeded = 15

type stringer string

func (s stringer) String() string { return string(s) }

func TestIntern_Idempotent(t *testing.T) {
	reg := registry.New()

	for _, s := range []string{"name", "Name", "@index", "[x]", "", "this", "a.b"} {
		a := reg.Intern(s)
		b := reg.Intern(s)
		require.Same(t, a, b, "Intern(%q) twice", s)
	}
}

func TestIntern_NormalizationEquivalence(t *testing.T) {
	reg := registry.New()

	plain := reg.Intern("Foo")
	bracket := reg.Intern("[Foo]")
	variable := reg.Intern("@Foo")

	for _, s := range []*segment.Segment{bracket, variable} {
		require.True(t, plain.Equal(s), "%q should equal %q", plain, s)
		require.True(t, s.Equal(plain))
		require.Equal(t, plain.Hash(), s.Hash())
		require.Equal(t, plain.Ident(), s.Ident())
	}
	require.True(t, bracket.Equal(variable))

	// Distinct raw spellings keep distinct slots.
	require.NotSame(t, plain, bracket)
	require.NotSame(t, plain, variable)
	require.True(t, variable.IsVariable())
	require.False(t, plain.IsVariable())
}

func TestIntern_ThisEquivalence(t *testing.T) {
	reg := registry.New()

	segs := []*segment.Segment{
		reg.Intern(""),
		reg.InternValue(nil),
		reg.Intern("this"),
		reg.Intern("This"),
		reg.Intern("THIS"),
	}
	for _, s := range segs {
		require.True(t, s.IsThis())
		require.Equal(t, segment.KindThis, s.Kind())
		for _, o := range segs {
			require.True(t, s.Equal(o))
			require.Equal(t, s.Hash(), o.Hash())
		}
	}
	require.Same(t, reg.Intern(""), reg.InternValue(nil))
}

func TestIntern_SingleLayerBrackets(t *testing.T) {
	reg := registry.New()

	s := reg.Intern("[[x]]")
	require.Equal(t, "[x]", s.Trimmed())
	require.Equal(t, "[x]", s.Lower())
	require.False(t, s.Equal(reg.Intern("x")))
	require.False(t, s.Equal(reg.Intern("[x]")))
	require.True(t, reg.Intern("[[X]]").Equal(s))
}

func TestIntern_WellKnownDualKeys(t *testing.T) {
	reg := registry.New()

	cases := []struct {
		name string
		kind segment.Kind
	}{
		{"Index", segment.KindIndex},
		{"First", segment.KindFirst},
		{"Last", segment.KindLast},
		{"Value", segment.KindValue},
		{"Key", segment.KindKey},
		{"Root", segment.KindRoot},
		{"Parent", segment.KindParent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bare, ok := reg.Lookup(tc.name)
			require.True(t, ok, "bare %q should be seeded", tc.name)
			require.Equal(t, tc.kind, bare.Kind())

			at, ok := reg.Lookup("@" + tc.name)
			require.True(t, ok, "@%s should be seeded", tc.name)
			require.Equal(t, tc.kind, at.Kind())
			require.True(t, at.IsVariable())

			require.Same(t, bare, reg.Intern(tc.name))
			require.Same(t, at, reg.Intern("@"+tc.name))
		})
	}

	this := reg.Intern("This")
	require.Equal(t, segment.KindThis, this.Kind())
	_, ok := reg.Lookup("@This")
	require.False(t, ok, "@This must not be seeded")
}

func TestIntern_SeededMatchesPackageConstants(t *testing.T) {
	reg := registry.New()

	for _, c := range []*segment.Segment{
		segment.Index, segment.First, segment.Last, segment.Value,
		segment.Key, segment.Root, segment.Parent, segment.This,
	} {
		got := reg.Intern(c.String())
		require.True(t, got.Equal(c), "%q", c)
		require.Equal(t, c.Kind(), got.Kind())
	}
}

func TestIntern_UnseededSpellingsAreOrdinary(t *testing.T) {
	reg := registry.New()

	// Only the exact seeded spellings carry a kind; other casings are
	// ordinary names, except for the value/this overrides.
	require.Equal(t, segment.KindNone, reg.Intern("index").Kind())
	require.Equal(t, segment.KindNone, reg.Intern("@index").Kind())
	require.Equal(t, segment.KindValue, reg.Intern("@value").Kind())
	require.Equal(t, segment.KindValue, reg.Intern("[VALUE]").Kind())
	require.True(t, reg.Intern("index").Equal(reg.Intern("@Index")))
}

func TestInternValue(t *testing.T) {
	reg := registry.New()

	s := reg.Intern("name")
	require.Same(t, s, reg.InternValue(s))
	require.Same(t, s, reg.InternValue("name"))
	require.Same(t, s, reg.InternValue(stringer("name")))
	require.Same(t, reg.Intern("42"), reg.InternValue(42))
	require.Same(t, reg.Intern(""), reg.InternValue((*segment.Segment)(nil)))
}

func TestLookup_Miss(t *testing.T) {
	reg := registry.New()

	_, ok := reg.Lookup("unseen")
	require.False(t, ok)
	reg.Intern("unseen")
	_, ok = reg.Lookup("unseen")
	require.True(t, ok)
}

func TestCountAndEntries(t *testing.T) {
	reg := registry.New()
	require.Equal(t, seeded, reg.Count())

	reg.Intern("a")
	reg.Intern("a")
	reg.Intern("[a]")
	require.Equal(t, seeded+2, reg.Count())
	require.Len(t, reg.Entries(), seeded+2)
}

// TestResetSnapshot ensures Reset re-seeds and earlier handles stay usable.
func TestResetSnapshot(t *testing.T) {
	reg := registry.New()

	before := reg.Intern("user")
	snap := reg.Entries()
	reg.Reset()

	require.Equal(t, seeded, reg.Count())
	require.Len(t, snap, seeded+1)

	after := reg.Intern("user")
	require.NotSame(t, before, after)
	require.True(t, before.Equal(after))

	idx, ok := reg.Lookup("@Index")
	require.True(t, ok)
	require.Equal(t, segment.KindIndex, idx.Kind())
}

func TestErrorsAreNeverReturned(t *testing.T) {
	// Normalization is total: odd inputs still intern.
	reg := registry.New()
	for _, s := range []string{"@", "@@x", "[", "]", "[]", "[@x]", " ", "\x00", "ÄÖÜ"} {
		seg := reg.Intern(s)
		require.NotNil(t, seg, "%q", s)
	}
	require.Equal(t, "@x", reg.Intern("@@x").Trimmed())
	require.Equal(t, "", reg.Intern("[]").Trimmed())
	require.Equal(t, "äöü", reg.Intern("ÄÖÜ").Lower())
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.SegmentRegistry = registry.New()
