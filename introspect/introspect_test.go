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

package introspect_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/config"
	"dirpx.dev/pathx/introspect"
)

type Base struct {
	ID string
}

type account struct {
	Base
	Owner   string
	balance int
}

func (a account) Balance() int           { return a.balance }
func (a *account) Deposit(n int) int     { a.balance += n; return a.balance }
func (a *account) Label() string         { return "acct:" + a.Owner }
func (a *account) Pair() (string, error) { return a.Owner, nil }

func names(ms []apis.Member) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Kind.String()+":"+m.Name)
	}
	return out
}

func find(t *testing.T, ms []apis.Member, name string) apis.Member {
	t.Helper()
	for _, m := range ms {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("member %s not listed", name)
	return apis.Member{}
}

func TestMembers_Listing(t *testing.T) {
	intro := introspect.New(config.DefaultConfig())

	got := names(intro.Members(reflect.TypeFor[account]()))
	// Methods come first, sorted by name, then fields in declaration order.
	require.Equal(t, []string{
		"property:Balance",
		"property:Deposit",
		"property:Label",
		"field:Base",
		"field:ID",
		"field:Owner",
	}, got)

	ms := intro.Members(reflect.TypeFor[account]())
	require.True(t, find(t, ms, "Deposit").Indexed)
	require.False(t, find(t, ms, "Label").Indexed)
}

func TestMembers_WithoutMethods(t *testing.T) {
	intro := introspect.New(config.NewConfig(config.WithIncludeMethods(false)))

	got := names(intro.Members(reflect.TypeFor[*account]()))
	require.Equal(t, []string{"field:Base", "field:ID", "field:Owner"}, got)
}

func TestMembers_PointerDepth(t *testing.T) {
	intro := introspect.New(config.NewConfig(config.WithMaxUnwrap(1)))

	require.NotEmpty(t, intro.Members(reflect.TypeFor[*account]()))
	require.Empty(t, intro.Members(reflect.TypeFor[**account]()))
	require.Empty(t, intro.Members(reflect.TypeFor[any]()))
	require.Empty(t, intro.Members(nil))
}

func TestMembers_SharedIDs(t *testing.T) {
	intro := introspect.New(config.DefaultConfig())

	a := intro.Members(reflect.TypeFor[account]())
	b := intro.Members(reflect.TypeFor[*account]())
	require.Equal(t, len(a), len(b))
	for i := range a {
		require.Equal(t, a[i].ID, b[i].ID, "member %s", a[i].Name)
	}

	// Types with the same member names keep their own IDs.
	type other struct{ Owner string }
	o := find(t, intro.Members(reflect.TypeFor[other]()), "Owner")
	require.NotEqual(t, find(t, a, "Owner").ID, o.ID)
}

func TestBind_Field(t *testing.T) {
	intro := introspect.New(config.DefaultConfig())
	ms := intro.Members(reflect.TypeFor[*account]())

	get, err := find(t, ms, "ID").Bind()
	require.NoError(t, err)

	acct := account{Base: Base{ID: "a-1"}, Owner: "ann"}
	for _, instance := range []any{acct, &acct} {
		v, ok := get(instance)
		require.True(t, ok)
		require.Equal(t, "a-1", v)
	}

	var nilAcct *account
	_, ok := get(nilAcct)
	require.False(t, ok)
	_, ok = get("not an account")
	require.False(t, ok)
	_, ok = get(nil)
	require.False(t, ok)
}

func TestBind_Method(t *testing.T) {
	intro := introspect.New(config.DefaultConfig())
	ms := intro.Members(reflect.TypeFor[account]())

	label, err := find(t, ms, "Label").Bind()
	require.NoError(t, err)
	balance, err := find(t, ms, "Balance").Bind()
	require.NoError(t, err)

	acct := account{Owner: "ann", balance: 5}

	// Pointer receivers work on non-addressable values through a copy.
	v, ok := label(acct)
	require.True(t, ok)
	require.Equal(t, "acct:ann", v)

	v, ok = balance(&acct)
	require.True(t, ok)
	require.Equal(t, 5, v)

	var nilAcct *account
	_, ok = label(nilAcct)
	require.False(t, ok)
}
