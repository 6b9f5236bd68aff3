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

package introspect

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/pathx/apis"
	uref "dirpx.dev/pathx/utils/reflect"
)

// ErrOwnerMismatch is returned by Bind when the member no longer belongs to
// the type it was listed for.
var ErrOwnerMismatch = errors.New("pathx(introspect): member owner does not match search type")

// New creates an apis.Introspector that lists members via reflection.
//
// For a declared type t the introspector follows up to cfg.MaxUnwrap
// pointers to the base type and lists:
//
//   - property-like members: exported methods of *base with no arguments
//     and exactly one result (only when cfg.IncludeMethods is set);
//     methods taking arguments are listed as Indexed;
//   - field-like members: exported fields of base, promoted fields of
//     embedded structs included.
//
// Member IDs are keyed by the base type, so t, *t and **t share getters.
func New(cfg apis.Config) apis.Introspector {
	return reflector{maxUnwrap: cfg.MaxUnwrap, methods: cfg.IncludeMethods}
}

// reflector is the reflection-backed Introspector.
type reflector struct {
	maxUnwrap int
	methods   bool
}

// Ensure reflector implements apis.Introspector.
var _ apis.Introspector = reflector{}

// memberID identifies a member independently of the declared type.
type memberID struct {
	owner reflect.Type
	kind  apis.MemberKind
	name  string
}

// Members lists the readable members of t. Methods come first, then
// fields in declaration order.
func (r reflector) Members(t reflect.Type) []apis.Member {
	base, err := uref.Indirect(t, r.maxUnwrap)
	if err != nil || base.Kind() == reflect.Interface {
		return nil
	}

	var out []apis.Member
	if r.methods {
		out = r.appendMethods(out, base)
	}
	if base.Kind() == reflect.Struct {
		out = r.appendFields(out, base)
	}
	return out
}

func (r reflector) appendMethods(out []apis.Member, base reflect.Type) []apis.Member {
	pt := reflect.PointerTo(base)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		mt := m.Type
		if mt.NumOut() != 1 {
			continue
		}
		out = append(out, apis.Member{
			Name:    m.Name,
			Kind:    apis.Property,
			Indexed: mt.NumIn() > 1,
			ID:      memberID{owner: base, kind: apis.Property, name: m.Name},
			Bind:    r.methodBinder(base, m),
		})
	}
	return out
}

func (r reflector) appendFields(out []apis.Member, base reflect.Type) []apis.Member {
	for _, f := range reflect.VisibleFields(base) {
		if !f.IsExported() {
			continue
		}
		out = append(out, apis.Member{
			Name: f.Name,
			Kind: apis.Field,
			ID:   memberID{owner: base, kind: apis.Field, name: f.Name},
			Bind: r.fieldBinder(base, f),
		})
	}
	return out
}

// methodBinder returns a Bind for method m of *base.
func (r reflector) methodBinder(base reflect.Type, m reflect.Method) func() (apis.Getter, error) {
	maxUnwrap := r.maxUnwrap
	return func() (apis.Getter, error) {
		mt := m.Type
		if mt.NumIn() != 1 || mt.In(0) != reflect.PointerTo(base) {
			return nil, fmt.Errorf("%w: method %s has receiver %v, want *%v", ErrOwnerMismatch, m.Name, mt.In(0), base)
		}
		fn := m.Func
		return func(instance any) (any, bool) {
			p, ok := uref.PointerValue(reflect.ValueOf(instance), base, maxUnwrap)
			if !ok {
				return nil, false
			}
			out := fn.Call([]reflect.Value{p})
			return out[0].Interface(), true
		}, nil
	}
}

// fieldBinder returns a Bind for field f of base.
func (r reflector) fieldBinder(base reflect.Type, f reflect.StructField) func() (apis.Getter, error) {
	maxUnwrap := r.maxUnwrap
	return func() (apis.Getter, error) {
		sf, err := fieldByIndex(base, f.Index)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", ErrOwnerMismatch, f.Name, err)
		}
		if sf.Name != f.Name {
			return nil, fmt.Errorf("%w: field %s resolves to %s", ErrOwnerMismatch, f.Name, sf.Name)
		}
		index := f.Index
		return func(instance any) (any, bool) {
			v, ok := uref.IndirectValue(reflect.ValueOf(instance), base, maxUnwrap)
			if !ok {
				return nil, false
			}
			fv, err := v.FieldByIndexErr(index)
			if err != nil || !fv.CanInterface() {
				return nil, false
			}
			return fv.Interface(), true
		}, nil
	}
}

// fieldByIndex is reflect.Type.FieldByIndex without the panic.
func fieldByIndex(t reflect.Type, index []int) (f reflect.StructField, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return t.FieldByIndex(index), nil
}
