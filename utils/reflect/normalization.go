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

package reflect

import (
	"errors"
	"reflect"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectUnwrapLimit indicates that the type is still a pointer after
	// maxUnwrap indirections.
	ErrReflectUnwrapLimit = errors.New("reflect: pointer depth exceeds unwrap limit")
)

// Indirect follows pointer types from t and returns the first non-pointer
// type, the base type whose members are listed for t.
//
// At most maxUnwrap indirections are followed; a type that is still a
// pointer after that yields ErrReflectUnwrapLimit. maxUnwrap <= 0 means t
// must not be a pointer at all.
func Indirect(t reflect.Type, maxUnwrap int) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	for i := 0; t.Kind() == reflect.Pointer; i++ {
		if i >= maxUnwrap {
			return nil, ErrReflectUnwrapLimit
		}
		t = t.Elem()
	}
	return t, nil
}

// IndirectValue dereferences v (through pointers and interfaces) until its
// type is base. It reports false on nil pointers, on invalid values, when
// the chain ends in an unrelated type, or after maxUnwrap+1 steps.
func IndirectValue(v reflect.Value, base reflect.Type, maxUnwrap int) (reflect.Value, bool) {
	for i := 0; i <= maxUnwrap+1; i++ {
		if !v.IsValid() {
			return reflect.Value{}, false
		}
		if v.Type() == base {
			return v, true
		}
		switch v.Kind() {
		case reflect.Pointer, reflect.Interface:
			if v.IsNil() {
				return reflect.Value{}, false
			}
			v = v.Elem()
		default:
			return reflect.Value{}, false
		}
	}
	return reflect.Value{}, false
}

// PointerValue returns a *base pointing at the value v reaches through
// IndirectValue. When that value is not addressable it is copied first, so
// methods with pointer receivers can be called on it.
func PointerValue(v reflect.Value, base reflect.Type, maxUnwrap int) (reflect.Value, bool) {
	bv, ok := IndirectValue(v, base, maxUnwrap)
	if !ok {
		return reflect.Value{}, false
	}
	if bv.CanAddr() {
		return bv.Addr(), true
	}
	p := reflect.New(base)
	p.Elem().Set(bv)
	return p, true
}

// IndirectAny unwraps pointers and interfaces from v until it reaches a
// non-pointer value. It reports false on nil pointers or after maxUnwrap
// steps.
func IndirectAny(v reflect.Value, maxUnwrap int) (reflect.Value, bool) {
	for i := 0; ; i++ {
		if !v.IsValid() {
			return reflect.Value{}, false
		}
		k := v.Kind()
		if k != reflect.Pointer && k != reflect.Interface {
			return v, true
		}
		if v.IsNil() || i > maxUnwrap {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
}
