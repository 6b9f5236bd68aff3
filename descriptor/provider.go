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

package descriptor

import (
	"iter"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/segment"
	uref "dirpx.dev/pathx/utils/reflect"
)

var enumerableType = reflect.TypeFor[apis.Enumerable]()

// NewProvider creates an apis.DescriptorProvider that picks a shape from
// the reflected kind of a type:
//
//   - types implementing apis.Enumerable, iter.Seq / iter.Seq2 shaped
//     functions and receive channels: ShapeEnumerable;
//   - slices, arrays and strings: ShapeArray, keyed by position (strings
//     yield one string per rune);
//   - maps: ShapeMap, keyed by map key;
//   - structs: ShapeObject over the exported fields listed by intro, read
//     through res.
//
// Pointers are followed up to cfg.MaxUnwrap times. Other kinds have no
// descriptor. Results are cached per type until Reset.
func NewProvider(cfg apis.Config, res apis.MemberResolver, intro apis.Introspector) apis.DescriptorProvider {
	p := &provider{maxUnwrap: cfg.MaxUnwrap, res: res, intro: intro}
	p.cache.Store(new(sync.Map))
	return p
}

type provider struct {
	maxUnwrap int
	res       apis.MemberResolver
	intro     apis.Introspector
	cache     atomic.Pointer[sync.Map]
}

// Ensure provider implements apis.DescriptorProvider.
var _ apis.DescriptorProvider = (*provider)(nil)

// described is a cached Describe outcome, negative ones included.
type described struct {
	d  apis.Descriptor
	ok bool
}

func (p *provider) Describe(t reflect.Type) (apis.Descriptor, bool) {
	if t == nil {
		return nil, false
	}
	m := p.cache.Load()
	if v, ok := m.Load(t); ok {
		r := v.(described)
		return r.d, r.ok
	}
	d, ok := p.describe(t)
	v, _ := m.LoadOrStore(t, described{d: d, ok: ok})
	r := v.(described)
	return r.d, r.ok
}

func (p *provider) Reset() {
	p.cache.Store(new(sync.Map))
}

func (p *provider) describe(t reflect.Type) (apis.Descriptor, bool) {
	if t.Implements(enumerableType) {
		return New(t, p.res, enumerateSelf, shaped(apis.ShapeEnumerable)), true
	}

	base, err := uref.Indirect(t, p.maxUnwrap)
	if err != nil {
		return nil, false
	}
	switch base.Kind() {
	case reflect.Slice, reflect.Array:
		return New(t, p.res, p.enumerateArray(base), shaped(apis.ShapeArray)), true
	case reflect.String:
		return New(t, p.res, p.enumerateString(base), shaped(apis.ShapeArray)), true
	case reflect.Map:
		return New(t, p.res, p.enumerateMap(base), shaped(apis.ShapeMap)), true
	case reflect.Chan:
		if base.ChanDir()&reflect.RecvDir != 0 {
			return New(t, p.res, p.enumerateChan(base), shaped(apis.ShapeEnumerable)), true
		}
	case reflect.Struct:
		deps := p.fieldSegments(base)
		return New(t, p.res, enumerateObject, shaped(apis.ShapeObject), deps...), true
	case reflect.Func:
		if yield, ok := seqYield(base); ok {
			return New(t, p.res, p.enumerateFunc(base, yield), shaped(apis.ShapeEnumerable)), true
		}
	}
	return nil, false
}

func shaped(shape apis.Shape) IteratorFunc {
	return func(apis.Descriptor) apis.Iterator { return NewIterator(shape) }
}

// fieldSegments returns one segment per exported, distinctly named field
// of base, in declaration order.
func (p *provider) fieldSegments(base reflect.Type) []any {
	var (
		deps []any
		seen = make(map[string]struct{})
	)
	for _, m := range p.intro.Members(base) {
		if m.Kind != apis.Field || m.Indexed {
			continue
		}
		lower := segment.LowerInvariant(m.Name)
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		deps = append(deps, segment.New(m.Name, segment.KindNone))
	}
	return deps
}

func enumerateSelf(_ apis.Descriptor, instance any) iter.Seq2[any, any] {
	e, ok := instance.(apis.Enumerable)
	if !ok || e == nil {
		return none
	}
	if v := reflect.ValueOf(e); v.Kind() == reflect.Pointer && v.IsNil() {
		return none
	}
	return e.Enumerate()
}

func enumerateObject(d apis.Descriptor, instance any) iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, dep := range d.Dependencies() {
			seg, ok := dep.(*segment.Segment)
			if !ok {
				continue
			}
			v, found, err := d.Members().Resolve(instance, d.Type(), seg)
			if err != nil || !found {
				continue
			}
			if !yield(seg.String(), v) {
				return
			}
		}
	}
}

func (p *provider) enumerateArray(base reflect.Type) EnumerateFunc {
	return func(_ apis.Descriptor, instance any) iter.Seq2[any, any] {
		v, ok := uref.IndirectValue(reflect.ValueOf(instance), base, p.maxUnwrap)
		if !ok {
			return none
		}
		return func(yield func(any, any) bool) {
			for i := 0; i < v.Len(); i++ {
				if !yield(i, v.Index(i).Interface()) {
					return
				}
			}
		}
	}
}

func (p *provider) enumerateString(base reflect.Type) EnumerateFunc {
	return func(_ apis.Descriptor, instance any) iter.Seq2[any, any] {
		v, ok := uref.IndirectValue(reflect.ValueOf(instance), base, p.maxUnwrap)
		if !ok {
			return none
		}
		return func(yield func(any, any) bool) {
			i := 0
			for _, r := range v.String() {
				if !yield(i, string(r)) {
					return
				}
				i++
			}
		}
	}
}

// enumerateChan receives until the channel is closed. A nil channel
// enumerates nothing.
func (p *provider) enumerateChan(base reflect.Type) EnumerateFunc {
	return func(_ apis.Descriptor, instance any) iter.Seq2[any, any] {
		v, ok := uref.IndirectValue(reflect.ValueOf(instance), base, p.maxUnwrap)
		if !ok || v.IsNil() {
			return none
		}
		return func(yield func(any, any) bool) {
			for i := 0; ; i++ {
				x, ok := v.Recv()
				if !ok || !yield(i, x.Interface()) {
					return
				}
			}
		}
	}
}

func (p *provider) enumerateMap(base reflect.Type) EnumerateFunc {
	return func(_ apis.Descriptor, instance any) iter.Seq2[any, any] {
		v, ok := uref.IndirectValue(reflect.ValueOf(instance), base, p.maxUnwrap)
		if !ok || v.IsNil() {
			return none
		}
		return func(yield func(any, any) bool) {
			it := v.MapRange()
			for it.Next() {
				if !yield(it.Key().Interface(), it.Value().Interface()) {
					return
				}
			}
		}
	}
}

var boolType = reflect.TypeFor[bool]()

// seqYield reports whether fn has the shape of iter.Seq[V] or
// iter.Seq2[K, V] and returns its yield parameter type.
func seqYield(fn reflect.Type) (reflect.Type, bool) {
	if fn.NumIn() != 1 || fn.NumOut() != 0 || fn.IsVariadic() {
		return nil, false
	}
	y := fn.In(0)
	if y.Kind() != reflect.Func || y.NumOut() != 1 || y.Out(0) != boolType || y.IsVariadic() {
		return nil, false
	}
	if n := y.NumIn(); n != 1 && n != 2 {
		return nil, false
	}
	return y, true
}

// enumerateFunc adapts a sequence function of type base. Single-value
// sequences are keyed by position. Once yield has returned false it is
// not called again, even if the sequence keeps going.
func (p *provider) enumerateFunc(base, yieldType reflect.Type) EnumerateFunc {
	return func(_ apis.Descriptor, instance any) iter.Seq2[any, any] {
		fv, ok := uref.IndirectValue(reflect.ValueOf(instance), base, p.maxUnwrap)
		if !ok || fv.IsNil() {
			return none
		}
		return func(yield func(any, any) bool) {
			index, stopped := 0, false
			y := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
				if stopped {
					return []reflect.Value{reflect.ValueOf(false)}
				}
				var k, v any
				if len(args) == 1 {
					k, v = index, args[0].Interface()
				} else {
					k, v = args[0].Interface(), args[1].Interface()
				}
				index++
				stopped = !yield(k, v)
				return []reflect.Value{reflect.ValueOf(!stopped)}
			})
			fv.Call([]reflect.Value{y})
		}
	}
}
