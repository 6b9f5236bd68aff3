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

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/segment"
)

// EnumerateFunc produces a fresh key/value sequence over instance. d is the
// descriptor being enumerated, giving access to its members and
// dependencies.
type EnumerateFunc func(d apis.Descriptor, instance any) iter.Seq2[any, any]

// IteratorFunc produces the iterator for a descriptor once it exists.
type IteratorFunc func(d apis.Descriptor) apis.Iterator

// New constructs an apis.Descriptor for t.
//
// members resolves member access on instances; enumerate yields their
// key/value pairs (nil means nothing); iterator is called once with the
// new descriptor (nil means not iterable); deps are threaded to enumerate
// through Dependencies.
func New(t reflect.Type, members apis.MemberResolver, enumerate EnumerateFunc, iterator IteratorFunc, deps ...any) apis.Descriptor {
	if members == nil {
		members = noMembers{}
	}
	d := &descriptor{
		typ:       t,
		members:   members,
		enumerate: enumerate,
		deps:      deps,
	}
	d.iterator = NewIterator(apis.ShapeNone)
	if iterator != nil {
		if it := iterator(d); it != nil {
			d.iterator = it
		}
	}
	return d
}

// descriptor is the immutable apis.Descriptor built by New.
type descriptor struct {
	typ       reflect.Type
	members   apis.MemberResolver
	enumerate EnumerateFunc
	iterator  apis.Iterator
	deps      []any
}

// Ensure descriptor implements apis.Descriptor.
var _ apis.Descriptor = (*descriptor)(nil)

func (d *descriptor) Type() reflect.Type           { return d.typ }
func (d *descriptor) Members() apis.MemberResolver { return d.members }
func (d *descriptor) Iterator() apis.Iterator      { return d.iterator }
func (d *descriptor) Dependencies() []any          { return d.deps }

// Enumerate returns a new sequence on every call.
func (d *descriptor) Enumerate(instance any) iter.Seq2[any, any] {
	if d.enumerate == nil {
		return none
	}
	return d.enumerate(d, instance)
}

// Empty is the descriptor used when none applies: it enumerates nothing,
// resolves no members and is not iterable.
var Empty apis.Descriptor = &emptyDescriptor{}

type emptyDescriptor struct{}

func (emptyDescriptor) Type() reflect.Type                { return nil }
func (emptyDescriptor) Members() apis.MemberResolver      { return noMembers{} }
func (emptyDescriptor) Enumerate(any) iter.Seq2[any, any] { return none }
func (emptyDescriptor) Iterator() apis.Iterator           { return NewIterator(apis.ShapeNone) }
func (emptyDescriptor) Dependencies() []any               { return nil }

// noMembers never finds a member.
type noMembers struct{}

func (noMembers) Resolve(any, reflect.Type, *segment.Segment) (any, bool, error) {
	return nil, false, nil
}

func (noMembers) Reset() {}

// none is the empty sequence.
func none(func(any, any) bool) {}
