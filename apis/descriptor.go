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

package apis

import (
	"fmt"
	"iter"
	"reflect"

	"dirpx.dev/pathx/segment"
)

// Shape is the iteration shape of a described type.
type Shape uint8

const (
	// ShapeNone is not iterable.
	ShapeNone Shape = iota
	// ShapeArray iterates positions (slices, arrays).
	ShapeArray
	// ShapeMap iterates key/value entries.
	ShapeMap
	// ShapeObject iterates the readable members of a struct.
	ShapeObject
	// ShapeEnumerable iterates a custom sequence.
	ShapeEnumerable
)

var shapeNames = [...]string{"none", "array", "map", "object", "enumerable"}

// String returns the lowercase shape name.
func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("Unknown(%d)", s)
}

// Iteration is the state visible to a loop body on one step.
type Iteration struct {
	Index int
	Key   any
	Value any
	First bool
	Last  bool
}

// Lookup answers the loop variables for seg: `this` and `value` spellings
// give the current value; @index, @key, @first and @last (in any casing)
// give the iteration state. Other segments report false.
func (it Iteration) Lookup(seg *segment.Segment) (any, bool) {
	if seg == nil {
		return nil, false
	}
	if seg.IsThis() || seg.IsValue() {
		return it.Value, true
	}
	if !seg.IsVariable() {
		return nil, false
	}
	switch seg.Ident() {
	case segment.Index.Ident():
		return it.Index, true
	case segment.Key.Ident():
		return it.Key, true
	case segment.First.Ident():
		return it.First, true
	case segment.Last.Ident():
		return it.Last, true
	default:
		return nil, false
	}
}

// Iterator walks an instance of a described type.
type Iterator interface {
	// Shape reports the iteration shape this iterator implements.
	Shape() Shape
	// Iterate calls fn once per element until fn returns false.
	Iterate(d Descriptor, instance any, fn func(Iteration) bool)
}

// Descriptor bundles what loop logic needs to know about a host type.
type Descriptor interface {
	// Type returns the described type (nil for the empty descriptor).
	Type() reflect.Type
	// Members returns the resolver used for member access on instances.
	Members() MemberResolver
	// Enumerate returns a fresh key/value sequence over instance.
	Enumerate(instance any) iter.Seq2[any, any]
	// Iterator returns the iteration strategy for the type.
	Iterator() Iterator
	// Dependencies returns the opaque values threaded to Enumerate.
	Dependencies() []any
}

// DescriptorProvider selects a Descriptor for a type.
type DescriptorProvider interface {
	// Describe returns the descriptor for t, or false when none applies.
	Describe(t reflect.Type) (Descriptor, bool)
	// Reset drops cached descriptors.
	Reset()
}

// Enumerable is implemented by values that enumerate themselves.
type Enumerable interface {
	Enumerate() iter.Seq2[any, any]
}
