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
	"reflect"

	"dirpx.dev/pathx/segment"
)

// MemberResolver reads a named member from a host value.
//
// Resolve reports found=false for members that do not exist; that is an
// ordinary outcome, never an error. err is non-nil only when a member was
// discovered but could not be bound into a getter.
type MemberResolver interface {
	// Resolve reads seg from instance, whose declared type is t. A nil or
	// interface t means the dynamic type of instance.
	Resolve(instance any, t reflect.Type, seg *segment.Segment) (value any, found bool, err error)
	// Reset drops all cached getters.
	Reset()
}

// MemberKind tells property-like members from plain fields.
type MemberKind uint8

const (
	// Property is a computed member (in Go: an exported method with no
	// arguments and a single result).
	Property MemberKind = iota
	// Field is a stored member (in Go: an exported struct field).
	Field
)

// String returns "property" or "field".
func (k MemberKind) String() string {
	switch k {
	case Property:
		return "property"
	case Field:
		return "field"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Getter reads one member from an instance. ok is false when the instance
// cannot be read through this getter (a nil pointer on the way, or a value
// of an unrelated type).
type Getter func(instance any) (value any, ok bool)

// Member is one readable member reported by an Introspector.
type Member struct {
	// Name is the member name as declared.
	Name string
	// Kind is Property or Field.
	Kind MemberKind
	// Indexed reports whether reading the member needs arguments.
	// Indexed members are never resolved.
	Indexed bool
	// ID identifies the underlying member independently of the type that
	// listed it. It must be comparable. Members with equal IDs share one
	// bound getter; a nil ID disables sharing.
	ID any
	// Bind produces the getter. It is called at most once per ID.
	Bind func() (Getter, error)
}

// Introspector lists the readable members of a type.
// Content must be deterministic per type; order is implementation-defined.
type Introspector interface {
	Members(t reflect.Type) []Member
}

// MemberGetter is implemented by values that answer member lookups
// themselves, without reflection.
type MemberGetter interface {
	GetMember(name string) (value any, ok bool)
}
