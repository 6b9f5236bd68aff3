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

package segment

// WellKnown describes one pre-registered segment.
type WellKnown struct {
	// Name is the bare spelling, e.g. "Index".
	Name string
	// Kind is the classification given to the seeded entries.
	Kind Kind
	// Variable reports whether "@"+Name is seeded as well.
	Variable bool
}

// wellKnown lists the seeded spellings. `this` has no @-form.
var wellKnown = []WellKnown{
	{Name: "Index", Kind: KindIndex, Variable: true},
	{Name: "First", Kind: KindFirst, Variable: true},
	{Name: "Last", Kind: KindLast, Variable: true},
	{Name: "Value", Kind: KindValue, Variable: true},
	{Name: "Key", Kind: KindKey, Variable: true},
	{Name: "Root", Kind: KindRoot, Variable: true},
	{Name: "Parent", Kind: KindParent, Variable: true},
	{Name: "This", Kind: KindThis},
}

// WellKnowns returns the spellings every registry seeds on creation and
// after a reset. The returned slice is a copy.
func WellKnowns() []WellKnown {
	out := make([]WellKnown, len(wellKnown))
	copy(out, wellKnown)
	return out
}

// Unregistered canonical handles for the well-known variables. They compare
// Equal to the seeded registry entries and may be used as map keys via Ident.
var (
	Index  = New("Index", KindIndex)
	First  = New("First", KindFirst)
	Last   = New("Last", KindLast)
	Value  = New("Value", KindValue)
	Key    = New("Key", KindKey)
	Root   = New("Root", KindRoot)
	Parent = New("Parent", KindParent)
	This   = New("This", KindThis)
)
