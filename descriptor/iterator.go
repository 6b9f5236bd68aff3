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

import "dirpx.dev/pathx/apis"

// NewIterator returns an iterator of the given shape that walks
// Descriptor.Enumerate, holding one element back so the final step can be
// flagged Last. ShapeNone yields an iterator that never calls fn.
func NewIterator(shape apis.Shape) apis.Iterator {
	return sequenceIterator{shape: shape}
}

type sequenceIterator struct {
	shape apis.Shape
}

// Ensure sequenceIterator implements apis.Iterator.
var _ apis.Iterator = sequenceIterator{}

func (it sequenceIterator) Shape() apis.Shape { return it.shape }

func (it sequenceIterator) Iterate(d apis.Descriptor, instance any, fn func(apis.Iteration) bool) {
	if it.shape == apis.ShapeNone || d == nil || fn == nil {
		return
	}

	var (
		pending apis.Iteration
		have    bool
		index   int
	)
	for k, v := range d.Enumerate(instance) {
		if have && !fn(pending) {
			return
		}
		pending = apis.Iteration{Index: index, Key: k, Value: v, First: index == 0}
		have = true
		index++
	}
	if have {
		pending.Last = true
		fn(pending)
	}
}
