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

import "dirpx.dev/pathx/segment"

// SegmentRegistry interns path-component text into canonical segments.
// Implementations must be safe for concurrent use; Intern never fails.
type SegmentRegistry interface {
	// Intern returns the canonical segment for raw, creating it on first use.
	Intern(raw string) *segment.Segment
	// InternValue interns an arbitrary value: nil means `this`, a
	// *segment.Segment is returned as is, anything else is interned by its
	// text form.
	InternValue(v any) *segment.Segment
	// Lookup returns the segment interned for raw, if any.
	Lookup(raw string) (*segment.Segment, bool)
	// Entries returns a snapshot of interned segments (order is unspecified).
	Entries() []*segment.Segment
	// Count returns the number of interned raw spellings.
	Count() int
	// Reset drops every interned segment and re-seeds the well-known ones.
	Reset()
}
