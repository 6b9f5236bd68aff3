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

// Builder composes the segment registry, member resolver and descriptor
// provider from a Config. Implementations may migrate state from previous
// instances (prev), or ignore them.
type Builder interface {
	// BuildSegments constructs a SegmentRegistry for cfg. May reuse prev.
	// ext is an optional extension context. Its meaning is implementation-defined.
	BuildSegments(cfg Config, prev SegmentRegistry, ext any) SegmentRegistry
	// BuildResolver constructs a MemberResolver for cfg. May reuse state from prev.
	// ext is an optional extension context. Its meaning is implementation-defined.
	BuildResolver(cfg Config, segs SegmentRegistry, prev MemberResolver, ext any) MemberResolver
	// BuildDescriptors constructs a DescriptorProvider over res.
	// ext is an optional extension context. Its meaning is implementation-defined.
	BuildDescriptors(cfg Config, res MemberResolver, prev DescriptorProvider, ext any) DescriptorProvider
}
