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
	"reflect"

	"dirpx.dev/pathx/segment"
)

// AliasProvider is a pluggable fallback consulted, in order, when direct
// member lookup misses. The first provider that reports found wins.
// Providers own their caching.
type AliasProvider interface {
	// TryResolveAlias attempts to map seg to a value of instance.
	// It returns (value, true) if handled; otherwise (nil, false) to fall through.
	TryResolveAlias(instance any, t reflect.Type, seg *segment.Segment) (value any, found bool)
}
