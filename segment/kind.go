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

import (
	"fmt"
	"strings"
)

// Kind classifies a Segment as one of the engine's well-known variables.
//
// Kind is assigned once, when the Segment is constructed. Ordinary member
// names are KindNone. The @-prefixed loop variables (@index, @key, @first,
// @last, @root, @parent) and their bare spellings are seeded into every
// registry with their kind. Two classifications are computed from the text
// itself and always win: any `this` spelling (including the empty string)
// is KindThis, and any `value` spelling is KindValue.
//
// Kind values are plain integers and safe to share between goroutines.
type Kind int8

const (
	// KindNone marks an ordinary member name.
	KindNone Kind = iota - 1
	// KindIndex is the positional index of the current iteration.
	KindIndex
	// KindKey is the key (or index) of the current iteration.
	KindKey
	// KindValue is the value of the current iteration.
	KindValue
	// KindFirst is true on the first iteration.
	KindFirst
	// KindLast is true on the last iteration.
	KindLast
	// KindRoot is the top-level render context.
	KindRoot
	// KindParent is the enclosing render context.
	KindParent
	// KindThis is the current render context.
	KindThis
)

// kindNames maps known kinds to their canonical text form.
var kindNames = map[Kind]string{
	KindNone:   "none",
	KindIndex:  "index",
	KindKey:    "key",
	KindValue:  "value",
	KindFirst:  "first",
	KindLast:   "last",
	KindRoot:   "root",
	KindParent: "parent",
	KindThis:   "this",
}

// String returns the canonical lowercase name of k.
// Unknown values render as "Unknown(<n>)" and never panic.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%d)", k)
}

// IsVariable reports whether k names an engine-defined variable
// (anything other than KindNone).
func (k Kind) IsVariable() bool {
	return k != KindNone && k.valid()
}

func (k Kind) valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseKind parses the text form of a Kind.
//
// Matching is case-insensitive, surrounding whitespace is ignored and a
// single leading '@' is accepted, so "@Index", "index" and " INDEX "
// all yield KindIndex. Any other input returns KindNone and an error.
func ParseKind(s string) (Kind, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "@")
	if trimmed == "" {
		return KindNone, fmt.Errorf("segment: empty kind")
	}
	for k, name := range kindNames {
		if strings.EqualFold(trimmed, name) {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("segment: unknown kind %q", s)
}

// MustParseKind is like ParseKind but panics on invalid input.
func MustParseKind(s string) Kind {
	k, err := ParseKind(s)
	if err != nil {
		panic(err)
	}
	return k
}

// MarshalText implements encoding.TextMarshaler.
// Unknown values fail instead of serializing their diagnostic form.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("segment: cannot marshal unknown kind %d", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
// On failure *k is left unchanged.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
