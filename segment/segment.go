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
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// thisValue is the text an empty segment stands for.
	thisValue = "this"
	// valueValue is the lowercase form classified as KindValue.
	valueValue = "value"
	// hashMultiplier spreads the IsThis bit before mixing in the name hash.
	hashMultiplier = 397
)

// Ident is the equality-relevant part of a Segment: two segments are equal
// exactly when their idents are equal. Ident is comparable and is what every
// member cache uses as its map key.
type Ident struct {
	This  bool
	Lower string
}

// Segment is the canonical form of one dot-separated path component.
//
// Segments are immutable and safe to share. Obtain them from a registry
// (see dirpx.dev/pathx/registry) so that repeated text yields the same
// pointer; New builds an unregistered one that still compares Equal to any
// registered segment with the same Ident.
type Segment struct {
	value      string
	trimmed    string
	lower      string
	hash       uint64
	kind       Kind
	isThis     bool
	isVariable bool
	isValue    bool
}

// New normalizes raw into a Segment classified as kind.
//
// Normalization is total: empty text is `this`; one leading '@' is removed
// and marks the segment as a variable; one outer pair of square brackets is
// stripped; the remainder is lowercased with invariant (root locale) rules.
// kind is overridden by KindThis for `this` spellings and then by KindValue
// for `value` spellings.
func New(raw string, kind Kind) *Segment {
	empty := raw == ""

	value := thisValue
	if !empty {
		value = strings.TrimPrefix(raw, "@")
	}
	trimmed := trimBrackets(value)

	s := &Segment{
		value:      value,
		trimmed:    trimmed,
		lower:      LowerInvariant(trimmed),
		kind:       kind,
		isThis:     empty || strings.EqualFold(raw, thisValue),
		isVariable: !empty && raw[0] == '@',
	}
	s.isValue = s.lower == valueValue
	s.hash = hashOf(s.isThis, s.lower)

	if s.isThis {
		s.kind = KindThis
	}
	if s.isValue {
		s.kind = KindValue
	}
	return s
}

// String returns the segment text after the '@' trim, brackets included.
func (s *Segment) String() string { return s.value }

// Trimmed returns the segment text with one layer of brackets removed.
func (s *Segment) Trimmed() string { return s.trimmed }

// Lower returns the lowercase-invariant form of Trimmed.
func (s *Segment) Lower() string { return s.lower }

// IsThis reports whether the segment refers to the current context.
func (s *Segment) IsThis() bool { return s.isThis }

// IsVariable reports whether the original text started with '@'.
func (s *Segment) IsVariable() bool { return s.isVariable }

// IsValue reports whether the segment is a `value` spelling.
func (s *Segment) IsValue() bool { return s.isValue }

// Kind returns the well-known classification of the segment.
func (s *Segment) Kind() Kind { return s.kind }

// Hash returns the precomputed hash of Ident.
func (s *Segment) Hash() uint64 { return s.hash }

// Ident returns the comparable equality key of the segment.
func (s *Segment) Ident() Ident { return Ident{This: s.isThis, Lower: s.lower} }

// Equal reports whether s and o normalize to the same (IsThis, Lower) pair.
// Raw text, the '@' sigil and brackets do not take part in equality.
func (s *Segment) Equal(o *Segment) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	return s.hash == o.hash && s.isThis == o.isThis && s.lower == o.lower
}

// trimBrackets strips exactly one outer [ ] pair.
func trimBrackets(s string) string {
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		return s[1 : len(s)-1]
	}
	return s
}

// LowerInvariant lowercases s with root-locale rules, the same folding
// segments use for their Lower form.
// A Caser keeps state, so a fresh one is used per call.
func LowerInvariant(s string) string {
	return cases.Lower(language.Und).String(s)
}

func hashOf(isThis bool, lower string) uint64 {
	var h uint64
	if isThis {
		h = 1
	}
	return (h * hashMultiplier) ^ xxh3.HashString(lower)
}
