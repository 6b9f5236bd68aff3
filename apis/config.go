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

// Config carries read-only resolution knobs that influence introspection
// and the alias strategies. It is passed by value and should be treated
// as immutable by implementations.
type Config struct {
	// MaxUnwrap limits how many pointer indirections are followed from a
	// declared type (and from an instance) to the base type whose members
	// are listed. Acts as a safety guard against pathological nesting.
	MaxUnwrap int `yaml:"max_unwrap"`

	// IncludeMethods controls whether exported methods taking no arguments
	// and returning a single value are listed as property-like members.
	IncludeMethods bool `yaml:"include_methods"`

	// TagKeys lists the struct tag keys whose names are accepted as member
	// aliases (e.g. `json:"first_name"`). Empty disables tag aliases.
	TagKeys []string `yaml:"tag_keys"`

	// SnakeCase enables resolving snake_case and kebab-case segments
	// against CamelCase members.
	SnakeCase bool `yaml:"snake_case"`

	// CollectionAliases enables `length` and `count` on sized values.
	CollectionAliases bool `yaml:"collection_aliases"`

	// MapKeys enables resolving segments against string-keyed map entries.
	MapKeys bool `yaml:"map_keys"`
}
