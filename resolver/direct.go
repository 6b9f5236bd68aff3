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

package resolver

import (
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"dirpx.dev/pathx/apis"
	"dirpx.dev/pathx/segment"
)

// ErrBind is returned when a discovered member cannot be bound into a
// getter. It is cached for the (type, segment) pair and never retried.
var ErrBind = apis.NewError("pathx(resolver): cannot bind member accessor")

// Option configures a Direct resolver.
type Option func(*Direct)

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(d *Direct) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDirect constructs a Direct resolver over intro.
func NewDirect(intro apis.Introspector, opts ...Option) *Direct {
	d := &Direct{
		intro:  intro,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.caches.Store(&caches{})
	return d
}

// Direct resolves members through the introspector only, with no alias
// fallback. It owns the two cache tiers:
//
//   - per declared type, a table from segment Ident to a lazily built
//     entry (getter, not-found, or binding error);
//   - per member ID, the bound getter, shared by every type whose table
//     resolves to that member.
//
// Both tiers are published through an atomic pointer, so Reset swaps them
// for empty ones without blocking readers.
type Direct struct {
	intro  apis.Introspector
	logger *slog.Logger
	caches atomic.Pointer[caches]
}

// Ensure Direct implements apis.MemberResolver.
var _ apis.MemberResolver = (*Direct)(nil)

// caches is one generation of both cache tiers.
type caches struct {
	tables  sync.Map // map[reflect.Type]*table
	getters sync.Map // map[member ID]*binding
}

// table holds the entries of one declared type.
type table struct {
	entries sync.Map // map[segment.Ident]*entry
}

// entry is the memoized outcome for one (type, segment) pair.
// Fields are written once inside once and read only after it.
type entry struct {
	once  sync.Once
	get   apis.Getter
	found bool
	err   error
}

// binding is the memoized getter for one member ID.
type binding struct {
	once sync.Once
	get  apis.Getter
	err  error
}

// Resolve reads seg from instance through a cached getter.
func (d *Direct) Resolve(instance any, t reflect.Type, seg *segment.Segment) (any, bool, error) {
	if seg == nil {
		return nil, false, nil
	}
	if t == nil || t.Kind() == reflect.Interface {
		if instance == nil {
			return nil, false, nil
		}
		t = reflect.TypeOf(instance)
	}

	c := d.caches.Load()
	e := d.table(c, t).entry(seg.Ident())
	e.once.Do(func() { d.build(c, t, seg, e) })

	if e.err != nil {
		return nil, false, e.err
	}
	if !e.found {
		return nil, false, nil
	}
	v, ok := e.get(instance)
	return v, ok, nil
}

// Reset drops both cache tiers. Resolutions in flight finish against the
// generation they started with.
func (d *Direct) Reset() {
	d.caches.Store(&caches{})
	d.logger.Info("member caches reset")
}

// table returns the table for t in generation c, creating it on first
// use. A losing LoadOrStore discards its empty table.
func (d *Direct) table(c *caches, t reflect.Type) *table {
	if v, ok := c.tables.Load(t); ok {
		return v.(*table)
	}
	v, _ := c.tables.LoadOrStore(t, &table{})
	return v.(*table)
}

// entry returns the entry for id, creating an unbuilt one on first use.
func (tb *table) entry(id segment.Ident) *entry {
	if v, ok := tb.entries.Load(id); ok {
		return v.(*entry)
	}
	v, _ := tb.entries.LoadOrStore(id, &entry{})
	return v.(*entry)
}

// build runs the introspection scan for (t, seg) and fills e.
func (d *Direct) build(c *caches, t reflect.Type, seg *segment.Segment, e *entry) {
	m, ok := match(d.intro.Members(t), seg.Lower())
	if !ok {
		d.logger.Debug("member not found",
			slog.String("type", t.String()),
			slog.String("segment", seg.String()))
		return
	}

	get, err := c.bind(m)
	if err != nil {
		e.err = ErrBind.Wrap(err).With(
			slog.String("type", t.String()),
			slog.String("member", m.Name))
		d.logger.Debug("member binding failed", slog.Any("error", e.err))
		return
	}

	e.get, e.found = get, true
	d.logger.Debug("member getter built",
		slog.String("type", t.String()),
		slog.String("segment", seg.String()),
		slog.String("member", m.Name),
		slog.String("kind", m.Kind.String()))
}

// bind returns the getter for m, shared across types by member ID.
func (c *caches) bind(m apis.Member) (apis.Getter, error) {
	if m.Bind == nil {
		return nil, errNoBinder
	}
	if m.ID == nil {
		return m.Bind()
	}
	v, ok := c.getters.Load(m.ID)
	if !ok {
		v, _ = c.getters.LoadOrStore(m.ID, &binding{})
	}
	b := v.(*binding)
	b.once.Do(func() { b.get, b.err = m.Bind() })
	return b.get, b.err
}

var errNoBinder = apis.NewError("member has no binder")

// match picks the member named lower, ignoring case. The first matching
// property wins; otherwise the first matching field. Indexed members never
// match.
func match(members []apis.Member, lower string) (apis.Member, bool) {
	var field apis.Member
	hasField := false
	for _, m := range members {
		if m.Indexed || !strings.EqualFold(m.Name, lower) {
			continue
		}
		if m.Kind == apis.Property {
			return m, true
		}
		if !hasField {
			field, hasField = m, true
		}
	}
	return field, hasField
}
