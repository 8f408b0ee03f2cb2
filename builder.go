package instrument

import (
	"sync/atomic"

	"github.com/ygrebnov/errorc"
)

// Builder is the append-only accumulator a Registry hands to a Registerable's
// RegisterMetrics call. Each Counter/Gauge call appends one descriptor and
// makes it current; Attr attaches an attribute to the current descriptor.
// Calls chain:
//
//	b.Counter("insert", &m.InsertNew).Attr("result", "new").
//		Counter("insert", &m.InsertReplace).Attr("result", "replace")
//
// A Builder is not safe for concurrent use; exactly one goroutine performs a
// registration call. Once the registration call returns the builder is
// finalized and any further use panics with ErrBuilderFinalized.
type Builder struct {
	sink   *sink
	prefix string

	// stamps are outer-supplied attributes (registry base attributes,
	// Register options, Nested stamps). They are immutable from inside a
	// declaration and win over everything the declaration sets itself.
	stamps []Attr

	// base accumulates BaseAttr calls made by the declaration.
	base []Attr

	// cur indexes the current descriptor in sink.pending; -1 until this
	// builder declares its first metric.
	cur int
}

// sink collects pending descriptors. It is shared between a root builder and
// all its children so declaration order is preserved across nesting.
type sink struct {
	pending []pendingMetric
	done    bool
}

type pendingMetric struct {
	kind Kind
	name string
	cell *atomic.Uint64

	// stamp and base hold the builder's attribute layers snapshotted at
	// declaration; decl holds attributes attached via Attr. On key collision
	// stamp wins over base, base wins over decl.
	stamp []Attr
	base  []Attr
	decl  []Attr
}

func newBuilder(prefix string, stamps []Attr) *Builder {
	return &Builder{sink: &sink{}, prefix: prefix, stamps: cloneAttrs(stamps), cur: -1}
}

// Counter appends a descriptor for the given counter cell under the given
// name and makes it current. The name must be non-empty.
func (b *Builder) Counter(name string, c *Counter) *Builder {
	return b.metric(KindCounter, name, &c.v)
}

// Gauge appends a descriptor for the given gauge cell under the given name
// and makes it current. The name must be non-empty.
func (b *Builder) Gauge(name string, g *Gauge) *Builder {
	return b.metric(KindGauge, name, &g.v)
}

func (b *Builder) metric(kind Kind, name string, cell *atomic.Uint64) *Builder {
	b.checkLive()
	if name == "" {
		panic(errorc.With(ErrEmptyName, errorc.String("kind", string(kind))))
	}
	b.sink.pending = append(b.sink.pending, pendingMetric{
		kind:  kind,
		name:  joinName(b.prefix, name),
		cell:  cell,
		stamp: cloneAttrs(b.stamps),
		base:  cloneAttrs(b.base),
	})
	b.cur = len(b.sink.pending) - 1
	return b
}

// Attr attaches one attribute to the most recently declared metric of this
// builder. Attaching a key already present on the descriptor overwrites its
// value. Calling Attr before any Counter/Gauge call on this builder is a
// usage error and panics with ErrNoCurrentMetric.
func (b *Builder) Attr(key, value string) *Builder {
	b.checkLive()
	if b.cur < 0 {
		panic(errorc.With(ErrNoCurrentMetric, errorc.String("key", key)))
	}
	p := &b.sink.pending[b.cur]
	p.decl = upsertAttr(p.decl, key, value)
	return b
}

// BaseAttr attaches an attribute to every metric subsequently declared
// through this builder and its children. Base attributes win over Attr
// attributes on key collision, but not over attributes stamped from outside
// the declaration (registry base attributes, Register options, Nested
// stamps): the enclosing caller always wins.
func (b *Builder) BaseAttr(key, value string) *Builder {
	b.checkLive()
	if key == "" {
		panic(errorc.With(ErrInvalidConfig, errorc.String("", "BaseAttr requires a non-empty key")))
	}
	b.base = upsertAttr(b.base, key, value)
	return b
}

// Prefix appends a segment to the name prefix applied to metrics subsequently
// declared through this builder; segments join with "_".
func (b *Builder) Prefix(p string) *Builder {
	b.checkLive()
	if p == "" {
		panic(errorc.With(ErrInvalidConfig, errorc.String("", "Prefix requires a non-empty segment")))
	}
	b.prefix = joinName(b.prefix, p)
	return b
}

// Child returns a sub-builder sharing this builder's descriptor sink and
// inheriting its prefix and attribute layers. Prefix/BaseAttr calls on the
// child do not affect the parent, which makes Child the way to delegate to a
// nested Registerable without leaking its stamps back out.
func (b *Builder) Child() *Builder {
	b.checkLive()
	return &Builder{
		sink:   b.sink,
		prefix: b.prefix,
		stamps: cloneAttrs(b.stamps),
		base:   cloneAttrs(b.base),
		cur:    -1,
	}
}

// Nested delegates declaration to a nested Registerable through a child
// builder, stamping the given attributes onto everything it declares.
// On key collision the stamped (outer) value wins, even when the nested
// declaration sets the key itself via Attr or BaseAttr. Stamps inherited
// from an enclosing Nested call are outer still and are not overwritten.
func (b *Builder) Nested(m Registerable, attrs ...Attr) *Builder {
	c := b.Child()
	for _, a := range attrs {
		if a.Key == "" {
			panic(errorc.With(ErrInvalidConfig, errorc.String("", "Nested requires non-empty attribute keys")))
		}
		if !hasAttrKey(c.stamps, a.Key) {
			c.stamps = append(c.stamps, a)
		}
	}
	m.RegisterMetrics(c)
	return b
}

func (b *Builder) checkLive() {
	if b.sink.done {
		panic(errorc.With(ErrBuilderFinalized,
			errorc.String("", "a builder is only usable inside its registration call"),
		))
	}
}

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}
