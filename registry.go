package instrument

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Registry collects descriptors from Registerable values. It is an injected
// collaborator, not ambient state: code under instrumentation only ever sees
// the Builder a Registry hands it, so independent registries (one per test,
// one per process, one per tenant) never collide.
//
// The registry retains a strong reference to every registered value, so the
// descriptor list cannot outlive the metrics structs it points into.
//
// Registry methods are safe for concurrent use. The Builder passed to a
// RegisterMetrics call is not; one goroutine performs each registration.
type Registry struct {
	mu      sync.Mutex
	cfg     config
	holders []interface{}
	descs   []Descriptor
}

// New constructs a Registry. Unless WithoutBuildInfo is given, descriptors
// carry "program" and "version" base attributes derived from the binary's
// build info.
func New(opts ...Option) (*Registry, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if !cfg.NoBuildInfo {
		// Build-info attributes sit in front; explicit WithBaseAttr values
		// overwrite them on key collision.
		attrs := buildInfoAttrs()
		for _, a := range cfg.BaseAttrs {
			attrs = upsertAttr(attrs, a.Key, a.Value)
		}
		cfg.BaseAttrs = attrs
	}

	return &Registry{cfg: cfg}, nil
}

// Register runs m's declaration against a fresh builder and appends the
// resulting descriptors to the registry. Per-registration options stamp
// instance attributes and name prefixes onto everything m declares; stamped
// attributes win over the declaration's own on key collision.
//
// The registry keeps a reference to m, so the caller does not need to keep
// the metrics struct reachable for the descriptors to stay valid.
//
// The declaration runs under the registry lock; a RegisterMetrics
// implementation must not call back into the same registry.
func (r *Registry) Register(m Registerable, opts ...RegisterOption) {
	r.register(m, m.RegisterMetrics, opts)
}

// RegisterFunc is Register for types that do not implement Registerable
// themselves: holder is retained for lifetime purposes and declare is run
// against the fresh builder.
func (r *Registry) RegisterFunc(holder interface{}, declare func(b *Builder), opts ...RegisterOption) {
	r.register(holder, declare, opts)
}

func (r *Registry) register(holder interface{}, declare func(b *Builder), opts []RegisterOption) {
	var rc registerConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&rc)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.holders = append(r.holders, holder)

	stamps := cloneAttrs(r.cfg.BaseAttrs)
	for _, a := range rc.Attrs {
		stamps = upsertAttr(stamps, a.Key, a.Value)
	}
	b := newBuilder(joinName(r.cfg.Prefix, rc.Prefix), stamps)

	declare(b)
	b.sink.done = true

	for _, p := range b.sink.pending {
		// Outer layers win: stamp over base, base over decl.
		r.descs = append(r.descs, Descriptor{
			Kind:  p.kind,
			Name:  p.name,
			Attrs: mergeAttrs(p.stamp, mergeAttrs(p.base, p.decl)),
			cell:  p.cell,
		})
	}

	// Keep the list sorted by (name, kind) so exposition groups same-named
	// metrics under one TYPE header. The sort is stable: same-named metrics
	// stay in declaration order.
	sort.SliceStable(r.descs, func(i, j int) bool {
		if r.descs[i].Name != r.descs[j].Name {
			return r.descs[i].Name < r.descs[j].Name
		}
		return r.descs[i].Kind < r.descs[j].Kind
	})

	r.cfg.Logger.Debugf("registered %d metric(s) from %T", len(b.sink.pending), holder)
}

// Descriptors returns a snapshot of the registered descriptor list. The
// returned descriptors keep referencing live cells (Load reads current
// values), but the slice and attribute lists are copies.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Descriptor, len(r.descs))
	for i, d := range r.descs {
		out[i] = Descriptor{Kind: d.Kind, Name: d.Name, Attrs: cloneAttrs(d.Attrs), cell: d.cell}
	}
	return out
}

// WriteTo renders the registry in the Prometheus text exposition format:
// a "# HELP" / "# TYPE" header per run of same-named metrics, then one
// name{key="value",...} line per descriptor with its current cell value.
func (r *Registry) WriteTo(w io.Writer) (int64, error) {
	var n int64

	type header struct {
		name string
		kind Kind
	}
	var last *header

	for _, d := range r.Descriptors() {
		if last == nil || last.name != d.Name || last.kind != d.Kind {
			written, err := fmt.Fprintf(w, "# HELP %s\n# TYPE %s %s\n", d.Name, d.Name, d.Kind)
			n += int64(written)
			if err != nil {
				return n, err
			}
			last = &header{name: d.Name, kind: d.Kind}
		}

		written, err := fmt.Fprintf(w, "%s%s %d\n", d.Name, formatAttrs(d.Attrs), d.Load())
		n += int64(written)
		if err != nil {
			return n, err
		}
	}

	return n, nil
}

// String renders the registry in the Prometheus text exposition format.
func (r *Registry) String() string {
	var sb strings.Builder
	_, _ = r.WriteTo(&sb)
	return sb.String()
}

func formatAttrs(attrs []Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('{')
	for i, a := range attrs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttrValue(a.Value))
		sb.WriteByte('"')
	}
	sb.WriteByte('}')
	return sb.String()
}

// escapeAttrValue escapes backslash, double quote, and newline per the
// Prometheus text format rules for label values.
func escapeAttrValue(v string) string {
	if !strings.ContainsAny(v, "\\\"\n") {
		return v
	}
	var sb strings.Builder
	for _, r := range v {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
