package instrument

import "sync/atomic"

// Kind identifies the metric cell type behind a descriptor.
type Kind string

const (
	KindCounter Kind = "counter"
	KindGauge   Kind = "gauge"
)

// Attr is a single attribute (label) key-value pair. Attributes distinguish
// otherwise same-named metrics, e.g. insert{result="new"} vs insert{result="replace"}.
type Attr struct {
	Key   string
	Value string
}

// Descriptor is the externally visible record produced by registering one
// metric: its kind, full name, ordered attribute list, and a non-owning
// reference to the underlying cell. A descriptor does not keep the owning
// metrics struct alive by itself; the Registry's holder list does.
type Descriptor struct {
	Kind  Kind
	Name  string
	Attrs []Attr

	cell *atomic.Uint64
}

// Load reads the current value of the referenced cell. A descriptor not
// produced by a Registry references no cell; Load on it returns 0.
func (d Descriptor) Load() uint64 {
	if d.cell == nil {
		return 0
	}
	return d.cell.Load()
}

// upsertAttr sets key to value in attrs, overwriting an existing entry for
// the same key in place (declaration order of keys is preserved).
func upsertAttr(attrs []Attr, key, value string) []Attr {
	for i := range attrs {
		if attrs[i].Key == key {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attr{Key: key, Value: value})
}

// cloneAttrs returns a copy of attrs so later mutations do not leak between
// builders or out of Descriptors handed to callers.
func cloneAttrs(attrs []Attr) []Attr {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(attrs))
	copy(out, attrs)
	return out
}

// mergeAttrs unions outer and declared attributes. Outer attributes come
// first and win on key collision, so an enclosing component can stamp an
// instance label onto every metric its nested components declare.
func mergeAttrs(outer, declared []Attr) []Attr {
	out := cloneAttrs(outer)
	for _, a := range declared {
		if hasAttrKey(outer, a.Key) {
			continue
		}
		out = upsertAttr(out, a.Key, a.Value)
	}
	return out
}

func hasAttrKey(attrs []Attr, key string) bool {
	for i := range attrs {
		if attrs[i].Key == key {
			return true
		}
	}
	return false
}
