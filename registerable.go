package instrument

// Registerable is the capability a metrics-holding struct implements to
// describe its fields for external collection. Given a builder, the
// implementation declares every metric cell it owns with a chosen external
// name and any distinguishing attributes:
//
//	func (m *cacheMetrics) RegisterMetrics(b *instrument.Builder) {
//		b.Counter("insert", &m.InsertNew).Attr("result", "new").
//			Counter("insert", &m.InsertReplace).Attr("result", "replace")
//	}
//
// A struct holding other Registerable structs delegates to them via
// Builder.Nested (or Builder.Child), optionally stamping an instance
// attribute onto everything the nested struct declares.
//
// RegisterMetrics must only write into the builder it is handed; it must not
// reach into any ambient registry, so several instances of the same type can
// be registered independently under different attributes.
type Registerable interface {
	RegisterMetrics(b *Builder)
}

// NoMetrics is a Registerable that declares nothing. It is a convenient
// default for components whose instrumentation is optional.
type NoMetrics struct{}

func (NoMetrics) RegisterMetrics(*Builder) {}
