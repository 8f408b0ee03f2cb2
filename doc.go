// Package instrument provides a lightweight way for any component to expose
// named counters and gauges without registering into a process-wide table.
//
// Model
// A component owns a plain struct of Counter and Gauge cells and updates them
// directly on its hot path (Inc, Add, Set; all atomic and non-blocking).
// The struct implements Registerable to describe, on demand, how its fields
// map onto externally visible metric names and attributes. A Registry hands
// the struct a Builder, collects the resulting descriptors, and keeps the
// struct alive for as long as it holds them.
//
// Because the registry is an injected collaborator rather than ambient state,
// several instances of the same component type register independently,
// distinguished by stamped attributes instead of colliding on one global name:
//
//	reg.Register(users.Metrics(), instrument.WithAttr("instance", "users"))
//	reg.Register(posts.Metrics(), instrument.WithAttr("instance", "posts"))
//
// Attributes
// The same external name may be declared repeatedly as long as attributes
// keep the descriptors distinct; this expresses one logical metric with
// several label values (insert{result="new"} vs insert{result="replace"}).
// When declarations nest, outer attributes are unioned with nested ones and
// the outer value wins on key collision.
//
// Defaults
// Unless overridden, a newly created Registry applies:
//   - base attributes: "program" and "version" from the binary's build info
//     (drop with WithoutBuildInfo)
//   - name prefix: none
//   - logger: no-op
//
// Concurrency
// Metric cells tolerate unsynchronized concurrent updates by design; no
// locking is needed around them. Registration is the only synchronized step:
// Registry methods are safe for concurrent use, while a single Builder is
// driven by exactly one goroutine during one registration call.
//
// Export
// The core stores no state beyond the descriptor list. Registry.WriteTo
// renders the Prometheus text exposition format directly; the promexport
// subpackage adapts a Registry to a prometheus/client_golang Collector for
// pull-based scraping.
package instrument
