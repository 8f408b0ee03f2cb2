// Package promexport adapts an instrument.Registry to the
// prometheus/client_golang collection model, so instance-scoped metrics can
// be served from a standard /metrics endpoint.
package promexport

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ygrebnov/instrument"
)

// Collector exposes every descriptor of a Registry as a Prometheus metric,
// reading the current cell values at scrape time. Attribute keys become
// label names and attribute values label values.
//
// Prometheus requires all metrics sharing a name to carry the same label
// keys; declarations intended for export should keep attribute keys uniform
// per metric name.
type Collector struct {
	reg *instrument.Registry
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector wraps reg. Metrics registered with reg after NewCollector are
// picked up by subsequent scrapes; no re-wrapping is needed. Pedantic
// Prometheus registries verify collected metrics against Describe output,
// so with those, register the collector only after all declarations.
func NewCollector(reg *instrument.Registry) *Collector {
	return &Collector{reg: reg}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.reg.Descriptors() {
		ch <- promDesc(d)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, d := range c.reg.Descriptors() {
		vt := prometheus.CounterValue
		if d.Kind == instrument.KindGauge {
			vt = prometheus.GaugeValue
		}

		values := make([]string, len(d.Attrs))
		for i, a := range d.Attrs {
			values[i] = a.Value
		}

		ch <- prometheus.MustNewConstMetric(promDesc(d), vt, float64(d.Load()), values...)
	}
}

// Register wraps reg in a Collector and registers it with r.
func Register(reg *instrument.Registry, r prometheus.Registerer) error {
	return r.Register(NewCollector(reg))
}

func promDesc(d instrument.Descriptor) *prometheus.Desc {
	keys := make([]string, len(d.Attrs))
	for i, a := range d.Attrs {
		keys[i] = a.Key
	}
	return prometheus.NewDesc(d.Name, d.Name, keys, nil)
}
