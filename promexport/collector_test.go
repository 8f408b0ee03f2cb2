package promexport

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/instrument"
)

type storeMetrics struct {
	InsertNew     instrument.Counter
	InsertReplace instrument.Counter
	Size          instrument.Gauge
}

func (m *storeMetrics) RegisterMetrics(b *instrument.Builder) {
	b.Counter("insert", &m.InsertNew).Attr("result", "new").
		Counter("insert", &m.InsertReplace).Attr("result", "replace").
		Gauge("size", &m.Size)
}

func newTestRegistry(t *testing.T) (*instrument.Registry, *storeMetrics) {
	t.Helper()
	reg, err := instrument.New(instrument.WithoutBuildInfo())
	require.NoError(t, err)
	m := &storeMetrics{}
	reg.Register(m)
	return reg, m
}

func TestCollector_CollectAndCompare(t *testing.T) {
	reg, m := newTestRegistry(t)
	m.InsertNew.Inc()
	m.InsertReplace.Add(2)
	m.Size.Set(5)

	c := NewCollector(reg)

	expected := `
# HELP insert insert
# TYPE insert counter
insert{result="new"} 1
insert{result="replace"} 2
# HELP size size
# TYPE size gauge
size 5
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected), "insert", "size"))
}

func TestCollector_ReadsValuesAtScrapeTime(t *testing.T) {
	reg, m := newTestRegistry(t)
	c := NewCollector(reg)

	before := `
# HELP size size
# TYPE size gauge
size 0
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(before), "size"))

	m.Size.Set(7)

	after := `
# HELP size size
# TYPE size gauge
size 7
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(after), "size"))
}

func TestRegister_PicksUpLaterRegistrations(t *testing.T) {
	reg, _ := newTestRegistry(t)

	// A plain registry: pedantic gather checks would reject metrics whose
	// descriptors were not seen at Register time, which is exactly the case
	// this test exercises.
	pr := prometheus.NewRegistry()
	require.NoError(t, Register(reg, pr))

	var late instrument.Counter
	reg.RegisterFunc(&late, func(b *instrument.Builder) {
		b.Counter("late", &late)
	})
	late.Add(4)

	families, err := pr.Gather()
	require.NoError(t, err)

	names := make([]string, len(families))
	for i, fam := range families {
		names[i] = fam.GetName()
	}
	require.Contains(t, names, "late")
}
