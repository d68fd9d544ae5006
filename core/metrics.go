package core

import (
	"github.com/hyp3rd/ewrap"
	"github.com/prometheus/client_golang/prometheus"

	"tallybench/stats"
)

const metricsNamespace = "tallybench"

type tallyField struct {
	name  string
	help  string
	value func(stats.Tally) float64
}

var tallyFields = []tallyField{
	{"count", "Number of timed iterations.", func(t stats.Tally) float64 { return float64(t.Count()) }},
	{"min_seconds", "Fastest iteration.", stats.Tally.Min},
	{"max_seconds", "Slowest iteration.", stats.Tally.Max},
	{"sum_seconds", "Total time over all iterations.", stats.Tally.Sum},
	{"mean_seconds", "Mean iteration time.", stats.Tally.Mean},
	{"stddev_seconds", "Population standard deviation of iteration time.", stats.Tally.StdDev},
}

// NewTallyRegistry returns a registry with one gauge per tally field, labelled
// by benchmark name.
func NewTallyRegistry(tallies map[string]stats.Tally) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	for _, field := range tallyFields {
		gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      field.name,
			Help:      field.help,
		}, []string{"benchmark"})
		if err := registry.Register(gauge); err != nil {
			return nil, ewrap.Wrapf(err, "register %s", field.name)
		}
		for name, tally := range tallies {
			gauge.WithLabelValues(name).Set(field.value(tally))
		}
	}
	return registry, nil
}

// WriteMetrics writes tallies to path in the Prometheus text format, for the
// node exporter textfile collector.
func WriteMetrics(path string, tallies map[string]stats.Tally) error {
	registry, err := NewTallyRegistry(tallies)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return ewrap.Wrapf(err, "write metrics to %q", path)
	}
	return nil
}
