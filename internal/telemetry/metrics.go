// Package telemetry records per-run stage metrics and pushes them to a
// Pushgateway, the usual pattern for run-to-completion batch jobs.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

type Metrics struct {
	reg *prometheus.Registry

	inputRecords    prometheus.Gauge
	outputRecords   prometheus.Gauge
	filteredRecords prometheus.Gauge
	duration        prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		inputRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "etlstage_input_records",
			Help: "Records read from the input object.",
		}),
		outputRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "etlstage_output_records",
			Help: "Records written to the output object.",
		}),
		filteredRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "etlstage_filtered_records",
			Help: "Input records minus output records.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "etlstage_duration_seconds",
			Help: "Wall-clock duration of the stage run.",
		}),
	}
	m.reg.MustRegister(m.inputRecords, m.outputRecords, m.filteredRecords, m.duration)
	return m
}

// ObserveRun records the counts and duration of one committed run.
func (m *Metrics) ObserveRun(in, out int, d time.Duration) {
	m.inputRecords.Set(float64(in))
	m.outputRecords.Set(float64(out))
	m.filteredRecords.Set(float64(in - out))
	m.duration.Set(d.Seconds())
}

// Push sends the registry to a Pushgateway, grouped by execution and stage.
func (m *Metrics) Push(url, job string, groupings map[string]string) error {
	p := push.New(url, job).Gatherer(m.reg)
	for k, v := range groupings {
		p = p.Grouping(k, v)
	}
	return p.Push()
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.reg }
