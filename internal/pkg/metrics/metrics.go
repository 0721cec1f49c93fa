package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "utm2latlng"

// Metrics collects the counters of one conversion run. It implements
// ports.ConversionRecorder. Each Metrics owns its registry, so a run can be
// exported as a textfile without process-wide state.
type Metrics struct {
	registry *prometheus.Registry

	RowsRead        prometheus.Counter
	RowsConverted   prometheus.Counter
	RowErrors       *prometheus.CounterVec
	RunDuration     prometheus.Gauge
	LastSuccessTime prometheus.Gauge
}

// New registers the run metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RowsRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Total data rows read from the input CSV",
		}),

		RowsConverted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_converted_total",
			Help:      "Total rows converted and written to the output CSV",
		}),

		RowErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "row_errors_total",
			Help:      "Total rows that aborted a run, by reason",
		}, []string{"reason"}),

		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),

		LastSuccessTime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that committed its output",
		}),
	}
}

func (m *Metrics) RowRead()                { m.RowsRead.Inc() }
func (m *Metrics) RowConverted()           { m.RowsConverted.Inc() }
func (m *Metrics) RowFailed(reason string) { m.RowErrors.WithLabelValues(reason).Inc() }

// Finish records the run duration, and the completion time when ok.
func (m *Metrics) Finish(elapsed time.Duration, ok bool, now time.Time) {
	m.RunDuration.Set(elapsed.Seconds())
	if ok {
		m.LastSuccessTime.Set(float64(now.Unix()))
	}
}

// Registry exposes the underlying registry, e.g. for tests or a push gateway.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in the text exposition format for the
// node_exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
