package clipboard

import (
	"context"

	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/kit/platform/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts clipboard writes and the bytes handed to the clipboard.
type Metrics struct {
	clipboard fieldclip.Clipboard

	writes *prometheus.CounterVec
	bytes  prometheus.Counter
}

var _ fieldclip.Clipboard = (*Metrics)(nil)

// NewMetrics wraps c with prometheus instrumentation.
func NewMetrics(c fieldclip.Clipboard) *Metrics {
	const (
		namespace = "fieldclip"
		subsystem = "clipboard"
	)
	return &Metrics{
		clipboard: c,
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "writes_total",
			Help:      "Number of clipboard writes, by result code",
		}, []string{"code"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "written_bytes_total",
			Help:      "Size of documents successfully written to the clipboard",
		}),
	}
}

// PrometheusCollectors returns the collectors to register.
func (m *Metrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{m.writes, m.bytes}
}

func (m *Metrics) WriteRTF(ctx context.Context, document string) error {
	err := m.clipboard.WriteRTF(ctx, document)
	if err != nil {
		m.writes.WithLabelValues(errors.ErrorCode(err)).Inc()
		return err
	}
	m.writes.WithLabelValues("ok").Inc()
	m.bytes.Add(float64(len(document)))
	return nil
}
