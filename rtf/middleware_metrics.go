package rtf

import (
	"context"
	"time"

	"github.com/mergefield/fieldclip"
	"github.com/mergefield/fieldclip/kit/platform/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fieldclip"

// CompilerMetrics records compilation counts, durations and tree sizes.
type CompilerMetrics struct {
	compiler fieldclip.Compiler

	compiles *prometheus.CounterVec
	duration *prometheus.HistogramVec
	nodes    prometheus.Histogram
}

var _ fieldclip.Compiler = (*CompilerMetrics)(nil)

// NewCompilerMetrics wraps c with prometheus instrumentation.
func NewCompilerMetrics(c fieldclip.Compiler) *CompilerMetrics {
	const subsystem = "compiler"
	return &CompilerMetrics{
		compiler: c,
		compiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "compiles_total",
			Help:      "Number of field trees compiled, by root kind and result code",
		}, []string{"kind", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "compile_duration_seconds",
			Help:      "Time taken to compile a field tree",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"kind"}),
		nodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tree_nodes",
			Help:      "Number of nodes in compiled field trees",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
}

// PrometheusCollectors returns the collectors to register.
func (m *CompilerMetrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{m.compiles, m.duration, m.nodes}
}

func (m *CompilerMetrics) Compile(ctx context.Context, n fieldclip.Node) (string, error) {
	kind := kindOf(n)
	start := time.Now()
	fragment, err := m.compiler.Compile(ctx, n)
	m.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	code := "ok"
	if err != nil {
		code = errors.ErrorCode(err)
	}
	m.compiles.WithLabelValues(kind, code).Inc()

	count := 0
	fieldclip.Walk(n, func(fieldclip.Node, int) bool {
		count++
		return true
	})
	m.nodes.Observe(float64(count))

	return fragment, err
}
