package inmem

import (
	"sync"

	"github.com/mergefield/fieldclip"
	"github.com/prometheus/client_golang/prometheus"
)

// Service is an in-memory implementation of the fieldclip stores. Its
// contents are lost when the process exits.
type Service struct {
	mu     sync.RWMutex
	fields []string

	fieldsGauge prometheus.GaugeFunc
}

var _ fieldclip.FieldCatalog = (*Service)(nil)

// NewService creates an instance of a Service.
func NewService() *Service {
	s := &Service{fields: []string{}}
	s.fieldsGauge = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "fieldclip_fields_total",
		Help: "Number of merge field names in the catalog",
	}, func() float64 {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return float64(len(s.fields))
	})
	return s
}

// PrometheusCollectors returns all collectors for the inmem service.
func (s *Service) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{s.fieldsGauge}
}
