// Package promtest parses and searches prometheus metrics in tests.
package promtest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// FromHTTPResponse decodes the metric families served in r, using the
// response Content-Type to pick the exposition format. The body is always
// closed.
func FromHTTPResponse(r *http.Response) ([]*dto.MetricFamily, error) {
	defer r.Body.Close()

	if r.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected metrics status %d", r.StatusCode)
	}

	dec := expfmt.NewDecoder(r.Body, expfmt.ResponseFormat(r.Header))
	var mfs []*dto.MetricFamily
	for {
		mf := &dto.MetricFamily{}
		err := dec.Decode(mf)
		if errors.Is(err, io.EOF) {
			return mfs, nil
		}
		if err != nil {
			return nil, err
		}
		mfs = append(mfs, mf)
	}
}

// MustGather gathers g, failing tb on error.
func MustGather(tb testing.TB, g prometheus.Gatherer) []*dto.MetricFamily {
	tb.Helper()
	mfs, err := g.Gather()
	if err != nil {
		tb.Fatalf("gather metrics: %v", err)
	}
	return mfs
}

// FindMetric returns the metric of family name whose label set equals
// labels exactly, or nil.
func FindMetric(mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	_, m := find(mfs, name, labels)
	return m
}

// MustFindMetric is FindMetric that fails tb, listing what is available,
// when nothing matches.
func MustFindMetric(tb testing.TB, mfs []*dto.MetricFamily, name string, labels map[string]string) *dto.Metric {
	tb.Helper()

	fam, m := find(mfs, name, labels)
	switch {
	case fam == nil:
		names := make([]string, 0, len(mfs))
		for _, mf := range mfs {
			names = append(names, mf.GetName())
		}
		sort.Strings(names)
		tb.Fatalf("metric family %q not found; have %s", name, strings.Join(names, ", "))
	case m == nil:
		sets := make([]string, 0, len(fam.Metric))
		for _, m := range fam.Metric {
			sets = append(sets, labelString(m))
		}
		tb.Fatalf("metric %q with labels %v not found; have %s", name, labels, strings.Join(sets, " "))
	}
	return m
}

// CounterValue returns the value of the matching counter, or zero when it
// has not been reported.
func CounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) float64 {
	return FindMetric(mfs, name, labels).GetCounter().GetValue()
}

func find(mfs []*dto.MetricFamily, name string, labels map[string]string) (*dto.MetricFamily, *dto.Metric) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matches(m, labels) {
				return mf, m
			}
		}
		return mf, nil
	}
	return nil, nil
}

func matches(m *dto.Metric, labels map[string]string) bool {
	if len(m.Label) != len(labels) {
		return false
	}
	for _, l := range m.Label {
		v, ok := labels[l.GetName()]
		if !ok || v != l.GetValue() {
			return false
		}
	}
	return true
}

func labelString(m *dto.Metric) string {
	pairs := make([]string, len(m.Label))
	for i, l := range m.Label {
		pairs[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return "{" + strings.Join(pairs, ",") + "}"
}
