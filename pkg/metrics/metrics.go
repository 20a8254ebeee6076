// Package metrics exposes the counters of a summary run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters a summary run updates.
type Metrics struct {
	Pages             *prometheus.CounterVec
	Rows              *prometheus.CounterVec
	UnsupportedShapes *prometheus.CounterVec
	DepthRecords      *prometheus.CounterVec

	registry *prometheus.Registry
}

// New registers the counters on a fresh registry.
func New() *Metrics {
	r := prometheus.NewRegistry()
	return &Metrics{
		registry: r,
		Pages: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "wps_pages_total",
			Help: "Pages written to page.csv, by page type",
		}, []string{"type"}),
		Rows: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "wps_rows_total",
			Help: "Rows written, by output file",
		}, []string{"file"}),
		UnsupportedShapes: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "wps_unsupported_shapes_total",
			Help: "Pages whose shape has no projection beyond the page row",
		}, []string{"shape"}),
		DepthRecords: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "wps_depth_records_total",
			Help: "Depth records consumed by the merge join, by result (matched, skipped)",
		}, []string{"result"}),
	}
}

// Registry is the registry the counters live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile dumps the counters in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
