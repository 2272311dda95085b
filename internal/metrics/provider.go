package metrics

import (
	gxsmetrics "github.com/gxo-labs/gxs/pkg/gxs/v1/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// PrometheusRegistryProvider implements the RegistryProvider interface
// using a private Prometheus registry.
type PrometheusRegistryProvider struct {
	registry *prometheus.Registry
}

// NewPrometheusRegistryProvider creates a new metrics provider backed by an
// empty Prometheus registry.
func NewPrometheusRegistryProvider() *PrometheusRegistryProvider {
	return &PrometheusRegistryProvider{
		registry: prometheus.NewRegistry(),
	}
}

// NewProcessRegistryProvider is like NewPrometheusRegistryProvider but also
// registers the Go runtime and process collectors, for long batch runs.
func NewProcessRegistryProvider() *PrometheusRegistryProvider {
	p := NewPrometheusRegistryProvider()
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// Registry returns the underlying Prometheus registry.
func (p *PrometheusRegistryProvider) Registry() *prometheus.Registry {
	return p.registry
}

// WriteToTextfile dumps the registry in the text exposition format, suitable
// for the node_exporter textfile collector.
func (p *PrometheusRegistryProvider) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}

var _ gxsmetrics.RegistryProvider = (*PrometheusRegistryProvider)(nil)
