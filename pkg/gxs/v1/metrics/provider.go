package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegistryProvider defines the interface for accessing the engine's metrics registry.
// Consumers expose the registry however they like (HTTP endpoint, textfile dump).
type RegistryProvider interface {
	// Registry returns the Prometheus registry containing GXS engine metrics.
	Registry() *prometheus.Registry
}
