package engine

import (
	"errors"
	"fmt"

	gxs "github.com/gxo-labs/gxs/pkg/gxs/v1"
	"github.com/gxo-labs/gxs/pkg/gxs/v1/events"
	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"
	gxslog "github.com/gxo-labs/gxs/pkg/gxs/v1/log"
	"github.com/gxo-labs/gxs/pkg/gxs/v1/metrics"
	gxstracing "github.com/gxo-labs/gxs/pkg/gxs/v1/tracing"

	intEvents "github.com/gxo-labs/gxs/internal/events"
	intMetrics "github.com/gxo-labs/gxs/internal/metrics"
	intTracing "github.com/gxo-labs/gxs/internal/tracing"

	"github.com/prometheus/client_golang/prometheus"
)

// terminationDomainError labels runs aborted by a Problem failure in metrics.
const terminationDomainError = "DOMAIN_ERROR"

// Engine holds the shared collaborators of search runs: logger, event bus,
// metrics and tracing. It holds no per-run state, so one Engine may serve any
// number of concurrent Run calls.
type Engine struct {
	eventBus        events.Bus
	metricsProvider metrics.RegistryProvider
	tracerProvider  gxstracing.TracerProvider
	log             gxslog.Logger

	// Metrics Collectors
	runCounter     *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	nodesTested    *prometheus.HistogramVec
	nodesGenerated *prometheus.CounterVec
	nodesDiscarded *prometheus.CounterVec
}

var _ gxs.EngineV1 = (*Engine)(nil)

// NewEngine creates an engine. Collaborators not supplied through opts
// default to a NoOp event bus, a private Prometheus registry and a NoOp
// tracer.
func NewEngine(log gxslog.Logger, opts ...gxs.EngineOption) (*Engine, error) {
	if log == nil {
		return nil, gxserrors.NewConfigError("logger cannot be nil", nil)
	}

	e := &Engine{log: log}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, gxserrors.NewConfigError(fmt.Sprintf("failed to apply engine option: %v", err), err)
		}
	}

	if e.eventBus == nil {
		e.log.Debugf("No event bus provided, using default NoOp bus.")
		e.eventBus = intEvents.NewNoOpEventBus()
	}
	if e.metricsProvider == nil {
		e.log.Debugf("No metrics provider provided, using default Prometheus provider.")
		e.metricsProvider = intMetrics.NewPrometheusRegistryProvider()
	}
	if e.tracerProvider == nil {
		e.log.Debugf("No tracer provider provided, using default NoOp provider.")
		tp, err := intTracing.NewNoOpProvider()
		if err != nil {
			return nil, gxserrors.NewConfigError("failed to create default NoOp tracer provider", err)
		}
		e.tracerProvider = tp
	}

	e.initMetrics()
	return e, nil
}

func (e *Engine) initMetrics() {
	reg := e.metricsProvider.Registry()
	if reg == nil {
		e.log.Errorf("Metrics provider returned a nil registry, cannot initialize metrics.")
		return
	}

	e.runCounter = registerCollector(e.log, reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gxs_search_runs_total", Help: "Total number of search runs by strategy and termination condition."},
		[]string{"strategy", "termination"},
	))
	e.runDuration = registerCollector(e.log, reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "gxs_search_duration_seconds", Help: "Wall-clock duration of search loops in seconds.", Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10)},
		[]string{"strategy"},
	))
	e.nodesTested = registerCollector(e.log, reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "gxs_search_nodes_tested", Help: "Nodes removed from the frontier per search run.", Buckets: prometheus.ExponentialBuckets(1, 4, 12)},
		[]string{"strategy"},
	))
	e.nodesGenerated = registerCollector(e.log, reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gxs_search_nodes_generated_total", Help: "Total number of search nodes constructed, including the root."},
		[]string{"strategy"},
	))
	e.nodesDiscarded = registerCollector(e.log, reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "gxs_search_nodes_discarded_total", Help: "Total number of nodes rejected by the loop check."},
		[]string{"strategy"},
	))

	e.log.Debugf("Prometheus metrics initialized and registered.")
}

// registerCollector registers c, or returns the collector already registered
// under the same descriptor so engines can share a registry.
func registerCollector[C prometheus.Collector](log gxslog.Logger, reg *prometheus.Registry, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				log.Debugf("Metric collector already registered, reusing it.")
				return existing
			}
		}
		log.Warnf("Failed to register metric collector: %v", err)
	}
	return c
}

// recordMetrics updates the collectors after a run. termination is the
// termination condition or terminationDomainError.
func (e *Engine) recordMetrics(strategy gxs.Strategy, termination string, stats gxs.Stats) {
	if e.runCounter == nil {
		return
	}
	s := string(strategy)
	e.runCounter.WithLabelValues(s, termination).Inc()
	e.runDuration.WithLabelValues(s).Observe(stats.TimeTaken.Seconds())
	e.nodesTested.WithLabelValues(s).Observe(float64(stats.NodesTested))
	e.nodesGenerated.WithLabelValues(s).Add(float64(stats.NodesGenerated))
	e.nodesDiscarded.WithLabelValues(s).Add(float64(stats.NodesDiscarded))
}

func (e *Engine) MetricsRegistryProvider() metrics.RegistryProvider { return e.metricsProvider }
func (e *Engine) TracerProvider() gxstracing.TracerProvider         { return e.tracerProvider }

func (e *Engine) SetEventBus(bus events.Bus) error {
	if bus == nil {
		return gxserrors.NewConfigError("event bus cannot be nil", nil)
	}
	e.eventBus = bus
	return nil
}

// SetMetricsRegistryProvider replaces the registry. Called after NewEngine,
// it re-registers the collectors on the new registry.
func (e *Engine) SetMetricsRegistryProvider(provider metrics.RegistryProvider) error {
	if provider == nil {
		return gxserrors.NewConfigError("metrics registry provider cannot be nil", nil)
	}
	e.metricsProvider = provider
	if e.runCounter != nil {
		e.initMetrics()
	}
	return nil
}

func (e *Engine) SetTracerProvider(provider gxstracing.TracerProvider) error {
	if provider == nil {
		return gxserrors.NewConfigError("tracer provider cannot be nil", nil)
	}
	e.tracerProvider = provider
	return nil
}
