package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of the search engine's tracer.
const TracerName = "github.com/gxo-labs/gxs/internal/engine"

// SpanSearchRun is the name of the span covering one search run.
const SpanSearchRun = "gxs.search.run"

// Attribute keys set on search spans.
const (
	AttrRunID       = attribute.Key("gxs.run.id")
	AttrRunLabel    = attribute.Key("gxs.run.label")
	AttrStrategy    = attribute.Key("gxs.search.strategy")
	AttrMode        = attribute.Key("gxs.search.mode")
	AttrRandomise   = attribute.Key("gxs.search.randomise")
	AttrLoopCheck   = attribute.Key("gxs.search.loop_check")
	AttrNodeBudget  = attribute.Key("gxs.search.node_budget")
	AttrTermination = attribute.Key("gxs.search.termination")
	AttrGenerated   = attribute.Key("gxs.search.nodes_generated")
	AttrTested      = attribute.Key("gxs.search.nodes_tested")
	AttrDiscarded   = attribute.Key("gxs.search.nodes_discarded")
	AttrLeftInQueue = attribute.Key("gxs.search.nodes_left")
	AttrPathLength  = attribute.Key("gxs.search.path_length")
)

// RecordError records err on span and marks it failed. It does nothing when
// err is nil or the span is not recording.
func RecordError(span oteltrace.Span, err error) {
	if err == nil || span == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err, oteltrace.WithStackTrace(true))
	span.SetStatus(codes.Error, err.Error())
}
