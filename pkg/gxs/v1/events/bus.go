package events

import "time"

// EventType represents the type of a GXS engine event.
type EventType string

// Standard GXS Event Types
const (
	SearchStarted       EventType = "SearchStarted"       // Root node inserted, loop about to start
	SearchFinished      EventType = "SearchFinished"      // Terminal state reached (goal, exhausted, budget)
	DomainErrorOccurred EventType = "DomainErrorOccurred" // Problem failed during expansion; run aborted
)

// Payload keys used by the engine.
const (
	PayloadStrategy       = "strategy"
	PayloadTermination    = "termination"
	PayloadNodesGenerated = "nodes_generated"
	PayloadNodesTested    = "nodes_tested"
	PayloadNodesDiscarded = "nodes_discarded"
	PayloadNodesLeft      = "nodes_left_in_queue"
	PayloadPathLength     = "path_length"
	PayloadDuration       = "duration"
	PayloadError          = "error"
)

// Event represents a lifecycle occurrence of one search run.
type Event struct {
	// Type categorizes the event.
	Type EventType `json:"type"`
	// Timestamp marks when the event occurred.
	Timestamp time.Time `json:"timestamp"`
	// RunID identifies the search run that emitted the event.
	RunID string `json:"run_id"`
	// Label is a caller-supplied name for the run (e.g., "case-1/bfs"), if any.
	Label string `json:"label,omitempty"`
	// Payload contains event-specific data keyed by the Payload* constants.
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Bus defines the interface for publishing events from the GXS engine.
type Bus interface {
	// Emit publishes an event to the bus. Implementations must not block the
	// search loop for long.
	Emit(event Event)
}
