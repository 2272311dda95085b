package events

import "github.com/gxo-labs/gxs/pkg/gxs/v1/events"

// NoOpEventBus drops every event. The engine uses it when no bus is configured.
type NoOpEventBus struct{}

// NewNoOpEventBus creates a new NoOpEventBus.
func NewNoOpEventBus() events.Bus {
	return &NoOpEventBus{}
}

// Emit does nothing.
func (n *NoOpEventBus) Emit(event events.Event) {}

var _ events.Bus = (*NoOpEventBus)(nil)
