package events

import (
	"sync"
	"sync/atomic"

	"github.com/gxo-labs/gxs/pkg/gxs/v1/events"
	gxslog "github.com/gxo-labs/gxs/pkg/gxs/v1/log"
)

// DefaultBufferSize is used when NewChannelEventBus gets a non-positive size.
const DefaultBufferSize = 100

// ChannelEventBus delivers search lifecycle events over a buffered channel.
// Emit never blocks a search: with the buffer full the event is counted as
// dropped instead.
type ChannelEventBus struct {
	ch        chan events.Event
	log       gxslog.Logger
	dropped   atomic.Int64
	closeOnce sync.Once
}

// NewChannelEventBus creates a bus holding up to bufferSize undelivered
// events. Panics if log is nil.
func NewChannelEventBus(bufferSize int, log gxslog.Logger) *ChannelEventBus {
	if log == nil {
		panic("ChannelEventBus requires a non-nil logger")
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &ChannelEventBus{
		ch:  make(chan events.Event, bufferSize),
		log: log.With("component", "event_bus"),
	}
}

func (c *ChannelEventBus) Emit(event events.Event) {
	select {
	case c.ch <- event:
	default:
		n := c.dropped.Add(1)
		c.log.Warnf("Event buffer full, dropped %s for %s (%d dropped so far)", event.Type, runName(event), n)
	}
}

// GetChannel returns the receive side for in-process listeners.
func (c *ChannelEventBus) GetChannel() <-chan events.Event { return c.ch }

// Dropped is the number of events lost to a full buffer.
func (c *ChannelEventBus) Dropped() int64 { return c.dropped.Load() }

// Close ends delivery; listeners see the channel close once it drains.
// Emit must not be called after Close. Further calls are no-ops.
func (c *ChannelEventBus) Close() {
	c.closeOnce.Do(func() {
		if n := c.dropped.Load(); n > 0 {
			c.log.Warnf("Event bus closed with %d dropped events", n)
		}
		close(c.ch)
	})
}

var _ events.Bus = (*ChannelEventBus)(nil)
