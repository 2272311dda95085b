package events

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gxo-labs/gxs/pkg/gxs/v1/events"
	gxslog "github.com/gxo-labs/gxs/pkg/gxs/v1/log"
)

// ProgressListener consumes a ChannelEventBus and writes one line per
// finished or failed search run. Batch runs use it for live progress.
type ProgressListener struct {
	bus *ChannelEventBus
	out io.Writer
	log gxslog.Logger
}

// NewProgressListener creates a listener writing to out.
func NewProgressListener(bus *ChannelEventBus, out io.Writer, log gxslog.Logger) *ProgressListener {
	if bus == nil || out == nil || log == nil {
		panic("ProgressListener requires a non-nil ChannelEventBus, writer, and Logger")
	}
	return &ProgressListener{
		bus: bus,
		out: out,
		log: log.With("component", "ProgressListener"),
	}
}

// Start blocks until the bus is closed or ctx is done.
func (l *ProgressListener) Start(ctx context.Context) {
	l.log.Debugf("Starting progress listener...")
	for {
		select {
		case event, ok := <-l.bus.GetChannel():
			if !ok {
				l.log.Debugf("Event bus channel closed, stopping listener.")
				return
			}
			l.handleEvent(event)
		case <-ctx.Done():
			l.log.Debugf("Context cancelled, stopping progress listener.")
			return
		}
	}
}

func (l *ProgressListener) handleEvent(event events.Event) {
	var line string
	switch event.Type {
	case events.SearchFinished:
		line = fmt.Sprintf("%s %-14v %-22v tested=%v generated=%v discarded=%v left=%v path=%v in %v",
			runName(event),
			event.Payload[events.PayloadStrategy],
			event.Payload[events.PayloadTermination],
			event.Payload[events.PayloadNodesTested],
			event.Payload[events.PayloadNodesGenerated],
			event.Payload[events.PayloadNodesDiscarded],
			event.Payload[events.PayloadNodesLeft],
			event.Payload[events.PayloadPathLength],
			formatDuration(event.Payload[events.PayloadDuration]),
		)
	case events.DomainErrorOccurred:
		line = fmt.Sprintf("%s %-14v FAILED: %v",
			runName(event),
			event.Payload[events.PayloadStrategy],
			event.Payload[events.PayloadError],
		)
	default:
		return
	}
	if _, err := fmt.Fprintln(l.out, line); err != nil {
		l.log.Warnf("Failed to write progress line: %v", err)
	}
}

func runName(event events.Event) string {
	if event.Label != "" {
		return "[" + event.Label + "]"
	}
	if len(event.RunID) > 8 {
		return "[" + event.RunID[:8] + "]"
	}
	return "[" + event.RunID + "]"
}

func formatDuration(v interface{}) string {
	if d, ok := v.(time.Duration); ok {
		return d.Round(time.Microsecond).String()
	}
	return fmt.Sprint(v)
}
