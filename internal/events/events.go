// Package events defines the event types published by the demo driver
// and their wire decoders.
package events

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/u-stone/eventsystem/event"
)

// StatusMessage is a free-form text notification.
type StatusMessage struct {
	Text string
}

// ScoreChanged reports a score delta for one player.
type ScoreChanged struct {
	Player string
	Delta  int
}

// LoadSample is the payload of the multi-publisher stress scenario.
type LoadSample struct {
	Publisher int
	Seq       int
}

// Heartbeat handles itself: registering it with RegisterStatic routes
// every Heartbeat publication through HandleEvent on a zero value.
type Heartbeat struct {
	Seq int
}

// HandleEvent logs the received heartbeat.
func (Heartbeat) HandleEvent(_ context.Context, e Heartbeat) error {
	heartbeatLogger.Info().Int("seq", e.Seq).Msg("heartbeat")
	return nil
}

// heartbeatLogger is the sink HandleEvent writes to. The zero-value
// receiver leaves no other place to carry one.
var heartbeatLogger = zerolog.Nop()

// SetHeartbeatLogger directs Heartbeat's self-handling output to l.
func SetHeartbeatLogger(l zerolog.Logger) {
	heartbeatLogger = l
}

// Counter counts the events it receives. It satisfies event.Handler
// and is safe for concurrent dispatch.
type Counter struct {
	Name string
	n    atomic.Uint64
}

// Handle increments the counter.
func (c *Counter) Handle(context.Context, any) error {
	c.n.Add(1)
	return nil
}

// Count returns the number of events handled so far.
func (c *Counter) Count() uint64 {
	return c.n.Load()
}

// RegisterDecoders installs wire decoders for StatusMessage,
// ScoreChanged and Heartbeat on the adapter. LoadSample has no decoder.
func RegisterDecoders(a *event.WireAdapter) {
	a.RegisterDecoder("status_message", func(p gjson.Result) (any, error) {
		text := p.Get("text")
		if !text.Exists() {
			return nil, fmt.Errorf("status_message: missing text")
		}
		return StatusMessage{Text: text.String()}, nil
	})
	a.RegisterDecoder("score_changed", func(p gjson.Result) (any, error) {
		player := p.Get("player")
		if !player.Exists() {
			return nil, fmt.Errorf("score_changed: missing player")
		}
		return ScoreChanged{
			Player: player.String(),
			Delta:  int(p.Get("delta").Int()),
		}, nil
	})
	a.RegisterDecoder("heartbeat", func(p gjson.Result) (any, error) {
		return Heartbeat{Seq: int(p.Get("seq").Int())}, nil
	})
}
