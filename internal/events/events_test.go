package events

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/u-stone/eventsystem/event"
)

func TestCounter(t *testing.T) {
	c := &Counter{Name: "test"}
	for i := 0; i < 3; i++ {
		if err := c.Handle(context.Background(), StatusMessage{}); err != nil {
			t.Fatal(err)
		}
	}
	if got := c.Count(); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}
}

func TestRegisterDecoders(t *testing.T) {
	center := event.NewSyncCenter(event.WithLogger(zerolog.Nop()))
	adapter := event.NewWireAdapter(center)
	RegisterDecoders(adapter)

	var status StatusMessage
	event.RegisterCallback(center, func(_ context.Context, e StatusMessage) error {
		status = e
		return nil
	})
	var score ScoreChanged
	event.RegisterCallback(center, func(_ context.Context, e ScoreChanged) error {
		score = e
		return nil
	})
	var beat Heartbeat
	event.RegisterCallback(center, func(_ context.Context, e Heartbeat) error {
		beat = e
		return nil
	})

	docs := []string{
		`{"type":"status_message","payload":{"text":"hello"}}`,
		`{"type":"score_changed","payload":{"player":"ada","delta":-2}}`,
		`{"type":"heartbeat","payload":{"seq":9}}`,
	}
	for _, doc := range docs {
		if err := adapter.Ingest([]byte(doc)); err != nil {
			t.Fatalf("Ingest(%s) returned %v", doc, err)
		}
	}

	if status.Text != "hello" {
		t.Errorf("status = %+v", status)
	}
	if score.Player != "ada" || score.Delta != -2 {
		t.Errorf("score = %+v", score)
	}
	if beat.Seq != 9 {
		t.Errorf("heartbeat = %+v", beat)
	}
}

func TestRegisterDecoders_MissingFields(t *testing.T) {
	center := event.NewSyncCenter(event.WithLogger(zerolog.Nop()))
	adapter := event.NewWireAdapter(center)
	RegisterDecoders(adapter)

	bad := []string{
		`{"type":"status_message","payload":{}}`,
		`{"type":"score_changed","payload":{"delta":1}}`,
	}
	for _, doc := range bad {
		if err := adapter.Ingest([]byte(doc)); err == nil {
			t.Errorf("Ingest(%s) accepted incomplete payload", doc)
		}
	}
}

func TestHeartbeat_SelfHandles(t *testing.T) {
	center := event.NewSyncCenter(event.WithLogger(zerolog.Nop()))
	handle := event.RegisterStatic[Heartbeat](center)
	defer center.Unregister(handle)

	// Delivery goes through the zero value's HandleEvent; the logger is
	// a no-op by default, so this just verifies the route exists.
	center.Publish(Heartbeat{Seq: 1})

	if got := center.Stats().Invocations; got != 1 {
		t.Errorf("Invocations = %d, want 1", got)
	}
}
