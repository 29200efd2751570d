package event

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Publisher is the publication surface shared by both centers.
type Publisher interface {
	Publish(event any)
	PublishDelayed(event any, d time.Duration)
	PublishAt(event any, at time.Time)
}

// DecodeFunc builds a typed event value from a raw JSON payload.
type DecodeFunc func(payload gjson.Result) (any, error)

// WireAdapter turns JSON documents into typed publications on a
// center. Each document names its event type in the "type" field; the
// matching decoder produces the typed value from the "payload" field.
// An optional "delay_ms" field schedules the publication.
//
// The adapter exists for callers that receive events in serialized
// form and cannot name the Go type at the call site.
type WireAdapter struct {
	target Publisher

	mu       sync.RWMutex
	decoders map[string]DecodeFunc

	closed atomic.Bool
}

// NewWireAdapter creates an adapter publishing into target.
func NewWireAdapter(target Publisher) *WireAdapter {
	return &WireAdapter{
		target:   target,
		decoders: make(map[string]DecodeFunc),
	}
}

// RegisterDecoder maps a wire type name to its decoder, replacing any
// previous mapping.
func (a *WireAdapter) RegisterDecoder(name string, fn DecodeFunc) {
	a.mu.Lock()
	a.decoders[name] = fn
	a.mu.Unlock()
}

// Ingest decodes one JSON document and publishes the resulting typed
// event. Unlike direct publication, ingestion reports failures: the
// document boundary is where malformed input can actually occur.
func (a *WireAdapter) Ingest(doc []byte) error {
	if a.closed.Load() {
		return ErrAdapterClosed
	}
	if !gjson.ValidBytes(doc) {
		return ErrMalformedDocument
	}

	name := gjson.GetBytes(doc, "type").String()
	if name == "" {
		return fmt.Errorf("%w: missing type field", ErrMalformedDocument)
	}

	a.mu.RLock()
	decode, ok := a.decoders[name]
	a.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEventType, name)
	}

	evt, err := decode(gjson.GetBytes(doc, "payload"))
	if err != nil {
		return fmt.Errorf("decode %q: %w", name, err)
	}

	if delay := gjson.GetBytes(doc, "delay_ms"); delay.Exists() {
		a.target.PublishDelayed(evt, time.Duration(delay.Int())*time.Millisecond)
	} else {
		a.target.Publish(evt)
	}
	return nil
}

// Close stops the adapter; later Ingest calls return ErrAdapterClosed.
func (a *WireAdapter) Close() {
	a.closed.Store(true)
}

// Recorder appends published events as JSON lines, one object per
// event, for offline inspection. Writes are serialized; the underlying
// writer need not be.
type Recorder struct {
	mu sync.Mutex
	w  io.Writer
}

// NewRecorder creates a recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Record writes one line of the form
// {"type":...,"at":...,"payload":...}.
func (r *Recorder) Record(eventType string, payload any) error {
	line, err := sjson.SetBytes([]byte(`{}`), "type", eventType)
	if err != nil {
		return err
	}
	line, err = sjson.SetBytes(line, "at", timeNow().Format(time.RFC3339Nano))
	if err != nil {
		return err
	}
	line, err = sjson.SetBytes(line, "payload", payload)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err = r.w.Write(line)
	return err
}

// RecordEvents registers a callback on c that records every event of
// type T under the given wire name. The returned handle unregisters
// the tap.
func RecordEvents[T any](c Registrar, r *Recorder, name string) SubscriptionHandle {
	return RegisterCallback(c, func(_ context.Context, evt T) error {
		return r.Record(name, evt)
	})
}
