package event

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// SyncCenter shares the asynchronous center's data model but
// dispatches inline on the publisher's goroutine. It owns no worker,
// so the timed publication variants are silent no-ops.
type SyncCenter struct {
	registry   *Registry
	dispatcher *Dispatcher
	published  atomic.Uint64
}

// NewSyncCenter creates a standalone synchronous center.
func NewSyncCenter(opts ...Option) *SyncCenter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	registry := NewRegistry()
	return &SyncCenter{
		registry:   registry,
		dispatcher: newDispatcher(registry, cfg),
	}
}

func (c *SyncCenter) reg() *Registry { return c.registry }

// Registry exposes the center's subscriber table.
func (c *SyncCenter) Registry() *Registry { return c.registry }

// Publish dispatches event to every subscriber before returning.
func (c *SyncCenter) Publish(event any) {
	env := Erase(event)
	c.published.Add(1)
	c.dispatcher.Dispatch(context.Background(), env)
}

// PublishDelayed is a silent no-op: there is no worker to honor the
// delay.
func (c *SyncCenter) PublishDelayed(event any, d time.Duration) {}

// PublishAt is a silent no-op: there is no worker to honor the
// schedule.
func (c *SyncCenter) PublishAt(event any, at time.Time) {}

// Unregister removes the callback registered under handle. Unknown
// handles are ignored.
func (c *SyncCenter) Unregister(handle SubscriptionHandle) {
	c.registry.UnregisterHandle(handle)
}

// Stats returns a point-in-time snapshot of the center's counters.
func (c *SyncCenter) Stats() Stats {
	return Stats{
		Published:       c.published.Load(),
		Invocations:     c.dispatcher.invocations.Load(),
		Faults:          c.dispatcher.faults.Load(),
		SlowInvocations: c.dispatcher.slowCount.Load(),
		ActiveHandles:   c.registry.HandleCount(),
	}
}

var (
	syncMu       sync.Mutex
	syncInstance *SyncCenter
)

// Sync returns the process-wide synchronous center, creating a fresh
// one on first access or after Destroy.
func Sync() *SyncCenter {
	syncMu.Lock()
	defer syncMu.Unlock()
	if syncInstance == nil {
		syncInstance = NewSyncCenter()
	}
	return syncInstance
}

// Destroy drops the singleton if c is it; there is no worker to join.
func (c *SyncCenter) Destroy() {
	syncMu.Lock()
	if syncInstance == c {
		syncInstance = nil
	}
	syncMu.Unlock()
}
