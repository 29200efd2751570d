package event

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// AsyncCenter owns a Registry, a time queue, and a lazily started
// worker goroutine that dispatches scheduled events in execution-time
// order. Publication never blocks beyond the handoff-buffer append and
// one wake signal.
type AsyncCenter struct {
	registry   *Registry
	queue      *timeQueue
	dispatcher *Dispatcher

	// workerMu serializes worker spawn and join. It is never held
	// together with the queue or registry mutex.
	workerMu sync.Mutex
	running  atomic.Bool
	done     chan struct{}
	stopped  chan struct{}

	published atomic.Uint64
}

// NewAsyncCenter creates a standalone asynchronous center. The worker
// starts on the first publication.
func NewAsyncCenter(opts ...Option) *AsyncCenter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	registry := NewRegistry()
	return &AsyncCenter{
		registry:   registry,
		queue:      newTimeQueue(),
		dispatcher: newDispatcher(registry, cfg),
	}
}

func (c *AsyncCenter) reg() *Registry { return c.registry }

// Registry exposes the center's subscriber table.
func (c *AsyncCenter) Registry() *Registry { return c.registry }

// Publish schedules event for dispatch at the next worker iteration.
func (c *AsyncCenter) Publish(event any) {
	c.publishAt(event, timeNow())
}

// PublishDelayed schedules event for dispatch after d.
func (c *AsyncCenter) PublishDelayed(event any, d time.Duration) {
	c.publishAt(event, timeNow().Add(d))
}

// PublishAt schedules event for dispatch at the given time. Times in
// the past dispatch at the worker's next iteration.
func (c *AsyncCenter) PublishAt(event any, at time.Time) {
	c.publishAt(event, at)
}

func (c *AsyncCenter) publishAt(event any, at time.Time) {
	// The erased envelope is built before any lock is taken.
	env := Erase(event)
	c.ensureWorker()
	c.queue.enqueue(env, at)
	c.published.Add(1)
}

// CancelAll discards every pending and future-scheduled event. Events
// whose dispatch has already begun run to completion. The registry is
// untouched.
func (c *AsyncCenter) CancelAll() {
	c.queue.cancelAll()
}

// Unregister removes the callback registered under handle. Unknown
// handles are ignored.
func (c *AsyncCenter) Unregister(handle SubscriptionHandle) {
	c.registry.UnregisterHandle(handle)
}

// ensureWorker spawns the worker on first publication. The double
// check under workerMu serializes spawn against join.
func (c *AsyncCenter) ensureWorker() {
	if c.running.Load() {
		return
	}
	c.workerMu.Lock()
	defer c.workerMu.Unlock()
	if c.running.Load() {
		return
	}
	c.done = make(chan struct{})
	c.stopped = make(chan struct{})
	c.running.Store(true)
	go c.worker(c.done, c.stopped)
}

// Stop signals the worker and joins it. Events already due dispatch
// before the worker exits; future-scheduled events are discarded. The
// registry survives, and a later publication restarts the worker.
func (c *AsyncCenter) Stop() {
	c.workerMu.Lock()
	defer c.workerMu.Unlock()
	if !c.running.Load() {
		return
	}
	close(c.done)
	<-c.stopped
	c.running.Store(false)
}

// worker is the single dispatch goroutine. Each iteration steals the
// handoff buffer into the heap, dispatches everything due, then sleeps
// until the next execution time or a new arrival, whichever is first.
// Dispatch always runs with no lock held.
func (c *AsyncCenter) worker(done, stopped chan struct{}) {
	defer close(stopped)

	for {
		due, next, hasNext := c.queue.drainDue(timeNow())
		for _, ev := range due {
			c.dispatcher.Dispatch(context.Background(), ev.env)
		}
		if len(due) > 0 {
			// New entries may have arrived during dispatch; merge them
			// before sleeping.
			continue
		}

		if hasNext {
			timer := time.NewTimer(next.Sub(timeNow()))
			select {
			case <-done:
				timer.Stop()
				c.finalDrain()
				return
			case <-c.queue.wake:
				timer.Stop()
			case <-timer.C:
			}
		} else {
			select {
			case <-done:
				c.finalDrain()
				return
			case <-c.queue.wake:
			}
		}
	}
}

// finalDrain dispatches entries already due at shutdown and discards
// the rest, so teardown never waits on future-scheduled events.
func (c *AsyncCenter) finalDrain() {
	due, _, _ := c.queue.drainDue(timeNow())
	for _, ev := range due {
		c.dispatcher.Dispatch(context.Background(), ev.env)
	}
	c.queue.cancelAll()
}

// Stats returns a point-in-time snapshot of the center's counters.
func (c *AsyncCenter) Stats() Stats {
	return Stats{
		Published:       c.published.Load(),
		Invocations:     c.dispatcher.invocations.Load(),
		Faults:          c.dispatcher.faults.Load(),
		SlowInvocations: c.dispatcher.slowCount.Load(),
		QueueDepth:      c.queue.depth(),
		ActiveHandles:   c.registry.HandleCount(),
	}
}

// Stats is a point-in-time snapshot of a center's counters.
type Stats struct {
	// Published is the number of publications accepted.
	Published uint64

	// Invocations is the number of handler invocations attempted.
	Invocations uint64

	// Faults is the number of invocations that panicked or returned an
	// error.
	Faults uint64

	// SlowInvocations is the number of invocations that tripped the
	// latency watchdog.
	SlowInvocations uint64

	// QueueDepth is the number of events awaiting dispatch.
	QueueDepth int

	// ActiveHandles is the number of live callback registrations.
	ActiveHandles int
}

var (
	asyncMu       sync.Mutex
	asyncInstance *AsyncCenter
)

// Async returns the process-wide asynchronous center, creating a fresh
// one on first access or after Destroy.
func Async() *AsyncCenter {
	asyncMu.Lock()
	defer asyncMu.Unlock()
	if asyncInstance == nil {
		asyncInstance = NewAsyncCenter()
	}
	return asyncInstance
}

// Destroy joins the worker and, if c is the current singleton, drops
// it so the next Async call constructs a fresh center with empty
// state. Publishing on a stale reference afterwards restarts that
// center's own worker but never resurrects the singleton.
func (c *AsyncCenter) Destroy() {
	c.Stop()
	asyncMu.Lock()
	if asyncInstance == c {
		asyncInstance = nil
	}
	asyncMu.Unlock()
}

// Publish schedules event on the process-wide asynchronous center.
func Publish(event any) {
	Async().Publish(event)
}

// PublishDelayed schedules event on the process-wide asynchronous
// center after d.
func PublishDelayed(event any, d time.Duration) {
	Async().PublishDelayed(event, d)
}

// PublishAt schedules event on the process-wide asynchronous center at
// the given time.
func PublishAt(event any, at time.Time) {
	Async().PublishAt(event, at)
}
