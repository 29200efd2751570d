// Package event provides an in-process, type-indexed publish/subscribe
// bus delivering strongly-typed event values from any goroutine to a
// dynamic set of subscribers.
//
// # Architecture
//
// Two centers share one data model:
//
//   - AsyncCenter queues publications into a time-ordered queue drained
//     by a single worker goroutine. Events can be published immediately,
//     after a delay, or at an absolute time.
//   - SyncCenter dispatches inline on the publisher's goroutine and
//     ignores the timed variants.
//
// Both own a Registry mapping event-type identity (TypeKey) to three
// subscriber groups, invoked in order on every dispatch:
//
//   - Owned handlers: the center keeps them alive until unregistered.
//   - Observed handlers: the center only observes a reference-counted
//     HandlerRef; once the external owner releases it, delivery stops.
//   - Callbacks: typed functions identified by a SubscriptionHandle.
//
// # Subscription flavors
//
//	type ScoreChanged struct{ Player string; Delta int }
//
//	c := event.Async()
//
//	// Callback with a handle for later removal.
//	handle := event.RegisterCallback(c, func(ctx context.Context, e ScoreChanged) error {
//	    fmt.Println(e.Player, e.Delta)
//	    return nil
//	})
//	defer c.Unregister(handle)
//
//	// Owned handler object.
//	event.RegisterOwned[ScoreChanged](c, myHandler)
//
//	// Observed handler whose lifetime is managed by the caller.
//	ref := event.NewHandlerRef(myHandler)
//	event.RegisterObserved[ScoreChanged](c, ref)
//	// ... later: ref.Release() stops delivery.
//
//	// Stateless self-handled event type.
//	event.RegisterStatic[Heartbeat](c)
//
// # Publication
//
//	event.Publish(ScoreChanged{Player: "ada", Delta: 10})
//	event.PublishDelayed(ScoreChanged{...}, 200*time.Millisecond)
//	event.PublishAt(ScoreChanged{...}, deadline)
//
// Publication is fire-and-forget: nothing is surfaced to the caller.
// Handler panics and errors are contained per invocation, logged to the
// diagnostic sink, and never stop the remaining subscribers. A latency
// watchdog reports invocations exceeding SlowInvocation.
//
// # Lifecycle
//
// Async and Sync return lazily created process-wide singletons.
// Destroy joins the async worker and drops the singleton; the next
// access constructs a fresh center with empty state. Standalone centers
// for tests or embedding come from NewAsyncCenter and NewSyncCenter.
//
// # Thread safety
//
// All public operations are safe for concurrent use. Registration and
// unregistration are short critical sections; no lock is ever held
// across handler invocation. Scheduled events dispatch in
// non-decreasing execution-time order, and publications from a single
// goroutine keep their relative order.
//
// # Subpackages
//
//   - dispatch: per-invocation fault boundary and timing.
package event
