package event

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/u-stone/eventsystem/event/dispatch"
)

// Invocation category labels reported to the diagnostic sink.
const (
	categoryOwned    = "Owned"
	categoryObserved = "Observed"
	categoryCallback = "Callback"
)

// SlowInvocation is the latency watchdog threshold. Invocations that
// exceed it are reported to the diagnostic sink; the watchdog is
// observational only and never interrupts a handler.
const SlowInvocation = 500 * time.Millisecond

// Dispatcher delivers one erased event to every subscriber in a
// registry snapshot: owned handlers, then observed handlers, then
// callbacks, insertion order within each group. Every invocation runs
// behind its own fault boundary.
type Dispatcher struct {
	registry *Registry
	executor *dispatch.Executor
	logger   zerolog.Logger
	slow     time.Duration

	invocations atomic.Uint64
	faults      atomic.Uint64
	slowCount   atomic.Uint64
}

func newDispatcher(registry *Registry, cfg config) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		executor: dispatch.NewExecutor(),
		logger:   cfg.logger,
		slow:     cfg.slowWarning,
	}
}

// Dispatch snapshots the subscribers for env.Key and invokes each one.
// The snapshot is taken under the registry lock; all handler execution
// happens outside it. Observed references are upgraded to strong only
// across the single invocation, and expired ones are skipped.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope) {
	snap := d.registry.snapshot(env.Key)

	for _, h := range snap.owned {
		d.invoke(ctx, env, categoryOwned, func(ctx context.Context) error {
			return h.Handle(ctx, env.Value)
		})
	}
	for _, weak := range snap.observed {
		ref, ok := weak.Lock()
		if !ok {
			continue
		}
		d.invoke(ctx, env, categoryObserved, func(ctx context.Context) error {
			return ref.Handler().Handle(ctx, env.Value)
		})
		ref.Release()
	}
	for _, fn := range snap.callbacks {
		d.invoke(ctx, env, categoryCallback, func(ctx context.Context) error {
			return fn(ctx, env)
		})
	}
}

func (d *Dispatcher) invoke(ctx context.Context, env Envelope, category string, call func(context.Context) error) {
	result := d.executor.Execute(ctx, call)
	d.invocations.Add(1)

	if result.Failed() {
		d.faults.Add(1)
		cause := result.Err
		if result.Panicked {
			d.logger.Error().
				Str("category", category).
				Stringer("event", env.Key).
				Bytes("stack", result.PanicStack).
				Msgf("[EventSystem] Exception in %s: %v", category, result.PanicValue)
		} else {
			d.logger.Error().
				Str("category", category).
				Stringer("event", env.Key).
				Msgf("[EventSystem] Exception in %s: %v", category, cause)
		}
	}

	if result.Duration > d.slow {
		d.slowCount.Add(1)
		d.logger.Warn().
			Str("category", category).
			Stringer("event", env.Key).
			Dur("duration", result.Duration).
			Msgf("[EventSystem] Warning: %s took %dms", category, result.Duration.Milliseconds())
	}
}
