package dispatch

import (
	"context"
	"runtime/debug"
	"time"
)

// Result describes one isolated handler invocation.
type Result struct {
	// Err is the error returned by the invocation, nil on success.
	Err error

	// Panicked reports that the invocation panicked.
	Panicked bool

	// PanicValue is the value passed to panic().
	PanicValue any

	// PanicStack is the stack trace captured at recovery.
	PanicStack []byte

	// Duration is the observed wall-clock time of the invocation.
	Duration time.Duration
}

// Failed reports whether the invocation panicked or returned an error.
func (r Result) Failed() bool {
	return r.Panicked || r.Err != nil
}

// PanicHandler is called when an invocation panics.
type PanicHandler func(panicValue any, stack []byte)

// Executor runs callables with panic recovery and timing. A failure in
// one invocation never affects the next.
type Executor struct {
	panicHandler PanicHandler
}

// NewExecutor creates an executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithPanicHandler sets a hook invoked with the panic value and stack
// whenever an invocation panics.
func WithPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		e.panicHandler = h
	}
}

// Execute runs call inside the fault boundary and returns its Result.
func (e *Executor) Execute(ctx context.Context, call func(context.Context) error) (result Result) {
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack

			// The hook must not be able to crash the process either.
			if e.panicHandler != nil {
				func() {
					defer func() { _ = recover() }()
					e.panicHandler(r, stack)
				}()
			}
		}
	}()

	result.Err = call(ctx)
	return result
}
