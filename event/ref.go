package event

import "sync/atomic"

// HandlerRef is a counted strong reference to a Handler, shared
// between an external owner and any observers. When the last strong
// reference is released the target is expired: observers can no
// longer reach it. The zero HandlerRef is invalid.
type HandlerRef struct {
	state *refState
}

type refState struct {
	handler Handler
	strong  atomic.Int64
}

// NewHandlerRef wraps h in a reference-counted owner with a strong
// count of one.
func NewHandlerRef(h Handler) HandlerRef {
	s := &refState{handler: h}
	s.strong.Store(1)
	return HandlerRef{state: s}
}

// Handler returns the referenced handler.
func (r HandlerRef) Handler() Handler {
	if r.state == nil {
		return nil
	}
	return r.state.handler
}

// Valid reports whether r holds a live reference.
func (r HandlerRef) Valid() bool {
	return r.state != nil
}

// Retain takes an additional strong reference to the same target.
func (r HandlerRef) Retain() HandlerRef {
	r.state.strong.Add(1)
	return r
}

// Release drops this strong reference. Dropping the last one expires
// the target for every observer. Release on the zero value is a no-op.
func (r HandlerRef) Release() {
	if r.state == nil {
		return
	}
	r.state.strong.Add(-1)
}

// Weak returns a non-owning observation of the target.
func (r HandlerRef) Weak() WeakHandlerRef {
	return WeakHandlerRef{state: r.state}
}

// WeakHandlerRef observes a handler without keeping it alive.
type WeakHandlerRef struct {
	state *refState
}

// Lock upgrades the observation to a strong reference. It fails once
// the last external strong reference has been released. The upgrade is
// an increment-if-nonzero, so it can never resurrect an expired target.
func (w WeakHandlerRef) Lock() (HandlerRef, bool) {
	if w.state == nil {
		return HandlerRef{}, false
	}
	for {
		n := w.state.strong.Load()
		if n <= 0 {
			return HandlerRef{}, false
		}
		if w.state.strong.CompareAndSwap(n, n+1) {
			return HandlerRef{state: w.state}, true
		}
	}
}

// Expired reports whether the target can no longer be reached.
func (w WeakHandlerRef) Expired() bool {
	return w.state == nil || w.state.strong.Load() <= 0
}

// target exposes the handler identity for unregistration matching,
// regardless of expiry.
func (w WeakHandlerRef) target() Handler {
	if w.state == nil {
		return nil
	}
	return w.state.handler
}
