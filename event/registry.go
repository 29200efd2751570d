package event

import (
	"reflect"
	"sync"
)

// SubscriptionHandle identifies a callback or static registration.
// Handles are issued monotonically for the lifetime of a center and
// never reused. Zero is a valid handle.
type SubscriptionHandle uint64

type callbackEntry struct {
	handle SubscriptionHandle
	fn     erasedCallback
}

// typeSubscribers holds the per-type collections. Owned handlers and
// callbacks keep insertion order; observed entries may expire and are
// pruned when a snapshot is taken.
type typeSubscribers struct {
	owned     []Handler
	observed  []WeakHandlerRef
	callbacks []callbackEntry
}

func (s *typeSubscribers) empty() bool {
	return len(s.owned) == 0 && len(s.observed) == 0 && len(s.callbacks) == 0
}

// Registry maps event-type identity to subscriber collections. All
// operations are short critical sections under a single mutex; no user
// code ever runs while it is held. Dispatch works from snapshot copies
// so handler execution is lock-free.
type Registry struct {
	mu         sync.Mutex
	subs       map[TypeKey]*typeSubscribers
	byHandle   map[SubscriptionHandle]TypeKey
	nextHandle SubscriptionHandle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		subs:     make(map[TypeKey]*typeSubscribers),
		byHandle: make(map[SubscriptionHandle]TypeKey),
	}
}

func (r *Registry) bucket(key TypeKey) *typeSubscribers {
	s, ok := r.subs[key]
	if !ok {
		s = &typeSubscribers{}
		r.subs[key] = s
	}
	return s
}

// RegisterOwned appends a handler the registry keeps alive until it is
// explicitly unregistered.
func (r *Registry) RegisterOwned(key TypeKey, h Handler) {
	if h == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.bucket(key)
	s.owned = append(s.owned, h)
}

// RegisterObserved appends a non-owning observation. The external
// owner's release expires the entry; expired entries are skipped at
// dispatch and pruned opportunistically.
func (r *Registry) RegisterObserved(key TypeKey, ref WeakHandlerRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.bucket(key)
	s.observed = append(s.observed, ref)
}

// RegisterCallback stores an erased callback and returns its handle.
// The callback map and the handle reverse index are mutated together
// under the registry lock.
func (r *Registry) RegisterCallback(key TypeKey, fn erasedCallback) SubscriptionHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	handle := r.nextHandle
	r.nextHandle++
	s := r.bucket(key)
	s.callbacks = append(s.callbacks, callbackEntry{handle: handle, fn: fn})
	r.byHandle[handle] = key
	return handle
}

// UnregisterHandler removes h from the owned list by identity and from
// the observed list by identity or expiry. Registering the same handler
// twice removes the first matching occurrence from each list.
func (r *Registry) UnregisterHandler(key TypeKey, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[key]
	if !ok {
		return
	}
	for i, owned := range s.owned {
		if sameHandler(owned, h) {
			s.owned = append(s.owned[:i], s.owned[i+1:]...)
			break
		}
	}
	kept := s.observed[:0]
	removedIdentity := false
	for _, ref := range s.observed {
		if ref.Expired() {
			continue
		}
		if !removedIdentity && sameHandler(ref.target(), h) {
			removedIdentity = true
			continue
		}
		kept = append(kept, ref)
	}
	s.observed = kept
	if s.empty() {
		delete(r.subs, key)
	}
}

// sameHandler reports whether two handlers are the same registration
// target. Comparable handlers (pointers, structs) match by value
// identity. Function adapters are not comparable, so they match by
// code pointer; distinct adapters of the same function body therefore
// unregister each other, and callers needing strict identity should
// register pointer handlers.
func sameHandler(a, b Handler) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	switch ta.Kind() {
	case reflect.Func, reflect.Map, reflect.Slice:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	}
	return false
}

// UnregisterHandle removes the callback registered under handle. An
// unknown handle is a silent no-op.
func (r *Registry) UnregisterHandle(handle SubscriptionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.byHandle[handle]
	if !ok {
		return
	}
	delete(r.byHandle, handle)
	s, ok := r.subs[key]
	if !ok {
		return
	}
	for i, entry := range s.callbacks {
		if entry.handle == handle {
			s.callbacks = append(s.callbacks[:i], s.callbacks[i+1:]...)
			break
		}
	}
	if s.empty() {
		delete(r.subs, key)
	}
}

// UnregisterAll drops every subscriber for key, erasing the reverse
// index entry of each removed callback.
func (r *Registry) UnregisterAll(key TypeKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[key]
	if !ok {
		return
	}
	for _, entry := range s.callbacks {
		delete(r.byHandle, entry.handle)
	}
	delete(r.subs, key)
}

// snapshot returns iteration-safe copies of the three collections for
// key. Expired observed entries are pruned while the lock is held.
func (r *Registry) snapshot(key TypeKey) snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[key]
	if !ok {
		return snapshot{}
	}

	live := s.observed[:0]
	for _, ref := range s.observed {
		if !ref.Expired() {
			live = append(live, ref)
		}
	}
	s.observed = live

	var snap snapshot
	if len(s.owned) > 0 {
		snap.owned = make([]Handler, len(s.owned))
		copy(snap.owned, s.owned)
	}
	if len(s.observed) > 0 {
		snap.observed = make([]WeakHandlerRef, len(s.observed))
		copy(snap.observed, s.observed)
	}
	if len(s.callbacks) > 0 {
		snap.callbacks = make([]erasedCallback, len(s.callbacks))
		for i, entry := range s.callbacks {
			snap.callbacks[i] = entry.fn
		}
	}
	return snap
}

// snapshot is a point-in-time copy of one type's subscribers, consumed
// outside the registry lock.
type snapshot struct {
	owned     []Handler
	observed  []WeakHandlerRef
	callbacks []erasedCallback
}

// Count returns the number of subscriber entries stored for key.
// Expired observed entries are counted until a snapshot or an
// unregistration prunes them.
func (r *Registry) Count(key TypeKey) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[key]
	if !ok {
		return 0
	}
	return len(s.owned) + len(s.observed) + len(s.callbacks)
}

// HandleCount returns the size of the handle reverse index.
func (r *Registry) HandleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byHandle)
}
