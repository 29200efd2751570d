package event

import "context"

// Registrar is the registration surface shared by both centers.
type Registrar interface {
	reg() *Registry
}

// RegisterOwned subscribes h to events of type T with strong
// ownership: the center keeps the handler alive until it is explicitly
// unregistered.
func RegisterOwned[T any](c Registrar, h Handler) {
	c.reg().RegisterOwned(KeyOf[T](), h)
}

// RegisterObserved subscribes the handler behind ref to events of type
// T without taking ownership. Once the external owner releases its
// last strong reference, the handler stops receiving events.
func RegisterObserved[T any](c Registrar, ref HandlerRef) {
	c.reg().RegisterObserved(KeyOf[T](), ref.Weak())
}

// RegisterCallback subscribes a typed callback to events of type T and
// returns its handle for later unregistration.
func RegisterCallback[T any](c Registrar, fn func(context.Context, T) error) SubscriptionHandle {
	return c.reg().RegisterCallback(KeyOf[T](), eraseCallback(fn))
}

// RegisterStatic subscribes the event type's own HandleEvent method as
// a callback. The registry treats the result like any other callback;
// the handle exists so the registration can be removed.
func RegisterStatic[T SelfHandler[T]](c Registrar) SubscriptionHandle {
	var zero T
	return RegisterCallback[T](c, zero.HandleEvent)
}

// UnregisterHandler removes h from both the owned and observed lists
// for type T.
func UnregisterHandler[T any](c Registrar, h Handler) {
	c.reg().UnregisterHandler(KeyOf[T](), h)
}

// UnregisterAll drops every subscriber for type T.
func UnregisterAll[T any](c Registrar) {
	c.reg().UnregisterAll(KeyOf[T]())
}
