package event

import "reflect"

// TypeKey is a process-stable identity for an event type. Two keys
// compare equal exactly when they name the same Go type, and a TypeKey
// is usable as a map key. Keys are not stable across process runs.
type TypeKey struct {
	rtype reflect.Type
}

// KeyOf returns the TypeKey for the event type T.
func KeyOf[T any]() TypeKey {
	return TypeKey{rtype: reflect.TypeOf((*T)(nil)).Elem()}
}

// KeyFor returns the TypeKey for the dynamic type of v.
func KeyFor(v any) TypeKey {
	return TypeKey{rtype: reflect.TypeOf(v)}
}

// IsZero reports whether k identifies no type.
func (k TypeKey) IsZero() bool {
	return k.rtype == nil
}

// String returns the Go type name, for diagnostics only.
func (k TypeKey) String() string {
	if k.rtype == nil {
		return "<none>"
	}
	return k.rtype.String()
}
