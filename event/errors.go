package event

import "errors"

// Sentinel errors for the wire adapter. Core publication and
// registration never surface errors to callers; handler faults are
// logged to the diagnostic sink and swallowed.
var (
	// ErrAdapterClosed is returned when ingesting through a closed adapter.
	ErrAdapterClosed = errors.New("wire adapter is closed")

	// ErrMalformedDocument is returned for documents that are not valid
	// JSON or lack a type field.
	ErrMalformedDocument = errors.New("malformed event document")

	// ErrUnknownEventType is returned when no decoder is registered for
	// a document's type name.
	ErrUnknownEventType = errors.New("unknown event type")
)
