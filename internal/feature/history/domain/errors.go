// Package domain defines domain-level errors for the history feature.
package domain

import "errors"

var (
	// ErrTransientStore wraps any read or write failure against the entry source,
	// the snapshot store or the catalog. It is not retried within a run; the next
	// scheduled run starts again from the unchanged watermark.
	ErrTransientStore = errors.New("transient store error")

	// ErrMalformedEntry marks an observation missing a required numeric field.
	ErrMalformedEntry = errors.New("malformed entry")

	// ErrUnboundedGap marks missing hours at an edge of the timeline with no anchor
	// on one side. Those hours stay absent.
	ErrUnboundedGap = errors.New("unbounded gap")

	// ErrItemNotFound is returned when the catalog has no item for the given reference.
	ErrItemNotFound = errors.New("item not found")
)
