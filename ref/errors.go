package ref

import "errors"

var (
	// ErrInvalidWeakReference is returned when promoting a weak reference
	// whose managed object has already been destroyed.
	ErrInvalidWeakReference = errors.New("invalid weak reference")

	errEmptyDereference = errors.New("dereferencing an empty shared reference")
)
