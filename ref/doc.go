// Package ref provides shared-ownership references.
//
// A Shared owns a managed object jointly with the other Shared references
// cloned from it; the object's deleter runs once, when the last of them is
// released. A Weak observes the same object without keeping it alive and can
// be promoted back into a Shared while the object lives, either with
// NewSharedFromWeak, which fails with ErrInvalidWeakReference, or with
// Weak.Lock, which returns an empty reference instead.
//
// References are not safe for concurrent use. Reference cycles are never
// collected.
package ref
