package ref

// Weak observes an object managed by Shared references without keeping it
// alive. It can be promoted to a strong reference while the object lives.
//
// The zero value is an empty, expired reference. A Weak must not be copied by
// value; use Clone or Move instead.
type Weak[T any] struct {
	// ptr is never dereferenced here; it is only handed out on promotion.
	ptr *T
	cb  *controlBlock
}

// NewWeak returns a weak reference observing the object managed by s. The
// result is empty if s is empty.
func NewWeak[T any](s *Shared[T]) *Weak[T] {
	w := &Weak[T]{}
	w.observe(s.ptr, s.cb)
	return w
}

// Clone returns a new weak reference observing the same object as w.
func (w *Weak[T]) Clone() *Weak[T] {
	c := &Weak[T]{}
	c.observe(w.ptr, w.cb)
	return c
}

// CopyFrom stops observing the current object and observes the one o observes.
func (w *Weak[T]) CopyFrom(o *Weak[T]) {
	if w == o {
		return
	}
	ptr, cb := o.ptr, o.cb
	if cb != nil {
		cb.acquireWeak()
	}
	w.release()
	w.ptr, w.cb = ptr, cb
}

// AssignShared stops observing the current object and observes the one
// managed by s.
func (w *Weak[T]) AssignShared(s *Shared[T]) {
	ptr, cb := s.ptr, s.cb
	if cb != nil {
		cb.acquireWeak()
	}
	w.release()
	w.ptr, w.cb = ptr, cb
}

// Move transfers the observation out of w into a new reference, leaving w
// empty.
func (w *Weak[T]) Move() *Weak[T] {
	m := &Weak[T]{ptr: w.ptr, cb: w.cb}
	w.ptr, w.cb = nil, nil
	return m
}

// MoveFrom stops observing the current object and takes over the observation
// held by o, leaving o empty.
func (w *Weak[T]) MoveFrom(o *Weak[T]) {
	if w == o {
		return
	}
	ptr, cb := o.ptr, o.cb
	o.ptr, o.cb = nil, nil
	w.release()
	w.ptr, w.cb = ptr, cb
}

// Reset stops observing the current object and leaves w empty.
func (w *Weak[T]) Reset() {
	w.release()
}

// Swap exchanges the observed objects of w and o.
func (w *Weak[T]) Swap(o *Weak[T]) {
	w.ptr, o.ptr = o.ptr, w.ptr
	w.cb, o.cb = o.cb, w.cb
}

// Expired returns true if w is empty or the observed object was destroyed.
func (w *Weak[T]) Expired() bool {
	return w.cb == nil || w.cb.expired()
}

// UseCount returns the number of strong references to the observed object.
func (w *Weak[T]) UseCount() int {
	if w.cb == nil {
		return 0
	}
	return w.cb.useCount()
}

// Lock returns a strong reference sharing ownership of the observed object,
// or an empty reference if it has expired.
func (w *Weak[T]) Lock() *Shared[T] {
	if w.Expired() {
		return &Shared[T]{}
	}
	w.cb.acquireStrong()
	return &Shared[T]{ptr: w.ptr, cb: w.cb, opts: w.cb.opts}
}

func (w *Weak[T]) observe(ptr *T, cb *controlBlock) {
	if cb == nil {
		return
	}
	cb.acquireWeak()
	w.ptr, w.cb = ptr, cb
}

func (w *Weak[T]) release() {
	cb := w.cb
	w.ptr, w.cb = nil, nil
	if cb == nil {
		return
	}
	cb.releaseWeak()
}
