package ref

// Shared is a strong reference that owns a managed object jointly with every
// other strong reference sharing its control block. The object is destroyed
// exactly once, when the last strong reference is released.
//
// The zero value is an empty reference. A Shared must not be copied by value;
// use Clone or Move instead. Shared is not safe for concurrent use.
type Shared[T any] struct {
	ptr  *T
	cb   *controlBlock
	opts *Options
}

// NewShared takes ownership of v, destroying it with the default deleter once
// the last strong reference is released. A nil v yields an empty reference.
func NewShared[T any](v *T, opts *Options) *Shared[T] {
	return NewSharedWithDeleter(v, defaultDeleter[T], opts)
}

// NewSharedWithDeleter takes ownership of v, destroying it with d.
func NewSharedWithDeleter[T any](v *T, d Deleter[T], opts *Options) *Shared[T] {
	s := &Shared[T]{opts: optionsOrDefault(opts)}
	s.own(v, d)
	return s
}

// MakeShared allocates a copy of v and returns a reference owning it.
func MakeShared[T any](v T, opts *Options) *Shared[T] {
	p := new(T)
	*p = v
	return NewShared(p, opts)
}

// NewPooledShared takes an object from the pool and returns it to the pool
// once the last strong reference is released.
func NewPooledShared[T any](p Pool[T], opts *Options) *Shared[T] {
	return NewSharedWithDeleter(p.Get(), poolDeleter(p), opts)
}

// NewSharedFromWeak promotes a weak reference into a strong one, returning
// ErrInvalidWeakReference if the managed object has already been destroyed.
// Use Weak.Lock for a promotion that cannot fail.
func NewSharedFromWeak[T any](w *Weak[T]) (*Shared[T], error) {
	if w == nil || w.cb == nil || !w.cb.tryAcquireStrong() {
		if w != nil && w.cb != nil {
			w.cb.opts.metrics.promotionFailures.Inc(1)
		}
		return nil, ErrInvalidWeakReference
	}
	return &Shared[T]{ptr: w.ptr, cb: w.cb, opts: w.cb.opts}, nil
}

// Clone returns a new strong reference sharing ownership with s.
func (s *Shared[T]) Clone() *Shared[T] {
	if s.cb != nil {
		s.cb.acquireStrong()
	}
	return &Shared[T]{ptr: s.ptr, cb: s.cb, opts: s.opts}
}

// CopyFrom releases the current ownership of s and shares ownership with o.
func (s *Shared[T]) CopyFrom(o *Shared[T]) {
	if s == o {
		return
	}
	// Acquire before releasing so assigning between references sharing one
	// block never lets the count touch zero.
	if o.cb != nil {
		o.cb.acquireStrong()
	}
	s.release()
	s.ptr, s.cb, s.opts = o.ptr, o.cb, o.opts
}

// Move transfers ownership out of s into a new reference, leaving s empty.
func (s *Shared[T]) Move() *Shared[T] {
	m := &Shared[T]{ptr: s.ptr, cb: s.cb, opts: s.opts}
	s.ptr, s.cb = nil, nil
	return m
}

// MoveFrom releases the current ownership of s and takes over the ownership
// held by o, leaving o empty.
func (s *Shared[T]) MoveFrom(o *Shared[T]) {
	if s == o {
		return
	}
	ptr, cb, opts := o.ptr, o.cb, o.opts
	o.ptr, o.cb = nil, nil
	s.release()
	s.ptr, s.cb, s.opts = ptr, cb, opts
}

// Release gives up the ownership held by s and leaves it empty. Releasing an
// empty reference is a no-op.
func (s *Shared[T]) Release() {
	s.release()
}

// Reset releases the current ownership and takes ownership of v with the
// default deleter. Resetting to the object already held is a no-op.
func (s *Shared[T]) Reset(v *T) {
	s.ResetWithDeleter(v, defaultDeleter[T])
}

// ResetWithDeleter releases the current ownership and takes ownership of v,
// destroying it with d. If v is the object already held, ownership and the
// existing deleter are kept and d is ignored.
func (s *Shared[T]) ResetWithDeleter(v *T, d Deleter[T]) {
	if v != nil && v == s.ptr {
		return
	}
	s.release()
	s.own(v, d)
}

// Swap exchanges the managed objects of s and o.
func (s *Shared[T]) Swap(o *Shared[T]) {
	s.ptr, o.ptr = o.ptr, s.ptr
	s.cb, o.cb = o.cb, s.cb
	s.opts, o.opts = o.opts, s.opts
}

// Get returns the managed object, or nil if s is empty.
func (s *Shared[T]) Get() *T { return s.ptr }

// Value dereferences the managed object. It panics if s is empty.
func (s *Shared[T]) Value() T {
	if s.ptr == nil {
		panic(errEmptyDereference)
	}
	return *s.ptr
}

// UseCount returns the number of strong references sharing the managed
// object, or zero if s is empty.
func (s *Shared[T]) UseCount() int {
	if s.cb == nil {
		return 0
	}
	return s.cb.useCount()
}

// Valid returns true if s holds a managed object.
func (s *Shared[T]) Valid() bool { return s.ptr != nil }

func (s *Shared[T]) own(v *T, d Deleter[T]) {
	if s.opts == nil {
		s.opts = defaultOptions
	}
	if v == nil {
		s.ptr, s.cb = nil, nil
		return
	}
	var destroy func() error
	if d != nil {
		destroy = func() error { return d(v) }
	}
	cb := newControlBlock(destroy, s.opts)
	s.ptr, s.cb = v, cb
}

func (s *Shared[T]) release() {
	cb := s.cb
	s.ptr, s.cb = nil, nil
	if cb == nil {
		return
	}
	cb.releaseStrong()
}
