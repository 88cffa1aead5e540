package ref

import "github.com/xichen2020/sharedref/x/pool"

// PooledSource hands out shared references to objects drawn from a pool.
// Each object goes back to the pool when its last strong reference is
// released. Like the references, it is not safe for concurrent use.
type PooledSource[T any] struct {
	pool *pool.ObjectPool[T]
	opts *Options
}

// NewPooledSource builds a pool from the configuration and returns a source
// of references backed by it. Pool metrics are reported under the "pool"
// subscope of the reference metrics scope.
func NewPooledSource[T any](
	cfg *pool.ObjectPoolConfiguration,
	alloc func() *T,
	opts *Options,
) (*PooledSource[T], error) {
	opts = optionsOrDefault(opts)
	iOpts := opts.InstrumentOptions()
	iOpts = iOpts.SetMetricsScope(iOpts.MetricsScope().SubScope("pool"))
	p, err := pool.NewConfiguredObjectPool(cfg, iOpts, alloc)
	if err != nil {
		return nil, err
	}
	return &PooledSource[T]{pool: p, opts: opts}, nil
}

// Get returns a reference owning an object taken from the pool.
func (s *PooledSource[T]) Get() *Shared[T] {
	return NewPooledShared[T](s.pool, s.opts)
}

// Idle returns the number of objects waiting in the pool.
func (s *PooledSource[T]) Idle() int { return s.pool.Len() }

// Drain closes and drops every idle object in the pool.
func (s *PooledSource[T]) Drain() error { return s.pool.Drain() }
