package pool

import (
	"errors"
	"io"
	"math"

	xerrors "github.com/m3db/m3/src/x/errors"
	"github.com/m3db/m3/src/x/instrument"
	"github.com/uber-go/tally"
)

var (
	errPoolAlreadyInitialized = errors.New("pool is already initialized")
	errGetBeforeInit          = errors.New("get before pool is initialized")
	errPutBeforeInit          = errors.New("put before pool is initialized")
)

// ObjectPoolOptions provide a set of options for the object pool.
type ObjectPoolOptions struct {
	instrumentOpts      instrument.Options
	size                int
	refillLowWatermark  float64
	refillHighWatermark float64
}

// NewObjectPoolOptions create a new set of object pool options.
func NewObjectPoolOptions() *ObjectPoolOptions {
	return &ObjectPoolOptions{
		instrumentOpts: instrument.NewOptions(),
		size:           4096,
	}
}

// SetInstrumentOptions sets the instrument options.
func (o *ObjectPoolOptions) SetInstrumentOptions(v instrument.Options) *ObjectPoolOptions {
	opts := *o
	opts.instrumentOpts = v
	return &opts
}

// InstrumentOptions returns the instrument options.
func (o *ObjectPoolOptions) InstrumentOptions() instrument.Options {
	return o.instrumentOpts
}

// SetSize sets the maximum number of idle objects held by the pool.
func (o *ObjectPoolOptions) SetSize(v int) *ObjectPoolOptions {
	opts := *o
	opts.size = v
	return &opts
}

// Size returns the maximum number of idle objects held by the pool.
func (o *ObjectPoolOptions) Size() int { return o.size }

// SetRefillLowWatermark sets the fraction of the pool size at or below which
// a Get refills the pool. Zero disables refilling.
func (o *ObjectPoolOptions) SetRefillLowWatermark(v float64) *ObjectPoolOptions {
	opts := *o
	opts.refillLowWatermark = v
	return &opts
}

// RefillLowWatermark returns the low watermark for refilling the pool.
func (o *ObjectPoolOptions) RefillLowWatermark() float64 { return o.refillLowWatermark }

// SetRefillHighWatermark sets the fraction of the pool size a refill stops at.
func (o *ObjectPoolOptions) SetRefillHighWatermark(v float64) *ObjectPoolOptions {
	opts := *o
	opts.refillHighWatermark = v
	return &opts
}

// RefillHighWatermark returns the high watermark for stop refilling the pool.
func (o *ObjectPoolOptions) RefillHighWatermark() float64 { return o.refillHighWatermark }

type objectPoolMetrics struct {
	free       tally.Gauge
	total      tally.Gauge
	getOnEmpty tally.Counter
	putOnFull  tally.Counter
	refills    tally.Counter
	refilled   tally.Counter
	drained    tally.Counter
}

func newObjectPoolMetrics(m tally.Scope) objectPoolMetrics {
	return objectPoolMetrics{
		free:       m.Gauge("free"),
		total:      m.Gauge("total"),
		getOnEmpty: m.Counter("get-on-empty"),
		putOnFull:  m.Counter("put-on-full"),
		refills:    m.Counter("refills"),
		refilled:   m.Counter("refilled"),
		drained:    m.Counter("drained"),
	}
}

// ObjectPool holds idle objects for reuse. Refills run synchronously inside
// Get, so alloc is only ever called from the caller's goroutine.
//
// ObjectPool is not safe for concurrent use, matching the references it backs.
type ObjectPool[T any] struct {
	free                []*T
	alloc               func() *T
	size                int
	refillLowWatermark  int
	refillHighWatermark int
	initialized         bool
	metrics             objectPoolMetrics
}

// NewObjectPool creates a new pool. Init must be called before use.
func NewObjectPool[T any](opts *ObjectPoolOptions) *ObjectPool[T] {
	if opts == nil {
		opts = NewObjectPoolOptions()
	}

	p := &ObjectPool[T]{
		free: make([]*T, 0, opts.Size()),
		size: opts.Size(),
		refillLowWatermark: int(math.Ceil(
			opts.RefillLowWatermark() * float64(opts.Size()))),
		refillHighWatermark: int(math.Ceil(
			opts.RefillHighWatermark() * float64(opts.Size()))),
		metrics: newObjectPoolMetrics(opts.InstrumentOptions().MetricsScope()),
	}

	p.setGauges()

	return p
}

// Init fills the pool with objects created by alloc.
func (p *ObjectPool[T]) Init(alloc func() *T) {
	if p.initialized {
		panic(errPoolAlreadyInitialized)
	}
	p.initialized = true
	p.alloc = alloc
	p.fillTo(p.size)
	p.setGauges()
}

// Get takes an idle object from the pool, allocating one if none is idle.
func (p *ObjectPool[T]) Get() *T {
	if !p.initialized {
		panic(errGetBeforeInit)
	}

	var v *T
	if n := len(p.free); n > 0 {
		v = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	} else {
		v = p.alloc()
		p.metrics.getOnEmpty.Inc(1)
	}

	if p.refillLowWatermark > 0 && len(p.free) <= p.refillLowWatermark {
		p.metrics.refills.Inc(1)
		p.fillTo(p.refillHighWatermark)
	}

	p.setGauges()
	return v
}

// Put returns an object to the pool. The object is dropped if the pool is full.
func (p *ObjectPool[T]) Put(v *T) {
	if !p.initialized {
		panic(errPutBeforeInit)
	}

	if len(p.free) >= p.size {
		p.metrics.putOnFull.Inc(1)
		return
	}
	p.free = append(p.free, v)
	p.setGauges()
}

// Drain removes every idle object, closing the ones that implement io.Closer.
// The pool stays usable afterwards.
func (p *ObjectPool[T]) Drain() error {
	multiErr := xerrors.NewMultiError()
	for i, v := range p.free {
		if c, ok := any(v).(io.Closer); ok {
			multiErr = multiErr.Add(c.Close())
		}
		p.free[i] = nil
	}
	p.metrics.drained.Inc(int64(len(p.free)))
	p.free = p.free[:0]
	p.setGauges()
	return multiErr.FinalError()
}

// Len returns the number of idle objects held by the pool.
func (p *ObjectPool[T]) Len() int { return len(p.free) }

func (p *ObjectPool[T]) fillTo(n int) {
	if n > p.size {
		n = p.size
	}
	for len(p.free) < n {
		p.free = append(p.free, p.alloc())
		p.metrics.refilled.Inc(1)
	}
}

func (p *ObjectPool[T]) setGauges() {
	p.metrics.free.Update(float64(len(p.free)))
	p.metrics.total.Update(float64(p.size))
}
