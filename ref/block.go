package ref

import (
	"github.com/xichen2020/sharedref/x/refcnt"

	"go.uber.org/zap"
)

// controlBlock is the bookkeeping shared by every strong and weak reference
// derived from the same origin. All count mutation goes through it.
//
// The managed object and the block have independent lifetimes: the object is
// destroyed when the strong count reaches zero, and the block is freed once
// both counts reach zero.
type controlBlock struct {
	cnt     *refcnt.Counter
	destroy func() error
	opts    *Options

	destroyed bool
	freed     bool
}

// newControlBlock creates a block owned by a single strong reference.
func newControlBlock(destroy func() error, opts *Options) *controlBlock {
	cnt := refcnt.NewCounter()
	cnt.IncStrong()
	b := &controlBlock{
		cnt:     cnt,
		destroy: destroy,
		opts:    opts,
	}
	opts.metrics.blocksCreated.Inc(1)
	return b
}

func (b *controlBlock) useCount() int { return int(b.cnt.StrongCount()) }

func (b *controlBlock) expired() bool { return b.cnt.StrongIsZero() }

func (b *controlBlock) acquireStrong() { b.cnt.IncStrong() }

// tryAcquireStrong adds a strong owner only if the object is still alive.
func (b *controlBlock) tryAcquireStrong() bool {
	if b.cnt.StrongIsZero() {
		return false
	}
	b.cnt.IncStrong()
	return true
}

func (b *controlBlock) acquireWeak() { b.cnt.IncWeak() }

func (b *controlBlock) releaseStrong() {
	if b.cnt.DecStrong() > 0 {
		return
	}
	// A panicking deleter still frees a block nothing references anymore.
	defer b.tryFree()
	b.destroyObject()
}

func (b *controlBlock) releaseWeak() {
	if b.cnt.DecWeak() > 0 {
		return
	}
	b.tryFree()
}

func (b *controlBlock) destroyObject() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	destroy := b.destroy
	b.destroy = nil
	b.opts.metrics.objectsDestroyed.Inc(1)
	if destroy == nil {
		return
	}
	if err := destroy(); err != nil {
		b.opts.metrics.destroyErrors.Inc(1)
		b.opts.InstrumentOptions().Logger().Error("error destroying managed object", zap.Error(err))
		if fn := b.opts.DestroyErrorFn(); fn != nil {
			fn(err)
		}
	}
}

// tryFree frees the block if nothing references it anymore. A deleter may
// release the last weak reference to its own block, in which case the inner
// release frees the block and the outer one finds it already freed.
func (b *controlBlock) tryFree() {
	if b.freed || !b.cnt.IsZero() {
		return
	}
	b.freed = true
	b.opts.metrics.blocksFreed.Inc(1)
}
