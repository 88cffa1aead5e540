package ref

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeakEmpty(t *testing.T) {
	var w Weak[int]
	require.True(t, w.Expired())
	require.Equal(t, 0, w.UseCount())
	require.False(t, w.Lock().Valid())
	require.NotPanics(t, func() { w.Reset() })

	_, err := NewSharedFromWeak(&w)
	require.Equal(t, ErrInvalidWeakReference, err)

	_, err = NewSharedFromWeak[int](nil)
	require.Equal(t, ErrInvalidWeakReference, err)
}

func TestNewWeakFromEmptyShared(t *testing.T) {
	var s Shared[int]
	w := NewWeak(&s)
	require.True(t, w.Expired())
	require.Equal(t, 0, w.UseCount())
}

func TestWeakDoesNotExtendLifetime(t *testing.T) {
	opts, scope := newTestOptions()
	obj, destroyed := newTrackedObject("x")
	s := NewShared(obj, opts)
	w := NewWeak(s)
	require.False(t, w.Expired())
	require.Equal(t, 1, w.UseCount())
	require.Equal(t, 1, s.UseCount())

	s.Release()
	require.Equal(t, 1, *destroyed)
	require.True(t, w.Expired())
	require.Equal(t, 0, w.UseCount())
	require.Equal(t, int64(0), blocksFreed(scope))

	w.Reset()
	require.Equal(t, int64(1), blocksFreed(scope))
	require.Equal(t, 1, *destroyed)
}

func TestWeakLock(t *testing.T) {
	obj, destroyed := newTrackedObject("x")
	a := NewShared(obj, nil)
	w := NewWeak(a)

	before := a.UseCount()
	c := w.Lock()
	require.True(t, c.Valid())
	require.Same(t, obj, c.Get())
	require.Equal(t, before+1, c.UseCount())
	require.Equal(t, before+1, a.UseCount())

	a.Release()
	c.Release()
	require.Equal(t, 1, *destroyed)

	expired := w.Lock()
	require.False(t, expired.Valid())
	require.Equal(t, 0, expired.UseCount())
}

func TestNewSharedFromWeak(t *testing.T) {
	opts, scope := newTestOptions()
	obj, destroyed := newTrackedObject("x")
	a := NewShared(obj, opts)
	w := NewWeak(a)

	b, err := NewSharedFromWeak(w)
	require.NoError(t, err)
	require.Equal(t, 2, b.UseCount())
	require.Same(t, obj, b.Get())

	a.Release()
	b.Release()
	require.Equal(t, 1, *destroyed)

	c, err := NewSharedFromWeak(w)
	require.Equal(t, ErrInvalidWeakReference, err)
	require.Nil(t, c)
	require.Equal(t, int64(1), counterValue(scope, "promotion-failures"))
	require.True(t, w.Expired())
}

func TestWeakCloneAndCopyFrom(t *testing.T) {
	opts, scope := newTestOptions()
	x, _ := newTrackedObject("x")
	y, _ := newTrackedObject("y")
	sx := NewShared(x, opts)
	sy := NewShared(y, opts)
	wx := NewWeak(sx)
	wy := NewWeak(sy)

	c := wx.Clone()
	require.Same(t, x, c.Lock().Get())
	require.Equal(t, int32(2), sx.cb.cnt.WeakCount())

	wy.CopyFrom(wx)
	require.Equal(t, int32(3), sx.cb.cnt.WeakCount())
	require.Equal(t, int32(0), sy.cb.cnt.WeakCount())
	require.Same(t, x, wy.Lock().Get())

	wy.CopyFrom(wy)
	require.Equal(t, int32(3), sx.cb.cnt.WeakCount())

	var empty Weak[trackedObject]
	wy.CopyFrom(&empty)
	require.True(t, wy.Expired())
	require.Equal(t, int32(2), sx.cb.cnt.WeakCount())

	sy.Release()
	require.Equal(t, int64(1), blocksFreed(scope))
}

func TestWeakMove(t *testing.T) {
	obj, _ := newTrackedObject("x")
	s := NewShared(obj, nil)
	w := NewWeak(s)

	m := w.Move()
	require.True(t, w.Expired())
	require.False(t, m.Expired())
	require.Equal(t, int32(1), s.cb.cnt.WeakCount())

	other := NewWeak(s)
	other.MoveFrom(m)
	require.True(t, m.Expired())
	require.False(t, other.Expired())
	require.Equal(t, int32(1), s.cb.cnt.WeakCount())

	other.MoveFrom(other)
	require.False(t, other.Expired())
	require.Equal(t, int32(1), s.cb.cnt.WeakCount())
}

func TestWeakAssignShared(t *testing.T) {
	x, _ := newTrackedObject("x")
	y, _ := newTrackedObject("y")
	sx := NewShared(x, nil)
	sy := NewShared(y, nil)
	w := NewWeak(sx)

	w.AssignShared(sy)
	require.Equal(t, int32(0), sx.cb.cnt.WeakCount())
	require.Equal(t, int32(1), sy.cb.cnt.WeakCount())
	require.Same(t, y, w.Lock().Get())

	var empty Shared[trackedObject]
	w.AssignShared(&empty)
	require.True(t, w.Expired())
	require.Equal(t, int32(0), sy.cb.cnt.WeakCount())
}

func TestWeakSwap(t *testing.T) {
	x, _ := newTrackedObject("x")
	sx := NewShared(x, nil)
	w := NewWeak(sx)
	var other Weak[trackedObject]

	w.Swap(&other)
	require.True(t, w.Expired())
	require.False(t, other.Expired())
	require.Equal(t, int32(1), sx.cb.cnt.WeakCount())
	require.Same(t, x, other.Lock().Get())
}

func TestControlBlockFreedStrongThenWeak(t *testing.T) {
	opts, scope := newTestOptions()
	obj, destroyed := newTrackedObject("x")
	s := NewShared(obj, opts)
	w1 := NewWeak(s)
	w2 := w1.Clone()

	s.Release()
	require.Equal(t, 1, *destroyed)
	require.Equal(t, int64(0), blocksFreed(scope))
	w1.Reset()
	require.Equal(t, int64(0), blocksFreed(scope))
	w2.Reset()
	require.Equal(t, int64(1), blocksFreed(scope))

	w2.Reset()
	require.Equal(t, int64(1), blocksFreed(scope))
	require.Equal(t, 1, *destroyed)
}

func TestControlBlockFreedWeakThenStrong(t *testing.T) {
	opts, scope := newTestOptions()
	obj, destroyed := newTrackedObject("x")
	s := NewShared(obj, opts)
	w := NewWeak(s)

	w.Reset()
	require.Equal(t, 0, *destroyed)
	require.Equal(t, int64(0), blocksFreed(scope))

	s.Release()
	require.Equal(t, 1, *destroyed)
	require.Equal(t, int64(1), blocksFreed(scope))
}

func TestWeakStaysExpiredAfterNewObject(t *testing.T) {
	x, _ := newTrackedObject("x")
	s := NewShared(x, nil)
	w := NewWeak(s)
	s.Release()
	require.True(t, w.Expired())

	y, _ := newTrackedObject("y")
	s.Reset(y)
	other := NewShared(x, nil)
	require.True(t, w.Expired())
	require.False(t, w.Lock().Valid())
	require.Equal(t, 1, other.UseCount())
}

func TestDeleterReleasingOwnWeakReference(t *testing.T) {
	opts, scope := newTestOptions()
	type node struct{ self *Weak[int] }
	n := &node{}
	var released int
	s := NewSharedWithDeleter(new(int), func(*int) error {
		released++
		n.self.Reset()
		return nil
	}, opts)
	n.self = NewWeak(s)

	s.Release()
	require.Equal(t, 1, released)
	require.Equal(t, int64(1), blocksFreed(scope))
	require.Equal(t, int64(1), counterValue(scope, "object-destroyed"))
}

func TestScenarioCopiesThenExpire(t *testing.T) {
	obj, destroyed := newTrackedObject("x")
	a := NewShared(obj, nil)
	require.Equal(t, 1, a.UseCount())

	b := a.Clone()
	require.Equal(t, 2, b.UseCount())

	w := NewWeak(a)
	a.Release()
	b.Release()
	require.Equal(t, 0, a.UseCount())
	require.Equal(t, 1, *destroyed)
	require.True(t, w.Expired())

	l := w.Lock()
	require.False(t, l.Valid())
}

func TestScenarioLockKeepsObjectAlive(t *testing.T) {
	obj, destroyed := newTrackedObject("x")
	a := NewShared(obj, nil)
	require.Equal(t, 1, a.UseCount())

	w := NewWeak(a)
	c := w.Lock()
	require.Equal(t, 2, c.UseCount())

	a.Release()
	require.Equal(t, 1, c.UseCount())
	require.Equal(t, 0, *destroyed)
	require.False(t, w.Expired())

	c.Release()
	require.Equal(t, 0, c.UseCount())
	require.Equal(t, 1, *destroyed)
	require.True(t, w.Expired())
}

func TestWeakCopyFromSameBlockAfterExpiry(t *testing.T) {
	opts, scope := newTestOptions()
	obj, _ := newTrackedObject("x")
	s := NewShared(obj, opts)
	w1 := NewWeak(s)
	w2 := w1.Clone()
	cb := s.cb
	s.Release()

	// Both observers share the expired block; reassigning one onto the other
	// must not drive the weak count through zero.
	w1.CopyFrom(w2)
	require.Equal(t, int32(2), cb.cnt.WeakCount())
	require.Equal(t, int64(0), blocksFreed(scope))
	require.True(t, w1.Expired())

	w1.Reset()
	require.Equal(t, int64(0), blocksFreed(scope))
	w2.Reset()
	require.Equal(t, int64(1), blocksFreed(scope))
}

func TestWeakAssignSharedSameBlock(t *testing.T) {
	opts, scope := newTestOptions()
	obj, destroyed := newTrackedObject("x")
	s := NewShared(obj, opts)
	w := NewWeak(s)

	w.AssignShared(s)
	require.Equal(t, int32(1), s.cb.cnt.WeakCount())
	require.Equal(t, 1, w.UseCount())
	require.False(t, w.Expired())
	require.Same(t, obj, w.ptr)

	s.Release()
	require.Equal(t, 1, *destroyed)
	require.Equal(t, int64(0), blocksFreed(scope))
	w.Reset()
	require.Equal(t, int64(1), blocksFreed(scope))
}
