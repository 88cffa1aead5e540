package ref

import "testing"

func BenchmarkSharedCloneRelease(b *testing.B) {
	s := MakeShared(42, nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := s.Clone()
		c.Release()
	}
}

func BenchmarkWeakLockRelease(b *testing.B) {
	s := MakeShared(42, nil)
	w := NewWeak(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := w.Lock()
		l.Release()
	}
}

func BenchmarkSharedNewRelease(b *testing.B) {
	for i := 0; i < b.N; i++ {
		s := MakeShared(i, nil)
		s.Release()
	}
}
