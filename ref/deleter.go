package ref

import "io"

// Deleter destroys a managed object once its last strong owner is released.
type Deleter[T any] func(v *T) error

// Finalizer is implemented by objects that need cleanup without an error path.
type Finalizer interface {
	Finalize()
}

// Pool is a source of reusable objects for pooled shared references.
type Pool[T any] interface {
	Get() *T
	Put(v *T)
}

// defaultDeleter closes objects implementing io.Closer and finalizes objects
// implementing Finalizer. Other objects are left to the garbage collector.
func defaultDeleter[T any](v *T) error {
	switch d := any(v).(type) {
	case io.Closer:
		return d.Close()
	case Finalizer:
		d.Finalize()
	}
	return nil
}

func poolDeleter[T any](p Pool[T]) Deleter[T] {
	return func(v *T) error {
		p.Put(v)
		return nil
	}
}
