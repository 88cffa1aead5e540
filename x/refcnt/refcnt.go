package refcnt

import "fmt"

// Counter tracks the strong owners and weak observers of a single managed
// object. It knows nothing about the object itself.
//
// Counter is not safe for concurrent use.
type Counter struct {
	strong int32
	weak   int32
}

// NewCounter creates a new counter with both counts at zero.
func NewCounter() *Counter {
	return &Counter{}
}

// IncStrong increments the strong count and returns the new value.
func (c *Counter) IncStrong() int32 {
	c.strong++
	return c.strong
}

// DecStrong decrements the strong count and returns the new value.
func (c *Counter) DecStrong() int32 {
	if c.strong <= 0 {
		panic(fmt.Errorf("invalid strong ref count %d", c.strong-1))
	}
	c.strong--
	return c.strong
}

// IncWeak increments the weak count and returns the new value.
func (c *Counter) IncWeak() int32 {
	c.weak++
	return c.weak
}

// DecWeak decrements the weak count and returns the new value.
func (c *Counter) DecWeak() int32 {
	if c.weak <= 0 {
		panic(fmt.Errorf("invalid weak ref count %d", c.weak-1))
	}
	c.weak--
	return c.weak
}

// StrongCount returns the current strong count.
func (c *Counter) StrongCount() int32 { return c.strong }

// WeakCount returns the current weak count.
func (c *Counter) WeakCount() int32 { return c.weak }

// StrongIsZero returns true if there are no strong owners.
func (c *Counter) StrongIsZero() bool { return c.strong == 0 }

// WeakIsZero returns true if there are no weak observers.
func (c *Counter) WeakIsZero() bool { return c.weak == 0 }

// IsZero returns true if both counts are zero.
func (c *Counter) IsZero() bool { return c.strong == 0 && c.weak == 0 }
