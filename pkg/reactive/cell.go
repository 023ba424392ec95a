package reactive

import "sync"

// Cell is a single boxed reactive value, for state that cannot be
// wrapped transparently by a container. Reading a Cell during a running
// computation subscribes that computation to the cell's own identity;
// writing a different value (NaN-safe strict comparison by default)
// triggers the dependents.
type Cell[T any] struct {
	id uint64

	// deps is this cell's dependency set, keyed on the cell itself.
	deps depSet

	// value is the current value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// equal is the equality function used to decide if a write changed
	// the value. If nil, uses defaultEquals.
	equal func(T, T) bool
}

// NewCell creates a new cell with the given initial value.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		id:    nextID(),
		value: initial,
	}
}

// Get returns the current value and subscribes the current computation.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	value := c.value
	c.mu.RUnlock()

	// Track after releasing the value lock to prevent deadlock.
	trackDep(&c.deps)

	return value
}

// Peek returns the current value without subscribing.
func (c *Cell[T]) Peek() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Set updates the value and triggers dependents if it changed.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	changed := !c.equals(c.value, value)
	if changed {
		c.value = value
	}
	c.mu.Unlock()

	if changed {
		c.deps.notify()
	}
}

// Update atomically reads and updates the value.
// The function receives the current value and returns the new one.
func (c *Cell[T]) Update(fn func(T) T) {
	c.mu.Lock()
	oldValue := c.value
	newValue := fn(oldValue)
	changed := !c.equals(oldValue, newValue)
	if changed {
		c.value = newValue
	}
	c.mu.Unlock()

	if changed {
		c.deps.notify()
	}
}

// WithEquals returns the cell configured with a custom equality
// function, for types where reflect.DeepEqual is too expensive or has
// the wrong semantics.
func (c *Cell[T]) WithEquals(fn func(T, T) bool) *Cell[T] {
	c.equal = fn
	return c
}

// ID returns the unique identifier for this cell.
func (c *Cell[T]) ID() uint64 {
	return c.id
}

// GetAny implements Readable for use as a Watch source.
func (c *Cell[T]) GetAny() any {
	return c.Get()
}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}
