package reactive

import "sync"

// Readable is the read-only side of a Value.
type Readable[T any] interface {
	// Get returns the current value.
	Get() T
	// Subscribe registers fn to run after every change and returns a func that
	// removes the subscription. The returned func is safe to call more than once.
	Subscribe(fn func(T)) (unsubscribe func())
}

// Value holds a comparable value and notifies subscribers when it changes.
// Subscribers run synchronously on the goroutine calling Set, in registration
// order. A subscriber must not call Set on the same Value.
type Value[T comparable] struct {
	// setMu serialises Set calls so subscribers observe changes in order.
	setMu sync.Mutex
	// mu protects value, subscribers and nextID.
	mu sync.RWMutex
	// value is the current value.
	value T
	// subscribers are keyed by registration id.
	subscribers map[uint64]func(T)
	// order keeps registration ids in the order they were added.
	order []uint64
	// nextID is the id handed to the next subscriber.
	nextID uint64
}

// NewValue returns a Value holding initial.
func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{
		value:       initial,
		subscribers: make(map[uint64]func(T)),
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.value
}

// Set stores next and notifies subscribers. It reports whether the value
// changed; setting an equal value is a no-op.
func (v *Value[T]) Set(next T) bool {
	v.setMu.Lock()
	defer v.setMu.Unlock()

	v.mu.Lock()
	if v.value == next {
		v.mu.Unlock()

		return false
	}

	v.value = next
	fns := v.snapshot()
	v.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}

	return true
}

// Subscribe registers fn to run after every change.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := v.nextID
	v.nextID++
	v.subscribers[id] = fn
	v.order = append(v.order, id)

	var once sync.Once

	return func() {
		once.Do(func() { v.unsubscribe(id) })
	}
}

// Subscribers returns the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return len(v.subscribers)
}

// ReadOnly returns a view that cannot Set.
func (v *Value[T]) ReadOnly() Readable[T] {
	return readOnly[T]{v: v}
}

// unsubscribe removes the subscription with the given id.
func (v *Value[T]) unsubscribe(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.subscribers, id)

	for i, existing := range v.order {
		if existing == id {
			v.order = append(v.order[:i], v.order[i+1:]...)

			break
		}
	}
}

// snapshot copies the subscriber list; the caller holds mu.
func (v *Value[T]) snapshot() []func(T) {
	fns := make([]func(T), 0, len(v.order))
	for _, id := range v.order {
		fns = append(fns, v.subscribers[id])
	}

	return fns
}

// readOnly hides Set behind the Readable interface.
type readOnly[T comparable] struct {
	// v is the underlying value.
	v *Value[T]
}

// Get returns the current value.
func (r readOnly[T]) Get() T { return r.v.Get() }

// Subscribe registers fn on the underlying value.
func (r readOnly[T]) Subscribe(fn func(T)) func() { return r.v.Subscribe(fn) }
