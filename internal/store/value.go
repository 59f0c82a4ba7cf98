// Package store provides observable values with last-write-wins semantics.
package store

import "sync"

// Value holds the latest published value of type T and notifies
// subscribers whenever it changes. Setting a value equal to the current one
// is not a change and notifies nobody.
type Value[T comparable] struct {
	mu     sync.Mutex
	value  T
	nextID int
	subs   map[int]func(T)
	order  []int
}

// NewValue creates a Value holding initial
func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{
		value: initial,
		subs:  make(map[int]func(T)),
	}
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set publishes value. It reports whether subscribers were notified.
func (v *Value[T]) Set(value T) bool {
	v.mu.Lock()
	if v.value == value {
		v.mu.Unlock()
		return false
	}
	v.value = value
	subs := v.snapshot()
	v.mu.Unlock()

	for _, fn := range subs {
		fn(value)
	}
	return true
}

// Update publishes the result of fn applied to the current value
func (v *Value[T]) Update(fn func(T) T) bool {
	return v.Set(fn(v.Get()))
}

// Subscribe registers fn and immediately calls it with the current value.
// The returned function removes the subscription.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.order = append(v.order, id)
	current := v.value
	v.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			delete(v.subs, id)
			for i, o := range v.order {
				if o == id {
					v.order = append(v.order[:i], v.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers returns the number of active subscriptions
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// snapshot must be called with mu held
func (v *Value[T]) snapshot() []func(T) {
	subs := make([]func(T), 0, len(v.order))
	for _, id := range v.order {
		subs = append(subs, v.subs[id])
	}
	return subs
}
