package container

// Array is a growable, ordered collection used as the engine's backing store
// for body and resolution sets. Removal is not order-preserving: the last
// element is swapped into the vacated slot, so the array gets slightly
// shuffled on every removal. Element order carries no meaning for the
// collections the engine stores here.
//
// Not safe for concurrent mutation.
type Array[T comparable] struct {
	data []T
}

// New creates an empty array.
func New[T comparable]() *Array[T] {
	return &Array[T]{}
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int {
	return len(a.data)
}

// At returns the element at index i. Panics on out-of-range, like a slice.
func (a *Array[T]) At(i int) T {
	return a.data[i]
}

// Append adds elem at the end, growing the backing storage geometrically
// when capacity is reached.
func (a *Array[T]) Append(elem T) {
	a.data = append(a.data, elem)
}

// Pop removes and returns the element at index i using swap removal.
// The second return value reports whether i was a valid index.
func (a *Array[T]) Pop(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(a.data) {
		return zero, false
	}

	elem := a.data[i]
	last := len(a.data) - 1
	a.data[i] = a.data[last]
	a.data[last] = zero
	a.data = a.data[:last]

	return elem, true
}

// Remove scans for elem by identity and removes it with swap removal,
// returning its original index. The second return value reports whether
// elem was found, so index 0 is never conflated with absence.
func (a *Array[T]) Remove(elem T) (int, bool) {
	for i, e := range a.data {
		if e == elem {
			a.Pop(i)
			return i, true
		}
	}

	return 0, false
}

// Clear invokes release on every live element and empties the array.
// The backing storage is kept for reuse. A nil release only empties.
func (a *Array[T]) Clear(release func(T)) {
	var zero T
	for i := range a.data {
		if release != nil {
			release(a.data[i])
		}
		a.data[i] = zero
	}
	a.data = a.data[:0]
}

// All iterates over the live elements in storage order.
func (a *Array[T]) All(fn func(i int, elem T) bool) {
	for i, e := range a.data {
		if !fn(i, e) {
			return
		}
	}
}
