package keytrack

import "sort"

// Track is a non-uniformly sampled curve of one channel.
// Times must be non-decreasing and have the same length as Values.
// Empty track means channel is not animated and static value must be used.
type Track[T any] struct {
	Times  []float32
	Values []T
}

func (tr *Track[T]) NumKeys() int {
	return len(tr.Times)
}

func (tr *Track[T]) IsAnimated() bool {
	return len(tr.Times) != 0
}

// Alloc resizes track to n keys, keeping already stored keys
func (tr *Track[T]) Alloc(n int) {
	if cap(tr.Times) >= n && cap(tr.Values) >= n {
		tr.Times = tr.Times[:n]
		tr.Values = tr.Values[:n]
		return
	}
	times := make([]float32, n)
	values := make([]T, n)
	copy(times, tr.Times)
	copy(values, tr.Values)
	tr.Times = times
	tr.Values = values
}

func (tr *Track[T]) AddKey(time float32, value T) {
	tr.Times = append(tr.Times, time)
	tr.Values = append(tr.Values, value)
}

func (tr *Track[T]) RemoveKey(i int) {
	tr.Times = append(tr.Times[:i], tr.Times[i+1:]...)
	tr.Values = append(tr.Values[:i], tr.Values[i+1:]...)
}

func (tr *Track[T]) Clear() {
	tr.Times = nil
	tr.Values = nil
}

func (tr *Track[T]) Clone() Track[T] {
	var c Track[T]
	c.CopyFrom(tr)
	return c
}

// CopyFrom replaces content of track with content of src, reusing already allocated memory
func (tr *Track[T]) CopyFrom(src *Track[T]) {
	if src.Times == nil {
		tr.Clear()
		return
	}
	tr.Times = append(tr.Times[:0], src.Times...)
	tr.Values = append(tr.Values[:0], src.Values...)
}

func (tr *Track[T]) StartTime() float32 {
	if len(tr.Times) == 0 {
		return 0
	}
	return tr.Times[0]
}

func (tr *Track[T]) EndTime() float32 {
	if len(tr.Times) == 0 {
		return 0
	}
	return tr.Times[len(tr.Times)-1]
}

// FindKey returns keys a and b bracketing time t and blend factor f between them.
// Time outside of recorded range clamped to first or last key (a == b),
// NaN time gives first key.
// Track must be animated.
func (tr *Track[T]) FindKey(t float32) (a, b int, f float32) {
	last := len(tr.Times) - 1
	if t != t || t <= tr.Times[0] {
		return 0, 0, 0
	}
	if t >= tr.Times[last] {
		return last, last, 0
	}

	b = sort.Search(len(tr.Times), func(i int) bool { return tr.Times[i] > t })
	a = b - 1

	if span := tr.Times[b] - tr.Times[a]; span > 0 {
		f = (t - tr.Times[a]) / span
	}
	return a, b, f
}
