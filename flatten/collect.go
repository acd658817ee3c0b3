package flatten

import "iter"

// Collect drains it front to back.
func Collect[T any](it Iterator[T]) []T {
	var out []T
	for v, ok := it.Next(); ok; v, ok = it.Next() {
		out = append(out, v)
	}
	return out
}

// CollectBack drains it back to front, so the result is reversed.
func CollectBack[T any](it DoubleEndedIterator[T]) []T {
	var out []T
	for v, ok := it.NextBack(); ok; v, ok = it.NextBack() {
		out = append(out, v)
	}
	return out
}

// Count drains it and reports how many values it yielded.
func Count[T any](it Iterator[T]) int {
	n := 0
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		n++
	}
	return n
}

// All returns a single-use sequence pulling from the front of it.
// Breaking out of a range loop leaves the remaining values in it.
func All[T any](it Iterator[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			if !yield(v) {
				return
			}
		}
	}
}

// Backward returns a single-use sequence pulling from the back of it.
func Backward[T any](it DoubleEndedIterator[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for v, ok := it.NextBack(); ok; v, ok = it.NextBack() {
			if !yield(v) {
				return
			}
		}
	}
}

type reversed[T any] struct {
	it DoubleEndedIterator[T]
}

func (r reversed[T]) Next() (T, bool)     { return r.it.NextBack() }
func (r reversed[T]) NextBack() (T, bool) { return r.it.Next() }

// Rev swaps the ends of it. Reversing twice returns the original iterator.
func Rev[T any](it DoubleEndedIterator[T]) DoubleEndedIterator[T] {
	if r, ok := it.(reversed[T]); ok {
		return r.it
	}
	return reversed[T]{it: it}
}
