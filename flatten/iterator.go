package flatten

import "iter"

// Iterator yields values from the front of a sequence.
// Next returns (zero, false) once the sequence is exhausted.
type Iterator[T any] interface {
	Next() (T, bool)
}

// DoubleEndedIterator can also yield values from the back. Both ends share
// the remaining elements: a value taken from one end is never seen from the
// other.
type DoubleEndedIterator[T any] interface {
	Iterator[T]
	NextBack() (T, bool)
}

// Func adapts a closure to Iterator.
type Func[T any] func() (T, bool)

// Next calls f.
func (f Func[T]) Next() (T, bool) { return f() }

// SliceIter walks a slice from both ends without copying it.
type SliceIter[T any] struct {
	items []T
	lo    int
	hi    int
}

// FromSlice returns a double-ended iterator over items.
func FromSlice[T any](items []T) *SliceIter[T] {
	return &SliceIter[T]{items: items, hi: len(items)}
}

// Once returns a double-ended iterator yielding v exactly once.
func Once[T any](v T) *SliceIter[T] {
	return FromSlice([]T{v})
}

// Empty returns an iterator that is already exhausted.
func Empty[T any]() *SliceIter[T] {
	return FromSlice[T](nil)
}

func (it *SliceIter[T]) Next() (T, bool) {
	if it.lo >= it.hi {
		var zero T
		return zero, false
	}
	v := it.items[it.lo]
	it.lo++
	return v, true
}

func (it *SliceIter[T]) NextBack() (T, bool) {
	if it.lo >= it.hi {
		var zero T
		return zero, false
	}
	it.hi--
	return it.items[it.hi], true
}

// Len reports how many values remain.
func (it *SliceIter[T]) Len() int { return it.hi - it.lo }

// SeqIter pulls values from an iter.Seq. It only supports front pulls.
type SeqIter[T any] struct {
	next func() (T, bool)
	stop func()
}

// FromSeq returns an iterator over seq. The sequence does not start until
// the first Next. Call Stop when abandoning the iterator before it is
// exhausted.
func FromSeq[T any](seq iter.Seq[T]) *SeqIter[T] {
	next, stop := iter.Pull(seq)
	return &SeqIter[T]{next: next, stop: stop}
}

func (it *SeqIter[T]) Next() (T, bool) { return it.next() }

// Stop releases the underlying sequence. Subsequent Next calls report
// exhaustion. Stop may be called more than once.
func (it *SeqIter[T]) Stop() { it.stop() }
