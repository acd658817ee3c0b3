package pipeline

import (
	"context"

	"github.com/kbukum/flatkit/flatten"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// DoubleEndedIterator can also be pulled from the back. Both ends share the
// remaining values.
type DoubleEndedIterator[T any] interface {
	Iterator[T]
	// NextBack returns the last remaining value. Returns (zero, false, nil)
	// when exhausted.
	NextBack(ctx context.Context) (T, bool, error)
}

// Pipeline represents a lazy, forward-only data pipeline.
type Pipeline[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// Reversible represents a lazy pipeline that can be pulled from both ends.
type Reversible[T any] struct {
	create func(ctx context.Context) DoubleEndedIterator[T]
}

// Runnable is a fully-configured pipeline ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run executes the pipeline until completion or context cancellation.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// --- Constructors ---

// From creates a pipeline from an existing Iterator.
func From[T any](iter Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] {
			return iter
		},
	}
}

// FromSlice creates a pipeline from a slice of values.
func FromSlice[T any](items []T) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] {
			return &doubleIter[T]{it: flatten.FromSlice(items)}
		},
	}
}

// FromFunc creates a pipeline from a factory that produces an Iterator.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{create: fn}
}

// FromIterator creates a pipeline pulling from a flatten.Iterator. If the
// iterator has a Stop method, as flatten.SeqIter does, Close calls it.
func FromIterator[T any](it flatten.Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] {
			return &forwardIter[T]{it: it}
		},
	}
}

// FromReversible creates a reversible pipeline from an existing
// DoubleEndedIterator.
func FromReversible[T any](iter DoubleEndedIterator[T]) *Reversible[T] {
	return &Reversible[T]{
		create: func(_ context.Context) DoubleEndedIterator[T] {
			return iter
		},
	}
}

// FromSliceReversible creates a reversible pipeline from a slice of values.
func FromSliceReversible[T any](items []T) *Reversible[T] {
	return &Reversible[T]{
		create: func(_ context.Context) DoubleEndedIterator[T] {
			return &doubleIter[T]{it: flatten.FromSlice(items)}
		},
	}
}

// FromDoubleEnded creates a reversible pipeline pulling from a
// flatten.DoubleEndedIterator.
func FromDoubleEnded[T any](it flatten.DoubleEndedIterator[T]) *Reversible[T] {
	return &Reversible[T]{
		create: func(_ context.Context) DoubleEndedIterator[T] {
			return &doubleIter[T]{it: it}
		},
	}
}

// ReversibleFunc creates a reversible pipeline from a factory.
func ReversibleFunc[T any](fn func(ctx context.Context) DoubleEndedIterator[T]) *Reversible[T] {
	return &Reversible[T]{create: fn}
}

// Forward returns the front-to-back view of r.
func (r *Reversible[T]) Forward() *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return r.create(ctx)
		},
	}
}

// Reverse returns r with its ends swapped.
func (r *Reversible[T]) Reverse() *Reversible[T] {
	return &Reversible[T]{
		create: func(ctx context.Context) DoubleEndedIterator[T] {
			return &reversedIter[T]{it: r.create(ctx)}
		},
	}
}

// --- Terminals ---

// Drain creates a Runnable that pulls all values and sends each to sink.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{
		run: func(ctx context.Context) error {
			iter := p.create(ctx)
			defer iter.Close()
			for {
				val, ok, err := iter.Next(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				if err := sink(ctx, val); err != nil {
					return err
				}
			}
		},
	}
}

// Collect runs the pipeline and returns all values as a slice. Values
// pulled before an error are returned alongside it.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	return collect[T, Iterator[T]](ctx, p.create(ctx), Iterator[T].Next)
}

// CollectBack runs the reversible pipeline from the back and returns all
// values in reverse order.
func CollectBack[T any](ctx context.Context, r *Reversible[T]) ([]T, error) {
	return collect[T, DoubleEndedIterator[T]](ctx, r.create(ctx), DoubleEndedIterator[T].NextBack)
}

func collect[T any, It Iterator[T]](ctx context.Context, iter It, pull func(It, context.Context) (T, bool, error)) ([]T, error) {
	defer iter.Close()
	var result []T
	for {
		val, ok, err := pull(iter, ctx)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, val)
	}
}

// ForEach pulls all values and calls fn for each. Convenience wrapper around Drain.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) error {
	return Drain(p, fn).Run(ctx)
}

// Iter returns the raw Iterator for this pipeline. The caller must Close() it.
func (p *Pipeline[T]) Iter(ctx context.Context) Iterator[T] {
	return p.create(ctx)
}

// Iter returns the raw DoubleEndedIterator for this pipeline. The caller
// must Close() it.
func (r *Reversible[T]) Iter(ctx context.Context) DoubleEndedIterator[T] {
	return r.create(ctx)
}

// --- Internal iterators ---

// forwardIter lifts a flatten.Iterator.
type forwardIter[T any] struct {
	it flatten.Iterator[T]
}

func (f *forwardIter[T]) Next(_ context.Context) (T, bool, error) {
	v, ok := f.it.Next()
	return v, ok, nil
}

func (f *forwardIter[T]) Close() error {
	if s, ok := f.it.(interface{ Stop() }); ok {
		s.Stop()
	}
	return nil
}

// doubleIter lifts a flatten.DoubleEndedIterator.
type doubleIter[T any] struct {
	it flatten.DoubleEndedIterator[T]
}

func (d *doubleIter[T]) Next(_ context.Context) (T, bool, error) {
	v, ok := d.it.Next()
	return v, ok, nil
}

func (d *doubleIter[T]) NextBack(_ context.Context) (T, bool, error) {
	v, ok := d.it.NextBack()
	return v, ok, nil
}

func (d *doubleIter[T]) Close() error { return nil }

type reversedIter[T any] struct {
	it DoubleEndedIterator[T]
}

func (r *reversedIter[T]) Next(ctx context.Context) (T, bool, error) {
	return r.it.NextBack(ctx)
}

func (r *reversedIter[T]) NextBack(ctx context.Context) (T, bool, error) {
	return r.it.Next(ctx)
}

func (r *reversedIter[T]) Close() error { return r.it.Close() }
