package pipeline

import "context"

// Map transforms each value using fn.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &mapIter[I, O]{source: p.create(ctx), fn: fn}
		},
	}
}

// MapReversible transforms each value using fn, from whichever end it is
// pulled.
func MapReversible[I, O any](r *Reversible[I], fn func(context.Context, I) (O, error)) *Reversible[O] {
	return &Reversible[O]{
		create: func(ctx context.Context) DoubleEndedIterator[O] {
			src := r.create(ctx)
			return &mapIter[I, O]{source: src, back: src, fn: fn}
		},
	}
}

// Filter keeps only values that satisfy the predicate.
func Filter[T any](p *Pipeline[T], fn func(T) bool) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &filterIter[T]{source: p.create(ctx), fn: fn}
		},
	}
}

// FilterReversible keeps only values that satisfy the predicate, from
// whichever end they are pulled.
func FilterReversible[T any](r *Reversible[T], fn func(T) bool) *Reversible[T] {
	return &Reversible[T]{
		create: func(ctx context.Context) DoubleEndedIterator[T] {
			src := r.create(ctx)
			return &filterIter[T]{source: src, back: src, fn: fn}
		},
	}
}

// mapIter serves both variants; back is nil for forward-only pipelines and
// NextBack is only reachable through the Reversible constructor.
type mapIter[I, O any] struct {
	source Iterator[I]
	back   DoubleEndedIterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	return it.apply(ctx, it.source.Next)
}

func (it *mapIter[I, O]) NextBack(ctx context.Context) (O, bool, error) {
	return it.apply(ctx, it.back.NextBack)
}

func (it *mapIter[I, O]) apply(ctx context.Context, pull func(context.Context) (I, bool, error)) (result O, ok bool, err error) {
	val, ok, err := pull(ctx)
	if err != nil || !ok {
		return result, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		return result, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type filterIter[T any] struct {
	source Iterator[T]
	back   DoubleEndedIterator[T]
	fn     func(T) bool
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	return it.apply(ctx, it.source.Next)
}

func (it *filterIter[T]) NextBack(ctx context.Context) (T, bool, error) {
	return it.apply(ctx, it.back.NextBack)
}

func (it *filterIter[T]) apply(ctx context.Context, pull func(context.Context) (T, bool, error)) (result T, ok bool, err error) {
	for {
		val, ok, err := pull(ctx)
		if err != nil || !ok {
			return result, false, err
		}
		if it.fn(val) {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }
