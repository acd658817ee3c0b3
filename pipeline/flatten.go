package pipeline

import "context"

// Flatten converts each value of p into an inner iterator with fn and yields
// the inner values in order. Empty inner iterators are skipped.
//
// An error from fn or from an inner iterator is returned unchanged. The
// outer value whose conversion failed is consumed; the next pull moves on
// to the following value.
func Flatten[I, O any](p *Pipeline[I], fn func(context.Context, I) (Iterator[O], error)) *Pipeline[O] {
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &flattenIter[I, O]{source: p.create(ctx), fn: fn}
		},
	}
}

// FlattenReversible is Flatten for pipelines that can be pulled from both
// ends. Front and back pulls may be interleaved; they meet in the middle
// without skipping or repeating a value.
func FlattenReversible[I, O any](r *Reversible[I], fn func(context.Context, I) (DoubleEndedIterator[O], error)) *Reversible[O] {
	return &Reversible[O]{
		create: func(ctx context.Context) DoubleEndedIterator[O] {
			return &reversibleFlattenIter[I, O]{source: r.create(ctx), fn: fn}
		},
	}
}

type flattenIter[I, O any] struct {
	source  Iterator[I]
	fn      func(context.Context, I) (Iterator[O], error)
	current Iterator[O]
	done    bool
}

func (it *flattenIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				return result, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		if it.done {
			return result, false, nil
		}
		if err := ctx.Err(); err != nil {
			return result, false, err
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil {
			return result, false, err
		}
		if !ok {
			it.done = true
			return result, false, nil
		}
		inner, err := it.fn(ctx, in)
		if err != nil {
			return result, false, err
		}
		it.current = inner
	}
}

func (it *flattenIter[I, O]) Close() error {
	var firstErr error
	if it.current != nil {
		firstErr = it.current.Close()
		it.current = nil
	}
	if err := it.source.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

type reversibleFlattenIter[I, O any] struct {
	source DoubleEndedIterator[I]
	fn     func(context.Context, I) (DoubleEndedIterator[O], error)
	front  DoubleEndedIterator[O]
	back   DoubleEndedIterator[O]
	// done is set once the source reports no more values from either end.
	done bool
}

// pull returns the next value of inner from the requested end, closing and
// clearing *inner once it is drained.
func pull[O any](ctx context.Context, inner *DoubleEndedIterator[O], back bool) (result O, ok bool, err error) {
	if *inner == nil {
		return result, false, nil
	}
	if back {
		result, ok, err = (*inner).NextBack(ctx)
	} else {
		result, ok, err = (*inner).Next(ctx)
	}
	if err != nil || ok {
		return result, ok, err
	}
	_ = (*inner).Close()
	*inner = nil
	return result, false, nil
}

func (it *reversibleFlattenIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	for {
		if val, ok, err := pull(ctx, &it.front, false); err != nil || ok {
			return val, ok, err
		}
		if it.done {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, false, err
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil {
			return result, false, err
		}
		if !ok {
			it.done = true
			break
		}
		inner, err := it.fn(ctx, in)
		if err != nil {
			return result, false, err
		}
		it.front = inner
	}
	// The source is empty; whatever is left sits in the back producer.
	return pull(ctx, &it.back, false)
}

func (it *reversibleFlattenIter[I, O]) NextBack(ctx context.Context) (result O, ok bool, err error) {
	for {
		if val, ok, err := pull(ctx, &it.back, true); err != nil || ok {
			return val, ok, err
		}
		if it.done {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, false, err
		}
		in, ok, err := it.source.NextBack(ctx)
		if err != nil {
			return result, false, err
		}
		if !ok {
			it.done = true
			break
		}
		inner, err := it.fn(ctx, in)
		if err != nil {
			return result, false, err
		}
		it.back = inner
	}
	return pull(ctx, &it.front, true)
}

func (it *reversibleFlattenIter[I, O]) Close() error {
	var firstErr error
	for _, inner := range []*DoubleEndedIterator[O]{&it.front, &it.back} {
		if *inner == nil {
			continue
		}
		if err := (*inner).Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		*inner = nil
	}
	if err := it.source.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
