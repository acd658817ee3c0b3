package flatten

// slot holds at most one inner producer. clear drops the reference so a
// discarded producer can be collected right away.
type slot[P any] struct {
	p  P
	ok bool
}

func (s *slot[P]) set(p P) {
	s.p = p
	s.ok = true
}

func (s *slot[P]) clear() {
	var zero P
	s.p = zero
	s.ok = false
}

// core is the state shared by both adapter variants.
type core[I, P any] struct {
	into  func(I) P
	front slot[P]
	back  slot[P]
	// done is set once the outer source reports no more items from either
	// end; the source is never pulled again after that.
	done bool
}

// pullFront implements Next for both variants. When the outer source is
// exhausted it falls back to the front of the back producer, which is where
// the remaining elements live once the two ends have met.
func pullFront[I any, P Iterator[T], T any](c *core[I, P], outer Iterator[I]) (T, bool) {
	for {
		if c.front.ok {
			if v, ok := c.front.p.Next(); ok {
				return v, true
			}
			c.front.clear()
		}
		if c.done {
			break
		}
		item, ok := outer.Next()
		if !ok {
			c.done = true
			break
		}
		c.front.set(c.into(item))
	}
	if c.back.ok {
		if v, ok := c.back.p.Next(); ok {
			return v, true
		}
		c.back.clear()
	}
	var zero T
	return zero, false
}

// Flattener flattens a forward-only outer source.
type Flattener[I, T any] struct {
	outer Iterator[I]
	state core[I, Iterator[T]]
}

// New returns a Flattener pulling outer items from outer and converting each
// into an inner producer with into. Nothing is pulled until the first Next.
func New[I, T any](outer Iterator[I], into func(I) Iterator[T]) *Flattener[I, T] {
	return &Flattener[I, T]{
		outer: outer,
		state: core[I, Iterator[T]]{into: into},
	}
}

// Flatten flattens a source whose items already are iterators.
func Flatten[T any](outer Iterator[Iterator[T]]) *Flattener[Iterator[T], T] {
	return New[Iterator[T], T](outer, identity[Iterator[T]])
}

// Next returns the next flat element from the front. Empty inner sequences
// are skipped.
func (f *Flattener[I, T]) Next() (T, bool) {
	return pullFront[I, Iterator[T], T](&f.state, f.outer)
}

// DoubleFlattener flattens an outer source that can be pulled from both
// ends and whose inner producers can be as well.
type DoubleFlattener[I, T any] struct {
	outer DoubleEndedIterator[I]
	state core[I, DoubleEndedIterator[T]]
}

// NewDouble returns a DoubleFlattener over outer. Nothing is pulled until the
// first Next or NextBack.
func NewDouble[I, T any](outer DoubleEndedIterator[I], into func(I) DoubleEndedIterator[T]) *DoubleFlattener[I, T] {
	return &DoubleFlattener[I, T]{
		outer: outer,
		state: core[I, DoubleEndedIterator[T]]{into: into},
	}
}

// FlattenDouble flattens a double-ended source whose items already are
// double-ended iterators.
func FlattenDouble[T any](outer DoubleEndedIterator[DoubleEndedIterator[T]]) *DoubleFlattener[DoubleEndedIterator[T], T] {
	return NewDouble[DoubleEndedIterator[T], T](outer, identity[DoubleEndedIterator[T]])
}

// Slices flattens a slice of slices.
func Slices[T any](s [][]T) *DoubleFlattener[[]T, T] {
	return NewDouble[[]T, T](FromSlice(s), func(inner []T) DoubleEndedIterator[T] {
		return FromSlice(inner)
	})
}

// Next returns the next flat element from the front.
func (f *DoubleFlattener[I, T]) Next() (T, bool) {
	return pullFront[I, DoubleEndedIterator[T], T](&f.state, f.outer)
}

// NextBack returns the next flat element from the back. It mirrors Next:
// once the outer source is exhausted it drains the back of the front
// producer.
func (f *DoubleFlattener[I, T]) NextBack() (T, bool) {
	c := &f.state
	for {
		if c.back.ok {
			if v, ok := c.back.p.NextBack(); ok {
				return v, true
			}
			c.back.clear()
		}
		if c.done {
			break
		}
		item, ok := f.outer.NextBack()
		if !ok {
			c.done = true
			break
		}
		c.back.set(c.into(item))
	}
	if c.front.ok {
		if v, ok := c.front.p.NextBack(); ok {
			return v, true
		}
		c.front.clear()
	}
	var zero T
	return zero, false
}

func identity[P any](p P) P { return p }
