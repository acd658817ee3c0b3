package pipeline

import (
	"context"
	"errors"
	"testing"
)

// trackedIter records Close calls on an inner producer.
type trackedIter[T any] struct {
	DoubleEndedIterator[T]
	closed   int
	closeErr error
}

func (t *trackedIter[T]) Close() error {
	t.closed++
	return t.closeErr
}

func sliceInner[T any](ctx context.Context, s []T) (DoubleEndedIterator[T], error) {
	return FromSliceReversible(s).Iter(ctx), nil
}

func reversibleSlices[T any](outer [][]T) *Reversible[T] {
	return FlattenReversible(FromSliceReversible(outer), sliceInner[T])
}

func TestFlatten(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	flat := Flatten(p, func(ctx context.Context, n int) (Iterator[int], error) {
		return FromSlice([]int{n, n * 10}).Iter(ctx), nil
	})
	got, err := Collect(context.Background(), flat)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 10, 2, 20, 3, 30}
	if !intSliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFlatten_EmptyInner(t *testing.T) {
	p := FromSlice([]int{1, 2, 3})
	flat := Flatten(p, func(ctx context.Context, n int) (Iterator[int], error) {
		if n == 2 {
			return FromSlice([]int{}).Iter(ctx), nil
		}
		return FromSlice([]int{n}).Iter(ctx), nil
	})
	got, err := Collect(context.Background(), flat)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{1, 3}) {
		t.Errorf("got %v, want [1 3]", got)
	}
}

func TestFlatten_NilInnerIsEmpty(t *testing.T) {
	flat := Flatten(FromSlice([]int{1, 2}), func(ctx context.Context, n int) (Iterator[int], error) {
		if n == 1 {
			return nil, nil
		}
		return FromSlice([]int{n}).Iter(ctx), nil
	})
	got, err := Collect(context.Background(), flat)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{2}) {
		t.Errorf("got %v, want [2]", got)
	}
}

func TestFlatten_ConversionErrorUnchanged(t *testing.T) {
	boom := errors.New("boom")
	flat := Flatten(FromSlice([]int{1, 2, 3}), func(ctx context.Context, n int) (Iterator[int], error) {
		if n == 2 {
			return nil, boom
		}
		return FromSlice([]int{n}).Iter(ctx), nil
	})
	ctx := context.Background()
	iter := flat.Iter(ctx)
	defer iter.Close()

	v, ok, err := iter.Next(ctx)
	if err != nil || !ok || v != 1 {
		t.Fatalf("expected 1, got %v %v %v", v, ok, err)
	}
	_, ok, err = iter.Next(ctx)
	if err != boom {
		t.Fatalf("expected the conversion error itself, got %v", err)
	}
	if ok {
		t.Error("expected no value alongside an error")
	}
	// The failed item is consumed; pulling again moves on.
	v, ok, err = iter.Next(ctx)
	if err != nil || !ok || v != 3 {
		t.Errorf("expected 3 after the error, got %v %v %v", v, ok, err)
	}
}

func TestFlattenReversible_BothEnds(t *testing.T) {
	ctx := context.Background()
	iter := reversibleSlices([][]string{{"a", "b"}, {"c", "d"}}).Iter(ctx)
	defer iter.Close()

	steps := []struct {
		back bool
		want string
		ok   bool
	}{
		{false, "a", true},
		{true, "d", true},
		{false, "b", true},
		{true, "c", true},
		{false, "", false},
		{true, "", false},
	}
	for i, s := range steps {
		var v string
		var ok bool
		var err error
		if s.back {
			v, ok, err = iter.NextBack(ctx)
		} else {
			v, ok, err = iter.Next(ctx)
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if v != s.want || ok != s.ok {
			t.Errorf("step %d: got (%q, %v), want (%q, %v)", i, v, ok, s.want, s.ok)
		}
	}
}

func TestFlattenReversible_Directions(t *testing.T) {
	tests := []struct {
		name  string
		outer [][]string
		fwd   []string
		back  []string
	}{
		{"empty", nil, nil, nil},
		{"empty wide", [][]string{{}, {}, {}, {}}, nil, nil},
		{"one item", [][]string{{"a"}}, []string{"a"}, []string{"a"}},
		{"two items", [][]string{{"a", "b"}}, []string{"a", "b"}, []string{"b", "a"}},
		{"two wide", [][]string{{"a"}, {"b"}}, []string{"a", "b"}, []string{"b", "a"}},
	}
	ctx := context.Background()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fwd, err := Collect(ctx, reversibleSlices(tc.outer).Forward())
			if err != nil {
				t.Fatal(err)
			}
			if !strSliceEqual(fwd, tc.fwd) {
				t.Errorf("forward: got %v, want %v", fwd, tc.fwd)
			}
			back, err := CollectBack(ctx, reversibleSlices(tc.outer))
			if err != nil {
				t.Fatal(err)
			}
			if !strSliceEqual(back, tc.back) {
				t.Errorf("backward: got %v, want %v", back, tc.back)
			}
		})
	}
}

func TestFlattenReversible_BackErrorUnchanged(t *testing.T) {
	boom := errors.New("boom")
	r := FlattenReversible(FromSliceReversible([]int{1, 2}), func(ctx context.Context, n int) (DoubleEndedIterator[int], error) {
		if n == 2 {
			return nil, boom
		}
		return FromSliceReversible([]int{n}).Iter(ctx), nil
	})
	got, err := CollectBack(context.Background(), r)
	if err != boom {
		t.Fatalf("expected the conversion error itself, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no values before the error, got %v", got)
	}
}

func TestFlattenReversible_InnerErrorUnchanged(t *testing.T) {
	boom := errors.New("inner")
	r := FlattenReversible(FromSliceReversible([]int{1}), func(ctx context.Context, n int) (DoubleEndedIterator[int], error) {
		return &failingIter{err: boom}, nil
	})
	_, err := Collect(context.Background(), r.Forward())
	if err != boom {
		t.Errorf("expected inner error, got %v", err)
	}
}

type failingIter struct {
	err error
}

func (f *failingIter) Next(context.Context) (int, bool, error)     { return 0, false, f.err }
func (f *failingIter) NextBack(context.Context) (int, bool, error) { return 0, false, f.err }
func (f *failingIter) Close() error                                { return nil }

func TestFlattenReversible_ClosesDrainedProducers(t *testing.T) {
	var produced []*trackedIter[int]
	r := FlattenReversible(FromSliceReversible([][]int{{1}, {2}}), func(ctx context.Context, s []int) (DoubleEndedIterator[int], error) {
		it := &trackedIter[int]{DoubleEndedIterator: FromSliceReversible(s).Iter(ctx)}
		produced = append(produced, it)
		return it, nil
	})
	ctx := context.Background()
	iter := r.Iter(ctx)

	if _, _, err := iter.Next(ctx); err != nil {
		t.Fatal(err)
	}
	if _, _, err := iter.Next(ctx); err != nil {
		t.Fatal(err)
	}
	if len(produced) != 2 {
		t.Fatalf("expected 2 producers, got %d", len(produced))
	}
	if produced[0].closed != 1 {
		t.Errorf("expected drained producer to be closed once, got %d", produced[0].closed)
	}
	if produced[1].closed != 0 {
		t.Errorf("expected live producer to stay open, got %d closes", produced[1].closed)
	}
	if err := iter.Close(); err != nil {
		t.Fatal(err)
	}
	if produced[1].closed != 1 {
		t.Errorf("expected Close to close the live producer, got %d", produced[1].closed)
	}
}

func TestFlattenReversible_CloseReturnsFirstError(t *testing.T) {
	closeErr := errors.New("close")
	r := FlattenReversible(FromSliceReversible([][]int{{1, 2}, {3, 4}}), func(ctx context.Context, s []int) (DoubleEndedIterator[int], error) {
		return &trackedIter[int]{DoubleEndedIterator: FromSliceReversible(s).Iter(ctx), closeErr: closeErr}, nil
	})
	ctx := context.Background()
	iter := r.Iter(ctx)
	iter.Next(ctx)
	iter.NextBack(ctx)
	if err := iter.Close(); err != closeErr {
		t.Errorf("expected close error, got %v", err)
	}
}

func TestFlattenReversible_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, reversibleSlices([][]int{{1}}).Forward())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	_, err = CollectBack(ctx, reversibleSlices([][]int{{1}}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFlattenReversible_Lazy(t *testing.T) {
	created := 0
	conversions := 0
	src := ReversibleFunc(func(ctx context.Context) DoubleEndedIterator[[]int] {
		created++
		return FromSliceReversible([][]int{{1}, {2}}).Iter(ctx)
	})
	r := FlattenReversible(src, func(ctx context.Context, s []int) (DoubleEndedIterator[int], error) {
		conversions++
		return sliceInner(ctx, s)
	})

	if created != 0 {
		t.Fatal("building the pipeline created the source")
	}
	ctx := context.Background()
	iter := r.Iter(ctx)
	defer iter.Close()
	if conversions != 0 {
		t.Fatal("creating the iterator converted an item")
	}
	if v, ok, err := iter.NextBack(ctx); err != nil || !ok || v != 2 {
		t.Fatalf("expected 2, got %v %v %v", v, ok, err)
	}
	if conversions != 1 {
		t.Errorf("expected one conversion, got %d", conversions)
	}
}

func TestFlattenReversible_IdempotentExhaustion(t *testing.T) {
	ctx := context.Background()
	iter := reversibleSlices([][]int{{1}}).Iter(ctx)
	defer iter.Close()
	iter.Next(ctx)
	for i := 0; i < 3; i++ {
		if _, ok, err := iter.Next(ctx); ok || err != nil {
			t.Errorf("front pull %d: expected end, got %v %v", i, ok, err)
		}
		if _, ok, err := iter.NextBack(ctx); ok || err != nil {
			t.Errorf("back pull %d: expected end, got %v %v", i, ok, err)
		}
	}
}

func TestFlattenReversible_Composes(t *testing.T) {
	inner := func(ctx context.Context, s [][]int) (DoubleEndedIterator[int], error) {
		return reversibleSlices(s).Iter(ctx), nil
	}
	r := FlattenReversible(FromSliceReversible([][][]int{{{1, 2}}, {{3}, {}, {4}}}), inner)
	got, err := CollectBack(context.Background(), r)
	if err != nil {
		t.Fatal(err)
	}
	if !intSliceEqual(got, []int{4, 3, 2, 1}) {
		t.Errorf("got %v, want [4 3 2 1]", got)
	}
}
