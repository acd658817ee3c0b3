// Package pipeline provides lazy, pull-based pipelines whose stages may fail
// and whose sources may be pulled from both ends.
//
// Pipelines are lazy: no work happens until values are pulled via Collect,
// CollectBack, Drain, ForEach or an Iter. Each stage pulls from the previous
// stage on demand.
//
// A Pipeline is forward-only. A Reversible additionally supports NextBack on
// every stage, so the flattened result can be consumed from either end, or
// from both ends in any order.
//
// # Operators
//
//   - Flatten / FlattenReversible: convert each value into an inner iterator
//     and yield the inner values in order. The conversion may fail; its error
//     is returned to the caller unchanged.
//   - Map / MapReversible: transform each value
//   - Filter / FilterReversible: keep values matching a predicate
//
// # Usage
//
//	src := pipeline.FromSliceReversible([][]string{{"a", "b"}, {"c"}})
//	flat := pipeline.FlattenReversible(src, func(_ context.Context, s []string) (pipeline.DoubleEndedIterator[string], error) {
//	    return pipeline.FromSliceReversible(s).Iter(ctx), nil
//	})
//	last, _ := pipeline.CollectBack(ctx, flat) // [c b a]
//
// Iterators are not safe for concurrent use; the context passed to each pull
// is only consulted for cancellation.
package pipeline
