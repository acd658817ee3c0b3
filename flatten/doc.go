// Package flatten provides a lazy adapter that flattens a sequence of
// sequences into one flat sequence and can be pulled from both ends.
//
// The adapter owns its outer source and at most two inner producers: one
// feeding front pulls and one feeding back pulls. Outer items are converted
// into inner producers only when a pull reaches them, so constructing an
// adapter does no work.
//
// # Capabilities
//
// Forward-only traversal needs an Iterator source whose items convert into
// Iterators; New returns a Flattener. Traversal from both ends needs a
// DoubleEndedIterator source whose items convert into DoubleEndedIterators;
// NewDouble returns a DoubleFlattener, which adds NextBack. The split is
// checked at compile time.
//
// Next and NextBack may be interleaved freely on one adapter. Front and back
// pulls meet in the middle without skipping or repeating an element:
//
//	it := flatten.Slices([][]string{{"a", "b"}, {"c", "d"}})
//	it.Next()     // "a", true
//	it.NextBack() // "d", true
//	it.Next()     // "b", true
//	it.NextBack() // "c", true
//	it.Next()     // "", false
//
// # Concurrency
//
// Adapters are not safe for concurrent use. Callers sharing one across
// goroutines must synchronise access themselves.
package flatten
