// Package errors provides the coded error type used by flatkit's outer
// layers: document loading, configuration and the CLI.
//
// The flatten and pipeline packages never wrap errors. Failures raised while
// converting an outer item surface from a pipeline exactly as the
// conversion returned them; this package only gives them a code and an exit
// status at the edge.
package errors
