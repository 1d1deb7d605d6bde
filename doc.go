// Package hll is a Go implementation of the HyperLogLog cardinality estimator: given a stream of
// input elements, it estimates the number of unique items in the stream using memory that does not
// grow with the number of items. The standard error is about 1.04/sqrt(2^p) for precision p.
//
// An estimator starts with a sparse register list, a run-length opcode stream that is cheap while
// most registers are still zero, and is promoted once to a dense array of 2^p one-byte registers
// when the sparse list stops paying for itself. Estimates use the harmonic-mean estimator with
// linear counting for small cardinalities and the 2^32 large range correction.
//
// Estimators of equal precision can be merged, exactly, into the estimator of the union of their
// inputs, and round-tripped through a compact binary encoding (Encode/Decode), gob or JSON.
//
// The HyperLogLog paper is available at http://algo.inria.fr/flajolet/Publications/FlFuGaMe07.pdf
package hll
