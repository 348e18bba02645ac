// Package biquad provides the second-order IIR runtime used by cascades.
//
// A [Section] runs Direct Form II Transposed over [Coefficients] with a0
// normalized to 1. First-order stages are expressed as sections with B2 and
// A2 set to zero. Block processing is dispatched to the fastest kernel the
// CPU supports.
package biquad
