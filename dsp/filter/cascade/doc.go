// Package cascade describes a synthesized pole/zero filter and runs it.
//
// A [Cascade] is a pure description: second-order sections written as
// polynomials in descending powers of z, three-tap FIR stages, an integer
// sample delay and an overall gain. A [Chain] is the per-channel runtime that
// evaluates a Cascade as delay, then sections, then FIR stages, then gain.
package cascade
