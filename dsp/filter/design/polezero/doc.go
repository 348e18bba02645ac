// Package polezero turns a root set into a cascade of low-order stages.
//
// Synthesis runs in two steps. [Designer.Pair] orders the poles by a
// priority key built from their Q, radius and angle, and gives each pole a
// partner: the nearest-angle zero of the same kind, one sample of delay, a
// second real pole, or nothing. Zeros left over are absorbed by poles at the
// origin while those last, and become three-tap FIR stages otherwise.
// [Designer.Build] writes the plan out as a [cascade.Cascade] whose product
// equals gain * prod(z - zi) / prod(z - pj) exactly.
//
// The pairing is greedy and deterministic. It aims for well-conditioned
// stages, not for an optimal assignment.
package polezero
