// Package rootset stores the editable poles and zeros of a filter.
//
// A [Store] keeps zeros (positive order) and poles (negative order) in
// insertion order, an overall gain, and two counters: the total pole degree
// and the total finite-zero degree. A root off the real axis stands for a
// conjugate pair and counts twice. After every mutation the store restores
// causality, FiniteZerosOrder <= TotalOrder, by appending a pole at the
// origin that absorbs the slack.
//
// Handles returned by Add are generation-checked: once a root is removed its
// [Ref] goes stale and every operation on it is a no-op or ErrStaleRef.
//
// Contract violations (Add(0), sign-changing SetOrder, stale refs) return
// errors. Building with -tags pzdebug turns them into panics.
package rootset
