// Package hotswap swaps freshly synthesized cascades into a running audio
// stream without clicks, locks or allocation on the audio side.
//
// A [Scheduler] owns two slots of per-channel chains. The control side loads
// a new cascade into the inactive slot and raises a ready flag. The audio
// side notices the flag at the start of its next block, runs the old and the
// new chain over the same input, crossfades linearly from old to new across
// that block, flips the active slot and clears the flag.
//
// While a loaded cascade waits for the audio side, newer cascades are kept
// as a single deferred result (last writer wins) and go out on the next
// [Scheduler.Flush] or [Scheduler.Publish].
package hotswap
