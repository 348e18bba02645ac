// Package pzfilter is a live pole/zero filter: an editable root set on the
// control side, a crossfading cascade runtime on the audio side.
//
// Every edit through [Filter] re-synthesizes the cascade once and hands it
// to the audio side. [Filter.Edit] batches several edits into one
// synthesis. The audio methods [Filter.ProcessBlock] and
// [Filter.ProcessInterleaved] never lock, allocate or log.
//
// An edit made while the previous swap is still crossfading is held back.
// Once prepared, a filter runs a background loop that hands the held
// cascade over as soon as the swap completes, so the last edit always
// reaches the audio without further calls. [Filter.Close] stops the loop.
// [WithFlushInterval] tunes or disables it; with the loop disabled the
// caller must drive [Filter.Flush] or [Filter.Run].
package pzfilter
