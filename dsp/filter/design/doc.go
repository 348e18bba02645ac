// Package design provides classic biquad designers used as starting points
// for pole/zero editing.
//
// The RBJ designers (Lowpass, Highpass, Bandpass, Notch, Allpass, Peak,
// LowShelf, HighShelf) and the Butterworth cascades return
// biquad.Coefficients. [Seed] turns a [Preset] into an editable
// rootset.Store, so a familiar response can be loaded and then reshaped
// root by root.
package design
