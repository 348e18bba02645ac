// Package fir runs short feedforward stages.
//
// The cascade builder emits a three-tap stage for every zero that finds no
// pole partner. [Filter] evaluates such stages, and any other tap count,
// against a shifting input history.
package fir
