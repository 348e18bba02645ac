//go:build pzdebug

package rootset

const debugContracts = true
