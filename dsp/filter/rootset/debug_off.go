//go:build !pzdebug

package rootset

const debugContracts = false
