//go:build !sgemmdebug

package sgemm

const debugChecks = false
