//go:build sgemmdebug

package sgemm

// debugChecks enables precondition checks in Accumulate and Naive.
const debugChecks = true
