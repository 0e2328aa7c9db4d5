// Package sched runs the fixed-interval poll cycle and owns the daemon's
// runtime state: the last known reading, the time of the last successful
// fetch, and the alert machine.
//
// One cycle is fetch, parse, classify, alert, render. Cycles run
// synchronously on a single goroutine, so they never overlap and the next
// tick is the only retry. Every cycle produces a full display update even
// when the fetch fails; sinks only draw what they are handed.
package sched
