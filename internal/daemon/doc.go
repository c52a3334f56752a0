// Package daemon runs the background refresh loop and enforces
// single-instance execution via a lock file.
//
// The loop wakes on a fixed check interval, consults the schedule gate, and
// runs a full refresh cycle when one is due. The completion timestamp is
// recorded only after a cycle finishes its pass, so an interrupted cycle is
// retried on the next wake.
package daemon
