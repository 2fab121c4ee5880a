// Package workpool runs CPU-bound jobs on a fixed set of goroutines and hands
// results back through futures.
//
// Submission blocks only while the queue is full and respects the caller's
// context up to that point. A job that has been queued always runs to completion,
// including during Close, which drains the queue before returning.
package workpool
