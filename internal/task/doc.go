// Package task runs background work on a bounded in-memory queue served by a
// fixed pool of worker goroutines. The tracker uses it to deliver outcome
// notifications without blocking the request that triggered them.
package task
