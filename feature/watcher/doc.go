// Package watcher triggers automatic reconciliation when new count snapshots
// land in the workspace.
//
// Filesystem events are collapsed into a single-slot dirty signal and debounced
// by a quiet period, so a burst of uploads produces one run. A single worker
// goroutine owns the idle/scheduled/running lifecycle; events arriving while a
// run is in flight schedule a follow-up run, and a failed run leaves the
// watcher ready for the next event.
package watcher
