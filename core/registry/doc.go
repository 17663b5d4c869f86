// Package registry persists workspace metadata in an embedded SQLite database.
//
// A workspace is one named stocktake: a directory holding the stock snapshot,
// the accumulated count snapshots and the combined ledger. The registry only
// does the bookkeeping (create, list, activate); the on-disk layout itself is
// owned by core/workspace.
//
// Exactly one workspace is active at a time. The ingestion services, the
// reconciliation engine and the folder watcher all resolve their paths through
// the active workspace.
package registry
