// Package snapshot owns the canonical record types and their columnar
// persistence (Apache Parquet).
//
// Three kinds of files live in a workspace data directory:
//
//   - one stock snapshot (stock.parquet), overwritten on each stock ingestion
//   - N count snapshots (counts_<timestamp>.parquet), write-once, accumulated
//   - the combined ledger (combined.parquet), atomically replaced per run
//
// All writes go through a temp-file-plus-rename so concurrent readers see
// either the old or the new file, never a mix. Count snapshot names embed a
// fixed-width UTC timestamp, so lexicographic order is ingestion order.
package snapshot
