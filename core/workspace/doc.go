// Package workspace maps a registered workspace onto its on-disk layout:
//
//	<root>/
//	  data/
//	    stock.parquet          single active stock snapshot
//	    counts/                immutable count snapshots, one per ingestion
//	    combined.parquet       reconciliation ledger
//	  imports/                 raw uploaded count files, kept verbatim
//
// The Provider interface is the only surface the reconciliation engine and
// the watcher see, so workspace state is an explicit handle passed in rather
// than ambient process state.
package workspace
