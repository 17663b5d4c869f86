// Package counts normalizes incrementally-arriving operator count files
// (spreadsheets or delimited text) into canonical count records and persists
// each ingestion as a new immutable, timestamp-named snapshot.
//
// Only the first four columns are read — store key, operator, address,
// barcode, in that fixed order. A quantity column, if present, is ignored:
// one row is one physical scan and always contributes exactly one unit.
package counts
