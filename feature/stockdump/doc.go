// Package stockdump parses the retailer's fixed-layout stock dump into
// canonical stock records and persists them as the workspace's single active
// stock snapshot.
//
// Parsing is strict per line but tolerant per file: lines that do not match
// the grammar are counted and skipped, and only a dump that produces zero
// records from non-empty input fails the ingestion (ErrEmptyResult).
package stockdump
