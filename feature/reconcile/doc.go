// Package reconcile joins the active stock snapshot against the accumulated
// count snapshots and produces the combined ledger.
//
// The join is a full outer join on barcode: barcodes counted but unknown to
// the stock dump appear with zero theoretical stock, and stocked items nobody
// counted appear with zero counted quantity. The ledger is replaced atomically
// on every successful run, so a failed run never corrupts the previous one.
package reconcile
