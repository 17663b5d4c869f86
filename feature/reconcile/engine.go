package reconcile

import (
	"math"
	"sort"

	"stocktake-manager/core/snapshot"
)

// aggregate accumulates the count side of the join for one barcode.
type aggregate struct {
	countedQty int64
	operators  []string
	opSeen     map[string]struct{}
	addresses  []string
	addrSeen   map[string]struct{}
}

// Combine aggregates all count snapshots by barcode, joins them against the
// stock snapshot and computes the signed and percentage differences. It is a
// pure function: the same inputs always yield the same ledger, sorted by
// ascending barcode.
func Combine(stock []snapshot.StockRecord, snaps []snapshot.CountSnapshot) []snapshot.CombinedRecord {
	// Scan every count record in snapshot-ingestion order, then row order,
	// which fixes the first-seen order of operators and addresses.
	counts := make(map[string]*aggregate)
	for _, snap := range snaps {
		for _, rec := range snap.Records {
			agg, ok := counts[rec.Barcode]
			if !ok {
				agg = &aggregate{
					opSeen:   make(map[string]struct{}),
					addrSeen: make(map[string]struct{}),
				}
				counts[rec.Barcode] = agg
			}
			agg.countedQty += rec.CountedQty
			if rec.Operator != "" {
				if _, seen := agg.opSeen[rec.Operator]; !seen {
					agg.opSeen[rec.Operator] = struct{}{}
					agg.operators = append(agg.operators, rec.Operator)
				}
			}
			if rec.Address != "" {
				if _, seen := agg.addrSeen[rec.Address]; !seen {
					agg.addrSeen[rec.Address] = struct{}{}
					agg.addresses = append(agg.addresses, rec.Address)
				}
			}
		}
	}

	// Only one stock snapshot is ever active; a newer one fully replaces
	// the prior one, so this map is the whole theoretical side.
	stockByGTIN := make(map[string]snapshot.StockRecord, len(stock))
	for _, rec := range stock {
		stockByGTIN[rec.GTIN] = rec
	}

	// Outer join: every barcode from either side produces one row.
	union := make(map[string]struct{}, len(counts)+len(stockByGTIN))
	for barcode := range counts {
		union[barcode] = struct{}{}
	}
	for gtin := range stockByGTIN {
		union[gtin] = struct{}{}
	}

	results := make([]snapshot.CombinedRecord, 0, len(union))
	for barcode := range union {
		results = append(results, buildRecord(barcode, stockByGTIN, counts))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Barcode < results[j].Barcode
	})
	return results
}

// buildRecord creates the combined row for a single barcode, applying the
// default-value policy for whichever side is missing.
func buildRecord(barcode string, stockByGTIN map[string]snapshot.StockRecord, counts map[string]*aggregate) snapshot.CombinedRecord {
	rec := snapshot.CombinedRecord{
		Barcode:   barcode,
		Operators: []string{},
		Addresses: []string{},
	}

	if sr, ok := stockByGTIN[barcode]; ok {
		rec.GTIN = sr.GTIN
		rec.Description = sr.Description
		rec.TheoreticalStock = int64(math.Round(sr.Quantity))
	}

	if agg, ok := counts[barcode]; ok {
		rec.CountedQty = agg.countedQty
		rec.Operators = append(rec.Operators, agg.operators...)
		rec.Addresses = append(rec.Addresses, agg.addresses...)
	}

	rec.Difference = rec.CountedQty - rec.TheoreticalStock

	// Undefined (not zero, not an error) when there is no theoretical
	// stock to compare against.
	if rec.TheoreticalStock != 0 {
		pct := float64(rec.Difference) / float64(rec.TheoreticalStock) * 100
		rec.DifferencePercent = &pct
	}

	return rec
}
