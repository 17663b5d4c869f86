package snapshot

// StockRecord is one line of theoretical inventory from the retailer's stock
// dump. Identity key is the GTIN; records are immutable once parsed.
type StockRecord struct {
	// GTIN is the product barcode with leading zeros stripped.
	GTIN string `parquet:"gtin" json:"gtin"`

	// InternalCode is the retailer's internal product code, zeros stripped.
	InternalCode string `parquet:"internal_code" json:"internal_code"`

	// Description is the free-text product description, kept verbatim.
	Description string `parquet:"description" json:"description"`

	// Price is the sale price in currency units (dump value divided by 100).
	Price float64 `parquet:"price" json:"price"`

	// Quantity is the theoretical stock quantity (dump value divided by 100).
	Quantity float64 `parquet:"quantity" json:"quantity"`

	// Cost is the unit cost in currency units (dump value divided by 100).
	Cost float64 `parquet:"cost" json:"cost"`

	// Section is the 5-digit section code with leading zeros stripped.
	Section string `parquet:"section" json:"section"`
}

// CountRecord is one physical scan from an operator's count file.
// Identity is positional; Barcode is the join key, not unique per record.
type CountRecord struct {
	// StoreKey identifies the store the count belongs to.
	StoreKey string `parquet:"store_key" json:"store_key"`

	// Operator is the person who performed the scan.
	Operator string `parquet:"operator" json:"operator"`

	// Address is the shelf/location address where the scan happened.
	Address string `parquet:"address" json:"address"`

	// Barcode is the scanned product barcode, digits only, zeros stripped.
	Barcode string `parquet:"barcode" json:"barcode"`

	// CountedQty is always 1: one row is one physical scan.
	CountedQty int64 `parquet:"counted_qty" json:"counted_qty"`
}

// CountSnapshot is one immutable batch of count records from one ingested
// file. Snapshots are never merged or mutated; the aggregate is recomputed
// from the union of all snapshots on every reconciliation run.
type CountSnapshot struct {
	// Name is the timestamp-derived snapshot file name, which fixes the
	// ingestion order used for first-seen aggregation.
	Name string `json:"name"`

	// Records are the count rows in original file order.
	Records []CountRecord `json:"records"`
}

// CombinedRecord is one row of the reconciliation ledger: the outer join of
// theoretical stock and aggregated counts for a single barcode.
type CombinedRecord struct {
	// GTIN from the stock side; empty when the barcode was never in stock.
	GTIN string `parquet:"gtin" json:"gtin"`

	// Description from the stock side; empty when absent from stock.
	Description string `parquet:"description" json:"description"`

	// TheoreticalStock is the expected quantity; 0 when absent from stock.
	TheoreticalStock int64 `parquet:"theoretical_stock" json:"theoretical_stock"`

	// Barcode is the join key (GTIN on the stock side).
	Barcode string `parquet:"barcode" json:"barcode"`

	// CountedQty is the sum of counted units across all snapshots.
	CountedQty int64 `parquet:"counted_qty" json:"counted_qty"`

	// Operators who counted this barcode, in first-seen order.
	Operators []string `parquet:"operators,list" json:"operators"`

	// Addresses where this barcode was counted, in first-seen order.
	Addresses []string `parquet:"addresses,list" json:"addresses"`

	// Difference is CountedQty minus TheoreticalStock.
	Difference int64 `parquet:"difference" json:"difference"`

	// DifferencePercent is Difference/TheoreticalStock*100. It is nil
	// (undefined) when TheoreticalStock is 0, never a division error.
	DifferencePercent *float64 `parquet:"difference_percent,optional" json:"difference_percent"`
}
