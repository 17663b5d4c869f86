package reconcile

import (
	"testing"

	"stocktake-manager/core/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func count(operator, address, barcode string) snapshot.CountRecord {
	return snapshot.CountRecord{
		StoreKey:   "42",
		Operator:   operator,
		Address:    address,
		Barcode:    barcode,
		CountedQty: 1,
	}
}

func TestCombine_AggregatesAcrossSnapshots(t *testing.T) {
	stock := []snapshot.StockRecord{
		{GTIN: "7891234567890", Description: "ARROZ TIPO 1 5KG", Quantity: 10},
	}
	snaps := []snapshot.CountSnapshot{
		{Name: "counts_a.parquet", Records: []snapshot.CountRecord{
			count("Ana", "A-01", "7891234567890"),
			count("Ana", "A-01", "7891234567890"),
			count("Ana", "A-02", "7891234567890"),
		}},
		{Name: "counts_b.parquet", Records: []snapshot.CountRecord{
			count("Beto", "B-01", "7891234567890"),
			count("Beto", "B-01", "7891234567890"),
			count("Ana", "A-01", "7891234567890"),
		}},
	}

	ledger := Combine(stock, snaps)
	require.Len(t, ledger, 1)

	rec := ledger[0]
	assert.Equal(t, "7891234567890", rec.Barcode)
	assert.Equal(t, "7891234567890", rec.GTIN)
	assert.Equal(t, "ARROZ TIPO 1 5KG", rec.Description)
	assert.Equal(t, int64(10), rec.TheoreticalStock)
	assert.Equal(t, int64(6), rec.CountedQty)
	assert.Equal(t, int64(-4), rec.Difference)
	require.NotNil(t, rec.DifferencePercent)
	assert.InDelta(t, -40.0, *rec.DifferencePercent, 1e-9)

	// First-seen order across snapshots, then rows.
	assert.Equal(t, []string{"Ana", "Beto"}, rec.Operators)
	assert.Equal(t, []string{"A-01", "A-02", "B-01"}, rec.Addresses)
}

func TestCombine_CountOnlyBarcode(t *testing.T) {
	snaps := []snapshot.CountSnapshot{
		{Records: []snapshot.CountRecord{count("Ana", "A-01", "999")}},
	}

	ledger := Combine(nil, snaps)
	require.Len(t, ledger, 1)

	rec := ledger[0]
	assert.Empty(t, rec.GTIN)
	assert.Empty(t, rec.Description)
	assert.Equal(t, int64(0), rec.TheoreticalStock)
	assert.Equal(t, int64(1), rec.CountedQty)
	assert.Equal(t, int64(1), rec.Difference)
	// Percentage is undefined against zero theoretical stock.
	assert.Nil(t, rec.DifferencePercent)
}

func TestCombine_StockOnlyBarcode(t *testing.T) {
	stock := []snapshot.StockRecord{
		{GTIN: "555", Description: "FEIJAO PRETO 1KG", Quantity: 8},
	}

	ledger := Combine(stock, nil)
	require.Len(t, ledger, 1)

	rec := ledger[0]
	assert.Equal(t, int64(0), rec.CountedQty)
	assert.Empty(t, rec.Operators)
	assert.Empty(t, rec.Addresses)
	assert.Equal(t, int64(-8), rec.Difference)
	require.NotNil(t, rec.DifferencePercent)
	assert.InDelta(t, -100.0, *rec.DifferencePercent, 1e-9)
}

func TestCombine_SortedByBarcode(t *testing.T) {
	stock := []snapshot.StockRecord{
		{GTIN: "300", Quantity: 1},
		{GTIN: "100", Quantity: 1},
	}
	snaps := []snapshot.CountSnapshot{
		{Records: []snapshot.CountRecord{count("Ana", "A-01", "200")}},
	}

	ledger := Combine(stock, snaps)
	require.Len(t, ledger, 3)
	assert.Equal(t, "100", ledger[0].Barcode)
	assert.Equal(t, "200", ledger[1].Barcode)
	assert.Equal(t, "300", ledger[2].Barcode)
}

func TestCombine_Deterministic(t *testing.T) {
	stock := []snapshot.StockRecord{
		{GTIN: "111", Quantity: 3},
		{GTIN: "222", Quantity: 7},
	}
	snaps := []snapshot.CountSnapshot{
		{Records: []snapshot.CountRecord{
			count("Ana", "A-01", "111"),
			count("Beto", "B-01", "333"),
		}},
		{Records: []snapshot.CountRecord{
			count("Caio", "C-01", "222"),
		}},
	}

	first := Combine(stock, snaps)
	second := Combine(stock, snaps)
	assert.Equal(t, first, second)
}

func TestCombine_TheoreticalStockRounded(t *testing.T) {
	stock := []snapshot.StockRecord{
		{GTIN: "111", Quantity: 2.5},
		{GTIN: "222", Quantity: 2.4},
	}

	ledger := Combine(stock, nil)
	require.Len(t, ledger, 2)
	assert.Equal(t, int64(3), ledger[0].TheoreticalStock)
	assert.Equal(t, int64(2), ledger[1].TheoreticalStock)
}

func TestCombine_EmptyInputs(t *testing.T) {
	ledger := Combine(nil, nil)
	assert.Empty(t, ledger)
}
