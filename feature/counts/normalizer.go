package counts

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"stocktake-manager/core/snapshot"

	"github.com/xuri/excelize/v2"
)

// ErrSchema is returned when a count file does not carry the four required
// columns. The ingestion is aborted; previously persisted snapshots are
// untouched.
var ErrSchema = errors.New("count file must have at least 4 columns (store key, operator, address, barcode)")

// Report summarizes one normalization pass over a count file.
type Report struct {
	// Rows is the number of data rows seen (header excluded).
	Rows int `json:"rows"`
	// Accepted is the number of count records produced.
	Accepted int `json:"accepted"`
	// Skipped is the number of rows dropped for an empty barcode.
	Skipped int `json:"skipped"`
	// Columns are the canonicalized header names of the four mapped columns.
	Columns []string `json:"columns"`
}

// Normalize validates and normalizes a tabular count input. Only the first
// four columns are read and map positionally to store key, operator, address
// and barcode; any further columns (including a quantity column) are ignored —
// each surviving row contributes exactly one counted unit.
func Normalize(rows [][]string) ([]snapshot.CountRecord, Report, error) {
	var report Report

	if len(rows) == 0 || len(rows[0]) < 4 {
		return nil, report, ErrSchema
	}

	for _, h := range rows[0][:4] {
		report.Columns = append(report.Columns, canonicalHeader(h))
	}

	var records []snapshot.CountRecord
	for _, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		report.Rows++

		var barcode string
		if len(row) > 3 {
			barcode = canonicalBarcode(row[3])
		}
		if barcode == "" {
			report.Skipped++
			continue
		}

		records = append(records, snapshot.CountRecord{
			StoreKey:   strings.TrimSpace(cell(row, 0)),
			Operator:   strings.TrimSpace(cell(row, 1)),
			Address:    strings.TrimSpace(cell(row, 2)),
			Barcode:    barcode,
			CountedQty: 1,
		})
		report.Accepted++
	}

	return records, report, nil
}

// canonicalBarcode keeps digits only and strips leading zeros, matching the
// canonical form of GTINs on the stock side. Spreadsheet tools often render
// barcodes as floats, so a trailing ".0" is removed first.
func canonicalBarcode(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".0")

	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	stripped := strings.TrimLeft(b.String(), "0")
	if stripped == "" && b.Len() > 0 {
		return "0"
	}
	return stripped
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ReadTable extracts the raw rows from a count file. Spreadsheets (.xlsx) are
// read from their first sheet; anything else is treated as delimited text
// with the separator sniffed from the first line (';' beats ',', matching the
// retailer's exports).
func ReadTable(name string, data []byte) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return readSheet(data)
	}
	return readDelimited(data)
}

func readSheet(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readDelimited(data []byte) ([][]string, error) {
	firstLine, _, err := bufio.NewReader(bytes.NewReader(data)).ReadLine()
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to sniff delimiter: %w", err)
	}

	sep := ','
	if bytes.ContainsRune(firstLine, ';') {
		sep = ';'
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited count file: %w", err)
	}
	return rows, nil
}
