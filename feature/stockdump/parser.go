package stockdump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"stocktake-manager/core/snapshot"
)

// ErrEmptyResult is returned when a non-empty dump yields zero usable records,
// distinguishing a garbage file from a trivially empty one.
var ErrEmptyResult = errors.New("no usable records in stock dump")

// Each line carries: 13-digit GTIN, internal code, free-text description,
// three 8-digit numeric fields (price, quantity, cost, scaled by 1/100) and a
// 5-digit section code. The description has two termination rules seen in the
// dumps: the zero padding of the price field, or a gap of two or more spaces.
// The zero-run rule is tried first.
var (
	lineZeroRun = regexp.MustCompile(`^(\d{13})\s+(\S+)\s+(.+?)\s+(0{3}\d{5})\s+(\d{8})\s+(\d{8})\s+(\d{5})\s*$`)
	lineSpaced  = regexp.MustCompile(`^(\d{13})\s+(\S+)\s+(.+?)\s{2,}(\d{8})\s+(\d{8})\s+(\d{8})\s+(\d{5})\s*$`)
	lineSingle  = regexp.MustCompile(`^(\d{13})\s+(\S+)\s+(.+?)\s+(\d{8})\s+(\d{8})\s+(\d{8})\s+(\d{5})\s*$`)
)

// Report summarizes one parse pass over a stock dump.
type Report struct {
	// Lines is the total number of lines seen, blank lines included.
	Lines int `json:"lines"`
	// Records is the number of stock records produced.
	Records int `json:"records"`
	// Malformed is the number of lines that did not match the grammar.
	Malformed int `json:"malformed"`
}

// Parse reads a fixed-layout stock dump and produces canonical stock records.
// Lines that do not match the grammar are skipped and counted; no single line
// failure aborts the file. Parse is a pure transform: persisting the result
// is the caller's explicit step.
func Parse(r io.Reader) ([]snapshot.StockRecord, Report, error) {
	var (
		records []snapshot.StockRecord
		report  Report
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		report.Lines++

		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec, ok := parseLine(line)
		if !ok {
			report.Malformed++
			continue
		}

		records = append(records, rec)
		report.Records++
	}
	if err := scanner.Err(); err != nil {
		return nil, report, fmt.Errorf("error reading stock dump: %w", err)
	}

	if report.Lines > 0 && report.Records == 0 {
		return nil, report, ErrEmptyResult
	}
	return records, report, nil
}

func parseLine(line string) (snapshot.StockRecord, bool) {
	var m []string
	for _, re := range []*regexp.Regexp{lineZeroRun, lineSpaced, lineSingle} {
		if m = re.FindStringSubmatch(line); m != nil {
			break
		}
	}
	if m == nil {
		return snapshot.StockRecord{}, false
	}

	return snapshot.StockRecord{
		GTIN:         stripLeadingZeros(m[1]),
		InternalCode: stripLeadingZeros(m[2]),
		Description:  strings.TrimSpace(m[3]),
		Price:        scaledValue(m[4]),
		Quantity:     scaledValue(m[5]),
		Cost:         scaledValue(m[6]),
		Section:      stripLeadingZeros(m[7]),
	}, true
}

// scaledValue converts an 8-digit dump field into its 2-decimal value.
func scaledValue(s string) float64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return float64(n) / 100
}

func stripLeadingZeros(s string) string {
	stripped := strings.TrimLeft(s, "0")
	if stripped == "" {
		return "0"
	}
	return stripped
}
