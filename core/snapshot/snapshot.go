package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
)

const (
	// StockFileName is the single active stock snapshot inside a workspace
	// data directory. A new stock ingestion atomically replaces it.
	StockFileName = "stock.parquet"

	// LedgerFileName is the combined ledger inside a workspace data
	// directory, atomically replaced on every successful reconciliation.
	LedgerFileName = "combined.parquet"

	countPrefix = "counts_"
	countSuffix = ".parquet"

	// countStampLayout is fixed-width so lexicographic file order matches
	// ingestion order.
	countStampLayout = "20060102_150405.000000000"
)

// writeAtomic writes rows to a temporary file in the target directory and
// renames it into place, so a concurrent reader never observes a partial file.
func writeAtomic[T any](path string, rows []T) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := parquet.WriteFile(tmpPath, rows); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write snapshot %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to publish snapshot %s: %w", filepath.Base(path), err)
	}
	return nil
}

// WriteStock persists the parsed stock dump as the workspace's single active
// stock snapshot, replacing any previous one.
func WriteStock(path string, records []StockRecord) error {
	return writeAtomic(path, records)
}

// ReadStock loads the active stock snapshot.
func ReadStock(path string) ([]StockRecord, error) {
	records, err := parquet.ReadFile[StockRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stock snapshot: %w", err)
	}
	return records, nil
}

// WriteCountSnapshot persists one ingested count batch as a new immutable,
// timestamp-named file in dir and returns the snapshot name. Names are
// monotonically increasing; an existing name is never overwritten.
func WriteCountSnapshot(dir string, records []CountRecord) (string, error) {
	for {
		name := countPrefix + time.Now().UTC().Format(countStampLayout) + countSuffix
		path := filepath.Join(dir, name)

		if _, err := os.Stat(path); err == nil {
			// Same-nanosecond collision: retry with a fresh timestamp.
			continue
		}
		if err := writeAtomic(path, records); err != nil {
			return "", err
		}
		return name, nil
	}
}

// ListCountSnapshots returns the snapshot file names in dir in ingestion
// order (ascending timestamp).
func ListCountSnapshots(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list count snapshots: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, countPrefix) && strings.HasSuffix(name, countSuffix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ReadCountSnapshots loads every count snapshot in dir, in ingestion order.
func ReadCountSnapshots(dir string) ([]CountSnapshot, error) {
	names, err := ListCountSnapshots(dir)
	if err != nil {
		return nil, err
	}

	snapshots := make([]CountSnapshot, 0, len(names))
	for _, name := range names {
		records, err := parquet.ReadFile[CountRecord](filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read count snapshot %s: %w", name, err)
		}
		snapshots = append(snapshots, CountSnapshot{Name: name, Records: records})
	}
	return snapshots, nil
}

// WriteLedger atomically replaces the combined ledger. On failure the prior
// ledger is left intact.
func WriteLedger(path string, records []CombinedRecord) error {
	return writeAtomic(path, records)
}

// ReadLedger loads the combined ledger.
func ReadLedger(path string) ([]CombinedRecord, error) {
	records, err := parquet.ReadFile[CombinedRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return records, nil
}

// LedgerTime returns the modification time of the ledger file, or false when
// no ledger has been produced yet.
func LedgerTime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
