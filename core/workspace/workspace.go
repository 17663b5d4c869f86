package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"stocktake-manager/core/registry"
	"stocktake-manager/core/snapshot"
)

// Provider is the path surface the reconciliation core consumes. The stock
// snapshot may be absent until the first stock ingestion.
type Provider interface {
	// StockSnapshotPath returns the active stock snapshot path, and false
	// when no stock dump has been ingested yet.
	StockSnapshotPath() (string, bool)
	// CountSnapshotDir returns the directory accumulating count snapshots.
	CountSnapshotDir() string
	// LedgerPath returns the combined ledger location.
	LedgerPath() string
}

// Workspace is the on-disk layout of one stocktake.
type Workspace struct {
	// Root is the workspace directory registered in the registry.
	Root string
}

// Open wraps a registry row into a workspace handle.
func Open(ws *registry.Workspace) *Workspace {
	return &Workspace{Root: ws.Path}
}

// DataDir is where snapshots and the ledger live.
func (w *Workspace) DataDir() string {
	return filepath.Join(w.Root, "data")
}

// ImportsDir keeps a copy of every raw count file as it was uploaded.
func (w *Workspace) ImportsDir() string {
	return filepath.Join(w.Root, "imports")
}

// StockFile is the stock snapshot path regardless of existence (writer side).
func (w *Workspace) StockFile() string {
	return filepath.Join(w.DataDir(), snapshot.StockFileName)
}

// StockSnapshotPath implements Provider.
func (w *Workspace) StockSnapshotPath() (string, bool) {
	path := w.StockFile()
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// CountSnapshotDir implements Provider.
func (w *Workspace) CountSnapshotDir() string {
	return filepath.Join(w.DataDir(), "counts")
}

// LedgerPath implements Provider.
func (w *Workspace) LedgerPath() string {
	return filepath.Join(w.DataDir(), snapshot.LedgerFileName)
}

// Ensure creates the workspace directory tree.
func (w *Workspace) Ensure() error {
	for _, dir := range []string{w.DataDir(), w.CountSnapshotDir(), w.ImportsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create workspace directory %s: %w", dir, err)
		}
	}
	return nil
}
