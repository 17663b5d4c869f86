package reconcile

import (
	"errors"
	"sync"
	"time"

	"stocktake-manager/core/snapshot"
	"stocktake-manager/core/workspace"

	"go.uber.org/zap"
)

// ErrMissingStockSnapshot is returned when a reconciliation is requested
// before any stock dump has been ingested into the workspace.
var ErrMissingStockSnapshot = errors.New("no stock snapshot has been ingested yet")

// Summary describes one completed reconciliation run.
type Summary struct {
	// StockRecords is the size of the theoretical side.
	StockRecords int `json:"stock_records"`
	// CountSnapshots is how many count batches were aggregated.
	CountSnapshots int `json:"count_snapshots"`
	// LedgerRecords is the number of rows in the produced ledger.
	LedgerRecords int `json:"ledger_records"`
	// Duration is the wall-clock run time.
	Duration time.Duration `json:"duration"`
}

// Service runs reconciliations against the active workspace. At most one run
// is in flight at a time; concurrent callers queue on the mutex.
type Service struct {
	ws     workspace.Provider
	logger *zap.Logger
	mu     sync.Mutex
}

// NewService creates a reconciliation service over a workspace.
func NewService(ws workspace.Provider, logger *zap.Logger) *Service {
	return &Service{ws: ws, logger: logger}
}

// Run loads the stock snapshot and every count snapshot, combines them and
// atomically replaces the ledger. A failed run leaves the prior ledger intact.
func (s *Service) Run() (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()

	stockPath, ok := s.ws.StockSnapshotPath()
	if !ok {
		return Summary{}, ErrMissingStockSnapshot
	}

	stock, err := snapshot.ReadStock(stockPath)
	if err != nil {
		return Summary{}, err
	}

	snaps, err := snapshot.ReadCountSnapshots(s.ws.CountSnapshotDir())
	if err != nil {
		return Summary{}, err
	}

	ledger := Combine(stock, snaps)
	if err := snapshot.WriteLedger(s.ws.LedgerPath(), ledger); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		StockRecords:   len(stock),
		CountSnapshots: len(snaps),
		LedgerRecords:  len(ledger),
		Duration:       time.Since(started),
	}

	s.logger.Info("Reconciliation completed",
		zap.Int("stock_records", summary.StockRecords),
		zap.Int("count_snapshots", summary.CountSnapshots),
		zap.Int("ledger_records", summary.LedgerRecords),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// Ledger returns the current combined ledger.
func (s *Service) Ledger() ([]snapshot.CombinedRecord, error) {
	return snapshot.ReadLedger(s.ws.LedgerPath())
}

// LastLedgerTime reports when the ledger was last produced, and false when no
// reconciliation has completed yet.
func (s *Service) LastLedgerTime() (time.Time, bool) {
	return snapshot.LedgerTime(s.ws.LedgerPath())
}
