package cmd

import (
	"log"

	"stocktake-manager/feature/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reconcileCmd runs one reconciliation against the active workspace.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile count snapshots against the stock snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logg, err := initRuntime()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer logg.Sync()

		_, ws, err := openActiveWorkspace(cfg)
		if err != nil {
			logg.Fatal("Failed to open active workspace", zap.Error(err))
		}

		summary, err := reconcile.NewService(ws, logg).Run()
		if err != nil {
			logg.Fatal("Reconciliation failed", zap.Error(err))
		}
		logg.Info("Ledger written",
			zap.Int("stock_records", summary.StockRecords),
			zap.Int("count_snapshots", summary.CountSnapshots),
			zap.Int("ledger_records", summary.LedgerRecords),
			zap.Duration("duration", summary.Duration),
		)
	},
}

func init() {
	RootCmd.AddCommand(reconcileCmd)
}
