package cmd

import (
	"log"

	"stocktake-manager/feature/counts"
	"stocktake-manager/feature/stockdump"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ingestCmd groups the one-shot file ingestion commands.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest files into the active workspace",
}

var ingestStockCmd = &cobra.Command{
	Use:   "stock <file>",
	Short: "Ingest a stock dump, replacing the active stock snapshot",
	Args:  cobra.ExactArgs(1),
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

		report, err := stockdump.NewService(ws, logg).IngestFile(args[0])
		if err != nil {
			logg.Fatal("Stock ingestion failed", zap.Error(err))
		}
		logg.Info("Stock dump ingested",
			zap.Int("lines", report.Lines),
			zap.Int("records", report.Records),
			zap.Int("malformed", report.Malformed),
		)
	},
}

var ingestCountsCmd = &cobra.Command{
	Use:   "counts <file>",
	Short: "Ingest a count file as a new count snapshot",
	Args:  cobra.ExactArgs(1),
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

		name, report, err := counts.NewService(ws, logg).IngestFile(args[0])
		if err != nil {
			logg.Fatal("Count ingestion failed", zap.Error(err))
		}
		logg.Info("Count file ingested",
			zap.String("snapshot", name),
			zap.Int("rows", report.Rows),
			zap.Int("accepted", report.Accepted),
			zap.Int("skipped", report.Skipped),
		)
	},
}

func init() {
	ingestCmd.AddCommand(ingestStockCmd)
	ingestCmd.AddCommand(ingestCountsCmd)
	RootCmd.AddCommand(ingestCmd)
}
