package cmd

import (
	"context"
	"log"

	"stocktake-manager/core/storage"
	"stocktake-manager/feature/archive"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// archiveCmd uploads the active workspace's data to object storage.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive the active workspace to object storage",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logg, err := initRuntime()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer logg.Sync()

		row, ws, err := openActiveWorkspace(cfg)
		if err != nil {
			logg.Fatal("Failed to open active workspace", zap.Error(err))
		}

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		svc := archive.NewService(client, cfg.Storage.Bucket, ws, row.Name, logg)
		uploaded, err := svc.Run(context.Background())
		if err != nil {
			logg.Fatal("Archive run failed", zap.Error(err))
		}
		logg.Info("Archive completed", zap.Int("objects", uploaded))
	},
}

func init() {
	RootCmd.AddCommand(archiveCmd)
}
