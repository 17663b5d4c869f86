package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"stocktake-manager/core/loader"
	"stocktake-manager/core/logger"
	"stocktake-manager/core/middleware/auth"
	"stocktake-manager/core/middleware/rayid"
	"stocktake-manager/core/storage"

	"stocktake-manager/feature/archive"
	"stocktake-manager/feature/counts"
	"stocktake-manager/feature/reconcile"
	"stocktake-manager/feature/stockdump"
	"stocktake-manager/feature/watcher"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the stocktake manager server",
	Long:  `Starts the HTTP control API, the snapshot watcher and all enabled features against the active workspace.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration + Logger
		cfg, logg, err := initRuntime()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer logg.Sync()

		// 2. Resolve the active workspace
		row, ws, err := openActiveWorkspace(cfg)
		if err != nil {
			logg.Fatal("Failed to open active workspace", zap.Error(err))
		}
		logg = logg.With(zap.String("workspace", row.Name))
		logg.Info("Workspace opened", zap.String("path", ws.Root))

		// 3. Domain services
		stockSvc := stockdump.NewService(ws, logg)
		countSvc := counts.NewService(ws, logg)
		reconSvc := reconcile.NewService(ws, logg)

		// 4. Snapshot watcher (automatic reconciliation)
		var w *watcher.Watcher
		if cfg.Watcher.Enabled {
			w = watcher.New(&cfg.Watcher, func() error {
				_, err := reconSvc.Run()
				return err
			}, logg)
			if err := w.Start(ws.CountSnapshotDir()); err != nil {
				logg.Fatal("Failed to start snapshot watcher", zap.Error(err))
			}
		}

		// 5. Archive storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}
		archiveSvc := archive.NewService(store, cfg.Storage.Bucket, ws, row.Name, logg)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 7. Feature Loader
		mgr := loader.NewManager()
		mgr.Register(stockdump.NewFeature(stockSvc, logg))
		mgr.Register(counts.NewFeature(countSvc, logg))
		mgr.Register(reconcile.NewFeature(reconSvc, logg))
		mgr.Register(watcher.NewFeature(w, cfg.Watcher.Enabled))
		mgr.Register(archive.NewFeature(archiveSvc, cfg.Storage.Endpoint != "", logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
		if w != nil {
			w.Stop()
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
