package cmd

import (
	"fmt"

	"stocktake-manager/core/config"
	"stocktake-manager/core/logger"
	"stocktake-manager/core/registry"
	"stocktake-manager/core/workspace"

	"go.uber.org/zap"
)

// initRuntime loads configuration and builds the logger, the shared entry
// point of every subcommand.
func initRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)
	return cfg, logg, nil
}

// openRegistry opens the workspace registry database.
func openRegistry(cfg *config.Config) (*registry.Store, error) {
	db, err := registry.Open(cfg.Registry)
	if err != nil {
		return nil, err
	}
	return registry.NewStore(db), nil
}

// openActiveWorkspace resolves the active workspace row into a handle on its
// directory tree.
func openActiveWorkspace(cfg *config.Config) (*registry.Workspace, *workspace.Workspace, error) {
	store, err := openRegistry(cfg)
	if err != nil {
		return nil, nil, err
	}

	row, err := store.Active()
	if err != nil {
		return nil, nil, err
	}

	ws := workspace.Open(row)
	if err := ws.Ensure(); err != nil {
		return nil, nil, err
	}
	return row, ws, nil
}
