package cmd

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	workspaceStore string
	workspacePath  string
)

// workspaceCmd groups workspace registry management.
var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage stocktake workspaces",
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Register a new workspace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logg, err := initRuntime()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer logg.Sync()

		store, err := openRegistry(cfg)
		if err != nil {
			logg.Fatal("Failed to open registry", zap.Error(err))
		}

		name := args[0]
		path := workspacePath
		if path == "" {
			path = filepath.Join("workspaces", name)
		}

		ws, err := store.Create(name, workspaceStore, path)
		if err != nil {
			logg.Fatal("Failed to create workspace", zap.Error(err))
		}
		logg.Info("Workspace created",
			zap.Int64("id", ws.ID),
			zap.String("name", ws.Name),
			zap.String("path", ws.Path),
			zap.Bool("active", ws.Active),
		)
	},
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered workspaces",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logg, err := initRuntime()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer logg.Sync()

		store, err := openRegistry(cfg)
		if err != nil {
			logg.Fatal("Failed to open registry", zap.Error(err))
		}

		rows, err := store.List()
		if err != nil {
			logg.Fatal("Failed to list workspaces", zap.Error(err))
		}

		for _, ws := range rows {
			marker := " "
			if ws.Active {
				marker = "*"
			}
			fmt.Printf("%s %d\t%s\t%s\t%s\n", marker, ws.ID, ws.Name, ws.Store, ws.Path)
		}
	},
}

var workspaceActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Make a workspace the active one",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logg, err := initRuntime()
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		defer logg.Sync()

		store, err := openRegistry(cfg)
		if err != nil {
			logg.Fatal("Failed to open registry", zap.Error(err))
		}

		var id int64
		if _, err := fmt.Sscan(args[0], &id); err != nil {
			logg.Fatal("Invalid workspace id", zap.String("arg", args[0]))
		}

		if err := store.Activate(id); err != nil {
			logg.Fatal("Failed to activate workspace", zap.Error(err))
		}
		logg.Info("Workspace activated", zap.Int64("id", id))
	},
}

func init() {
	workspaceCreateCmd.Flags().StringVar(&workspaceStore, "store", "", "store identifier the workspace belongs to")
	workspaceCreateCmd.Flags().StringVar(&workspacePath, "path", "", "workspace directory (default workspaces/<name>)")
	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceActivateCmd)
	RootCmd.AddCommand(workspaceCmd)
}
